package infer

import (
	"strings"
)

// Prober runs the sample-based probes that steer datetime conversion.
type Prober struct {
	Sampler    *Sampler
	MinSamples int
}

// sampleText returns the trimmed text of the present text values in a sample.
// Non-text columns yield nothing.
func (p Prober) sampleText(col *Column, percent float64) []string {
	if col.Kind != KindText {
		return nil
	}
	var out []string
	for _, v := range p.Sampler.Sample(col, percent, p.MinSamples) {
		if v.Valid {
			out = append(out, strings.TrimSpace(v.Text))
		}
	}
	return out
}

// InferFormat samples the column and returns the single concrete datetime
// format every recognized value agrees on, FormatMixed when they disagree,
// or "" when no sampled value matches any format.
func (p Prober) InferFormat(col *Column, percent float64) string {
	var first string
	for _, s := range p.sampleText(col, percent) {
		name, ok := matchFormat(s)
		switch {
		case !ok:
		case first == "":
			first = name
		case name != first:
			return FormatMixed
		}
	}
	return first
}

// HasUTCHint reports whether any sampled value ends in "Z" or carries a
// parseable trailing UTC offset.
func (p Prober) HasUTCHint(col *Column, percent float64) bool {
	for _, s := range p.sampleText(col, percent) {
		if strings.HasSuffix(s, "Z") {
			return true
		}
		if hasOffsetSuffix(s) {
			if _, ok := parseMixed(s); ok {
				return true
			}
		}
	}
	return false
}

// HasEpochHint reports whether any sampled value coerces to a finite number.
func (p Prober) HasEpochHint(col *Column, percent float64) bool {
	for _, v := range p.Sampler.Sample(col, percent, p.MinSamples) {
		if _, ok := numericOf(col.Kind, v); ok {
			return true
		}
	}
	return false
}
