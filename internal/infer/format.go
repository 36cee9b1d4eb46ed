package infer

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	naiveDisplayLayout = "2006-01-02 15:04:05.999999999"
	zonedDisplayLayout = "2006-01-02 15:04:05.999999999-07:00"
)

// FormatNumber renders f the way a Python float prints: integral values
// keep a ".0" suffix and very large or small magnitudes use exponent form.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatComplex renders c as "(1+2j)".
func FormatComplex(c complex128) string {
	re := strconv.FormatFloat(real(c), 'g', -1, 64)
	im := strconv.FormatFloat(imag(c), 'g', -1, 64)
	if !strings.HasPrefix(im, "-") {
		im = "+" + im
	}
	return "(" + re + im + "j)"
}

// FormatTime renders t in loc, or as a naive wall-clock time when loc is nil.
func FormatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		return t.UTC().Format(naiveDisplayLayout)
	}
	return t.In(loc).Format(zonedDisplayLayout)
}

// Display returns the text form of v as a member of col. Missing values
// render as the empty string.
func (c *Column) Display(v Value) string {
	if !v.Valid {
		return ""
	}
	switch c.Kind {
	case KindNumber:
		return FormatNumber(v.Number)
	case KindComplex:
		return FormatComplex(v.Complex)
	case KindDatetime:
		return FormatTime(v.Time, c.Location)
	case KindDuration:
		return FormatClockDuration(v.Dur)
	default:
		return v.Text
	}
}

// key returns a comparable identity for distinct-value counting.
func (c *Column) key(v Value) any {
	switch c.Kind {
	case KindNumber:
		return v.Number
	case KindComplex:
		return v.Complex
	case KindDatetime:
		return v.Time.UnixNano()
	case KindDuration:
		return v.Dur
	default:
		return v.Text
	}
}

// PercentUnique returns distinct present values over present values, times
// 100. The second result is false when the column has no present values.
func (c *Column) PercentUnique() (float64, bool) {
	seen := make(map[any]struct{})
	present := 0
	for _, v := range c.Values {
		if !v.Valid {
			continue
		}
		present++
		seen[c.key(v)] = struct{}{}
	}
	if present == 0 {
		return 0, false
	}
	return float64(len(seen)) / float64(present) * 100, true
}

// Categories returns the distinct present values in first-seen order.
func (c *Column) Categories() []Value {
	seen := make(map[any]struct{})
	var out []Value
	for _, v := range c.Values {
		if !v.Valid {
			continue
		}
		k := c.key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}
