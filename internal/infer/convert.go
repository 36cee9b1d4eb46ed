package infer

import (
	"strings"
	"time"
)

// accept applies the missing-ratio budget. Empty columns are never accepted.
func accept(col *Column, budget float64) bool {
	n := col.Len()
	if n == 0 {
		return false
	}
	return float64(col.MissingCount())/float64(n) <= budget
}

// mapValues builds a column of the given kind by converting each present
// value; parse failures become missing.
func mapValues(col *Column, kind Kind, loc *time.Location, fn func(Value) (Value, bool)) *Column {
	out := make([]Value, len(col.Values))
	for i, v := range col.Values {
		if !v.Valid {
			continue
		}
		if conv, ok := fn(v); ok {
			out[i] = conv
		}
	}
	return col.withValues(kind, loc, out)
}

// TryConvertNumeric converts col to numbers.
func (e *Engine) TryConvertNumeric(col *Column, budget float64) (*Column, bool) {
	if col.Kind == KindNumber {
		return col.withValues(KindNumber, nil, col.Values), true
	}
	out := mapValues(col, KindNumber, nil, func(v Value) (Value, bool) {
		f, ok := numericOf(col.Kind, v)
		return NumberValue(f), ok
	})
	if !accept(out, budget) {
		return nil, false
	}
	return out, true
}

// TryConvertComplex converts col to complex numbers using ParseComplex for text.
func (e *Engine) TryConvertComplex(col *Column, budget float64) (*Column, bool) {
	var out *Column
	switch col.Kind {
	case KindComplex:
		return col.withValues(KindComplex, nil, col.Values), true
	case KindText:
		out = mapValues(col, KindComplex, nil, func(v Value) (Value, bool) {
			c, ok := ParseComplex(v.Text)
			return ComplexValue(c), ok
		})
	default:
		out = mapValues(col, KindComplex, nil, func(v Value) (Value, bool) {
			f, ok := numericOf(col.Kind, v)
			return ComplexValue(complex(f, 0)), ok
		})
	}
	if !accept(out, budget) {
		return nil, false
	}
	return out, true
}

// TryConvertDatetime converts col to datetimes. A single concrete format found
// by InferFormat is tried first, then epoch seconds when HasEpochHint holds,
// then the general parser with every value normalized to UTC. The first path
// within budget wins. Complex and duration columns are not convertible.
func (e *Engine) TryConvertDatetime(col *Column, budget float64) (*Column, bool) {
	switch col.Kind {
	case KindDatetime:
		return col.withValues(KindDatetime, col.Location, col.Values), true
	case KindComplex, KindDuration:
		return nil, false
	}

	if format := e.prober.InferFormat(col, e.opts.SamplePercent); format != "" && format != FormatMixed {
		if out := parseWithFormat(col, format); accept(out, budget) {
			return out, true
		}
	}
	if e.prober.HasEpochHint(col, e.opts.SamplePercent) {
		out := mapValues(col, KindDatetime, nil, func(v Value) (Value, bool) {
			f, ok := numericOf(col.Kind, v)
			if !ok {
				return Value{}, false
			}
			t, ok := parseEpochSeconds(f)
			return TimeValue(t), ok
		})
		if accept(out, budget) {
			return out, true
		}
	}
	if col.Kind != KindText {
		return nil, false
	}
	out := mapValues(col, KindDatetime, time.UTC, func(v Value) (Value, bool) {
		t, ok := parseMixed(strings.TrimSpace(v.Text))
		if !ok || !inTimestampRange(t) {
			return Value{}, false
		}
		return TimeValue(t), true
	})
	if !accept(out, budget) {
		return nil, false
	}
	return out, true
}

// parseWithFormat parses every value with one concrete format. For an offset
// format the column keeps the shared offset when all values agree and is
// normalized to UTC otherwise.
func parseWithFormat(col *Column, name string) *Column {
	f, _ := lookupFormat(name)
	out := make([]Value, len(col.Values))
	offsets := make(map[int]struct{})
	for i, v := range col.Values {
		if !v.Valid {
			continue
		}
		t, ok := f.parse(strings.TrimSpace(v.Text))
		if !ok || !inTimestampRange(t) {
			continue
		}
		if f.zoned {
			_, off := t.Zone()
			offsets[off] = struct{}{}
		}
		out[i] = TimeValue(t)
	}
	if !f.zoned {
		return col.withValues(KindDatetime, nil, out)
	}

	loc := time.UTC
	if len(offsets) == 1 {
		for off := range offsets {
			loc = time.FixedZone(zoneName(off), off)
		}
	}
	for i := range out {
		if out[i].Valid {
			out[i].Time = out[i].Time.In(loc)
		}
	}
	return col.withValues(KindDatetime, loc, out)
}

// TryConvertDuration converts col to durations. Bare numbers are read in the
// engine's DurationUnit. Complex and datetime columns are not convertible.
func (e *Engine) TryConvertDuration(col *Column, budget float64) (*Column, bool) {
	var out *Column
	switch col.Kind {
	case KindDuration:
		return col.withValues(KindDuration, nil, col.Values), true
	case KindComplex, KindDatetime:
		return nil, false
	case KindText:
		out = mapValues(col, KindDuration, nil, func(v Value) (Value, bool) {
			d, ok := ParseDuration(v.Text, e.opts.DurationUnit)
			return DurationValue(d), ok
		})
	default:
		out = mapValues(col, KindDuration, nil, func(v Value) (Value, bool) {
			d, ok := durationAccumulator(v.Number * float64(e.opts.DurationUnit)).result(false)
			return DurationValue(d), ok
		})
	}
	if !accept(out, budget) {
		return nil, false
	}
	return out, true
}

// TryConvertCategory marks col categorical when its percentage of distinct
// present values is at most maxPercent. Values and kind are unchanged.
func (e *Engine) TryConvertCategory(col *Column, maxPercent float64) (*Column, bool) {
	pct, ok := col.PercentUnique()
	if !ok || pct > maxPercent {
		return nil, false
	}
	out := col.withValues(col.Kind, col.Location, col.Values)
	out.Categorical = true
	return out, true
}

// ConvertText turns any column into text using each value's display form.
// It always succeeds.
func (e *Engine) ConvertText(col *Column) *Column {
	if col.Kind == KindText {
		return col.withValues(KindText, nil, col.Values)
	}
	return mapValues(col, KindText, nil, func(v Value) (Value, bool) {
		return TextValue(col.Display(v)), true
	})
}

// TryConvert dispatches to the converter named by tag. limit is the
// missing-ratio budget, or the distinct-value percentage for TagCategory.
func (e *Engine) TryConvert(tag TypeTag, col *Column, limit float64) (*Column, bool) {
	switch tag {
	case TagString:
		return e.ConvertText(col), true
	case TagNumber:
		return e.TryConvertNumeric(col, limit)
	case TagComplex:
		return e.TryConvertComplex(col, limit)
	case TagDate:
		return e.TryConvertDatetime(col, limit)
	case TagDuration:
		return e.TryConvertDuration(col, limit)
	case TagCategory:
		return e.TryConvertCategory(col, limit)
	default:
		return nil, false
	}
}
