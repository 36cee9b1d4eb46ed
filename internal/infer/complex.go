package infer

import (
	"math"
	"math/cmplx"
	"strconv"
	"strings"
)

const imaginaryUnit = "j"

// parseFloat accepts surrounding whitespace, like most spreadsheet exports need.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseComplex parses a scalar such as "2+3j", "7j", "8" or "3+2".
//
// The value is split on the first "+". A trailing "j" on the second part marks
// it imaginary; without one it is still used as the imaginary part, so "3+2"
// yields 3+2i. Without a "+", a trailing "j" makes the whole value imaginary.
// Anything unparseable, or a result with a NaN part, reports false.
func ParseComplex(s string) (complex128, bool) {
	s = strings.TrimSpace(s)

	var re, im float64
	var ok bool
	if realPart, imagPart, found := strings.Cut(s, "+"); found {
		if re, ok = parseFloat(realPart); !ok {
			return 0, false
		}
		imagPart = strings.TrimSpace(imagPart)
		if im, ok = parseFloat(strings.TrimSuffix(imagPart, imaginaryUnit)); !ok {
			return 0, false
		}
	} else if strings.HasSuffix(s, imaginaryUnit) {
		if im, ok = parseFloat(strings.TrimSuffix(s, imaginaryUnit)); !ok {
			return 0, false
		}
	} else if re, ok = parseFloat(s); !ok {
		return 0, false
	}

	c := complex(re, im)
	if cmplx.IsNaN(c) {
		return 0, false
	}
	return c, true
}

// numericOf coerces a value of the given kind to a float. Datetimes and
// durations map to their nanosecond counts; complex values only when they
// have no imaginary part. NaN is never returned.
func numericOf(kind Kind, v Value) (float64, bool) {
	if !v.Valid {
		return 0, false
	}
	var f float64
	switch kind {
	case KindText:
		var ok bool
		if f, ok = parseFloat(v.Text); !ok {
			return 0, false
		}
	case KindNumber:
		f = v.Number
	case KindComplex:
		if imag(v.Complex) != 0 {
			return 0, false
		}
		f = real(v.Complex)
	case KindDatetime:
		f = float64(v.Time.UnixNano())
	case KindDuration:
		f = float64(v.Dur)
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
