package infer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDurationRe = regexp.MustCompile(`^(-)?P(?:(\d+(?:\.\d+)?)W)?(?:(\d+(?:\.\d+)?)D)?(?:T(?:(\d+(?:\.\d+)?)H)?(?:(\d+(?:\.\d+)?)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)
	clockRe       = regexp.MustCompile(`^([+-])?(?:(\d+(?:\.\d+)?)\s*days?,?\s*)?(?:([+-])?(\d+):(\d{2}):(\d{2})(?:\.(\d{1,9}))?)?$`)
	unitSeqRe     = regexp.MustCompile(`^[+-]?(?:\s*\d+(?:\.\d+)?\s*[a-zµ]+\s*,?)+$`)
	unitTermRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([a-zµ]+)`)
)

var durationUnits = map[string]time.Duration{
	"w": 7 * 24 * time.Hour, "week": 7 * 24 * time.Hour, "weeks": 7 * 24 * time.Hour,
	"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"m": time.Minute, "t": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"ms": time.Millisecond, "l": time.Millisecond, "milli": time.Millisecond, "millis": time.Millisecond,
	"millisecond": time.Millisecond, "milliseconds": time.Millisecond,
	"us": time.Microsecond, "µs": time.Microsecond, "u": time.Microsecond, "micro": time.Microsecond,
	"micros": time.Microsecond, "microsecond": time.Microsecond, "microseconds": time.Microsecond,
	"ns": time.Nanosecond, "n": time.Nanosecond, "nano": time.Nanosecond, "nanos": time.Nanosecond,
	"nanosecond": time.Nanosecond, "nanoseconds": time.Nanosecond,
}

// ParseDurationUnit resolves a unit name such as "s", "ms" or "hours".
func ParseDurationUnit(name string) (time.Duration, error) {
	if d, ok := durationUnits[strings.ToLower(strings.TrimSpace(name))]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unknown duration unit %q", name)
}

// durationAccumulator sums float nanoseconds and rejects totals that do not
// fit a time.Duration.
type durationAccumulator float64

func (a *durationAccumulator) add(amount string, unit time.Duration) bool {
	if amount == "" {
		return true
	}
	f, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return false
	}
	*a += durationAccumulator(f * float64(unit))
	return true
}

func (a durationAccumulator) result(negative bool) (time.Duration, bool) {
	ns := math.Round(float64(a))
	if negative {
		ns = -ns
	}
	if math.IsNaN(ns) || ns <= math.MinInt64 || ns >= math.MaxInt64 {
		return 0, false
	}
	return time.Duration(ns), true
}

// ParseDuration parses a duration written as a plain number of units, an
// ISO 8601 duration ("P0DT1H30M"), a clock value with optional day count
// ("01:30:00", "102:30:50", "1 days 02:00:00") or a sequence of unit terms
// ("1h30m", "2 hours 5 minutes"). Hours on a clock value are not capped.
func ParseDuration(s string, unit time.Duration) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if f, ok := parseFloat(s); ok {
		if math.IsInf(f, 0) {
			return 0, false
		}
		return durationAccumulator(f * float64(unit)).result(false)
	}
	if m := isoDurationRe.FindStringSubmatch(s); m != nil {
		return parseISODuration(m)
	}
	if m := clockRe.FindStringSubmatch(s); m != nil && (m[2] != "" || m[4] != "") {
		return parseClockDuration(m)
	}
	lower := strings.ToLower(s)
	if unitSeqRe.MatchString(lower) {
		return parseUnitSequence(lower)
	}
	return 0, false
}

func parseISODuration(m []string) (time.Duration, bool) {
	if m[2] == "" && m[3] == "" && m[4] == "" && m[5] == "" && m[6] == "" {
		return 0, false
	}
	var acc durationAccumulator
	units := []time.Duration{7 * 24 * time.Hour, 24 * time.Hour, time.Hour, time.Minute, time.Second}
	for i, u := range units {
		if !acc.add(m[i+2], u) {
			return 0, false
		}
	}
	return acc.result(m[1] == "-")
}

// parseClockDuration follows the pandas reading of "-1 days +23:00:00": a
// leading sign on the day count applies to the days only. Without a day
// count it negates the clock.
func parseClockDuration(m []string) (time.Duration, bool) {
	var acc durationAccumulator
	if !acc.add(m[2], 24*time.Hour) {
		return 0, false
	}
	negative := m[1] == "-"
	if negative && m[2] != "" {
		acc = -acc
		negative = false
	}
	if m[4] != "" {
		minutes, _ := strconv.Atoi(m[5])
		seconds, _ := strconv.Atoi(m[6])
		if minutes >= 60 || seconds >= 60 {
			return 0, false
		}
		var clock durationAccumulator
		clock.add(m[4], time.Hour)
		clock.add(m[5], time.Minute)
		clock.add(m[6], time.Second)
		if m[7] != "" {
			frac, _ := strconv.Atoi(m[7] + strings.Repeat("0", 9-len(m[7])))
			clock += durationAccumulator(frac)
		}
		if m[3] == "-" {
			clock = -clock
		}
		acc += clock
	}
	return acc.result(negative)
}

func parseUnitSequence(s string) (time.Duration, bool) {
	negative := strings.HasPrefix(s, "-")
	var acc durationAccumulator
	for _, term := range unitTermRe.FindAllStringSubmatch(s, -1) {
		u, ok := durationUnits[term[2]]
		if !ok {
			return 0, false
		}
		if !acc.add(term[1], u) {
			return 0, false
		}
	}
	return acc.result(negative)
}

// FormatISODuration renders d as "P{days}DT{h}H{m}M{s}S", for example
// "P0DT1H30M0S". Fractional seconds keep only significant digits.
func FormatISODuration(d time.Duration) string {
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
	}
	days, h, m, s, frac := splitDuration(d)
	fmt.Fprintf(&b, "P%dDT%dH%dM%d", days, h, m, s)
	if frac > 0 {
		b.WriteByte('.')
		b.WriteString(strings.TrimRight(fmt.Sprintf("%09d", frac), "0"))
	}
	b.WriteByte('S')
	return b.String()
}

// FormatClockDuration renders d as "0 days 01:30:00".
func FormatClockDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
	}
	days, h, m, s, frac := splitDuration(d)
	out := fmt.Sprintf("%s%d days %02d:%02d:%02d", sign, days, h, m, s)
	if frac > 0 {
		out += "." + strings.TrimRight(fmt.Sprintf("%09d", frac), "0")
	}
	return out
}

func splitDuration(d time.Duration) (days, h, m, s, frac int64) {
	ns := int64(d)
	if ns < 0 {
		// MinInt64 has no positive counterpart; clamp by one nanosecond.
		if ns == math.MinInt64 {
			ns++
		}
		ns = -ns
	}
	frac = ns % int64(time.Second)
	total := ns / int64(time.Second)
	days = total / 86400
	h = (total % 86400) / 3600
	m = (total % 3600) / 60
	s = total % 60
	return days, h, m, s, frac
}
