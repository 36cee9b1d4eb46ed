package infer

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// FormatMixed is returned by InferFormat when sampled values disagree.
const FormatMixed = "mixed"

// datetimeFormat is one entry of the closed set of concrete formats that
// InferFormat can report. Name uses strftime notation; layouts are the Go
// equivalents tried in order. Month, day and hour need not be zero-padded.
type datetimeFormat struct {
	name    string
	layouts []string
	zoned   bool
}

var datetimeFormats = []datetimeFormat{
	{name: "%Y-%m-%dT%H:%M:%SZ", layouts: []string{"2006-1-2T15:04:05Z"}},
	{name: "%Y-%m-%d %H:%M:%S%z", layouts: []string{"2006-1-2 15:04:05Z07:00", "2006-1-2 15:04:05-0700"}, zoned: true},
	{name: "%Y-%m-%d %H:%M:%S", layouts: []string{"2006-1-2 15:04:05"}},
	{name: "%m/%d/%Y", layouts: []string{"1/2/2006"}},
	{name: "%d/%m/%Y", layouts: []string{"2/1/2006"}},
	{name: "%Y/%m/%d", layouts: []string{"2006/1/2"}},
	{name: "%Y/%d/%m", layouts: []string{"2006/2/1"}},
}

func lookupFormat(name string) (datetimeFormat, bool) {
	for _, f := range datetimeFormats {
		if f.name == name {
			return f, true
		}
	}
	return datetimeFormat{}, false
}

// parse tries each layout of the format against s.
func (f datetimeFormat) parse(s string) (time.Time, bool) {
	for _, layout := range f.layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// matchFormat returns the first concrete format that parses s.
func matchFormat(s string) (string, bool) {
	for _, f := range datetimeFormats {
		if _, ok := f.parse(s); ok {
			return f.name, true
		}
	}
	return "", false
}

// Layouts accepted by the general-purpose parser. Values without an offset
// are read as UTC.
var mixedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04",
	"2006-1-2 15:04:05Z07:00",
	"2006-1-2 15:04:05-0700",
	"2006-1-2 15:04:05 -0700",
	"2006-1-2 15:04:05 MST",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006/1/2",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04",
	"1/2/2006",
	"2/1/2006 15:04:05",
	"2/1/2006",
	"1-2-2006",
	"2.1.2006 15:04:05",
	"2.1.2006",
	"02-Jan-2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"Mon, 2 Jan 2006",
	"Monday, January 2, 2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
}

// parseMixed parses a single value with the general-purpose layout list and
// normalizes the result to UTC. Time-only values are not accepted.
func parseMixed(s string) (time.Time, bool) {
	for _, layout := range mixedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Nanosecond-resolution timestamps are bounded; values outside become missing.
var (
	minTimestamp = time.Unix(0, math.MinInt64).UTC()
	maxTimestamp = time.Unix(0, math.MaxInt64).UTC()
)

func inTimestampRange(t time.Time) bool {
	return !t.Before(minTimestamp) && !t.After(maxTimestamp)
}

// parseEpochSeconds interprets f as seconds since the Unix epoch.
func parseEpochSeconds(f float64) (time.Time, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false
	}
	ns := f * 1e9
	if ns < math.MinInt64 || ns >= math.MaxInt64 {
		return time.Time{}, false
	}
	sec := math.Floor(f)
	frac := math.Round((f - sec) * 1e9)
	return time.Unix(int64(sec), int64(frac)).UTC(), true
}

// zoneName renders a fixed offset the way zone-aware column types name it.
func zoneName(offset int) string {
	if offset == 0 {
		return "UTC"
	}
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, offset/3600, (offset%3600)/60)
}

var offsetSuffix = regexp.MustCompile(`(?:Z|[+-]\d{2}:?\d{2})$`)

func hasOffsetSuffix(s string) bool {
	return offsetSuffix.MatchString(strings.TrimSpace(s))
}
