package infer

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Duration
		wantOK bool
	}{
		{"01:30:00", 90 * time.Minute, true},
		{"  00:15:42", 15*time.Minute + 42*time.Second, true},
		{"102:30:50", 102*time.Hour + 30*time.Minute + 50*time.Second, true},
		{"P0DT1H30M", 90 * time.Minute, true},
		{"P1D", 24 * time.Hour, true},
		{"PT0.5S", 500 * time.Millisecond, true},
		{"-PT1H", -time.Hour, true},
		{"1 days 02:00:00", 26 * time.Hour, true},
		{"2 days", 48 * time.Hour, true},
		{"-1 days +23:00:00", -time.Hour, true},
		{"-1 days 23:00:00", -time.Hour, true},
		{"-2 days", -48 * time.Hour, true},
		{"1 days -01:00:00", 23 * time.Hour, true},
		{"-01:00:00", -time.Hour, true},
		{"00:00:01.25", 1250 * time.Millisecond, true},
		{"1h30m", 90 * time.Minute, true},
		{"2 hours 5 minutes", 2*time.Hour + 5*time.Minute, true},
		{"1500", 1500 * time.Nanosecond, true},
		{"nan", 0, false},
		{"", 0, false},
		{"Alice", 0, false},
		{"P", 0, false},
		{"01:75:00", 0, false},
		{"3 parsecs", 0, false},
		{"2+3j", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDuration(tt.in, time.Nanosecond)
			if ok != tt.wantOK {
				t.Fatalf("ParseDuration(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDuration_Unit(t *testing.T) {
	got, ok := ParseDuration("90", time.Second)
	if !ok || got != 90*time.Second {
		t.Errorf("ParseDuration(90, s) = %v, %v, want 1m30s, true", got, ok)
	}
}

func TestParseDurationUnit(t *testing.T) {
	if d, err := ParseDurationUnit("ms"); err != nil || d != time.Millisecond {
		t.Errorf("ParseDurationUnit(ms) = %v, %v", d, err)
	}
	if _, err := ParseDurationUnit("fortnight"); err == nil {
		t.Error("ParseDurationUnit(fortnight) should fail")
	}
}

func TestFormatISODuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{90 * time.Minute, "P0DT1H30M0S"},
		{26*time.Hour + 5*time.Second, "P1DT2H0M5S"},
		{1500 * time.Millisecond, "P0DT0H0M1.5S"},
		{-time.Hour, "-P0DT1H0M0S"},
		{0, "P0DT0H0M0S"},
	}
	for _, tt := range tests {
		if got := FormatISODuration(tt.in); got != tt.want {
			t.Errorf("FormatISODuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatClockDuration(t *testing.T) {
	if got := FormatClockDuration(102*time.Hour + 30*time.Minute + 50*time.Second); got != "4 days 06:30:50" {
		t.Errorf("FormatClockDuration = %q, want %q", got, "4 days 06:30:50")
	}
}
