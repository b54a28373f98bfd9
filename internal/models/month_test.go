package models

import (
	"errors"
	"testing"
	"time"
)

func TestParseMonthKey(t *testing.T) {
	tests := []struct {
		in   string
		want MonthKey
	}{
		{"2024-0", MonthKey{Year: 2024, Month: time.January}},
		{"2024-7", MonthKey{Year: 2024, Month: time.August}},
		{"2025-11", MonthKey{Year: 2025, Month: time.December}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMonthKey(tt.in)
			if err != nil {
				t.Fatalf("ParseMonthKey(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMonthKey(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}

	for _, bad := range []string{"", "2024", "2024-12", "2024--1", "2024-07", "24-1", "2024-x", "2024-1-1", "+2024-1"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			if _, err := ParseMonthKey(bad); !errors.Is(err, ErrInvalidMonthKey) {
				t.Errorf("ParseMonthKey(%q) error = %v, want ErrInvalidMonthKey", bad, err)
			}
		})
	}
}

func TestMonthKeyNavigation(t *testing.T) {
	jan := MonthKey{Year: 2025, Month: time.January}
	if prev := jan.Previous(); prev.String() != "2024-11" {
		t.Errorf("Previous of %s = %s, want 2024-11", jan, prev)
	}

	feb := MonthKey{Year: 2024, Month: time.February}
	wantEnd := time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC)
	if !feb.End().Equal(wantEnd) {
		t.Errorf("End() = %v, want %v", feb.End(), wantEnd)
	}
	if !feb.Contains(wantEnd) {
		t.Error("month should contain its own end")
	}
	if feb.Contains(wantEnd.Add(time.Second)) {
		t.Error("month should not contain the first instant of the next month")
	}
	if got := MonthKeyOf(feb.End()); got != feb {
		t.Errorf("MonthKeyOf(End()) = %s, want %s", got, feb)
	}
}
