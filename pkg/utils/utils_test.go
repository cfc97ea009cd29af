package utils

import (
	"math"
	"testing"
	"time"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{
			name:  "round to 2 decimals",
			input: 123.456789,
			want:  123.46,
		},
		{
			name:  "already 2 decimals",
			input: 123.45,
			want:  123.45,
		},
		{
			name:  "integer",
			input: 123.0,
			want:  123.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Round2(tt.input)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("Round2() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  bool
	}{
		{
			name:  "finite number",
			input: 123.45,
			want:  true,
		},
		{
			name:  "infinity",
			input: math.Inf(1),
			want:  false,
		},
		{
			name:  "negative infinity",
			input: math.Inf(-1),
			want:  false,
		},
		{
			name:  "NaN",
			input: math.NaN(),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsFinite(tt.input)
			if got != tt.want {
				t.Errorf("IsFinite() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonthsBetween(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		start, end time.Time
		wantYears  int
		wantMonths int
	}{
		{
			name:  "same day",
			start: date(2024, 1, 1), end: date(2024, 1, 1),
			wantYears: 0, wantMonths: 0,
		},
		{
			name:  "day remainder dropped",
			start: date(2024, 1, 15), end: date(2024, 3, 14),
			wantYears: 0, wantMonths: 1,
		},
		{
			name:  "month end clamps",
			start: date(2024, 1, 31), end: date(2024, 2, 29),
			wantYears: 0, wantMonths: 1,
		},
		{
			name:  "years and months",
			start: date(2024, 1, 1), end: date(2041, 8, 20),
			wantYears: 17, wantMonths: 7,
		},
		{
			name:  "end before start",
			start: date(2024, 5, 1), end: date(2024, 1, 1),
			wantYears: 0, wantMonths: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			years, months := MonthsBetween(tt.start, tt.end)
			if years != tt.wantYears || months != tt.wantMonths {
				t.Errorf("MonthsBetween() = %d/%d, want %d/%d", years, months, tt.wantYears, tt.wantMonths)
			}
		})
	}
}

func TestAddMonths(t *testing.T) {
	got := AddMonths(time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), 1)
	want := time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AddMonths() = %s, want %s", got.Format(DateLayout), want.Format(DateLayout))
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2024-06-01"); err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if _, err := ParseDate("01/06/2024"); err == nil {
		t.Error("expected error for non ISO date")
	}
}
