package catalog

import (
	"math"
	"testing"
	"time"
)

type stringer string

func (s stringer) String() string { return string(s) }

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"nil", nil, 0},
		{"empty string", "", 0},
		{"whitespace", "   ", 0},
		{"plain number", "12.50", 12.5},
		{"currency and thousands", "$1,234.56", 1234.56},
		{"padded", "  $ 7.00  ", 7},
		{"letters", "abc", 0},
		{"negative keeps sign", "-$3.25", -3.25},
		{"float input", 4.5, 4.5},
		{"int input", 3, 3},
		{"NaN float", math.NaN(), 0},
		{"NaN string", "NaN", 0},
		{"infinity string", "inf", 0},
		{"stringer", stringer("$2"), 2},
		{"unsupported type", []int{1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanPrice(tt.input)
			if got != tt.want {
				t.Errorf("CleanPrice(%v) = %v, want %v", tt.input, got, tt.want)
			}
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Errorf("CleanPrice(%v) returned non-finite %v", tt.input, got)
			}
		})
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"3", 3},
		{" 3 ", 3},
		{"0", 0},
		{"", 0},
		{"-1", -1},
		{"two", 0},
		{"2.5", 0},
	}

	for _, tt := range tests {
		if got := ParseQuantity(tt.in); got != tt.want {
			t.Errorf("ParseQuantity(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"100", 100},
		{"$1,000.25", 1000.25},
		{"", 0},
		{"n/a", 0},
		{"-5", 0},
	}

	for _, tt := range tests {
		if got := ParseValue(tt.in); got != tt.want {
			t.Errorf("ParseValue(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDayFirst(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"03/04/2024", time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC), true},
		{"3/4/2024", time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC), true},
		{"13/01/2024 09:30", time.Date(2024, time.January, 13, 9, 30, 0, 0, time.UTC), true},
		{"13/01/2024 09:30:15", time.Date(2024, time.January, 13, 9, 30, 15, 0, time.UTC), true},
		{"01-02-2024", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), true},
		{"01.02.24", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), true},
		{"2024-02-01", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), true},
		{"5 Mar 2024", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), true},
		{"2024-01-15 10:30:00+00:00", time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC), true},
		{"2024-01-15 12:30:00+02:00", time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC), true},
		{"2024-01-15T10:30:00+00:00", time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC), true},
		{"2024-01-15T10:30:00.000Z", time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC), true},
		{"15/01/2024 10:30:00 PM", time.Date(2024, time.January, 15, 22, 30, 0, 0, time.UTC), true},
		{"15/01/2024 9:05 AM", time.Date(2024, time.January, 15, 9, 5, 0, 0, time.UTC), true},
		{"Jan 15, 2024", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), true},
		{"January 15, 2024 3:00 PM", time.Date(2024, time.January, 15, 15, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
		{"32/01/2024", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseDayFirst(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseDayFirst(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseDayFirst(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
