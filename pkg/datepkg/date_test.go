package datepkg

import (
	"testing"
	"time"
)

func TestIsValidDate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		want bool
	}{
		{"01-01-1990", true},
		{"29-02-2024", true},
		{"29-02-2023", false},
		{"1990-01-01", false},
		{"", false},
		{"31-04-2000", false},
	}

	for _, tc := range testCases {
		if got := IsValidDate(tc.in); got != tc.want {
			t.Errorf("IsValidDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	t.Parallel()

	in := time.Date(2025, time.March, 7, 14, 5, 9, 0, time.Local)

	s := FormatTimestamp(in)
	if s != "07-03-2025 14:05:09" {
		t.Fatalf("FormatTimestamp(%v) = %q, want %q", in, s, "07-03-2025 14:05:09")
	}

	got, err := ParseTimestamp(s)
	if err != nil {
		t.Fatalf("ParseTimestamp(%q) returned error: %v", s, err)
	}

	if !got.Equal(in) {
		t.Errorf("ParseTimestamp(%q) = %v, want %v", s, got, in)
	}
}

func TestSameDay(t *testing.T) {
	t.Parallel()

	morning := time.Date(2025, time.March, 7, 0, 0, 1, 0, time.Local)
	night := time.Date(2025, time.March, 7, 23, 59, 59, 0, time.Local)
	next := night.Add(2 * time.Second)

	if !SameDay(morning, night) {
		t.Errorf("SameDay(%v, %v) = false, want true", morning, night)
	}

	if SameDay(night, next) {
		t.Errorf("SameDay(%v, %v) = true, want false", night, next)
	}
}
