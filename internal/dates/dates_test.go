package dates

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseSupportedLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-13", date(2024, time.January, 13)},
		{"2024-01-13T00:00:00Z", date(2024, time.January, 13)},
		{"2024-01-13T10:30:00", time.Date(2024, time.January, 13, 10, 30, 0, 0, time.UTC)},
		{"2024-01-13 10:30:00", time.Date(2024, time.January, 13, 10, 30, 0, 0, time.UTC)},
		{"13/01/2024", date(2024, time.January, 13)},
		{"7 May 2027", date(2027, time.May, 7)},
		{"07 May 2027", date(2027, time.May, 7)},
		{"May 2027", date(2027, time.May, 1)},
		{"Nov. 2025", date(2025, time.November, 1)},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
		if _, off := got.Zone(); off != 0 {
			t.Errorf("Parse(%q) returned non-UTC offset %d", tc.in, off)
		}
	}
}

func TestParseDayFirstPreference(t *testing.T) {
	// 13 cannot be a month, so day-first wins directly.
	got, err := Parse("13/01/2024")
	if err != nil {
		t.Fatalf("Parse(13/01/2024): %v", err)
	}
	if want := date(2024, time.January, 13); !got.Equal(want) {
		t.Errorf("Parse(13/01/2024) = %v, want %v", got, want)
	}

	// Day-first reading of 01/13 is invalid (month 13); month-first
	// fallback resolves to January 13.
	got, err = Parse("01/13/2024")
	if err != nil {
		t.Fatalf("Parse(01/13/2024): %v", err)
	}
	if want := date(2024, time.January, 13); !got.Equal(want) {
		t.Errorf("Parse(01/13/2024) = %v, want %v", got, want)
	}

	// Ambiguous input stays day-first.
	got, err = Parse("03/04/2024")
	if err != nil {
		t.Fatalf("Parse(03/04/2024): %v", err)
	}
	if want := date(2024, time.April, 3); !got.Equal(want) {
		t.Errorf("Parse(03/04/2024) = %v, want %v", got, want)
	}
}

func TestParseRoundTrip(t *testing.T) {
	d := date(2026, time.March, 9)
	for _, s := range []string{
		d.Format("2006-01-02"),
		d.Format("02/01/2006"),
		d.Format("2 January 2006"),
		d.Format("2006-01-02 15:04:05"),
	} {
		got, err := Parse(s)
		if err != nil {
			t.Errorf("Parse(%q): %v", s, err)
			continue
		}
		if !got.Equal(d) {
			t.Errorf("Parse(%q) = %v, want %v", s, got, d)
		}
	}
}

func TestParseFailureSentinel(t *testing.T) {
	for _, s := range []string{"", "   ", "not a date", "32/01/2024", "99/99/2024"} {
		_, err := Parse(s)
		if !errors.Is(err, ErrUnparseable) {
			t.Errorf("Parse(%q) error = %v, want ErrUnparseable", s, err)
		}
	}
}

func TestParseAny(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	in := time.Date(2025, time.June, 1, 3, 0, 0, 0, loc)
	got, err := ParseAny(in)
	if err != nil {
		t.Fatalf("ParseAny(time.Time): %v", err)
	}
	if _, off := got.Zone(); off != 0 {
		t.Errorf("ParseAny did not re-anchor to UTC, offset %d", off)
	}

	if _, err := ParseAny(nil); !errors.Is(err, ErrUnparseable) {
		t.Errorf("ParseAny(nil) error = %v, want ErrUnparseable", err)
	}
	if _, err := ParseAny(42); !errors.Is(err, ErrUnparseable) {
		t.Errorf("ParseAny(42) error = %v, want ErrUnparseable", err)
	}
}

func TestDisplay(t *testing.T) {
	if got := Display(date(2027, time.February, 7)); got != "07/02/2027" {
		t.Errorf("Display = %q, want 07/02/2027", got)
	}
}
