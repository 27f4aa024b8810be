package timeofday

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Instant
		ok   bool
	}{
		{"PM 1:00", 13 * 60, true},
		{"AM 9:30", 9*60 + 30, true},
		{"AM 12:15", 15, true},
		{"PM 12:00", 12 * 60, true},
		{"오후 2:30", 14*60 + 30, true},
		{"오후 21:00", 21 * 60, true},
		{"7:30", 7*60 + 30, true},
		{"1:00 PM", 13 * 60, true},
		{"  pm 3:05 ", 15*60 + 5, true},
		{"목 하루 종일", 0, false},
		{"-", 0, false},
		{"", 0, false},
		{"25:00", 0, false},
		{"10:75", 0, false},
	}
	for _, c := range cases {
		got, ok := Parse(c.in)
		if ok != c.ok {
			t.Errorf("%q: ok=%v want %v", c.in, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("%q: got %v want %v", c.in, got, c.want)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"AM 12:00", "AM 9:05", "PM 12:30", "PM 11:59"} {
		if got := MustParse(s).String(); got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
}

func TestOverlaps(t *testing.T) {
	h := func(s string) Instant { return MustParse(s) }
	if Overlaps(h("13:00"), h("14:00"), h("14:00"), h("15:00")) {
		t.Fatalf("touching intervals must not overlap")
	}
	if !Overlaps(h("13:00"), h("14:15"), h("14:00"), h("15:00")) {
		t.Fatalf("expected overlap")
	}
	if !Overlaps(h("13:00"), h("17:00"), h("14:00"), h("15:00")) {
		t.Fatalf("expected containment to overlap")
	}
}

func TestCloseBlock(t *testing.T) {
	end := CloseBlock(MustParse("PM 5:30"), 15*time.Minute)
	if end.String() != "PM 5:45" {
		t.Fatalf("got %s", end)
	}
}

func TestInterval(t *testing.T) {
	iv, ok := ParseInterval("PM 1:00", "PM 2:00")
	if !ok {
		t.Fatalf("parse interval")
	}
	if !iv.Contains(MustParse("13:00")) || iv.Contains(MustParse("14:00")) {
		t.Fatalf("contains uses half-open bounds")
	}
	if iv.String() != "13:00~14:00" {
		t.Fatalf("got %s", iv)
	}
	if _, ok := ParseInterval("PM 1:00", "-"); ok {
		t.Fatalf("expected failure on bad end")
	}
	if _, ok := ParseInterval("PM 11:00", "AM 1:00"); ok {
		t.Fatalf("expected failure across midnight")
	}
}
