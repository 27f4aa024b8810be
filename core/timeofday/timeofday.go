package timeofday

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Instant is a time of day expressed in minutes after midnight.
type Instant int

// Day bounds.
const (
	Midnight Instant = 0
	EndOfDay Instant = 24 * 60
)

var clockPattern = regexp.MustCompile(`(?i)(AM|PM|오전|오후)?\s*(\d{1,2}):(\d{2})\s*(AM|PM|오전|오후)?`)

// Parse extracts the first hour:minute pattern from text. An AM/PM marker
// (or its Korean equivalent) may precede or follow the clock. The boolean is
// false when no usable pattern is found; callers skip such records.
func Parse(text string) (Instant, bool) {
	m := clockPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	hour, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(m[3])
	if err != nil || minute > 59 || hour > 23 {
		return 0, false
	}
	marker := m[1]
	if marker == "" {
		marker = m[4]
	}
	switch strings.ToUpper(marker) {
	case "AM", "오전":
		if hour == 12 {
			hour = 0
		}
	case "PM", "오후":
		if hour < 12 {
			hour += 12
		}
	}
	return Instant(hour*60 + minute), true
}

// MustParse is Parse for literals known to be valid.
func MustParse(text string) Instant {
	t, ok := Parse(text)
	if !ok {
		panic(fmt.Sprintf("timeofday: cannot parse %q", text))
	}
	return t
}

// Add shifts the instant by d, truncated to whole minutes.
func (t Instant) Add(d time.Duration) Instant {
	return t + Instant(d/time.Minute)
}

// Hour and Minute of the instant.
func (t Instant) Hour() int   { return int(t) / 60 }
func (t Instant) Minute() int { return int(t) % 60 }

// String renders the 12-hour "PM 1:05" convention used by the cue sheets.
func (t Instant) String() string {
	h := t.Hour() % 24
	marker := "AM"
	if h >= 12 {
		marker = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%s %d:%02d", marker, h12, t.Minute())
}

// Clock renders the instant as 24-hour "15:04".
func (t Instant) Clock() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Overlaps reports whether [aStart,aEnd) and [bStart,bEnd) intersect.
// Touching endpoints are adjacent, not overlapping.
func Overlaps(aStart, aEnd, bStart, bEnd Instant) bool {
	return aStart < bEnd && bStart < aEnd
}

// CloseBlock returns the end of a merged block whose last row starts at last.
func CloseBlock(last Instant, padding time.Duration) Instant {
	return last.Add(padding)
}

// Interval is a half-open [Start,End) span of the day.
type Interval struct {
	Start Instant `json:"start"`
	End   Instant `json:"end"`
}

// Overlaps applies the half-open rule to two intervals.
func (i Interval) Overlaps(o Interval) bool {
	return Overlaps(i.Start, i.End, o.Start, o.End)
}

// Contains reports whether the instant t falls inside the interval.
func (i Interval) Contains(t Instant) bool {
	return i.Start <= t && t < i.End
}

func (i Interval) String() string {
	return i.Start.Clock() + "~" + i.End.Clock()
}

// ParseInterval parses both bounds; ok is false if either is unusable or
// the end falls before the start. Intervals never cross midnight.
func ParseInterval(start, end string) (Interval, bool) {
	s, ok := Parse(start)
	if !ok {
		return Interval{}, false
	}
	e, ok := Parse(end)
	if !ok || e < s {
		return Interval{}, false
	}
	return Interval{Start: s, End: e}, true
}
