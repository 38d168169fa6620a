package kpi

import (
	"time"
)

// TrailingWindow is a fixed-length range of calendar days ending at the
// latest observed date in a dataset. Both ends are inclusive.
type TrailingWindow struct {
	Start time.Time
	End   time.Time
}

// DayFloor normalizes a timestamp to the beginning of its calendar day.
func DayFloor(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NewTrailingWindow returns the window of `days` calendar days ending at
// the day of `end`, i.e. [end-(days-1), end].
func NewTrailingWindow(end time.Time, days int) TrailingWindow {
	day := DayFloor(end)
	return TrailingWindow{
		Start: day.AddDate(0, 0, -(days - 1)),
		End:   day,
	}
}

// Contains reports whether t's calendar day falls inside the window.
func (w TrailingWindow) Contains(t time.Time) bool {
	day := DayFloor(t)
	return !day.Before(w.Start) && !day.After(w.End)
}

// maxDay returns the latest calendar day among ts. The boolean is false
// when ts is empty.
func maxDay(ts []time.Time) (time.Time, bool) {
	var max time.Time
	found := false
	for _, t := range ts {
		day := DayFloor(t)
		if !found || day.After(max) {
			max = day
			found = true
		}
	}
	return max, found
}
