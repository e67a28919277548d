package entity

import (
	"fmt"
	"time"
)

const clockLayout = "15:04"

// ParseClock parses an "HH:MM" wall clock value into minutes after midnight.
func ParseClock(v string) (int, error) {
	t, err := time.Parse(clockLayout, v)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", v, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// weeklyWindowCovers reports whether now falls inside the [from, to) window
// starting on weekday. A window whose end is not after its start runs past
// midnight into the next day.
func weeklyWindowCovers(weekday int, from, to string, now time.Time) bool {
	start, err := ParseClock(from)
	if err != nil {
		return false
	}
	end, err := ParseClock(to)
	if err != nil {
		return false
	}
	m := now.Hour()*60 + now.Minute()
	today := int(now.Weekday())
	if end > start {
		return weekday == today && m >= start && m < end
	}
	if weekday == today && m >= start {
		return true
	}
	return weekday == (today+6)%7 && m < end
}
