// Package timefmt renders durations and timestamps for display.
package timefmt

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Duration formats whole minutes as "45m", "2h" or "1h 30m".
func Duration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	hours := minutes / 60
	mins := minutes % 60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", mins)
	case mins == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
}

// Clock formats seconds as MM:SS. Minutes are not wrapped at 60.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Date formats t as YYYY-MM-DD in its own location.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// HourMinute formats t as HH:MM in its own location.
func HourMinute(t time.Time) string {
	return t.Format(ClockLayout)
}

// Percent renders a signed percentage change such as "+12.5%" or "-3.0%".
func Percent(change float64) string {
	return fmt.Sprintf("%+.1f%%", change)
}
