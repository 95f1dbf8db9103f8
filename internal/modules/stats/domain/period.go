package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "efforts/internal/platform/errors"
)

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Periods lists the supported granularities, finest first.
var Periods = []Period{PeriodDay, PeriodWeek, PeriodMonth}

func ParsePeriod(raw string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unsupported period %q", apperrors.ErrInvalidRange, raw)
	}
}

// DateRange is inclusive on both ends; End is one millisecond before the
// next range starts.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Bounds returns the calendar-aligned range containing now and the range of
// the same granularity immediately before it, in now's location.
func Bounds(now time.Time, period Period, weekStart time.Weekday) (DateRange, DateRange, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var start, next, prev time.Time
	switch period {
	case PeriodDay:
		start = day
		next = start.AddDate(0, 0, 1)
		prev = start.AddDate(0, 0, -1)
	case PeriodWeek:
		offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
		start = day.AddDate(0, 0, -offset)
		next = start.AddDate(0, 0, 7)
		prev = start.AddDate(0, 0, -7)
	case PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		next = start.AddDate(0, 1, 0)
		prev = start.AddDate(0, -1, 0)
	default:
		return DateRange{}, DateRange{}, fmt.Errorf("%w: unsupported period %q", apperrors.ErrInvalidRange, string(period))
	}
	current := DateRange{Start: start, End: next.Add(-time.Millisecond)}
	previous := DateRange{Start: prev, End: start.Add(-time.Millisecond)}
	return current, previous, nil
}
