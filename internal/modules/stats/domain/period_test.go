package domain_test

import (
	"errors"
	"testing"
	"time"

	"efforts/internal/modules/stats/domain"
	apperrors "efforts/internal/platform/errors"
)

func ms(t time.Time) time.Time {
	return t.Add(-time.Millisecond)
}

func TestBounds(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC-5", -5*60*60)
	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, loc) }

	cases := []struct {
		name      string
		now       time.Time
		period    domain.Period
		weekStart time.Weekday
		current   domain.DateRange
		previous  domain.DateRange
	}{
		{
			name:     "day across year boundary",
			now:      time.Date(2026, 1, 1, 8, 30, 0, 0, loc),
			period:   domain.PeriodDay,
			current:  domain.DateRange{Start: d(2026, 1, 1), End: ms(d(2026, 1, 2))},
			previous: domain.DateRange{Start: d(2025, 12, 31), End: ms(d(2026, 1, 1))},
		},
		{
			name:      "week starting sunday across month boundary",
			now:       time.Date(2026, 4, 1, 12, 0, 0, 0, loc), // Wednesday
			period:    domain.PeriodWeek,
			weekStart: time.Sunday,
			current:   domain.DateRange{Start: d(2026, 3, 29), End: ms(d(2026, 4, 5))},
			previous:  domain.DateRange{Start: d(2026, 3, 22), End: ms(d(2026, 3, 29))},
		},
		{
			name:      "week starting monday on a sunday",
			now:       time.Date(2026, 4, 5, 23, 0, 0, 0, loc),
			period:    domain.PeriodWeek,
			weekStart: time.Monday,
			current:   domain.DateRange{Start: d(2026, 3, 30), End: ms(d(2026, 4, 6))},
			previous:  domain.DateRange{Start: d(2026, 3, 23), End: ms(d(2026, 3, 30))},
		},
		{
			name:     "month in january",
			now:      time.Date(2026, 1, 31, 23, 59, 0, 0, loc),
			period:   domain.PeriodMonth,
			current:  domain.DateRange{Start: d(2026, 1, 1), End: ms(d(2026, 2, 1))},
			previous: domain.DateRange{Start: d(2025, 12, 1), End: ms(d(2026, 1, 1))},
		},
		{
			name:     "month after february",
			now:      time.Date(2028, 3, 31, 10, 0, 0, 0, loc),
			period:   domain.PeriodMonth,
			current:  domain.DateRange{Start: d(2028, 3, 1), End: ms(d(2028, 4, 1))},
			previous: domain.DateRange{Start: d(2028, 2, 1), End: ms(d(2028, 3, 1))},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			current, previous, err := domain.Bounds(tc.now, tc.period, tc.weekStart)
			if err != nil {
				t.Fatalf("bounds: %v", err)
			}
			if !current.Start.Equal(tc.current.Start) || !current.End.Equal(tc.current.End) {
				t.Fatalf("current: expected %v..%v, got %v..%v", tc.current.Start, tc.current.End, current.Start, current.End)
			}
			if !previous.Start.Equal(tc.previous.Start) || !previous.End.Equal(tc.previous.End) {
				t.Fatalf("previous: expected %v..%v, got %v..%v", tc.previous.Start, tc.previous.End, previous.Start, previous.End)
			}
			if !current.Contains(tc.now) || previous.Contains(tc.now) {
				t.Fatalf("now must fall in the current range only")
			}
		})
	}
}

func TestBoundsRejectsUnknownPeriod(t *testing.T) {
	t.Parallel()
	if _, _, err := domain.Bounds(time.Now(), domain.Period("year"), time.Sunday); !errors.Is(err, apperrors.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := domain.ParsePeriod("fortnight"); !errors.Is(err, apperrors.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if p, err := domain.ParsePeriod(" Week "); err != nil || p != domain.PeriodWeek {
		t.Fatalf("expected week, got %q (%v)", p, err)
	}
}
