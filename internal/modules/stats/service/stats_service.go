package service

import (
	"context"
	"fmt"
	"time"

	sessiondomain "efforts/internal/modules/session/domain"
	"efforts/internal/modules/stats/domain"
	statsout "efforts/internal/modules/stats/port/out"
	"efforts/internal/platform/clock"
	apperrors "efforts/internal/platform/errors"
)

// Comparison is a period's stats with the ranges they were computed over.
type Comparison struct {
	Period   domain.Period
	Current  domain.DateRange
	Previous domain.DateRange
	Stats    domain.ComparableStats
}

type StatsService struct {
	clock     clock.Clock
	reader    statsout.SessionRangeReader
	weekStart time.Weekday
}

func NewStatsService(clock clock.Clock, reader statsout.SessionRangeReader, weekStart time.Weekday) *StatsService {
	return &StatsService{clock: clock, reader: reader, weekStart: weekStart}
}

func (s *StatsService) Compare(ctx context.Context, period domain.Period) (Comparison, error) {
	current, previous, err := domain.Bounds(s.clock.Now(), period, s.weekStart)
	if err != nil {
		return Comparison{}, err
	}
	cur, err := s.reader.GetInRange(ctx, current.Start, current.End)
	if err != nil {
		return Comparison{}, err
	}
	prev, err := s.reader.GetInRange(ctx, previous.Start, previous.End)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{
		Period:   period,
		Current:  current,
		Previous: previous,
		Stats:    domain.CompareStats(cur, prev),
	}, nil
}

func (s *StatsService) InRange(ctx context.Context, start, end time.Time) ([]sessiondomain.Session, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: range end %s is before start %s", apperrors.ErrInvalidRange, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return s.reader.GetInRange(ctx, start, end)
}
