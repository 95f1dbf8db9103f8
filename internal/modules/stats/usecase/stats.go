package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	sessiondomain "efforts/internal/modules/session/domain"
	"efforts/internal/modules/stats/domain"
	"efforts/internal/modules/stats/dto"
	statsin "efforts/internal/modules/stats/port/in"
	"efforts/internal/modules/stats/service"
)

// Interactor computes period comparisons and keeps the latest result per
// period for display.
type Interactor struct {
	svc    *service.StatsService
	logger zerolog.Logger

	mu      sync.Mutex
	latest  map[domain.Period]dto.ComparisonOutput
	lastErr error
}

func NewInteractor(svc *service.StatsService, logger zerolog.Logger) statsin.Usecase {
	return &Interactor{
		svc:    svc,
		logger: logger.With().Str("component", "stats").Logger(),
		latest: make(map[domain.Period]dto.ComparisonOutput),
	}
}

func (i *Interactor) LoadStats(ctx context.Context, period string) (dto.ComparisonOutput, error) {
	p, err := domain.ParsePeriod(period)
	if err != nil {
		return dto.ComparisonOutput{}, i.fail(err)
	}
	cmp, err := i.svc.Compare(ctx, p)
	if err != nil {
		return dto.ComparisonOutput{}, i.fail(err)
	}
	out := toOutput(cmp)
	i.mu.Lock()
	i.latest[p] = out
	i.mu.Unlock()
	return out, nil
}

// LoadAll refreshes every period. A failing period does not stop the
// others; the joined errors are returned.
func (i *Interactor) LoadAll(ctx context.Context) error {
	var errs []error
	for _, p := range domain.Periods {
		if _, err := i.LoadStats(ctx, string(p)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (i *Interactor) Daily() (dto.ComparisonOutput, bool) {
	return i.cached(domain.PeriodDay)
}

func (i *Interactor) Weekly() (dto.ComparisonOutput, bool) {
	return i.cached(domain.PeriodWeek)
}

func (i *Interactor) Monthly() (dto.ComparisonOutput, bool) {
	return i.cached(domain.PeriodMonth)
}

func (i *Interactor) LastError() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.lastErr
}

func (i *Interactor) SessionsInRange(ctx context.Context, start, end time.Time) ([]dto.SessionRow, error) {
	sessions, err := i.svc.InRange(ctx, start, end)
	if err != nil {
		return nil, i.fail(err)
	}
	rows := make([]dto.SessionRow, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, dto.SessionRow{
			ID:             s.ID,
			Title:          s.Title(),
			StartTime:      s.StartTime,
			ActualDuration: s.ActualDuration,
			Quality:        string(s.Quality),
			Points:         s.Points(),
		})
	}
	return rows, nil
}

func (i *Interactor) cached(p domain.Period) (dto.ComparisonOutput, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	out, ok := i.latest[p]
	return out, ok
}

func (i *Interactor) fail(err error) error {
	i.mu.Lock()
	i.lastErr = err
	i.mu.Unlock()
	i.logger.Warn().Err(err).Msg("stats query failed")
	return err
}

func toOutput(cmp service.Comparison) dto.ComparisonOutput {
	return dto.ComparisonOutput{
		Period:        string(cmp.Period),
		CurrentRange:  dto.RangeOutput{Start: cmp.Current.Start, End: cmp.Current.End},
		PreviousRange: dto.RangeOutput{Start: cmp.Previous.Start, End: cmp.Previous.End},
		Current:       toStats(cmp.Stats.Current),
		Previous:      toStats(cmp.Stats.Previous),
		Change: dto.ChangeOutput{
			TotalSessions:        cmp.Stats.PercentageChange.TotalSessions,
			TotalFocusTime:       cmp.Stats.PercentageChange.TotalFocusTime,
			TotalPoints:          cmp.Stats.PercentageChange.TotalPoints,
			AverageSessionLength: cmp.Stats.PercentageChange.AverageSessionLength,
		},
	}
}

func toStats(s domain.SessionStats) dto.StatsOutput {
	dist := make(map[string]int, len(s.QualityDistribution))
	for _, q := range sessiondomain.Qualities {
		dist[string(q)] = s.QualityDistribution[q]
	}
	return dto.StatsOutput{
		TotalSessions:        s.TotalSessions,
		TotalFocusTime:       s.TotalFocusTime,
		TotalPoints:          s.TotalPoints,
		QualityDistribution:  dist,
		AverageSessionLength: s.AverageSessionLength,
	}
}
