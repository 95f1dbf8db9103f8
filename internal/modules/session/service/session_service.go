package service

import (
	"context"
	"errors"
	"time"

	"efforts/internal/modules/session/domain"
	sessionout "efforts/internal/modules/session/port/out"
	"efforts/internal/platform/clock"
	apperrors "efforts/internal/platform/errors"
	"efforts/internal/platform/id"
)

// SessionService applies lifecycle transitions to session records and
// persists them. It holds no in-memory state.
type SessionService struct {
	clock   clock.Clock
	idGen   id.Generator
	store   sessionout.SessionStore
	metrics sessionout.Metrics
}

func NewSessionService(clock clock.Clock, idGen id.Generator, store sessionout.SessionStore, metrics sessionout.Metrics) *SessionService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &SessionService{clock: clock, idGen: idGen, store: store, metrics: metrics}
}

func (s *SessionService) Now() time.Time {
	return s.clock.Now()
}

func (s *SessionService) Start(ctx context.Context, goals string, plannedDuration int) (domain.Session, error) {
	session, err := domain.New(s.idGen.New(), goals, plannedDuration, s.clock.Now())
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.save(ctx, "start", session); err != nil {
		return domain.Session{}, err
	}
	s.metrics.SessionStarted(plannedDuration)
	return session, nil
}

func (s *SessionService) Update(ctx context.Context, active domain.Session, patch domain.SessionPatch) (domain.Session, error) {
	updated, err := patch.Apply(active)
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.save(ctx, "update", updated); err != nil {
		return domain.Session{}, err
	}
	return updated, nil
}

func (s *SessionService) End(ctx context.Context, active domain.Session) (domain.Session, error) {
	ended := active.End(s.clock.Now())
	if err := s.save(ctx, "end", ended); err != nil {
		return domain.Session{}, err
	}
	return ended, nil
}

func (s *SessionService) Rate(ctx context.Context, active domain.Session, quality domain.Quality, notes string) (domain.Session, error) {
	rated, err := active.Rate(quality, notes, s.clock.Now())
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.save(ctx, "rate", rated); err != nil {
		return domain.Session{}, err
	}
	s.metrics.SessionCompleted(rated.Quality, rated.ActualDuration, rated.Points())
	return rated, nil
}

func (s *SessionService) Cancel(ctx context.Context, active domain.Session) (domain.Session, error) {
	cancelled := active.Cancel(s.clock.Now())
	if err := s.save(ctx, "cancel", cancelled); err != nil {
		return domain.Session{}, err
	}
	s.metrics.SessionCancelled()
	return cancelled, nil
}

func (s *SessionService) Active(ctx context.Context) (domain.Session, error) {
	session, err := s.store.GetActive(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNoActiveSession) {
			s.metrics.OperationFailed("get_active")
		}
		return domain.Session{}, err
	}
	return session, nil
}

// Today returns completed sessions for the current local day.
func (s *SessionService) Today(ctx context.Context) ([]domain.Session, error) {
	return s.ForDay(ctx, s.clock.Now())
}

func (s *SessionService) ForDay(ctx context.Context, date time.Time) ([]domain.Session, error) {
	sessions, err := s.store.GetForDay(ctx, date)
	if err != nil {
		s.metrics.OperationFailed("get_for_day")
		return nil, err
	}
	return sessions, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (domain.Session, error) {
	return s.store.Get(ctx, id)
}

func (s *SessionService) List(ctx context.Context) ([]domain.Session, error) {
	return s.store.GetAll(ctx)
}

func (s *SessionService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		s.metrics.OperationFailed("delete")
		return err
	}
	return nil
}

func (s *SessionService) save(ctx context.Context, op string, session domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	if _, err := s.store.Put(ctx, session); err != nil {
		s.metrics.OperationFailed(op)
		return err
	}
	return nil
}

type noopMetrics struct{}

func (noopMetrics) SessionStarted(int)                        {}
func (noopMetrics) SessionCompleted(domain.Quality, int, int) {}
func (noopMetrics) SessionCancelled()                         {}
func (noopMetrics) OperationFailed(string)                    {}
