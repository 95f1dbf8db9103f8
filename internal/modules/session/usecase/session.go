package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"efforts/internal/modules/session/domain"
	"efforts/internal/modules/session/dto"
	sessionin "efforts/internal/modules/session/port/in"
	sessionout "efforts/internal/modules/session/port/out"
	"efforts/internal/modules/session/service"
	apperrors "efforts/internal/platform/errors"
)

// Interactor owns the active-session slot and today's completed sessions.
// Every mutation is persisted before memory changes.
type Interactor struct {
	svc     *service.SessionService
	reports sessionout.ReportWriter
	logger  zerolog.Logger

	mu      sync.Mutex
	active  *domain.Session
	today   []domain.Session
	lastErr error

	subsMu  sync.Mutex
	nextSub int
	subs    map[int]func(dto.SessionOutput, bool)
}

func NewInteractor(svc *service.SessionService, reports sessionout.ReportWriter, logger zerolog.Logger) sessionin.Usecase {
	return &Interactor{
		svc:     svc,
		reports: reports,
		logger:  logger.With().Str("component", "session").Logger(),
		subs:    make(map[int]func(dto.SessionOutput, bool)),
	}
}

func (i *Interactor) Init(ctx context.Context) error {
	if _, _, err := i.LoadActiveSession(ctx); err != nil {
		return err
	}
	_, err := i.LoadTodaySessions(ctx)
	return err
}

// StartSession checks the store as well as the slot, since another process
// may have started a session since the slot was loaded.
func (i *Interactor) StartSession(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error) {
	i.mu.Lock()
	if i.active != nil {
		err := i.fail("start", apperrors.ErrActiveSessionExists)
		i.mu.Unlock()
		return dto.SessionOutput{}, err
	}
	stored, err := i.svc.Active(ctx)
	switch {
	case err == nil:
		i.active = &stored
		err = i.fail("start", apperrors.ErrActiveSessionExists)
		i.mu.Unlock()
		i.publish(toOutput(stored), true)
		return dto.SessionOutput{}, err
	case !errors.Is(err, apperrors.ErrNoActiveSession):
		err = i.fail("start", err)
		i.mu.Unlock()
		return dto.SessionOutput{}, err
	}
	session, err := i.svc.Start(ctx, input.Goals, input.PlannedDuration)
	if err != nil {
		err = i.fail("start", err)
		i.mu.Unlock()
		return dto.SessionOutput{}, err
	}
	i.active = &session
	i.mu.Unlock()

	i.logger.Info().Str("session_id", session.ID).Int("planned", session.PlannedDuration).Msg("session started")
	out := toOutput(session)
	i.publish(out, true)
	return out, nil
}

func (i *Interactor) UpdateActiveSession(ctx context.Context, input dto.UpdateInput) (dto.SessionOutput, error) {
	patch := domain.SessionPatch{Goals: input.Goals, PlannedDuration: input.PlannedDuration, Notes: input.Notes}

	i.mu.Lock()
	if i.active == nil {
		err := i.fail("update", apperrors.ErrNoActiveSession)
		i.mu.Unlock()
		return dto.SessionOutput{}, err
	}
	if patch.Empty() {
		out := toOutput(*i.active)
		i.mu.Unlock()
		return out, nil
	}
	updated, err := i.svc.Update(ctx, *i.active, patch)
	if err != nil {
		err = i.fail("update", err)
		i.mu.Unlock()
		return dto.SessionOutput{}, err
	}
	i.active = &updated
	i.mu.Unlock()

	out := toOutput(updated)
	i.publish(out, true)
	return out, nil
}

// EndSession closes timing but leaves the session active until it is rated
// or cancelled. Calling it again recomputes against the current time.
func (i *Interactor) EndSession(ctx context.Context) (dto.SessionOutput, error) {
	i.mu.Lock()
	if i.active == nil {
		err := i.fail("end", apperrors.ErrNoActiveSession)
		i.mu.Unlock()
		return dto.SessionOutput{}, err
	}
	ended, err := i.svc.End(ctx, *i.active)
	if err != nil {
		err = i.fail("end", err)
		i.mu.Unlock()
		return dto.SessionOutput{}, err
	}
	i.active = &ended
	i.mu.Unlock()

	i.logger.Info().Str("session_id", ended.ID).Int("actual", ended.ActualDuration).Int("overtime", ended.Overtime).Msg("session ended")
	out := toOutput(ended)
	i.publish(out, true)
	return out, nil
}

func (i *Interactor) RateSession(ctx context.Context, input dto.RateInput) (dto.SessionOutput, error) {
	return i.finish("rate", func(ctx context.Context, active domain.Session) (domain.Session, error) {
		quality, err := domain.ParseQuality(input.Quality)
		if err != nil {
			return domain.Session{}, err
		}
		return i.svc.Rate(ctx, active, quality, input.Notes)
	})(ctx)
}

func (i *Interactor) CancelSession(ctx context.Context) (dto.SessionOutput, error) {
	return i.finish("cancel", i.svc.Cancel)(ctx)
}

// finish applies a terminal transition, clears the slot and reloads today's
// sessions. A failed reload still reports the finished session alongside the
// error since the transition itself is already durable.
func (i *Interactor) finish(op string, transition func(context.Context, domain.Session) (domain.Session, error)) func(context.Context) (dto.SessionOutput, error) {
	return func(ctx context.Context) (dto.SessionOutput, error) {
		i.mu.Lock()
		if i.active == nil {
			err := i.fail(op, apperrors.ErrNoActiveSession)
			i.mu.Unlock()
			return dto.SessionOutput{}, err
		}
		done, err := transition(ctx, *i.active)
		if err != nil {
			err = i.fail(op, err)
			i.mu.Unlock()
			return dto.SessionOutput{}, err
		}
		i.active = nil
		today, reloadErr := i.svc.Today(ctx)
		if reloadErr != nil {
			reloadErr = i.fail(op, fmt.Errorf("reload today's sessions: %w", reloadErr))
		} else {
			i.today = today
		}
		i.mu.Unlock()

		i.logger.Info().Str("session_id", done.ID).Str("status", string(done.Status)).Int("points", done.Points()).Msg("session finished")
		i.publish(dto.SessionOutput{}, false)
		return toOutput(done), reloadErr
	}
}

func (i *Interactor) LoadActiveSession(ctx context.Context) (dto.SessionOutput, bool, error) {
	i.mu.Lock()
	session, err := i.svc.Active(ctx)
	switch {
	case errors.Is(err, apperrors.ErrNoActiveSession):
		i.active = nil
	case err != nil:
		err = i.fail("load_active", err)
		i.mu.Unlock()
		return dto.SessionOutput{}, false, err
	default:
		i.active = &session
	}
	ok := i.active != nil
	i.mu.Unlock()

	var out dto.SessionOutput
	if ok {
		out = toOutput(session)
	}
	i.publish(out, ok)
	return out, ok, nil
}

func (i *Interactor) LoadTodaySessions(ctx context.Context) ([]dto.SessionOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	today, err := i.svc.Today(ctx)
	if err != nil {
		return nil, i.fail("load_today", err)
	}
	i.today = today
	return toOutputs(today), nil
}

func (i *Interactor) GetSession(ctx context.Context, id string) (dto.SessionOutput, error) {
	session, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.SessionOutput{}, i.record("get", err)
	}
	return toOutput(session), nil
}

func (i *Interactor) ListSessions(ctx context.Context) ([]dto.SessionOutput, error) {
	sessions, err := i.svc.List(ctx)
	if err != nil {
		return nil, i.record("list", err)
	}
	return toOutputs(sessions), nil
}

// DeleteSession removes a stored session. The active session must be
// cancelled first.
func (i *Interactor) DeleteSession(ctx context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.active != nil && i.active.ID == id {
		return i.fail("delete", apperrors.ErrActiveSessionExists)
	}
	if err := i.svc.Delete(ctx, id); err != nil {
		return i.fail("delete", err)
	}
	kept := make([]domain.Session, 0, len(i.today))
	for _, s := range i.today {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	i.today = kept
	return nil
}

func (i *Interactor) ExportDay(ctx context.Context, date time.Time, write bool) (dto.ExportOutput, error) {
	sessions, err := i.svc.ForDay(ctx, date)
	if err != nil {
		return dto.ExportOutput{}, i.record("export_day", err)
	}
	out := dto.ExportOutput{Markdown: domain.DailyReport(sessions, date)}
	if !write {
		return out, nil
	}
	if i.reports == nil {
		return dto.ExportOutput{}, i.record("export_day", errors.New("report writer is not configured"))
	}
	out.Path, err = i.reports.WriteDaily(ctx, date, sessions, out.Markdown)
	if err != nil {
		return dto.ExportOutput{}, i.record("export_day", err)
	}
	return out, nil
}

func (i *Interactor) ExportSession(ctx context.Context, id string, write bool) (dto.ExportOutput, error) {
	session, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.ExportOutput{}, i.record("export_session", err)
	}
	out := dto.ExportOutput{Markdown: domain.ToMarkdown(session)}
	if !write {
		return out, nil
	}
	if i.reports == nil {
		return dto.ExportOutput{}, i.record("export_session", errors.New("report writer is not configured"))
	}
	out.Path, err = i.reports.WriteSession(ctx, session, out.Markdown)
	if err != nil {
		return dto.ExportOutput{}, i.record("export_session", err)
	}
	return out, nil
}

func (i *Interactor) ActiveSession() (dto.SessionOutput, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.active == nil {
		return dto.SessionOutput{}, false
	}
	return toOutput(*i.active), true
}

func (i *Interactor) TodaySessions() []dto.SessionOutput {
	i.mu.Lock()
	defer i.mu.Unlock()
	return toOutputs(i.today)
}

func (i *Interactor) TotalPointsToday() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	total := 0
	for _, s := range i.today {
		total += s.Points()
	}
	return total
}

func (i *Interactor) TotalMinutesToday() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	total := 0
	for _, s := range i.today {
		if s.Status == domain.StatusCompleted {
			total += s.ActualDuration
		}
	}
	return total
}

func (i *Interactor) LastError() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.lastErr
}

// Subscribe registers fn for active-slot changes. fn runs on the goroutine
// that made the change, after the manager's lock is released.
func (i *Interactor) Subscribe(fn func(active dto.SessionOutput, ok bool)) func() {
	i.subsMu.Lock()
	key := i.nextSub
	i.nextSub++
	i.subs[key] = fn
	i.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			i.subsMu.Lock()
			delete(i.subs, key)
			i.subsMu.Unlock()
		})
	}
}

func (i *Interactor) publish(active dto.SessionOutput, ok bool) {
	i.subsMu.Lock()
	fns := make([]func(dto.SessionOutput, bool), 0, len(i.subs))
	for _, fn := range i.subs {
		fns = append(fns, fn)
	}
	i.subsMu.Unlock()
	for _, fn := range fns {
		fn(active, ok)
	}
}

// fail records err as the last error. Callers hold i.mu.
func (i *Interactor) fail(op string, err error) error {
	i.lastErr = err
	i.logger.Warn().Err(err).Str("op", op).Msg("session operation failed")
	return err
}

func (i *Interactor) record(op string, err error) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.fail(op, err)
}

func toOutput(s domain.Session) dto.SessionOutput {
	return dto.SessionOutput{
		ID:              s.ID,
		Title:           s.Title(),
		Goals:           s.Goals,
		PlannedDuration: s.PlannedDuration,
		ActualDuration:  s.ActualDuration,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		Overtime:        s.Overtime,
		Quality:         string(s.Quality),
		Notes:           s.Notes,
		Status:          string(s.Status),
		Points:          s.Points(),
	}
}

func toOutputs(sessions []domain.Session) []dto.SessionOutput {
	out := make([]dto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toOutput(s))
	}
	return out
}
