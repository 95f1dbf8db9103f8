package in

import (
	"context"
	"fmt"
	"strings"
	"time"

	sessiondto "efforts/internal/modules/session/dto"
	sessionin "efforts/internal/modules/session/port/in"
	"efforts/internal/platform/clock"
	apperrors "efforts/internal/platform/errors"
	"efforts/internal/platform/timefmt"
)

// CLIHandler adapts command-line arguments to the lifecycle usecase. Every
// call loads persisted state first because each CLI invocation is a fresh
// process.
type CLIHandler struct {
	usecase sessionin.Usecase
	clock   clock.Clock
}

func NewCLIHandler(usecase sessionin.Usecase, clock clock.Clock) CLIHandler {
	return CLIHandler{usecase: usecase, clock: clock}
}

func (h CLIHandler) Start(ctx context.Context, goals string, planned int) (sessiondto.SessionOutput, error) {
	if err := h.usecase.Init(ctx); err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return h.usecase.StartSession(ctx, sessiondto.StartInput{Goals: goals, PlannedDuration: planned})
}

func (h CLIHandler) Update(ctx context.Context, input sessiondto.UpdateInput) (sessiondto.SessionOutput, error) {
	if err := h.usecase.Init(ctx); err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return h.usecase.UpdateActiveSession(ctx, input)
}

func (h CLIHandler) End(ctx context.Context) (sessiondto.SessionOutput, error) {
	if err := h.usecase.Init(ctx); err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return h.usecase.EndSession(ctx)
}

func (h CLIHandler) Rate(ctx context.Context, quality, notes string) (sessiondto.SessionOutput, error) {
	if err := h.usecase.Init(ctx); err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return h.usecase.RateSession(ctx, sessiondto.RateInput{Quality: quality, Notes: notes})
}

func (h CLIHandler) Cancel(ctx context.Context) (sessiondto.SessionOutput, error) {
	if err := h.usecase.Init(ctx); err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return h.usecase.CancelSession(ctx)
}

func (h CLIHandler) Active(ctx context.Context) (sessiondto.SessionOutput, error) {
	active, ok, err := h.usecase.LoadActiveSession(ctx)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	if !ok {
		return sessiondto.SessionOutput{}, apperrors.ErrNoActiveSession
	}
	return active, nil
}

func (h CLIHandler) Today(ctx context.Context) ([]sessiondto.SessionOutput, error) {
	return h.usecase.LoadTodaySessions(ctx)
}

func (h CLIHandler) List(ctx context.Context) ([]sessiondto.SessionOutput, error) {
	return h.usecase.ListSessions(ctx)
}

func (h CLIHandler) Get(ctx context.Context, id string) (sessiondto.SessionOutput, error) {
	return h.usecase.GetSession(ctx, id)
}

func (h CLIHandler) Delete(ctx context.Context, id string) error {
	if err := h.usecase.Init(ctx); err != nil {
		return err
	}
	return h.usecase.DeleteSession(ctx, id)
}

// ExportDay accepts "", "today", "yesterday" or a YYYY-MM-DD date.
func (h CLIHandler) ExportDay(ctx context.Context, day string, write bool) (sessiondto.ExportOutput, error) {
	date, err := h.ParseDay(day)
	if err != nil {
		return sessiondto.ExportOutput{}, err
	}
	return h.usecase.ExportDay(ctx, date, write)
}

func (h CLIHandler) ExportSession(ctx context.Context, id string, write bool) (sessiondto.ExportOutput, error) {
	return h.usecase.ExportSession(ctx, id, write)
}

func (h CLIHandler) ParseDay(day string) (time.Time, error) {
	now := h.clock.Now()
	switch strings.ToLower(strings.TrimSpace(day)) {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	date, err := time.ParseInLocation(timefmt.DateLayout, strings.TrimSpace(day), now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", apperrors.ErrInvalidInput, day)
	}
	return date, nil
}
