package in

import (
	"context"
	"time"

	"efforts/internal/modules/session/dto"
)

// Usecase is the session lifecycle manager.
type Usecase interface {
	Init(ctx context.Context) error
	StartSession(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error)
	UpdateActiveSession(ctx context.Context, input dto.UpdateInput) (dto.SessionOutput, error)
	EndSession(ctx context.Context) (dto.SessionOutput, error)
	RateSession(ctx context.Context, input dto.RateInput) (dto.SessionOutput, error)
	CancelSession(ctx context.Context) (dto.SessionOutput, error)
	LoadActiveSession(ctx context.Context) (dto.SessionOutput, bool, error)
	LoadTodaySessions(ctx context.Context) ([]dto.SessionOutput, error)

	GetSession(ctx context.Context, id string) (dto.SessionOutput, error)
	ListSessions(ctx context.Context) ([]dto.SessionOutput, error)
	DeleteSession(ctx context.Context, id string) error

	ExportDay(ctx context.Context, date time.Time, write bool) (dto.ExportOutput, error)
	ExportSession(ctx context.Context, id string, write bool) (dto.ExportOutput, error)

	ActiveSession() (dto.SessionOutput, bool)
	TodaySessions() []dto.SessionOutput
	TotalPointsToday() int
	TotalMinutesToday() int
	LastError() error
	Subscribe(fn func(active dto.SessionOutput, ok bool)) (unsubscribe func())
}
