package out

import (
	"context"
	"time"

	"efforts/internal/modules/session/domain"
)

// SessionStore is the persistence collaborator. GetInRange bounds are
// inclusive and only completed sessions are returned, oldest first.
type SessionStore interface {
	Put(ctx context.Context, session domain.Session) (string, error)
	Get(ctx context.Context, id string) (domain.Session, error)
	GetAll(ctx context.Context) ([]domain.Session, error)
	GetActive(ctx context.Context) (domain.Session, error)
	GetInRange(ctx context.Context, start, end time.Time) ([]domain.Session, error)
	GetForDay(ctx context.Context, date time.Time) ([]domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// ReportWriter persists rendered exports and returns where they landed.
type ReportWriter interface {
	WriteDaily(ctx context.Context, date time.Time, sessions []domain.Session, report string) (string, error)
	WriteSession(ctx context.Context, session domain.Session, report string) (string, error)
}

// Metrics receives lifecycle events.
type Metrics interface {
	SessionStarted(planned int)
	SessionCompleted(quality domain.Quality, minutes, points int)
	SessionCancelled()
	OperationFailed(op string)
}
