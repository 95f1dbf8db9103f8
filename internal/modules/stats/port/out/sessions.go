package out

import (
	"context"
	"time"

	sessiondomain "efforts/internal/modules/session/domain"
)

// SessionRangeReader returns completed sessions whose start falls within
// [start, end], oldest first.
type SessionRangeReader interface {
	GetInRange(ctx context.Context, start, end time.Time) ([]sessiondomain.Session, error)
}
