package out

import (
	"context"

	"efforts/internal/modules/timer/domain"
)

// Notifier delivers best-effort notifications. Callers log and drop errors.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}
