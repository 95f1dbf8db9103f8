package out

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"efforts/internal/modules/timer/domain"
	timerout "efforts/internal/modules/timer/port/out"
)

// LogNotifier writes notifications to the application log.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notifier").Logger()}
}

func (n *LogNotifier) Notify(_ context.Context, msg domain.Notification) error {
	n.logger.Info().
		Str("title", msg.Title).
		Str("body", msg.Body).
		Bool("require_interaction", msg.RequireInteraction).
		Msg("notification")
	return nil
}

// BellNotifier rings the terminal bell and prints the notification.
type BellNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func NewBellNotifier(out io.Writer) *BellNotifier {
	return &BellNotifier{out: out}
}

func (n *BellNotifier) Notify(_ context.Context, msg domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	title := color.New(color.FgYellow, color.Bold).Sprint(msg.Title)
	if _, err := fmt.Fprintf(n.out, "\a%s %s\n", title, msg.Body); err != nil {
		return fmt.Errorf("ring bell: %w", err)
	}
	return nil
}

// ErrNotificationDropped is returned when a ChannelNotifier buffer is full.
var ErrNotificationDropped = errors.New("notification dropped: receiver is not keeping up")

// ChannelNotifier hands notifications to a receiver such as the TUI loop.
// Sends never block.
type ChannelNotifier struct {
	ch chan domain.Notification
}

func NewChannelNotifier(buffer int) *ChannelNotifier {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelNotifier{ch: make(chan domain.Notification, buffer)}
}

func (n *ChannelNotifier) Notify(ctx context.Context, msg domain.Notification) error {
	select {
	case n.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrNotificationDropped
	}
}

func (n *ChannelNotifier) C() <-chan domain.Notification {
	return n.ch
}

// MultiNotifier fans out to every notifier and joins their errors.
type MultiNotifier []timerout.Notifier

func (m MultiNotifier) Notify(ctx context.Context, msg domain.Notification) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
