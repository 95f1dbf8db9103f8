package out_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	timeradapter "efforts/internal/modules/timer/adapter/out"
	"efforts/internal/modules/timer/domain"
	timerout "efforts/internal/modules/timer/port/out"
)

var msg = domain.CompletionNotification("Deep Work")

func TestBellNotifierRingsAndPrints(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	if err := timeradapter.NewBellNotifier(&buf).Notify(context.Background(), msg); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if got := buf.String(); got != "\aDeep Work Completed! How would you rate your focus during this session?\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestLogNotifierWritesStructuredLine(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	n := timeradapter.NewLogNotifier(zerolog.New(&buf))
	if err := n.Notify(context.Background(), msg); err != nil {
		t.Fatalf("notify: %v", err)
	}
	line := buf.String()
	for _, want := range []string{`"title":"Deep Work Completed!"`, `"require_interaction":true`, `"component":"notifier"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line %s missing %s", line, want)
		}
	}
}

func TestChannelNotifierNeverBlocks(t *testing.T) {
	t.Parallel()
	n := timeradapter.NewChannelNotifier(1)
	ctx := context.Background()
	if err := n.Notify(ctx, msg); err != nil {
		t.Fatalf("first notify: %v", err)
	}
	if err := n.Notify(ctx, msg); !errors.Is(err, timeradapter.ErrNotificationDropped) {
		t.Fatalf("expected drop on full buffer, got %v", err)
	}
	if got := <-n.C(); got != msg {
		t.Fatalf("unexpected notification %+v", got)
	}
}

type failing struct{ err error }

func (f failing) Notify(context.Context, domain.Notification) error { return f.err }

func TestMultiNotifierDeliversToAllAndJoinsErrors(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	ch := timeradapter.NewChannelNotifier(1)
	multi := timeradapter.MultiNotifier{failing{boom}, nil, ch}
	var _ timerout.Notifier = multi

	if err := multi.Notify(context.Background(), msg); !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	select {
	case <-ch.C():
	default:
		t.Fatalf("later notifiers must still be called")
	}
}
