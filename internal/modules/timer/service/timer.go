package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"efforts/internal/modules/timer/domain"
	"efforts/internal/modules/timer/dto"
	timerin "efforts/internal/modules/timer/port/in"
	timerout "efforts/internal/modules/timer/port/out"
	"efforts/internal/platform/clock"
	"efforts/internal/platform/schedule"
)

const notifyTimeout = 5 * time.Second

type Config struct {
	TickInterval   time.Duration
	ResyncInterval time.Duration
}

// Timer derives live elapsed time for the tracked session. A fast tick
// advances the counter between resyncs, and each resync recomputes it from
// the wall clock to undo drift after sleep or throttling.
type Timer struct {
	clock     clock.Clock
	scheduler schedule.Scheduler
	notifier  timerout.Notifier
	logger    zerolog.Logger
	cfg       Config

	mu       sync.Mutex
	target   domain.Target
	tracking bool
	elapsed  int
	notified bool
	tick     schedule.Handle
	resync   schedule.Handle
}

func NewTimer(clock clock.Clock, scheduler schedule.Scheduler, notifier timerout.Notifier, logger zerolog.Logger, cfg Config) *Timer {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.ResyncInterval <= 0 {
		cfg.ResyncInterval = time.Minute
	}
	return &Timer{
		clock:     clock,
		scheduler: scheduler,
		notifier:  notifier,
		logger:    logger.With().Str("component", "timer").Logger(),
		cfg:       cfg,
	}
}

var _ timerin.Usecase = (*Timer)(nil)

// Track follows target. A different session resets the timer; a target that
// is no longer running stops it. Moving the plan past the elapsed time
// re-arms the overtime notification.
func (t *Timer) Track(target dto.Target) {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := domain.Target{
		Title:           target.Title,
		StartTime:       target.StartTime,
		PlannedDuration: target.PlannedDuration,
		Running:         target.Running,
	}
	switch {
	case !t.tracking || !t.target.StartTime.Equal(next.StartTime):
		t.resetLocked()
	case next.PlannedDuration != t.target.PlannedDuration && !domain.Overtime(next, t.elapsed):
		t.notified = false
	}
	t.target = next
	t.tracking = true
	if !target.Running {
		t.stopLocked()
	}
}

func (t *Timer) Untrack() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked()
	t.tracking = false
	t.target = domain.Target{}
}

// Start is a no-op while already running or without a running target.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.tick != nil || !t.tracking || !t.target.Running {
		t.mu.Unlock()
		return
	}
	t.elapsed = domain.ElapsedSince(t.target.StartTime, t.clock.Now())
	pending := t.checkLocked()
	t.tick = t.scheduler.Every(t.cfg.TickInterval, t.onTick)
	t.resync = t.scheduler.Every(t.cfg.ResyncInterval, t.Resync)
	title, elapsed := t.target.Title, t.elapsed
	t.mu.Unlock()

	t.logger.Debug().Str("title", title).Int("elapsed", elapsed).Msg("timer started")
	t.send(pending)
}

// Resync recomputes elapsed time from the wall clock. A stopped timer
// ignores it.
func (t *Timer) Resync() {
	t.mu.Lock()
	if t.tick == nil || !t.tracking || !t.target.Running {
		t.mu.Unlock()
		return
	}
	t.elapsed = domain.ElapsedSince(t.target.StartTime, t.clock.Now())
	pending := t.checkLocked()
	t.mu.Unlock()
	t.send(pending)
}

func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Reset stops the timer and clears elapsed time and the notification latch.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked()
}

func (t *Timer) Snapshot() dto.Snapshot {
	t.mu.Lock()
	s := domain.Derive(t.target, t.elapsed, t.tick != nil)
	t.mu.Unlock()
	return dto.Snapshot{
		Title:         s.Title,
		Elapsed:       s.Elapsed,
		Remaining:     s.Remaining,
		HasRemaining:  s.HasRemaining,
		IsOvertime:    s.IsOvertime,
		Progress:      s.Progress,
		Running:       s.Running,
		ElapsedText:   s.ElapsedText,
		RemainingText: s.RemainingText,
	}
}

func (t *Timer) onTick() {
	t.mu.Lock()
	if t.tick == nil {
		t.mu.Unlock()
		return
	}
	t.elapsed++
	pending := t.checkLocked()
	t.mu.Unlock()
	t.send(pending)
}

// checkLocked latches the overtime edge and returns the notification to send,
// if any.
func (t *Timer) checkLocked() *domain.Notification {
	if t.notified || !domain.Overtime(t.target, t.elapsed) {
		return nil
	}
	t.notified = true
	n := domain.CompletionNotification(t.target.Title)
	return &n
}

func (t *Timer) stopLocked() {
	if t.tick != nil {
		t.tick.Stop()
		t.tick = nil
	}
	if t.resync != nil {
		t.resync.Stop()
		t.resync = nil
	}
}

func (t *Timer) resetLocked() {
	t.stopLocked()
	t.elapsed = 0
	t.notified = false
}

func (t *Timer) send(n *domain.Notification) {
	if n == nil || t.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := t.notifier.Notify(ctx, *n); err != nil {
		t.logger.Warn().Err(err).Str("title", n.Title).Msg("notification failed")
		return
	}
	t.logger.Info().Str("title", n.Title).Msg("session reached planned duration")
}
