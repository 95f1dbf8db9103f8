package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"efforts/internal/modules/timer/domain"
	"efforts/internal/modules/timer/dto"
	"efforts/internal/modules/timer/service"
	"efforts/internal/platform/schedule"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type manualTask struct {
	interval time.Duration
	fn       func()
	stops    int
}

func (m *manualTask) Stop() { m.stops++ }

// manualScheduler records tasks; tests fire them explicitly.
type manualScheduler struct {
	tasks []*manualTask
}

func (m *manualScheduler) Every(interval time.Duration, fn func()) schedule.Handle {
	task := &manualTask{interval: interval, fn: fn}
	m.tasks = append(m.tasks, task)
	return task
}

func (m *manualScheduler) fire(interval time.Duration) {
	for _, task := range m.tasks {
		if task.interval == interval && task.stops == 0 {
			task.fn()
		}
	}
}

type recordingNotifier struct {
	sent []domain.Notification
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, n domain.Notification) error {
	r.sent = append(r.sent, n)
	return r.err
}

var start = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func newTimer() (*service.Timer, *fakeClock, *manualScheduler, *recordingNotifier) {
	clk := &fakeClock{now: start}
	sched := &manualScheduler{}
	notifier := &recordingNotifier{}
	timer := service.NewTimer(clk, sched, notifier, zerolog.Nop(), service.Config{TickInterval: time.Second, ResyncInterval: time.Minute})
	return timer, clk, sched, notifier
}

func TestOvertimeNotifiesOnceAcrossResyncs(t *testing.T) {
	t.Parallel()
	timer, clk, sched, notifier := newTimer()
	timer.Track(dto.Target{Title: "Deep Work", StartTime: start.Add(-90 * time.Second), PlannedDuration: 1, Running: true})
	timer.Start()

	snap := timer.Snapshot()
	if snap.Elapsed != 90 || snap.Remaining != 0 || !snap.HasRemaining || !snap.IsOvertime || snap.Progress != 100 || !snap.Running {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.RemainingText != "00:00" || snap.ElapsedText != "01:30" {
		t.Fatalf("unexpected text: %q %q", snap.ElapsedText, snap.RemainingText)
	}

	for i := 0; i < 3; i++ {
		clk.Advance(time.Minute)
		timer.Resync()
		sched.fire(time.Minute)
		sched.fire(time.Second)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(notifier.sent))
	}
	want := domain.Notification{Title: "Deep Work Completed!", Body: "How would you rate your focus during this session?", RequireInteraction: true}
	if notifier.sent[0] != want {
		t.Fatalf("unexpected notification: %+v", notifier.sent[0])
	}
}

func TestTickCountsUpAndCrossesPlannedEdge(t *testing.T) {
	t.Parallel()
	timer, _, sched, notifier := newTimer()
	timer.Track(dto.Target{Title: "Edge", StartTime: start.Add(-58 * time.Second), PlannedDuration: 1, Running: true})
	timer.Start()

	if snap := timer.Snapshot(); snap.IsOvertime || snap.Remaining != 2 {
		t.Fatalf("expected 2s remaining, got %+v", snap)
	}
	sched.fire(time.Second)
	if len(notifier.sent) != 0 {
		t.Fatalf("notified early")
	}
	sched.fire(time.Second)
	snap := timer.Snapshot()
	if !snap.IsOvertime || snap.Elapsed != 60 || len(notifier.sent) != 1 {
		t.Fatalf("expected overtime edge at 60s, got %+v (%d sent)", snap, len(notifier.sent))
	}
}

func TestUnplannedSessionHasNoRemaining(t *testing.T) {
	t.Parallel()
	timer, _, _, notifier := newTimer()
	timer.Track(dto.Target{Title: "Open", StartTime: start.Add(-2 * time.Hour), Running: true})
	timer.Start()
	snap := timer.Snapshot()
	if snap.HasRemaining || snap.IsOvertime || snap.Progress != 100 || snap.RemainingText != "--:--" {
		t.Fatalf("unexpected unplanned snapshot: %+v", snap)
	}
	if snap.ElapsedText != "120:00" || len(notifier.sent) != 0 {
		t.Fatalf("unexpected elapsed %q or notifications %d", snap.ElapsedText, len(notifier.sent))
	}
}

func TestProgressAndClampedElapsed(t *testing.T) {
	t.Parallel()
	timer, _, _, _ := newTimer()
	timer.Track(dto.Target{StartTime: start.Add(-6 * time.Minute), PlannedDuration: 24, Running: true})
	timer.Start()
	if snap := timer.Snapshot(); snap.Progress != 25 || snap.Remaining != 18*60 {
		t.Fatalf("unexpected progress: %+v", snap)
	}

	future, _, _, _ := newTimer()
	future.Track(dto.Target{StartTime: start.Add(time.Minute), PlannedDuration: 5, Running: true})
	future.Start()
	if snap := future.Snapshot(); snap.Elapsed != 0 || snap.Progress != 0 {
		t.Fatalf("future start must clamp to zero: %+v", snap)
	}
}

func TestStopIsIdempotentAndReleasesBothTasks(t *testing.T) {
	t.Parallel()
	timer, _, sched, _ := newTimer()
	timer.Track(dto.Target{StartTime: start, PlannedDuration: 25, Running: true})
	timer.Start()
	timer.Start()
	if len(sched.tasks) != 2 {
		t.Fatalf("start while running must not schedule again, got %d tasks", len(sched.tasks))
	}

	timer.Stop()
	timer.Stop()
	for _, task := range sched.tasks {
		if task.stops != 1 {
			t.Fatalf("task %v stopped %d times", task.interval, task.stops)
		}
	}
	before := timer.Snapshot().Elapsed
	sched.tasks[0].fn()
	if timer.Snapshot().Elapsed != before || timer.Snapshot().Running {
		t.Fatalf("stopped timer must not advance")
	}
}

func TestEndedTargetStopsTimerAndResetStartsOver(t *testing.T) {
	t.Parallel()
	timer, clk, sched, notifier := newTimer()
	target := dto.Target{Title: "Short", StartTime: start, PlannedDuration: 1, Running: true}
	timer.Track(target)
	timer.Start()
	clk.Advance(2 * time.Minute)
	timer.Resync()
	if len(notifier.sent) != 1 {
		t.Fatalf("expected one notification")
	}

	target.Running = false
	timer.Track(target)
	if timer.Snapshot().Running {
		t.Fatalf("ended session must stop the timer")
	}
	timer.Start()
	if len(sched.tasks) != 2 {
		t.Fatalf("ended session must not restart the timer")
	}

	timer.Reset()
	if snap := timer.Snapshot(); snap.Elapsed != 0 || snap.Running {
		t.Fatalf("reset must zero the timer: %+v", snap)
	}
	target.Running = true
	timer.Track(target)
	timer.Start()
	if timer.Snapshot().Elapsed != 120 || len(notifier.sent) != 2 {
		t.Fatalf("restart after reset recomputes from start and may notify again, got %+v (%d)", timer.Snapshot(), len(notifier.sent))
	}
}

func TestNewSessionResetsLatchAndNotifyErrorsAreSwallowed(t *testing.T) {
	t.Parallel()
	timer, clk, _, notifier := newTimer()
	notifier.err = errors.New("permission denied")

	timer.Track(dto.Target{Title: "One", StartTime: start.Add(-time.Minute), PlannedDuration: 1, Running: true})
	timer.Start()
	timer.Track(dto.Target{Title: "Two", StartTime: start, PlannedDuration: 1, Running: true})
	if timer.Snapshot().Running {
		t.Fatalf("switching sessions must stop the old timer")
	}
	timer.Start()
	clk.Advance(time.Minute)
	timer.Resync()
	if len(notifier.sent) != 2 || notifier.sent[1].Title != "Two Completed!" {
		t.Fatalf("expected a notification per session, got %+v", notifier.sent)
	}

	timer.Untrack()
	timer.Start()
	if snap := timer.Snapshot(); snap.Running || snap.Title != "" {
		t.Fatalf("untracked timer must stay idle: %+v", snap)
	}
}

func TestStoppedTimerIgnoresResync(t *testing.T) {
	t.Parallel()
	timer, clk, sched, notifier := newTimer()
	timer.Track(dto.Target{Title: "Paused", StartTime: start, PlannedDuration: 1, Running: true})
	timer.Start()
	timer.Stop()
	clk.Advance(2 * time.Minute)
	timer.Resync()
	sched.tasks[1].fn()
	if snap := timer.Snapshot(); snap.Running || snap.Elapsed != 0 || snap.IsOvertime || len(notifier.sent) != 0 {
		t.Fatalf("stop then resync must leave the timer untouched: %+v (%d sent)", snap, len(notifier.sent))
	}

	reset, resetClk, _, resetNotifier := newTimer()
	reset.Track(dto.Target{Title: "Reset", StartTime: start, PlannedDuration: 1, Running: true})
	reset.Start()
	reset.Reset()
	resetClk.Advance(2 * time.Minute)
	reset.Resync()
	if snap := reset.Snapshot(); snap.Running || snap.Elapsed != 0 || len(resetNotifier.sent) != 0 {
		t.Fatalf("reset then resync must leave the timer untouched: %+v (%d sent)", snap, len(resetNotifier.sent))
	}
}

func TestExtendedPlanRearmsOvertimeNotification(t *testing.T) {
	t.Parallel()
	timer, clk, _, notifier := newTimer()
	target := dto.Target{Title: "Stretch", StartTime: start, PlannedDuration: 1, Running: true}
	timer.Track(target)
	timer.Start()
	clk.Advance(2 * time.Minute)
	timer.Resync()
	if len(notifier.sent) != 1 {
		t.Fatalf("expected the first overtime notification")
	}

	target.PlannedDuration = 2
	timer.Track(target)
	timer.Resync()
	if len(notifier.sent) != 1 || !timer.Snapshot().IsOvertime {
		t.Fatalf("a plan still behind elapsed time must not notify again")
	}

	target.PlannedDuration = 5
	timer.Track(target)
	if snap := timer.Snapshot(); snap.IsOvertime || !snap.Running || snap.Elapsed != 120 {
		t.Fatalf("extended plan must clear overtime and keep running: %+v", snap)
	}
	clk.Advance(3 * time.Minute)
	timer.Resync()
	if snap := timer.Snapshot(); !snap.IsOvertime || len(notifier.sent) != 2 {
		t.Fatalf("reaching the extended plan must notify once more: %+v (%d sent)", snap, len(notifier.sent))
	}
}
