package in_test

import (
	"strings"
	"testing"
	"time"

	sessiondto "efforts/internal/modules/session/dto"
	sessionin "efforts/internal/modules/session/port/in"
	timerin "efforts/internal/modules/timer/adapter/in"
	timerdto "efforts/internal/modules/timer/dto"
)

type fakeSessions struct {
	sessionin.Usecase
	active       sessiondto.SessionOutput
	ok           bool
	fn           func(sessiondto.SessionOutput, bool)
	unsubscribed bool
}

func (f *fakeSessions) Subscribe(fn func(sessiondto.SessionOutput, bool)) func() {
	f.fn = fn
	return func() { f.unsubscribed = true }
}

func (f *fakeSessions) ActiveSession() (sessiondto.SessionOutput, bool) {
	return f.active, f.ok
}

type fakeTimer struct {
	calls  []string
	target timerdto.Target
}

func (f *fakeTimer) Track(target timerdto.Target) {
	f.calls = append(f.calls, "track")
	f.target = target
}

func (f *fakeTimer) Untrack()                    { f.calls = append(f.calls, "untrack") }
func (f *fakeTimer) Start()                      { f.calls = append(f.calls, "start") }
func (f *fakeTimer) Resync()                     { f.calls = append(f.calls, "resync") }
func (f *fakeTimer) Stop()                       { f.calls = append(f.calls, "stop") }
func (f *fakeTimer) Reset()                      { f.calls = append(f.calls, "reset") }
func (f *fakeTimer) Snapshot() timerdto.Snapshot { return timerdto.Snapshot{} }

func TestSessionFeedFollowsActiveSlot(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	running := sessiondto.SessionOutput{ID: "s1", Title: "Focus", StartTime: start, PlannedDuration: 25, Status: "active"}
	sessions := &fakeSessions{active: running, ok: true}
	timer := &fakeTimer{}

	feed := timerin.NewSessionFeed(timer, sessions)
	if got := strings.Join(timer.calls, ","); got != "track,start" {
		t.Fatalf("restored session must start the timer, got %s", got)
	}
	if timer.target.Title != "Focus" || !timer.target.Running || timer.target.PlannedDuration != 25 {
		t.Fatalf("unexpected target %+v", timer.target)
	}

	ended := running
	end := start.Add(30 * time.Minute)
	ended.EndTime = &end
	sessions.fn(ended, true)
	if got := strings.Join(timer.calls, ","); got != "track,start,track" || timer.target.Running {
		t.Fatalf("ended session must be tracked as stopped, got %s %+v", got, timer.target)
	}

	sessions.fn(sessiondto.SessionOutput{}, false)
	feed.Close()
	if got := strings.Join(timer.calls, ","); got != "track,start,track,untrack,stop" || !sessions.unsubscribed {
		t.Fatalf("unexpected calls %s (unsubscribed=%v)", got, sessions.unsubscribed)
	}
}
