package in

import (
	sessiondto "efforts/internal/modules/session/dto"
	sessionin "efforts/internal/modules/session/port/in"
	timerdto "efforts/internal/modules/timer/dto"
	timerin "efforts/internal/modules/timer/port/in"
)

// SessionFeed keeps the timer tracking the lifecycle manager's active
// session. A session that has ended or left the active state stops the timer.
type SessionFeed struct {
	timer       timerin.Usecase
	unsubscribe func()
}

func NewSessionFeed(timer timerin.Usecase, sessions sessionin.Usecase) *SessionFeed {
	f := &SessionFeed{timer: timer}
	f.unsubscribe = sessions.Subscribe(f.apply)
	active, ok := sessions.ActiveSession()
	f.apply(active, ok)
	return f
}

func (f *SessionFeed) apply(active sessiondto.SessionOutput, ok bool) {
	if !ok {
		f.timer.Untrack()
		return
	}
	f.timer.Track(timerdto.Target{
		Title:           active.Title,
		StartTime:       active.StartTime,
		PlannedDuration: active.PlannedDuration,
		Running:         active.Running(),
	})
	if active.Running() {
		f.timer.Start()
	}
}

// Close detaches from the lifecycle manager and stops the timer.
func (f *SessionFeed) Close() {
	f.unsubscribe()
	f.timer.Stop()
}
