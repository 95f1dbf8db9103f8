package domain

import (
	"time"

	"efforts/internal/platform/timefmt"
)

// Target is the session a timer follows. The timer never mutates it.
type Target struct {
	Title           string
	StartTime       time.Time
	PlannedDuration int
	Running         bool
}

// PlannedSeconds is zero for unplanned sessions.
func (t Target) PlannedSeconds() int {
	if t.PlannedDuration <= 0 {
		return 0
	}
	return t.PlannedDuration * 60
}

// ElapsedSince counts whole seconds from start to now, never negative.
func ElapsedSince(start, now time.Time) int {
	elapsed := int(now.Sub(start) / time.Second)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Overtime reports whether elapsed has reached the planned duration.
// Unplanned sessions never run over.
func Overtime(target Target, elapsed int) bool {
	planned := target.PlannedSeconds()
	return planned > 0 && elapsed >= planned
}

type Snapshot struct {
	Title         string
	Elapsed       int
	Remaining     int
	HasRemaining  bool
	IsOvertime    bool
	Progress      float64
	Running       bool
	ElapsedText   string
	RemainingText string
}

func Derive(target Target, elapsed int, running bool) Snapshot {
	s := Snapshot{
		Title:         target.Title,
		Elapsed:       elapsed,
		Running:       running,
		Progress:      100,
		ElapsedText:   timefmt.Clock(elapsed),
		RemainingText: "--:--",
	}
	planned := target.PlannedSeconds()
	if planned == 0 {
		return s
	}
	s.HasRemaining = true
	s.Remaining = max(0, planned-elapsed)
	s.RemainingText = timefmt.Clock(s.Remaining)
	s.IsOvertime = Overtime(target, elapsed)
	s.Progress = min(100, float64(elapsed)/float64(planned)*100)
	return s
}

// Notification is the one-off message sent when a session runs out of
// planned time.
type Notification struct {
	Title              string
	Body               string
	RequireInteraction bool
}

func CompletionNotification(title string) Notification {
	return Notification{
		Title:              title + " Completed!",
		Body:               "How would you rate your focus during this session?",
		RequireInteraction: true,
	}
}
