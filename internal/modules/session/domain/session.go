package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	apperrors "efforts/internal/platform/errors"
)

const (
	SchemaVersion = 1
	UntitledTitle = "Untitled Session"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Validate() error {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled:
		return nil
	default:
		return fmt.Errorf("%w: unsupported status %q", apperrors.ErrInvalidInput, string(s))
	}
}

// Session is one tracked focus interval. Durations are whole minutes.
type Session struct {
	ID              string
	Goals           string
	PlannedDuration int
	ActualDuration  int
	StartTime       time.Time
	EndTime         *time.Time
	Overtime        int
	Quality         Quality
	Notes           string
	Status          Status
}

// New builds an active session starting at now.
func New(id, goals string, plannedDuration int, now time.Time) (Session, error) {
	s := Session{
		ID:              id,
		Goals:           goals,
		PlannedDuration: plannedDuration,
		StartTime:       now,
		Status:          StatusActive,
	}
	if err := s.Validate(); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (s Session) Title() string {
	return ExtractTitle(s.Goals)
}

// Ended reports whether timing has been closed, either by End or by a
// terminal transition.
func (s Session) Ended() bool {
	return s.EndTime != nil
}

// Running reports whether the session is still being timed.
func (s Session) Running() bool {
	return s.Status == StatusActive && s.EndTime == nil
}

// End closes timing at now. Status is left untouched; a session is completed
// only when rated.
func (s Session) End(now time.Time) Session {
	minutes := int(now.Sub(s.StartTime) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	end := now
	s.EndTime = &end
	s.ActualDuration = minutes
	s.Overtime = overtimeFor(minutes, s.PlannedDuration)
	return s
}

func overtimeFor(actual, planned int) int {
	if planned > 0 && actual > planned {
		return actual - planned
	}
	return 0
}

// Rate completes the session. Timing is closed at now if End was never called.
func (s Session) Rate(quality Quality, notes string, now time.Time) (Session, error) {
	if err := quality.Validate(); err != nil {
		return Session{}, err
	}
	if !s.Ended() {
		s = s.End(now)
	}
	s.Quality = quality
	s.Notes = notes
	s.Status = StatusCompleted
	return s, nil
}

// Cancel marks the session cancelled, keeping an earlier end time.
func (s Session) Cancel(now time.Time) Session {
	if !s.Ended() {
		end := now
		s.EndTime = &end
	}
	s.Status = StatusCancelled
	return s
}

func (s Session) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("%w: id is required", apperrors.ErrInvalidInput)
	}
	if err := s.Status.Validate(); err != nil {
		return err
	}
	if s.StartTime.IsZero() {
		return fmt.Errorf("%w: start time is required", apperrors.ErrInvalidInput)
	}
	if s.PlannedDuration < 0 {
		return fmt.Errorf("%w: planned duration must be non-negative", apperrors.ErrInvalidInput)
	}
	if s.ActualDuration < 0 || s.Overtime < 0 {
		return fmt.Errorf("%w: durations must be non-negative", apperrors.ErrInvalidInput)
	}
	if s.Quality != QualityNone {
		if err := s.Quality.Validate(); err != nil {
			return err
		}
		if s.Status != StatusCompleted {
			return fmt.Errorf("%w: only completed sessions carry a quality", apperrors.ErrInvalidInput)
		}
	}
	if s.Status != StatusActive && s.EndTime == nil {
		return fmt.Errorf("%w: %s session needs an end time", apperrors.ErrInvalidInput, s.Status)
	}
	return nil
}

// SessionPatch is a field-level partial update. Nil fields are left alone.
type SessionPatch struct {
	Goals           *string
	PlannedDuration *int
	Notes           *string
}

func (p SessionPatch) Empty() bool {
	return p.Goals == nil && p.PlannedDuration == nil && p.Notes == nil
}

func (p SessionPatch) Apply(s Session) (Session, error) {
	if p.Goals != nil {
		s.Goals = *p.Goals
	}
	if p.PlannedDuration != nil {
		if *p.PlannedDuration < 0 {
			return Session{}, fmt.Errorf("%w: planned duration must be non-negative", apperrors.ErrInvalidInput)
		}
		s.PlannedDuration = *p.PlannedDuration
		if s.Ended() {
			s.Overtime = overtimeFor(s.ActualDuration, s.PlannedDuration)
		}
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	return s, nil
}

var headerMarker = regexp.MustCompile(`^#+(\s+|$)`)

// ExtractTitle derives a title from the literal first line of goals. Leading
// markdown header markers are stripped only when followed by whitespace, so
// "#tag" stays as written.
func ExtractTitle(goals string) string {
	first, _, _ := strings.Cut(goals, "\n")
	first = strings.TrimSpace(first)
	first = strings.TrimSpace(headerMarker.ReplaceAllString(first, ""))
	if first == "" {
		return UntitledTitle
	}
	return first
}

// DayBounds returns the first and last millisecond of date's calendar day in
// date's location.
func DayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1).Add(-time.Millisecond)
}
