package dto

import "time"

type StartInput struct {
	Goals           string
	PlannedDuration int
}

// UpdateInput carries only the fields to overwrite.
type UpdateInput struct {
	Goals           *string
	PlannedDuration *int
	Notes           *string
}

type RateInput struct {
	Quality string
	Notes   string
}

type SessionOutput struct {
	ID              string
	Title           string
	Goals           string
	PlannedDuration int
	ActualDuration  int
	StartTime       time.Time
	EndTime         *time.Time
	Overtime        int
	Quality         string
	Notes           string
	Status          string
	Points          int
}

// Running reports whether the session is still being timed.
func (s SessionOutput) Running() bool {
	return s.Status == "active" && s.EndTime == nil
}

type ExportOutput struct {
	Markdown string
	Path     string
}
