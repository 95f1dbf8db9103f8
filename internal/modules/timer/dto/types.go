package dto

import "time"

type Target struct {
	Title           string
	StartTime       time.Time
	PlannedDuration int
	Running         bool
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
