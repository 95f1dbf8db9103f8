package dto

import "time"

type StatsOutput struct {
	TotalSessions        int
	TotalFocusTime       int
	TotalPoints          int
	QualityDistribution  map[string]int
	AverageSessionLength float64
}

type ChangeOutput struct {
	TotalSessions        float64
	TotalFocusTime       float64
	TotalPoints          float64
	AverageSessionLength float64
}

type RangeOutput struct {
	Start time.Time
	End   time.Time
}

// ComparisonOutput is one period's stats next to the period before it.
type ComparisonOutput struct {
	Period        string
	CurrentRange  RangeOutput
	PreviousRange RangeOutput
	Current       StatsOutput
	Previous      StatsOutput
	Change        ChangeOutput
}

type SessionRow struct {
	ID             string
	Title          string
	StartTime      time.Time
	ActualDuration int
	Quality        string
	Points         int
}
