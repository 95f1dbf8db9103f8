package domain

import (
	sessiondomain "efforts/internal/modules/session/domain"
)

// SessionStats aggregates completed sessions. QualityDistribution always
// carries every quality key.
type SessionStats struct {
	TotalSessions        int
	TotalFocusTime       int
	TotalPoints          int
	QualityDistribution  map[sessiondomain.Quality]int
	AverageSessionLength float64
}

type PercentageChange struct {
	TotalSessions        float64
	TotalFocusTime       float64
	TotalPoints          float64
	AverageSessionLength float64
}

type ComparableStats struct {
	Current          SessionStats
	Previous         SessionStats
	PercentageChange PercentageChange
}

func emptyDistribution() map[sessiondomain.Quality]int {
	dist := make(map[sessiondomain.Quality]int, len(sessiondomain.Qualities))
	for _, q := range sessiondomain.Qualities {
		dist[q] = 0
	}
	return dist
}

// ComputeStats aggregates the completed sessions in sessions. Points are
// always recomputed.
func ComputeStats(sessions []sessiondomain.Session) SessionStats {
	stats := SessionStats{QualityDistribution: emptyDistribution()}
	for _, s := range sessions {
		if s.Status != sessiondomain.StatusCompleted {
			continue
		}
		stats.TotalSessions++
		stats.TotalFocusTime += s.ActualDuration
		stats.TotalPoints += sessiondomain.Points(s)
		if _, ok := stats.QualityDistribution[s.Quality]; ok {
			stats.QualityDistribution[s.Quality]++
		}
	}
	if stats.TotalSessions > 0 {
		stats.AverageSessionLength = float64(stats.TotalFocusTime) / float64(stats.TotalSessions)
	}
	return stats
}

func CompareStats(current, previous []sessiondomain.Session) ComparableStats {
	cur := ComputeStats(current)
	prev := ComputeStats(previous)
	return ComparableStats{
		Current:  cur,
		Previous: prev,
		PercentageChange: PercentageChange{
			TotalSessions:        Change(float64(cur.TotalSessions), float64(prev.TotalSessions)),
			TotalFocusTime:       Change(float64(cur.TotalFocusTime), float64(prev.TotalFocusTime)),
			TotalPoints:          Change(float64(cur.TotalPoints), float64(prev.TotalPoints)),
			AverageSessionLength: Change(cur.AverageSessionLength, prev.AverageSessionLength),
		},
	}
}

// Change is the percentage change from previous to current. Growth from
// zero is capped at 100.
func Change(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}
