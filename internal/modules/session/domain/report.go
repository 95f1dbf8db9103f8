package domain

import (
	"sort"
	"strings"
	"time"

	"efforts/internal/platform/timefmt"
)

// ToMarkdown renders a single session for export.
func ToMarkdown(s Session) string {
	end := "ongoing"
	if s.EndTime != nil {
		end = timefmt.HourMinute(*s.EndTime)
	}

	var b strings.Builder
	b.WriteString("# " + s.Title() + "\n")
	b.WriteString("_Session time: " + timefmt.HourMinute(s.StartTime) + " - " + end + "_\n\n")
	b.WriteString("## Goal\n" + s.Goals + "\n")
	if s.Quality != QualityNone {
		b.WriteString("## Session quality\n" + s.Quality.Emoji() + " " + s.Quality.Label() + "\n")
	}
	if s.Notes != "" {
		b.WriteString("### Notes\n" + s.Notes + "\n")
	}
	if s.Overtime > 0 {
		overtimeStart := s.StartTime.Add(time.Duration(s.PlannedDuration) * time.Minute)
		b.WriteString("## Overtime\n" + timefmt.Duration(s.Overtime) + " -> " + timefmt.HourMinute(overtimeStart) + " - " + end + "\n")
	}
	return b.String()
}

// EmptyReport is the daily report for a day without sessions.
func EmptyReport(date time.Time) string {
	return "# No focus sessions on " + timefmt.Date(date)
}

// DailyReport renders sessions in ascending start order, whatever order they
// arrive in.
func DailyReport(sessions []Session, date time.Time) string {
	if len(sessions) == 0 {
		return EmptyReport(date)
	}
	sorted := make([]Session, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})
	parts := make([]string, 0, len(sorted))
	for _, s := range sorted {
		parts = append(parts, ToMarkdown(s))
	}
	return strings.Join(parts, "\n\n")
}
