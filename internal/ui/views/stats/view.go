package stats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	statsdto "efforts/internal/modules/stats/dto"
	"efforts/internal/platform/timefmt"
	"efforts/internal/ui/theme"
)

var qualityOrder = []string{"deep", "great", "normal", "poor"}

// Model shows the day, week and month comparisons side by side.
type Model struct {
	periods []statsdto.ComparisonOutput
	err     error
	width   int
	height  int
}

func New() Model { return Model{} }

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) Set(periods []statsdto.ComparisonOutput, err error) {
	m.periods = periods
	m.err = err
}

func (m Model) View() string {
	if len(m.periods) == 0 {
		msg := theme.Muted.Render("Loading statistics…")
		if m.err != nil {
			msg = theme.Bad.Render("Statistics unavailable: " + m.err.Error())
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
	}

	paneW := max(28, m.width/len(m.periods)-2)
	panes := make([]string, 0, len(m.periods))
	for _, p := range m.periods {
		panes = append(panes, theme.Pane.Width(paneW).Render(renderPeriod(p)))
	}
	out := lipgloss.JoinHorizontal(lipgloss.Top, panes...)
	if m.err != nil {
		out += "\n" + theme.Bad.Render(m.err.Error())
	}
	return out
}

func renderPeriod(c statsdto.ComparisonOutput) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(heading(c.Period)) + "\n")
	sb.WriteString(theme.Muted.Render(rangeText(c.CurrentRange)) + "\n\n")

	row := func(label, value string, change float64) {
		sb.WriteString(theme.Label.Render(label) + theme.Numeric.Render(value) + "  " +
			theme.Change(change).Render(timefmt.Percent(change)) + "\n")
	}
	row("sessions", fmt.Sprint(c.Current.TotalSessions), c.Change.TotalSessions)
	row("focus", timefmt.Duration(c.Current.TotalFocusTime), c.Change.TotalFocusTime)
	row("points", fmt.Sprint(c.Current.TotalPoints), c.Change.TotalPoints)
	row("avg length", timefmt.Duration(int(c.Current.AverageSessionLength+0.5)), c.Change.AverageSessionLength)

	sb.WriteString("\n")
	peak := 0
	for _, q := range qualityOrder {
		peak = max(peak, c.Current.QualityDistribution[q])
	}
	for _, q := range qualityOrder {
		n := c.Current.QualityDistribution[q]
		bar := ""
		if peak > 0 {
			bar = strings.Repeat("█", n*12/peak)
		}
		sb.WriteString(theme.Label.Render(q) + theme.Quality(q).Render(bar) + " " + fmt.Sprint(n) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("vs "+rangeText(c.PreviousRange)))
	return sb.String()
}

func heading(period string) string {
	switch period {
	case "day":
		return "Today"
	case "week":
		return "This week"
	case "month":
		return "This month"
	}
	return period
}

func rangeText(r statsdto.RangeOutput) string {
	start, end := timefmt.Date(r.Start), timefmt.Date(r.End)
	if start == end {
		return start
	}
	return start + " → " + end
}
