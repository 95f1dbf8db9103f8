package session

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	sessiondto "efforts/internal/modules/session/dto"
	timerdto "efforts/internal/modules/timer/dto"
	"efforts/internal/platform/timefmt"
	"efforts/internal/ui/theme"
)

// Model renders the active session and its live timer.
type Model struct {
	progress progress.Model
	active   sessiondto.SessionOutput
	ok       bool
	snap     timerdto.Snapshot
	width    int
	height   int
}

func New() Model {
	bar := progress.New(
		progress.WithGradient(string(theme.Sapphire), string(theme.Lavender)),
		progress.WithoutPercentage(),
	)
	return Model{progress: bar}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.progress.Width = max(10, min(width-8, 72))
}

func (m *Model) Set(active sessiondto.SessionOutput, ok bool, snap timerdto.Snapshot) {
	m.active = active
	m.ok = ok
	m.snap = snap
}

// AwaitingRating reports whether the active session has ended and only needs
// a quality rating.
func (m Model) AwaitingRating() bool {
	return m.ok && m.active.EndTime != nil
}

func (m Model) View() string {
	var body string
	switch {
	case !m.ok:
		body = m.idleView()
	case m.active.EndTime != nil:
		body = m.endedView()
	default:
		body = m.runningView()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, theme.PaneActive.Render(body))
}

func (m Model) idleView() string {
	return theme.Title.Render("No active session") + "\n\n" +
		theme.Muted.Render("n: start a session   :: command palette")
}

func (m Model) runningView() string {
	s := m.active
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(s.Title) + "\n")
	sb.WriteString(theme.Muted.Render("started "+timefmt.HourMinute(s.StartTime)) + "\n\n")

	clock := theme.Numeric.Render(m.snap.ElapsedText)
	remaining := "open-ended"
	if m.snap.HasRemaining {
		remaining = m.snap.RemainingText + " left of " + timefmt.Duration(s.PlannedDuration)
	}
	sb.WriteString(clock + "  " + theme.Muted.Render(remaining) + "\n")
	sb.WriteString(m.progress.ViewAs(m.snap.Progress/100) + "\n")
	if m.snap.IsOvertime {
		over := m.snap.Elapsed - s.PlannedDuration*60
		sb.WriteString("\n" + theme.Banner.Render("OVERTIME +"+timefmt.Clock(over)) + "\n")
	}
	if s.Goals != "" {
		sb.WriteString("\n" + theme.Muted.Render("goals") + "\n" + s.Goals + "\n")
	}
	if s.Notes != "" {
		sb.WriteString("\n" + theme.Muted.Render("notes") + "\n" + s.Notes + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("e: end   x: cancel   :: edit goals, plan or notes"))
	return sb.String()
}

func (m Model) endedView() string {
	s := m.active
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(s.Title) + "\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%s - %s", timefmt.HourMinute(s.StartTime), timefmt.HourMinute(*s.EndTime))) + "\n\n")
	sb.WriteString(theme.Label.Render("actual") + timefmt.Duration(s.ActualDuration) + "\n")
	if s.Overtime > 0 {
		sb.WriteString(theme.Label.Render("overtime") + theme.Hot.Render(timefmt.Duration(s.Overtime)) + "\n")
	}
	sb.WriteString("\n" + theme.Title.Render("How would you rate your focus?") + "\n")
	labels := []string{"1 poor", "2 normal", "3 great", "4 deep"}
	qualities := []string{"poor", "normal", "great", "deep"}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = theme.Quality(qualities[i]).Render(l)
	}
	sb.WriteString(strings.Join(parts, "   ") + "\n\n")
	sb.WriteString(theme.Muted.Render("x: cancel instead"))
	return sb.String()
}
