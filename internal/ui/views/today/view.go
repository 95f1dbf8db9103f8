package today

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "efforts/internal/modules/session/dto"
	"efforts/internal/platform/timefmt"
	"efforts/internal/ui/theme"
)

type sessionItem struct {
	session sessiondto.SessionOutput
}

func (i sessionItem) Title() string { return i.session.Title }
func (i sessionItem) Description() string {
	return fmt.Sprintf("%s  %s  %s  %d pts",
		timefmt.HourMinute(i.session.StartTime),
		timefmt.Duration(i.session.ActualDuration),
		i.session.Quality,
		i.session.Points)
}
func (i sessionItem) FilterValue() string { return i.session.Title + " " + i.session.Goals }

// Model lists today's completed sessions next to the selected one's details.
type Model struct {
	list    list.Model
	detail  viewport.Model
	ids     []string
	minutes int
	points  int
	width   int
	height  int
}

func New() Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Today"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("session", "sessions")

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text).Padding(1)

	return Model{list: l, detail: vp}
}

// SetSessions replaces the list when the set of sessions changed.
func (m *Model) SetSessions(sessions []sessiondto.SessionOutput, minutes, points int) tea.Cmd {
	m.minutes = minutes
	m.points = points
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID + "/" + s.Quality + "/" + s.Notes
	}
	var cmd tea.Cmd
	if !slices.Equal(ids, m.ids) {
		m.ids = ids
		items := make([]list.Item, len(sessions))
		for i, s := range sessions {
			items[i] = sessionItem{session: s}
		}
		cmd = m.list.SetItems(items)
	}
	m.detail.SetContent(m.renderDetail())
	return cmd
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
	}

	prev := m.list.Index()
	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	if m.list.Index() != prev {
		m.detail.SetContent(m.renderDetail())
	}

	var vCmd tea.Cmd
	m.detail, vCmd = m.detail.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 5 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	detailPane := theme.Pane.
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Selected returns the highlighted session, if any.
func (m Model) Selected() (sessiondto.SessionOutput, bool) {
	if item, ok := m.list.SelectedItem().(sessionItem); ok {
		return item.session, true
	}
	return sessiondto.SessionOutput{}, false
}

// Filtering reports whether the list's search filter is open.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) resize() {
	listW := m.width * 5 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Focus today") + "\n")
	sb.WriteString(theme.Label.Render("time") + theme.Numeric.Render(timefmt.Duration(m.minutes)) + "\n")
	sb.WriteString(theme.Label.Render("points") + theme.Numeric.Render(fmt.Sprint(m.points)) + "\n\n")

	s, ok := m.Selected()
	if !ok {
		sb.WriteString(theme.Muted.Render("No completed sessions yet today"))
		return sb.String()
	}
	sb.WriteString(theme.Title.Render(s.Title) + "\n\n")
	end := "-"
	if s.EndTime != nil {
		end = timefmt.HourMinute(*s.EndTime)
	}
	sb.WriteString(theme.Label.Render("time") + timefmt.HourMinute(s.StartTime) + " - " + end + "\n")
	sb.WriteString(theme.Label.Render("planned") + timefmt.Duration(s.PlannedDuration) + "\n")
	sb.WriteString(theme.Label.Render("actual") + timefmt.Duration(s.ActualDuration) + "\n")
	if s.Overtime > 0 {
		sb.WriteString(theme.Label.Render("overtime") + theme.Hot.Render(timefmt.Duration(s.Overtime)) + "\n")
	}
	sb.WriteString(theme.Label.Render("quality") + theme.Quality(s.Quality).Render(s.Quality) + "\n")
	sb.WriteString(theme.Label.Render("points") + fmt.Sprint(s.Points) + "\n")
	if s.Goals != "" {
		sb.WriteString("\n" + theme.Muted.Render("goals") + "\n" + s.Goals + "\n")
	}
	if s.Notes != "" {
		sb.WriteString("\n" + theme.Muted.Render("notes") + "\n" + s.Notes + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: session report  d: daily report"))
	return sb.String()
}
