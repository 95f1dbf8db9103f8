package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "efforts/internal/modules/session/dto"
	sessionin "efforts/internal/modules/session/port/in"
	statsdto "efforts/internal/modules/stats/dto"
	statsin "efforts/internal/modules/stats/port/in"
	timerdomain "efforts/internal/modules/timer/domain"
	timerin "efforts/internal/modules/timer/port/in"
	"efforts/internal/platform/clock"
	"efforts/internal/platform/timefmt"
	"efforts/internal/ui/components"
	"efforts/internal/ui/theme"
	reportview "efforts/internal/ui/views/report"
	sessionview "efforts/internal/ui/views/session"
	statsview "efforts/internal/ui/views/stats"
	todayview "efforts/internal/ui/views/today"
)

type tabID int

const (
	tabSession tabID = iota
	tabToday
	tabStats
	tabCount
)

var tabLabels = [tabCount]string{"Session", "Today", "Stats"}

const defaultPlan = 25

type tickMsg time.Time

type alertMsg timerdomain.Notification

// opMsg reports the outcome of a lifecycle call.
type opMsg struct {
	verb string
	out  sessiondto.SessionOutput
	err  error
}

type statsMsg struct {
	periods []statsdto.ComparisonOutput
	err     error
}

type todayMsg struct{ err error }

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	New     key.Binding
	End     key.Binding
	Cancel  key.Binding
	Rate    key.Binding
	Refresh key.Binding
	Daily   key.Binding
	Report  key.Binding
	Save    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new session")),
		End:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end session")),
		Cancel:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel session")),
		Rate:    key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "rate poor…deep")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Daily:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "daily report")),
		Report:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "session report")),
		Save:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write report")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.New, k.End, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.End, k.Cancel, k.Rate},
		{k.Daily, k.Report, k.Save, k.Refresh},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

var ratingKeys = map[string]string{"1": "poor", "2": "normal", "3": "great", "4": "deep"}

// Model is the root Bubble Tea model. Lifecycle calls run as commands; the
// live session state is read from the usecases on every tick.
type Model struct {
	sessions sessionin.Usecase
	stats    statsin.Usecase
	timer    timerin.Usecase
	alerts   <-chan timerdomain.Notification
	clock    clock.Clock

	sessionView sessionview.Model
	todayView   todayview.Model
	statsView   statsview.Model
	reportView  reportview.Model
	showReport  bool

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	alert     string
	day       string
	width     int
	height    int
}

func NewModel(
	sessions sessionin.Usecase,
	stats statsin.Usecase,
	timer timerin.Usecase,
	alerts <-chan timerdomain.Notification,
	clk clock.Clock,
) Model {
	m := Model{
		sessions:    sessions,
		stats:       stats,
		timer:       timer,
		alerts:      alerts,
		clock:       clk,
		sessionView: sessionview.New(),
		todayView:   todayview.New(),
		statsView:   statsview.New(),
		reportView:  reportview.New(sessions),
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
		day:         timefmt.Date(clk.Now()),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.listen(), m.loadStatsCmd())
}

// Update routes keys to the palette while it is open; ticks and alerts keep
// flowing underneath it.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, cmd
		}
		next, rest := m.handle(msg)
		return next, tea.Batch(cmd, rest)
	}
	return m.handle(msg)
}

func (m Model) handle(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case tea.FocusMsg:
		m.timer.Resync()
		cmds = append(cmds, m.refresh())

	case tickMsg:
		cmds = append(cmds, tick(), m.refresh())
		if day := timefmt.Date(m.clock.Now()); day != m.day {
			m.day = day
			cmds = append(cmds, m.loadTodayCmd(), m.loadStatsCmd())
		}
		return m, tea.Batch(cmds...)

	case alertMsg:
		m.alert = msg.Title
		m.status = msg.Body
		return m, tea.Batch(m.listen(), m.refresh())

	case opMsg:
		if msg.err != nil {
			m.status = msg.verb + " failed: " + msg.err.Error()
		} else {
			m.status = msg.verb + ": " + msg.out.Title
			m.alert = ""
			cmds = append(cmds, m.loadStatsCmd())
		}
		cmds = append(cmds, m.refresh())
		return m, tea.Batch(cmds...)

	case todayMsg:
		if msg.err != nil {
			m.status = "load today: " + msg.err.Error()
		}
		return m, m.refresh()

	case statsMsg:
		m.statsView.Set(msg.periods, msg.err)
		return m, nil

	case reportview.OpenedMsg:
		if msg.Err != nil {
			m.status = "report: " + msg.Err.Error()
		} else if msg.Export.Path != "" {
			m.status = "saved " + msg.Export.Path
		}
		var cmd tea.Cmd
		m.reportView, cmd = m.reportView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.execute(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.showReport {
			switch msg.String() {
			case "esc", "q":
				m.showReport = false
				return m, nil
			case "w":
				return m, m.reportView.Save()
			}
			var cmd tea.Cmd
			m.reportView, cmd = m.reportView.Update(msg)
			return m, cmd
		}
		if m.activeTab == tabToday && m.todayView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			return m, m.palette.Open("")
		case "n":
			return m, m.palette.Open(fmt.Sprintf("start %d ", defaultPlan))
		case "e":
			return m, m.opCmd("ended", m.sessions.EndSession)
		case "x":
			return m, m.opCmd("cancelled", m.sessions.CancelSession)
		case "r":
			return m, tea.Batch(m.loadTodayCmd(), m.loadStatsCmd())
		case "d":
			m.showReport = true
			return m, m.reportView.OpenDay(m.clock.Now(), false)
		case "1", "2", "3", "4":
			if m.sessionView.AwaitingRating() {
				return m, m.rateCmd(ratingKeys[msg.String()], "")
			}
		case "enter":
			if m.activeTab == tabToday {
				if s, ok := m.todayView.Selected(); ok {
					m.showReport = true
					return m, m.reportView.OpenSession(s.ID, s.Title, false)
				}
			}
		}
	}

	if m.showReport {
		var cmd tea.Cmd
		m.reportView, cmd = m.reportView.Update(msg)
		cmds = append(cmds, cmd)
	} else if m.activeTab == tabToday {
		var cmd tea.Cmd
		m.todayView, cmd = m.todayView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(1, m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar))

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.showReport:
		content = m.reportView.View()
	default:
		switch m.activeTab {
		case tabSession:
			content = m.sessionView.View()
		case tabToday:
			content = m.todayView.View()
		case tabStats:
			content = m.statsView.View()
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "efforts  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.alert != "" {
		left = theme.Banner.Render(m.alert) + "  " + left
	} else if active, ok := m.sessions.ActiveSession(); ok {
		left = theme.Hot.Render("● "+active.Title) + "  " + left
	}
	right := theme.Muted.Render(fmt.Sprintf("today %s · %d pts   ?:help  q:quit",
		timefmt.Duration(m.sessions.TotalMinutesToday()), m.sessions.TotalPointsToday()))
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func (m Model) execute(input string) (Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	cmd, err := ParseCommand(input)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	switch cmd.Name {
	case "start":
		m.activeTab = tabSession
		start := sessiondto.StartInput{Goals: cmd.Text, PlannedDuration: cmd.Minutes}
		return m, m.opCmd("started", func(ctx context.Context) (sessiondto.SessionOutput, error) {
			return m.sessions.StartSession(ctx, start)
		})
	case "goals":
		return m, m.updateCmd(sessiondto.UpdateInput{Goals: &cmd.Text})
	case "plan":
		return m, m.updateCmd(sessiondto.UpdateInput{PlannedDuration: &cmd.Minutes})
	case "note":
		return m, m.updateCmd(sessiondto.UpdateInput{Notes: &cmd.Text})
	case "end":
		return m, m.opCmd("ended", m.sessions.EndSession)
	case "rate":
		return m, m.rateCmd(cmd.Quality, cmd.Text)
	case "cancel":
		return m, m.opCmd("cancelled", m.sessions.CancelSession)
	case "export-day":
		date := m.clock.Now()
		if cmd.Day != "" {
			parsed, err := time.ParseInLocation(timefmt.DateLayout, cmd.Day, date.Location())
			if err != nil {
				m.status = "date must be YYYY-MM-DD"
				return m, nil
			}
			date = parsed
		}
		m.showReport = true
		return m, m.reportView.OpenDay(date, true)
	case "export-session":
		s, ok := m.todayView.Selected()
		if !ok {
			m.status = "no session selected"
			return m, nil
		}
		m.showReport = true
		return m, m.reportView.OpenSession(s.ID, s.Title, true)
	case "refresh":
		return m, tea.Batch(m.loadTodayCmd(), m.loadStatsCmd())
	}
	return m, nil
}

// refresh copies the usecase state into the views.
func (m *Model) refresh() tea.Cmd {
	active, ok := m.sessions.ActiveSession()
	m.sessionView.Set(active, ok, m.timer.Snapshot())
	return m.todayView.SetSessions(m.sessions.TodaySessions(), m.sessions.TotalMinutesToday(), m.sessions.TotalPointsToday())
}

func (m *Model) propagateSize() {
	h := max(1, m.height-3)
	m.sessionView.SetSize(m.width, h)
	m.statsView.SetSize(m.width, h)
	sz := tea.WindowSizeMsg{Width: m.width, Height: h}
	m.todayView, _ = m.todayView.Update(sz)
	m.reportView, _ = m.reportView.Update(sz)
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) listen() tea.Cmd {
	if m.alerts == nil {
		return nil
	}
	alerts := m.alerts
	return func() tea.Msg {
		n, ok := <-alerts
		if !ok {
			return nil
		}
		return alertMsg(n)
	}
}

func (m Model) opCmd(verb string, op func(context.Context) (sessiondto.SessionOutput, error)) tea.Cmd {
	return func() tea.Msg {
		out, err := op(context.Background())
		return opMsg{verb: verb, out: out, err: err}
	}
}

func (m Model) updateCmd(input sessiondto.UpdateInput) tea.Cmd {
	return m.opCmd("updated", func(ctx context.Context) (sessiondto.SessionOutput, error) {
		return m.sessions.UpdateActiveSession(ctx, input)
	})
}

func (m Model) rateCmd(quality, notes string) tea.Cmd {
	input := sessiondto.RateInput{Quality: quality, Notes: notes}
	return m.opCmd("rated "+quality, func(ctx context.Context) (sessiondto.SessionOutput, error) {
		return m.sessions.RateSession(ctx, input)
	})
}

func (m Model) loadTodayCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.sessions.LoadTodaySessions(context.Background())
		return todayMsg{err: err}
	}
}

func (m Model) loadStatsCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.stats.LoadAll(context.Background())
		var periods []statsdto.ComparisonOutput
		for _, get := range []func() (statsdto.ComparisonOutput, bool){m.stats.Daily, m.stats.Weekly, m.stats.Monthly} {
			if cmp, ok := get(); ok {
				periods = append(periods, cmp)
			}
		}
		return statsMsg{periods: periods, err: err}
	}
}
