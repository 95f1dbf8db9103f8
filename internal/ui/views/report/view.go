package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	sessiondto "efforts/internal/modules/session/dto"
	"efforts/internal/platform/timefmt"
	"efforts/internal/ui/theme"
)

// Port is the slice of the session usecase this view renders.
type Port interface {
	ExportDay(ctx context.Context, date time.Time, write bool) (sessiondto.ExportOutput, error)
	ExportSession(ctx context.Context, id string, write bool) (sessiondto.ExportOutput, error)
}

// OpenedMsg carries a rendered export or the reason it failed.
type OpenedMsg struct {
	Title  string
	Export sessiondto.ExportOutput
	Err    error
}

type exportFunc func(ctx context.Context, write bool) (sessiondto.ExportOutput, error)

// Model shows a markdown export rendered with glamour.
type Model struct {
	port     Port
	last     exportFunc
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	title    string
	export   sessiondto.ExportOutput
	err      error
	loading  bool
	width    int
	height   int
}

func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)
	return Model{
		port:     port,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		renderer: r,
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.viewport.SetContent(m.renderContent())

	case OpenedMsg:
		m.loading = false
		m.title = msg.Title
		m.export = msg.Export
		m.err = msg.Err
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := m.renderHeader()
	vpHeight := m.height - lipgloss.Height(header) - 1
	if vpHeight < 1 {
		vpHeight = 1
	}
	if m.loading {
		loading := lipgloss.Place(m.width, vpHeight, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Rendering report…")
		return lipgloss.JoinVertical(lipgloss.Left, header, loading)
	}
	vp := m.viewport
	vp.Height = vpHeight
	footer := theme.Muted.Render(fmt.Sprintf("%.0f%%  ↑/↓: scroll  w: write to vault  esc: close", vp.ScrollPercent()*100))
	return lipgloss.JoinVertical(lipgloss.Left, header, vp.View(), footer)
}

// OpenDay renders the daily report for date. With write the report is also
// saved into the vault.
func (m *Model) OpenDay(date time.Time, write bool) tea.Cmd {
	title := "Daily report " + timefmt.Date(date)
	return m.open(func(ctx context.Context, write bool) (sessiondto.ExportOutput, error) {
		return m.port.ExportDay(ctx, date, write)
	}, title, write)
}

func (m *Model) OpenSession(id, title string, write bool) tea.Cmd {
	return m.open(func(ctx context.Context, write bool) (sessiondto.ExportOutput, error) {
		return m.port.ExportSession(ctx, id, write)
	}, title, write)
}

// Save writes the report on screen into the vault.
func (m *Model) Save() tea.Cmd {
	if m.last == nil {
		return nil
	}
	return m.open(m.last, m.title, true)
}

func (m *Model) open(export exportFunc, title string, write bool) tea.Cmd {
	m.loading = true
	m.last = export
	return tea.Batch(func() tea.Msg {
		out, err := export(context.Background(), write)
		return OpenedMsg{Title: title, Export: out, Err: err}
	}, m.spinner.Tick)
}

// Title is the heading of the report on screen.
func (m Model) Title() string { return m.title }

func (m *Model) resize() {
	m.viewport.Width = m.width
	m.viewport.Height = m.height - 3
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(m.width),
	); err == nil {
		m.renderer = r
	}
}

func (m Model) renderHeader() string {
	parts := []string{theme.Title.Render(m.title)}
	if m.export.Path != "" {
		parts = append(parts, theme.Good.Render("saved "+m.export.Path))
	}
	return strings.Join(parts, "  ") + "\n"
}

func (m Model) renderContent() string {
	if m.err != nil {
		return theme.Bad.Render("Error: " + m.err.Error())
	}
	if m.export.Markdown == "" {
		return theme.Muted.Render("(empty report)")
	}
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(m.export.Markdown); err == nil {
			return rendered
		}
	}
	return m.export.Markdown
}
