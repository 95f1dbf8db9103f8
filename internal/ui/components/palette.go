package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"efforts/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

const (
	maxHints   = 5
	maxHistory = 50
)

var frame = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Peach).
	Background(theme.Mantle).
	Foreground(theme.Text).
	Padding(0, 1)

// Hints must stay in sync with app.ParseCommand.
var Hints = []string{
	"start <minutes> <goals>",
	"goals <text>",
	"plan <minutes>",
	"note <text>",
	"end",
	"rate <poor|normal|great|deep> [notes]",
	"cancel",
	"export day [YYYY-MM-DD]",
	"export session",
	"refresh",
}

// MatchHints returns the hints whose command word starts with the first word
// of input.
func MatchHints(input string) []string {
	word, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(input)), " ")
	var out []string
	for _, h := range Hints {
		if strings.HasPrefix(h, word) {
			out = append(out, h)
		}
		if len(out) == maxHints {
			break
		}
	}
	return out
}

// Palette is a one-line command prompt. Submitted commands are kept in a
// history that up and down walk through.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
	history []string
	cursor  int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "type a command…"
	ti.CharLimit = 256
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette with value prefilled and returns the focus command.
func (p *Palette) Open(value string) tea.Cmd {
	p.visible = true
	p.cursor = len(p.history)
	p.input.SetValue(value)
	p.input.CursorEnd()
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEsc:
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case tea.KeyEnter:
			val := strings.TrimSpace(p.input.Value())
			p.close()
			p.remember(val)
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case tea.KeyUp:
			p.recall(-1)
			return p, nil
		case tea.KeyDown:
			p.recall(1)
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if hints := MatchHints(p.input.Value()); len(hints) > 0 {
		sb.WriteString("\n")
		for _, h := range hints {
			sb.WriteString(theme.Muted.Render("  "+h) + "\n")
		}
	}
	w := p.width
	if w < 20 {
		w = 64
	}
	return frame.Width(w - 2).Render(sb.String())
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

func (p *Palette) remember(val string) {
	if val == "" || (len(p.history) > 0 && p.history[len(p.history)-1] == val) {
		return
	}
	p.history = append(p.history, val)
	if len(p.history) > maxHistory {
		p.history = p.history[len(p.history)-maxHistory:]
	}
}

func (p *Palette) recall(step int) {
	next := p.cursor + step
	if next < 0 || next > len(p.history) {
		return
	}
	p.cursor = next
	if next == len(p.history) {
		p.input.SetValue("")
		return
	}
	p.input.SetValue(p.history[next])
	p.input.CursorEnd()
}
