package theme

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Yellow   = lipgloss.Color("#f9e2af")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")
	Mauve    = lipgloss.Color("#cba6f7")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Foreground(Text).
		Padding(0, 1)

	PaneActive = Pane.BorderForeground(Lavender)

	Title   = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted   = lipgloss.NewStyle().Foreground(Subtext0)
	Hot     = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Good    = lipgloss.NewStyle().Foreground(Green)
	Bad     = lipgloss.NewStyle().Foreground(Red)
	Banner  = lipgloss.NewStyle().Foreground(Base).Background(Peach).Bold(true).Padding(0, 1)
	Label   = lipgloss.NewStyle().Foreground(Subtext0).Width(14)
	Numeric = lipgloss.NewStyle().Foreground(Text).Bold(true)
)

// Quality colours a focus rating.
func Quality(q string) lipgloss.Style {
	switch q {
	case "deep":
		return lipgloss.NewStyle().Foreground(Mauve).Bold(true)
	case "great":
		return lipgloss.NewStyle().Foreground(Green)
	case "normal":
		return lipgloss.NewStyle().Foreground(Yellow)
	case "poor":
		return lipgloss.NewStyle().Foreground(Red)
	default:
		return Muted
	}
}

// Change colours a percentage change: growth green, decline red.
func Change(pct float64) lipgloss.Style {
	switch {
	case pct > 0:
		return Good
	case pct < 0:
		return Bad
	default:
		return Muted
	}
}
