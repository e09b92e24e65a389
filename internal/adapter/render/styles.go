package render

import "github.com/charmbracelet/lipgloss"

// Colors used in terminal output.
var (
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorGray    = lipgloss.Color("#666666")
	ColorMagenta = lipgloss.Color("#FF00FF")
	ColorYellow  = lipgloss.Color("#FFFF00")
)

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	number  lipgloss.Style
	border  lipgloss.Style
	speaker lipgloss.Style
	dim     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(ColorCyan),
		header: r.NewStyle().
			Bold(true).
			Foreground(ColorCyan).
			Padding(0, 1),
		cell: r.NewStyle().
			Padding(0, 1),
		number: r.NewStyle().
			Padding(0, 1).
			Align(lipgloss.Right),
		border: r.NewStyle().
			Foreground(ColorGray),
		speaker: r.NewStyle().
			Bold(true).
			Foreground(ColorMagenta),
		dim: r.NewStyle().
			Foreground(ColorGray),
	}
}
