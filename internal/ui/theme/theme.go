package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, taken from the plotted canvas: blue ink on a light grid.
var (
	Primary   = lipgloss.Color("#1D4ED8") // Ink blue
	Secondary = lipgloss.Color("#0EA5E9") // Sky
	Accent    = lipgloss.Color("#F59E0B") // Amber, passing point
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Grid      = lipgloss.Color("#475569") // Grid dots
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary).
		Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Canvas marks
var (
	GridDot = lipgloss.NewStyle().
		Foreground(Grid)

	Axis = lipgloss.NewStyle().
		Foreground(TextDim)

	Ink = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	Ghost = lipgloss.NewStyle().
		Foreground(Border)

	Cursor = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)
