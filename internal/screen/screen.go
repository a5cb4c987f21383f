// Package screen defines the contract between the router and the screens
// of `parabola play`.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/parabola/internal/ui/layout"
)

// Screen is one full-window view of the terminal app.
type Screen interface {
	Init() tea.Cmd

	// Update handles a message and returns the screen to keep on the stack.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, between header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens whose footer hints depend on
// their state.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StepProvider is implemented by screens that show an exercise step
// counter in the header.
type StepProvider interface {
	Step() (current, total int)
}
