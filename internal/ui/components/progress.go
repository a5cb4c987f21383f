package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/parabola/internal/ui/theme"
)

// StepState is how one step of the exercise currently stands.
type StepState struct {
	Title    string
	Done     bool
	Active   bool
	Attempts int
}

// StepProgress renders the row of exercise steps.
type StepProgress struct {
	Steps []StepState
}

// View renders one cell per step: ✓ for done, ● for the active step and ○
// for steps still ahead. Retried steps show their attempt count.
func (p StepProgress) View() string {
	parts := make([]string, 0, len(p.Steps))
	for i, s := range p.Steps {
		label := fmt.Sprintf("%d %s", i+1, s.Title)
		if s.Attempts > 1 {
			label += fmt.Sprintf(" ×%d", s.Attempts)
		}
		switch {
		case s.Done:
			parts = append(parts, theme.Correct.Render("✓ "+label))
		case s.Active:
			parts = append(parts, theme.Selected.Render("● "+label))
		default:
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).Render("○ "+label))
		}
	}
	return strings.Join(parts, lipgloss.NewStyle().Foreground(theme.Border).Render("  ─  "))
}
