// Package result shows the graded submission at the end of an exercise.
package result

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parabola/internal/grading"
	"github.com/abhisek/parabola/internal/screen"
	"github.com/abhisek/parabola/internal/session"
	"github.com/abhisek/parabola/internal/ui/layout"
	"github.com/abhisek/parabola/internal/ui/theme"
)

var criterionLabels = map[string]string{
	grading.CriterionVertex:         "Vertex",
	grading.CriterionYIntercept:     "y-intercept",
	grading.CriterionShape:          "Shape",
	grading.CriterionGraphMatch:     "Graph matches the function",
	grading.CriterionVertexDesc:     "Describes the vertex",
	grading.CriterionYInterceptDesc: "Describes the y-intercept",
	grading.CriterionAxisDesc:       "Describes the axis of symmetry",
}

var stepNames = []string{"Shape", "Vertex", "y-intercept", "Graph"}

// ResultScreen displays a finished submission.
type ResultScreen struct {
	sub *session.Submission

	// Warning is shown above the score, e.g. when saving failed.
	Warning string
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// New creates a ResultScreen for sub.
func New(sub *session.Submission) *ResultScreen {
	return &ResultScreen{sub: sub}
}

func (s *ResultScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultScreen) Title() string {
	return "Result"
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Finish"},
		{Key: "Q", Description: "Quit"},
	}
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "q", "esc":
			return s, tea.Quit
		}
	}
	return s, nil
}

func criterionLabel(key string) string {
	if l, ok := criterionLabels[key]; ok {
		return l
	}
	return key
}

func (s *ResultScreen) View(width, height int) string {
	sub := s.sub
	if sub == nil {
		return ""
	}
	textWidth := max(min(width-8, 70), 20)
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", textWidth))

	var b strings.Builder
	b.WriteString(layout.Centered(width, theme.Title, "Exercise complete!"))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Hint, sub.ProblemLabel))
	b.WriteString("\n\n")

	if s.Warning != "" {
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error), s.Warning))
		b.WriteString("\n\n")
	}

	if res := sub.GPTFeedback; res != nil {
		score := fmt.Sprintf("Score: %d / %d", res.Score, res.MaxScore)
		if res.Fallback {
			score += "  (provisional)"
		}
		b.WriteString(layout.Centered(width, theme.Body.Bold(true), score))
		b.WriteString("\n\n")

		for _, key := range res.Keys() {
			c := res.Checklist[key]
			mark, style := "✗", theme.Incorrect
			if c.Passed {
				mark, style = "✓", theme.Correct
			}
			line := style.Render(mark+" "+criterionLabel(key)) +
				theme.Hint.Render(fmt.Sprintf("  %d", c.Score))
			if c.Comment != "" {
				line += "\n    " + lipgloss.NewStyle().Width(textWidth-4).Foreground(theme.Text).Render(c.Comment)
			}
			b.WriteString(center(lipgloss.NewStyle().Width(textWidth).Render(line)))
			b.WriteString("\n")
		}
		if res.Feedback != "" {
			b.WriteString("\n")
			b.WriteString(center(lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Render(res.Feedback)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(center(divider))
	b.WriteString("\n")
	parts := make([]string, 0, len(stepNames))
	for i, name := range stepNames {
		wrong := sub.StepRecords.WrongCount(i + 1)
		style := theme.Correct
		if wrong > 0 {
			style = theme.Incorrect
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s ×%d", name, wrong)))
	}
	b.WriteString(center(strings.Join(parts, "   ")))
	b.WriteString("\n")
	b.WriteString(center(divider))
	b.WriteString("\n\n")

	b.WriteString(center(lipgloss.NewStyle().Width(textWidth).Foreground(theme.TextDim).Render(sub.StudyAdvice.String())))
	b.WriteString("\n")
	return b.String()
}
