package exercise

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/parabola/internal/problemgen"
	"github.com/abhisek/parabola/internal/session"
	"github.com/abhisek/parabola/internal/ui/components"
	"github.com/abhisek/parabola/internal/ui/layout"
	"github.com/abhisek/parabola/internal/ui/theme"
)

var stepTitles = []string{"Shape", "Vertex", "y-intercept", "Graph", "Explain"}

func (s *ExerciseScreen) View(width, height int) string {
	view := s.sess.View()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Title, problemgen.PlainProblemText(s.sess.Problem())))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.progress(view).View()))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	if len(view.Clues) > 0 {
		clues := theme.Hint.Render("Clues: " + strings.Join(view.Clues, "   "))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, clues))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.stageView(view)))
	b.WriteString("\n\n")
	b.WriteString(s.feedbackView(width))

	return b.String()
}

func (s *ExerciseScreen) progress(view session.View) components.StepProgress {
	steps := make([]components.StepState, len(stepTitles))
	for i, title := range stepTitles {
		rec := view.Records[i+1]
		steps[i] = components.StepState{
			Title:    title,
			Done:     rec.Correct,
			Active:   view.Step == i+1,
			Attempts: rec.Attempts,
		}
	}
	return components.StepProgress{Steps: steps}
}

func (s *ExerciseScreen) stageView(view session.View) string {
	switch view.Stage {
	case session.StageShape:
		return s.choice.View()

	case session.StageVertexForm:
		return theme.Body.Bold(true).Render("Where is the vertex?") + "\n\n" +
			"Vertex: " + s.input.View()

	case session.StageYIntercept:
		return theme.Body.Bold(true).Render("Where does the graph cross the y axis?") + "\n\n" +
			"y-intercept: " + s.input.View()

	case session.StageGraphConstruction:
		tool := "vertex"
		if view.Tool == session.ToolPassing {
			tool = "passing point"
		}
		return theme.Body.Bold(true).Render("Place the vertex and one more point, then check.") + "\n\n" +
			s.plane.View() + "\n\n" +
			theme.Hint.Render("Tool: "+tool)

	case session.StageExplanation:
		if s.grading {
			return s.spinner.View() + " Grading your explanation..."
		}
		return theme.Body.Bold(true).Render("Explain how you drew the graph.") + "\n\n" +
			s.explain.View()
	}
	return ""
}

func (s *ExerciseScreen) feedbackView(width int) string {
	var b strings.Builder
	if s.errMsg != "" {
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error), s.errMsg))
		b.WriteString("\n")
	}
	if s.last != nil {
		style := theme.Incorrect
		if s.last.Outcome == session.OutcomeCorrect {
			style = theme.Correct
		}
		b.WriteString(layout.Centered(width, style, s.last.Message))
		b.WriteString("\n")
		if d := s.last.Diagnosis; d != nil {
			b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Accent), d.Label+": "+d.Hint))
			b.WriteString("\n")
		}
		if s.last.Explanation != "" {
			exp := lipgloss.NewStyle().Width(min(width-8, 70)).Foreground(theme.Text).Render(s.last.Explanation)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
			b.WriteString("\n")
		}
	}
	if s.status != "" {
		b.WriteString(layout.Centered(width, theme.Hint, s.status))
	}
	return b.String()
}
