package session

import (
	"strings"

	"github.com/abhisek/parabola/internal/diagnosis"
)

// StudyAdvice is the feedback shown after the exercise, built from the
// wrong counts of steps 1–4.
type StudyAdvice struct {
	TotalWrong      int          `json:"totalWrong"`
	Overall         string       `json:"overall"`
	Steps           []StepAdvice `json:"steps,omitempty"`
	Recommendations []string     `json:"recommendations,omitempty"`

	// Misconceptions are the diagnosed mistakes, in step order.
	Misconceptions []MisconceptionAdvice `json:"misconceptions,omitempty"`
}

// MisconceptionAdvice is one diagnosed mistake with its hint.
type MisconceptionAdvice struct {
	Step  int    `json:"step"`
	ID    string `json:"id"`
	Label string `json:"label"`
	Hint  string `json:"hint"`
}

// StepAdvice is the targeted advice for one step with mistakes.
type StepAdvice struct {
	Step   int    `json:"step"`
	Title  string `json:"title"`
	Advice string `json:"advice"`
}

var stepAdvice = []StepAdvice{
	{1, "Graph shape", "When the leading coefficient a is positive the parabola is convex down; when it is negative it is convex up. Comparing the graphs of y = x² and y = -x² makes this easy to see."},
	{2, "Vertex", "In completed-square form y = a(x-h)² + k the vertex is (h, k). Practise rewriting functions in completed-square form."},
	{3, "y-intercept", "Substitute x = 0 to find the y-intercept. In the form y = ax² + bx + c it equals c."},
	{4, "Drawing the graph", "Use the vertex and the y-intercept to draw the graph. Sketch a parabola symmetric about the vertex."},
}

var recommendations = []string{
	"Understand how the vertex form y = a(x-h)² + k relates to the general form y = ax² + bx + c.",
	"Make sure you know what the vertex, the axis of symmetry and the y-intercept mean.",
	"Practise by drawing the graphs of many different quadratic functions.",
	"Practise completing the square until it becomes routine.",
}

// BuildStudyAdvice derives advice from the step records.
func BuildStudyAdvice(records StepRecords) StudyAdvice {
	total := records.TotalWrong()
	a := StudyAdvice{TotalWrong: total}

	switch {
	case total == 0:
		a.Overall = "You solved every step on the first try! Your understanding of quadratic functions is excellent. Try some harder problems next."
	case total <= 2:
		a.Overall = "You handled most steps well. There were a few slips, but your overall understanding is good."
	case total <= 5:
		a.Overall = "Some steps gave you trouble. Reviewing the basic ideas of quadratic functions should help."
	default:
		a.Overall = "It would be worth studying the basics of quadratic functions again, one step at a time."
	}

	for _, sa := range stepAdvice {
		if records.WrongCount(sa.Step) > 0 {
			a.Steps = append(a.Steps, sa)
		}
	}
	if total > 0 {
		a.Recommendations = append([]string(nil), recommendations...)
	}
	for step := 1; step <= 4; step++ {
		for _, id := range records[step].Misconceptions {
			if m := diagnosis.GetMisconception(id); m != nil {
				a.Misconceptions = append(a.Misconceptions, MisconceptionAdvice{Step: step, ID: id, Label: m.Label, Hint: m.Hint})
			}
		}
	}
	return a
}

// String renders the advice as plain text paragraphs.
func (a StudyAdvice) String() string {
	var b strings.Builder
	b.WriteString(a.Overall)
	for _, s := range a.Steps {
		b.WriteString("\n\nStep ")
		b.WriteByte(byte('0' + s.Step))
		b.WriteString(" (" + s.Title + "): " + s.Advice)
	}
	if len(a.Misconceptions) > 0 {
		b.WriteString("\n\nMistakes to watch:")
		for _, m := range a.Misconceptions {
			b.WriteString("\n  • " + m.Label + ": " + m.Hint)
		}
	}
	if len(a.Recommendations) > 0 {
		b.WriteString("\n\nFurther study:")
		for _, r := range a.Recommendations {
			b.WriteString("\n  • " + r)
		}
	}
	return b.String()
}
