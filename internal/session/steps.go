package session

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/abhisek/parabola/internal/canvas"
	"github.com/abhisek/parabola/internal/diagnosis"
	"github.com/abhisek/parabola/internal/problemgen"
)

// Verdict is the result of checking one answer against the problem.
type Verdict struct {
	Outcome       Outcome
	Input         string
	CorrectAnswer string
	Message       string
	Explanation   string

	// Clue is the confirmed fact carried into later steps. Only correct
	// answers to steps 1–3 have one.
	Clue string

	// Diagnosis names the misconception behind a wrong answer, when one
	// is recognised.
	Diagnosis *diagnosis.Result
}

// diagnose returns the misconception for a wrong answer, or nil.
func diagnose(in diagnosis.Input) *diagnosis.Result {
	res := diagnosis.Diagnose(&in)
	if res.Category != diagnosis.CategoryMisconception {
		return nil
	}
	return res
}

const (
	msgCorrect   = "Well done!"
	msgTryAgain  = "Think again."
	msgUseClues  = "Check the clues you have collected."
	msgMalformed = "That answer is not in a form I can read."
)

// CheckShape validates step 1.
func CheckShape(p problemgen.Problem, answer string) Verdict {
	want := p.Shape()
	v := Verdict{Input: strings.TrimSpace(answer), CorrectAnswer: string(want)}

	got, err := problemgen.ParseShape(answer)
	switch {
	case err != nil:
		v.Outcome = OutcomeMalformed
		v.Message = msgMalformed
		v.Explanation = "Choose convex up or convex down."
	case got != want:
		v.Outcome = OutcomeWrong
		v.Input = string(got)
		v.Message = msgTryAgain
		v.Explanation = "Is the leading coefficient positive or negative? Check which shape that gives."
		v.Diagnosis = diagnose(diagnosis.Input{Step: 1, Problem: p, Shape: got})
	default:
		v.Outcome = OutcomeCorrect
		v.Input = string(got)
		v.Message = msgCorrect
		v.Explanation = "When the leading coefficient is positive the parabola is convex down; when it is negative the parabola is convex up."
		v.Clue = "Shape: " + shapeWords(want)
	}
	return v
}

// CheckVertexForm validates step 2: the vertex (h, k) as an ordered pair.
func CheckVertexForm(p problemgen.Problem, answer string) Verdict {
	v := Verdict{Input: problemgen.NormalizePair(answer), CorrectAnswer: p.VertexString()}

	x, y, err := problemgen.ParsePair(answer)
	switch {
	case err != nil:
		v.Outcome = OutcomeMalformed
		v.Message = msgMalformed
		v.Explanation = "Enter the vertex as an ordered pair such as (1, -2)."
	case x != p.H || y != p.K:
		v.Outcome = OutcomeWrong
		v.Message = msgTryAgain
		sign := ""
		if p.A < 0 {
			sign = "-"
		}
		v.Explanation = fmt.Sprintf("Rewrite the function in completed-square form y = %s(x-a)^2+b. "+
			"If completing the square is hard, expand that form and compare it with %s.",
			sign, problemgen.ExpandedText(p))
		v.Diagnosis = diagnose(diagnosis.Input{Step: 2, Problem: p, Vertex: canvas.GridPoint{X: x, Y: y}})
	default:
		v.Outcome = OutcomeCorrect
		v.Message = msgCorrect
		v.Explanation = fmt.Sprintf("In completed-square form the function is %s, so (a, b) is %s.",
			problemgen.Label(p), p.VertexString())
		v.Clue = "Vertex: " + p.VertexString()
	}
	return v
}

// CheckYIntercept validates step 3. A bare integer or a point (0, n) is
// accepted.
func CheckYIntercept(p problemgen.Problem, answer string) Verdict {
	v := Verdict{Input: stripSpace(answer), CorrectAnswer: p.YInterceptString()}

	n, err := problemgen.ParseYIntercept(answer)
	switch {
	case err != nil:
		v.Outcome = OutcomeMalformed
		v.Message = msgMalformed
		v.Explanation = "A point on the y axis has x coordinate 0. Enter only the y value or a point like (0, ?)."
	case n != p.YIntercept:
		v.Outcome = OutcomeWrong
		v.Message = msgTryAgain
		v.Explanation = "The y-intercept is the value of the function at x = 0."
		v.Diagnosis = diagnose(diagnosis.Input{Step: 3, Problem: p, YIntercept: n})
	default:
		v.Outcome = OutcomeCorrect
		v.Message = msgCorrect
		v.Explanation = fmt.Sprintf("The graph meets the y axis at the y-intercept. Its value is %d.", p.YIntercept)
		v.Clue = "y-intercept: " + p.YInterceptString()
	}
	return v
}

// CheckGraph validates step 4: the placed vertex must be (h, k) and the
// passing point must lie exactly on the target curve. A scene missing
// either point returns ErrIncomplete.
func CheckGraph(p problemgen.Problem, scene *canvas.Scene) (Verdict, error) {
	vertex, okV := scene.Vertex()
	passing, okP := scene.Passing()
	if !okV || !okP {
		return Verdict{}, ErrIncomplete
	}

	v := Verdict{
		Input:         fmt.Sprintf("vertex %s, passing %s", vertex.GridPoint(), passing.GridPoint()),
		CorrectAnswer: "vertex " + p.VertexString(),
	}
	if vertex.X == p.H && vertex.Y == p.K && passing.Y == p.Eval(passing.X) {
		v.Outcome = OutcomeCorrect
		v.Message = msgCorrect
		v.Explanation = "The vertex and the second point are both correct."
		return v, nil
	}
	v.Outcome = OutcomeWrong
	v.Message = msgUseClues
	v.Diagnosis = diagnose(diagnosis.Input{
		Step:    4,
		Problem: p,
		Vertex:  vertex.GridPoint(),
		Passing: passing.GridPoint(),
	})
	return v, nil
}

func shapeWords(s problemgen.Shape) string {
	return strings.ReplaceAll(string(s), "-", " ")
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
