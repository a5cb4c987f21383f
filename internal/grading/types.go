// Package grading sends a finished exercise to an LLM for checklist-based
// feedback on the student's explanation.
package grading

import (
	"context"
	"errors"

	"github.com/abhisek/parabola/internal/problemgen"
)

// Checklist criterion keys returned by a successful grading.
const (
	CriterionVertex     = "vertexCorrect"
	CriterionYIntercept = "yInterceptCorrect"
	CriterionShape      = "shapeCorrect"
)

// Criterion keys of the upstream-failure fallback.
const (
	CriterionGraphMatch     = "graphMatch"
	CriterionVertexDesc     = "vertexDesc"
	CriterionYInterceptDesc = "yInterceptDesc"
	CriterionAxisDesc       = "axisDesc"
)

// DefaultCriteria is the display order of the standard checklist.
var DefaultCriteria = []string{CriterionVertex, CriterionYIntercept, CriterionShape}

// ErrNotConfigured is returned by Unavailable.
var ErrNotConfigured = errors.New("no grading provider configured")

// Request is everything the grader needs about one finished exercise.
type Request struct {
	// ProblemText is the instruction as shown to the student. LaTeX
	// delimiters are removed before it is sent.
	ProblemText string

	Problem            problemgen.Problem
	StudentDescription string

	// RenderedImage is an optional PNG of the student's final graph.
	RenderedImage []byte

	// Clues are the facts the student confirmed in earlier steps.
	Clues []string

	// SessionID attributes the LLM call in the event log.
	SessionID string
}

// Criterion is one checklist item.
type Criterion struct {
	Passed  bool   `json:"passed"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// Result is a normalised grading outcome.
type Result struct {
	Checklist map[string]Criterion `json:"checklist"`
	Score     int                  `json:"score"`
	MaxScore  int                  `json:"maxScore"`
	Feedback  string               `json:"feedback"`

	// Fallback is set when the result was synthesised locally because the
	// grader could not be reached or its answer could not be read.
	Fallback bool `json:"fallback,omitempty"`
}

// Keys returns the checklist keys in display order: the standard criteria
// first, then any others sorted by name.
func (r *Result) Keys() []string {
	return orderedKeys(r.Checklist)
}

// Gateway grades a finished exercise. On failure it returns a fallback
// Result together with the error, so callers always have something to
// store and show.
type Gateway interface {
	Grade(ctx context.Context, req *Request) (*Result, error)
}

// Unavailable is a Gateway used when no LLM provider is configured.
type Unavailable struct{}

func (Unavailable) Grade(context.Context, *Request) (*Result, error) {
	return upstreamFallback(ErrNotConfigured), ErrNotConfigured
}
