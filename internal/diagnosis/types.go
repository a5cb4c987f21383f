// Package diagnosis names the misconception behind a wrong step answer,
// using rules over the problem and the answer.
package diagnosis

import (
	"github.com/abhisek/parabola/internal/canvas"
	"github.com/abhisek/parabola/internal/problemgen"
)

// Category classifies a wrong answer.
type Category string

const (
	CategoryMisconception Category = "misconception"
	CategoryUnclassified  Category = "unclassified"
)

// Input is one wrong answer with the problem it was checked against.
// Only the fields of Step are read.
type Input struct {
	Step    int
	Problem problemgen.Problem

	// Shape is the step 1 answer.
	Shape problemgen.Shape

	// Vertex is the step 2 answer, or the vertex placed in step 4.
	Vertex canvas.GridPoint

	// YIntercept is the step 3 answer.
	YIntercept int

	// Passing is the second point placed in step 4.
	Passing canvas.GridPoint
}

// Result is the output of diagnosing a wrong answer.
type Result struct {
	Category        Category `json:"category"`
	MisconceptionID string   `json:"misconceptionId,omitempty"`
	Label           string   `json:"label,omitempty"`
	Hint            string   `json:"hint,omitempty"`
	Confidence      float64  `json:"confidence"`
	ClassifierName  string   `json:"classifier,omitempty"`
}
