package problemgen

import (
	"errors"
	"fmt"
)

// ErrInvalidProblem is returned by NewProblem when the coefficients fall
// outside the exercise's allowed ranges.
var ErrInvalidProblem = errors.New("invalid problem")

// Problem is a target quadratic in vertex form y = a(x-h)² + k.
// It is immutable once generated and persisted with the session record.
type Problem struct {
	A int `json:"a"`
	H int `json:"h"`
	K int `json:"k"`

	// YIntercept is a·h² + k, the value at x = 0.
	YIntercept int `json:"yIntercept"`
}

// Shape is the concavity of a parabola as the student names it.
type Shape string

const (
	// ShapeConvexDown opens upward (a > 0).
	ShapeConvexDown Shape = "convex-down"
	// ShapeConvexUp opens downward (a < 0).
	ShapeConvexUp Shape = "convex-up"
)

// Coefficient ranges for generated problems.
var (
	allowedA = []int{1, -1}
	allowedH = []int{-2, -1, 1, 2}
	allowedK = []int{-2, -1, 0, 1, 2}
)

const (
	minYIntercept = -3
	maxYIntercept = 3
)

// NewProblem builds a Problem and checks every invariant a generated
// problem must satisfy.
func NewProblem(a, h, k int) (Problem, error) {
	if !contains(allowedA, a) {
		return Problem{}, fmt.Errorf("%w: a=%d must be 1 or -1", ErrInvalidProblem, a)
	}
	if !contains(allowedH, h) {
		return Problem{}, fmt.Errorf("%w: h=%d must be a non-zero integer in [-2,2]", ErrInvalidProblem, h)
	}
	if !contains(allowedK, k) {
		return Problem{}, fmt.Errorf("%w: k=%d must be an integer in [-2,2]", ErrInvalidProblem, k)
	}
	p := Problem{A: a, H: h, K: k, YIntercept: a*h*h + k}
	if p.YIntercept < minYIntercept || p.YIntercept > maxYIntercept {
		return Problem{}, fmt.Errorf("%w: y-intercept %d outside [%d,%d]",
			ErrInvalidProblem, p.YIntercept, minYIntercept, maxYIntercept)
	}
	return p, nil
}

// Shape returns the concavity implied by the sign of A.
func (p Problem) Shape() Shape {
	if p.A > 0 {
		return ShapeConvexDown
	}
	return ShapeConvexUp
}

// Eval returns a(x-h)² + k.
func (p Problem) Eval(x int) int {
	d := x - p.H
	return p.A*d*d + p.K
}

// VertexString formats the vertex as the student is expected to type it.
func (p Problem) VertexString() string {
	return fmt.Sprintf("(%d, %d)", p.H, p.K)
}

// YInterceptString formats the y-intercept as a point on the y axis.
func (p Problem) YInterceptString() string {
	return fmt.Sprintf("(0, %d)", p.YIntercept)
}

// IsFallback reports whether p is the deterministic fallback returned when
// generation exhausts its attempts.
func (p Problem) IsFallback() bool {
	return p == FallbackProblem
}

func contains(set []int, v int) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
