package canvas

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerate is returned when two points do not determine a vertex-form
// parabola: they coincide or share (almost) the same x.
var ErrDegenerate = errors.New("degenerate curve")

// degenerateEpsilon is the smallest horizontal separation Fit accepts.
const degenerateEpsilon = 0.001

// Curve is the parabola y = A(x-H)² + K through a placed vertex.
type Curve struct {
	A float64 `json:"a"`
	H int     `json:"h"`
	K int     `json:"k"`
}

// Eval returns the curve's y at x.
func (c Curve) Eval(x float64) float64 {
	d := x - float64(c.H)
	return c.A*d*d + float64(c.K)
}

// Sample returns n+1 evenly spaced points of the curve over [from, to].
func (c Curve) Sample(from, to float64, n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, 0, n+1)
	step := (to - from) / float64(n)
	for i := 0; i <= n; i++ {
		x := from + float64(i)*step
		pts = append(pts, Point{X: x, Y: c.Eval(x)})
	}
	return pts
}

// Fit returns the coefficient a of the parabola with the given vertex that
// passes through passing: a = (y-k)/(x-h)².
func Fit(vertex, passing Point) (float64, error) {
	if vertex == passing {
		return 0, fmt.Errorf("%w: vertex and passing point coincide at (%g, %g)", ErrDegenerate, vertex.X, vertex.Y)
	}
	dx := passing.X - vertex.X
	if math.Abs(dx) < degenerateEpsilon {
		return 0, fmt.Errorf("%w: passing point is directly above or below the vertex", ErrDegenerate)
	}
	a := (passing.Y - vertex.Y) / (dx * dx)
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0, fmt.Errorf("%w: coefficient is not finite", ErrDegenerate)
	}
	return a, nil
}

// FitGrid fits a curve through two grid points.
func FitGrid(vertex, passing GridPoint) (Curve, error) {
	a, err := Fit(vertex.Point(), passing.Point())
	if err != nil {
		return Curve{}, err
	}
	return Curve{A: a, H: vertex.X, K: vertex.Y}, nil
}
