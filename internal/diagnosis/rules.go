package diagnosis

import (
	"github.com/abhisek/parabola/internal/canvas"
	"github.com/abhisek/parabola/internal/problemgen"
)

// ShapeClassifier flags the opposite shape in step 1.
type ShapeClassifier struct{}

func (c *ShapeClassifier) Name() string { return "shape" }

func (c *ShapeClassifier) Classify(in *Input) (string, float64) {
	if in.Step != 1 || in.Shape == "" || in.Shape == in.Problem.Shape() {
		return "", 0
	}
	return ShapeSignReversed, 0.9
}

// VertexSignClassifier flags vertex answers that differ from (h, k) only
// in sign.
type VertexSignClassifier struct{}

func (c *VertexSignClassifier) Name() string { return "vertex-sign" }

func (c *VertexSignClassifier) Classify(in *Input) (string, float64) {
	if in.Step != 2 {
		return "", 0
	}
	p, v := in.Problem, in.Vertex
	switch {
	case v.X == -p.H && v.Y == p.K:
		return VertexHSign, 0.9
	case v.X == p.H && v.Y == -p.K && p.K != 0:
		return VertexKSign, 0.9
	case v.X == -p.H && v.Y == -p.K:
		return VertexBothSigns, 0.8
	}
	return "", 0
}

// VertexSwapClassifier flags (k, h).
type VertexSwapClassifier struct{}

func (c *VertexSwapClassifier) Name() string { return "vertex-swap" }

func (c *VertexSwapClassifier) Classify(in *Input) (string, float64) {
	p := in.Problem
	if in.Step != 2 || p.H == p.K {
		return "", 0
	}
	if in.Vertex.X == p.K && in.Vertex.Y == p.H {
		return VertexSwapped, 0.7
	}
	return "", 0
}

// ExpandedFormClassifier flags (b, c) of the expanded form given as the
// vertex.
type ExpandedFormClassifier struct{}

func (c *ExpandedFormClassifier) Name() string { return "expanded-form" }

func (c *ExpandedFormClassifier) Classify(in *Input) (string, float64) {
	if in.Step != 2 {
		return "", 0
	}
	_, b, cc := problemgen.Expanded(in.Problem)
	if in.Vertex.X == b && in.Vertex.Y == cc {
		return VertexExpandedCoeffs, 0.7
	}
	return "", 0
}

// YInterceptClassifier flags the usual substitution mistakes at x = 0.
type YInterceptClassifier struct{}

func (c *YInterceptClassifier) Name() string { return "y-intercept" }

func (c *YInterceptClassifier) Classify(in *Input) (string, float64) {
	if in.Step != 3 {
		return "", 0
	}
	p, n := in.Problem, in.YIntercept
	square := p.A * p.H * p.H
	switch {
	case n == p.K:
		return YInterceptVertexY, 0.8
	case n == p.K-square:
		return YInterceptSquareSign, 0.7
	case n == p.H:
		return YInterceptVertexX, 0.5
	}
	return "", 0
}

// GraphClassifier flags misplaced vertices and points on the wrong curve
// in step 4.
type GraphClassifier struct{}

func (c *GraphClassifier) Name() string { return "graph" }

func (c *GraphClassifier) Classify(in *Input) (string, float64) {
	if in.Step != 4 {
		return "", 0
	}
	p, v, q := in.Problem, in.Vertex, in.Passing
	if v.X == -p.H && v.Y == p.K {
		return GraphVertexSign, 0.8
	}
	if v != (canvas.GridPoint{X: p.H, Y: p.K}) || q.X == p.H {
		return "", 0
	}
	dx := q.X - p.H
	if q.Y == -p.A*dx*dx+p.K {
		return GraphShapeFlipped, 0.8
	}
	return GraphOffCurve, 0.5
}
