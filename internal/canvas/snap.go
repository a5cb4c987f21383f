package canvas

import "math"

// axisWeight scales the distance to the x=0 and y=0 lines so the axes win
// over equidistant neighbours.
const axisWeight = 0.7

// Snap is the result of snapping a pointer to the integer grid.
type Snap struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Valid  bool    `json:"valid"`
	PixelX float64 `json:"pixelX"`
	PixelY float64 `json:"pixelY"`
}

// GridPoint returns the snapped coordinate.
func (s Snap) GridPoint() GridPoint {
	return GridPoint{X: s.X, Y: s.Y}
}

// SnapToIntegerPoint finds the integer grid coordinate nearest, in pixel
// distance, to the raw cursor. Candidates are the 3×3 block around the
// rounded math position, scanned dx-major from -1 to 1; ties keep the first
// candidate found. When none of the block is in bounds the result is
// invalid and carries the rounded position and raw pixels.
func (s System) SnapToIntegerPoint(mathX, mathY, pixelX, pixelY float64) Snap {
	cx, cy := roundHalfUp(mathX), roundHalfUp(mathY)

	best := Snap{X: int(cx), Y: int(cy), PixelX: pixelX, PixelY: pixelY}
	bestDist := math.Inf(1)

	for dx := -1.0; dx <= 1; dx++ {
		for dy := -1.0; dy <= 1; dy++ {
			x, y := cx+dx, cy+dy
			if !InBounds(x, y) {
				continue
			}
			px, py := s.ToPixelX(x), s.ToPixelY(y)
			dist := math.Hypot(pixelX-px, pixelY-py)
			if dist < bestDist {
				bestDist = dist
				best = Snap{X: int(x), Y: int(y), Valid: true, PixelX: px, PixelY: py}
			}
		}
	}
	return best
}

// SnapPixel converts a raw pixel position to math space and snaps it.
func (s System) SnapPixel(pixelX, pixelY float64) Snap {
	return s.SnapToIntegerPoint(s.ToMathX(pixelX), s.ToMathY(pixelY), pixelX, pixelY)
}

// LineKind distinguishes vertical (x = c) from horizontal (y = c) lines.
type LineKind string

const (
	LineVertical   LineKind = "vertical"
	LineHorizontal LineKind = "horizontal"
)

// AxisLine is the grid line picked by SnapToAxisLine.
type AxisLine struct {
	Kind LineKind `json:"kind"`

	// Value is the constant of the line: x for vertical, y for horizontal.
	Value int `json:"value"`

	// Pixel is the line's pixel x (vertical) or pixel y (horizontal).
	Pixel float64 `json:"pixel"`

	// IsAxis is true for x = 0 and y = 0.
	IsAxis bool `json:"isAxis"`
}

// SnapToAxisLine picks the nearest integer grid line to the cursor. Vertical
// and horizontal candidates are scored by weighted pixel distance; the
// vertical line wins only when strictly nearer.
func (s System) SnapToAxisLine(pixelX, pixelY float64) AxisLine {
	vx, vDist := nearestLine(XMin, XMax, func(v float64) float64 { return math.Abs(pixelX - s.ToPixelX(v)) })
	hy, hDist := nearestLine(YMin, YMax, func(v float64) float64 { return math.Abs(pixelY - s.ToPixelY(v)) })

	if vDist < hDist {
		return AxisLine{Kind: LineVertical, Value: vx, Pixel: s.ToPixelX(float64(vx)), IsAxis: vx == 0}
	}
	return AxisLine{Kind: LineHorizontal, Value: hy, Pixel: s.ToPixelY(float64(hy)), IsAxis: hy == 0}
}

// nearestLine scans the integer lines in [lo, hi] in ascending order and
// returns the one with the smallest weighted distance.
func nearestLine(lo, hi float64, dist func(v float64) float64) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for v := math.Ceil(lo); v <= math.Floor(hi); v++ {
		d := dist(v)
		if v == 0 {
			d *= axisWeight
		}
		if d < bestDist {
			best, bestDist = int(v), d
		}
	}
	return best, bestDist
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
