// Package canvas holds the coordinate-plane model behind the drawing
// exercise: pixel/math transforms, pointer snapping, the scene of placed
// points and the parabola fitted through them.
package canvas

import (
	"errors"
	"fmt"
	"math"
)

// Logical bounds of the plane. Integer grid points run from -3 to 3.
const (
	XMin = -3.5
	XMax = 3.5
	YMin = -3.5
	YMax = 3.5
)

// ErrInvalidSize is returned by NewSystem for a non-positive canvas size.
var ErrInvalidSize = errors.New("invalid canvas size")

// ErrOutOfBounds is returned when a pointer snaps to no grid point inside
// the plane.
var ErrOutOfBounds = errors.New("point outside the grid")

// Point is a position in either math or pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GridPoint is an integer grid coordinate in math space.
type GridPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Point converts g to a math-space Point.
func (g GridPoint) Point() Point {
	return Point{X: float64(g.X), Y: float64(g.Y)}
}

func (g GridPoint) String() string {
	return fmt.Sprintf("(%d, %d)", g.X, g.Y)
}

// InBounds reports whether (x, y) lies inside the logical bounds.
func InBounds(x, y float64) bool {
	return x >= XMin && x <= XMax && y >= YMin && y <= YMax
}

// System maps between math coordinates and pixels for a canvas of a fixed
// pixel size. Pixel y grows downward, so larger math y maps to smaller
// pixel y.
type System struct {
	width, height float64
	ppuX, ppuY    float64
}

// NewSystem derives the pixel-per-unit scale for a width × height canvas.
func NewSystem(width, height float64) (System, error) {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return System{}, fmt.Errorf("%w: %vx%v", ErrInvalidSize, width, height)
	}
	return System{
		width:  width,
		height: height,
		ppuX:   width / (XMax - XMin),
		ppuY:   height / (YMax - YMin),
	}, nil
}

// Width returns the canvas width in pixels.
func (s System) Width() float64 { return s.width }

// Height returns the canvas height in pixels.
func (s System) Height() float64 { return s.height }

// PixelsPerUnit returns the horizontal and vertical scale.
func (s System) PixelsPerUnit() (x, y float64) { return s.ppuX, s.ppuY }

// ToPixelX maps a math x to a pixel x.
func (s System) ToPixelX(x float64) float64 { return (x - XMin) * s.ppuX }

// ToPixelY maps a math y to a pixel y.
func (s System) ToPixelY(y float64) float64 { return s.height - (y-YMin)*s.ppuY }

// ToMathX maps a pixel x to a math x.
func (s System) ToMathX(px float64) float64 { return px/s.ppuX + XMin }

// ToMathY maps a pixel y to a math y.
func (s System) ToMathY(py float64) float64 { return YMax - py/s.ppuY }

// ToPixel maps a math point to pixel space.
func (s System) ToPixel(p Point) Point {
	return Point{X: s.ToPixelX(p.X), Y: s.ToPixelY(p.Y)}
}

// ToMath maps a pixel point to math space.
func (s System) ToMath(p Point) Point {
	return Point{X: s.ToMathX(p.X), Y: s.ToMathY(p.Y)}
}
