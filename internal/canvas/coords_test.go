package canvas

import (
	"errors"
	"math"
	"testing"
)

func mustSystem(t *testing.T, w, h float64) System {
	t.Helper()
	s, err := NewSystem(w, h)
	if err != nil {
		t.Fatalf("NewSystem(%v, %v): %v", w, h, err)
	}
	return s
}

func TestNewSystem_InvalidSize(t *testing.T) {
	for _, size := range [][2]float64{{0, 100}, {100, 0}, {-1, 10}, {math.NaN(), 10}, {math.Inf(1), 10}} {
		if _, err := NewSystem(size[0], size[1]); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("NewSystem(%v, %v) err = %v, want ErrInvalidSize", size[0], size[1], err)
		}
	}
}

func TestToPixel_Corners(t *testing.T) {
	s := mustSystem(t, 700, 560)

	tests := []struct {
		math, pixel Point
	}{
		{Point{XMin, YMax}, Point{0, 0}},
		{Point{XMax, YMin}, Point{700, 560}},
		{Point{0, 0}, Point{350, 280}},
		{Point{1, 1}, Point{450, 200}},
	}
	for _, tc := range tests {
		got := s.ToPixel(tc.math)
		if math.Abs(got.X-tc.pixel.X) > 1e-9 || math.Abs(got.Y-tc.pixel.Y) > 1e-9 {
			t.Errorf("ToPixel(%v) = %v, want %v", tc.math, got, tc.pixel)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, size := range [][2]float64{{700, 700}, {640, 480}, {333, 517}} {
		s := mustSystem(t, size[0], size[1])
		for x := XMin; x <= XMax; x += 0.13 {
			for y := YMin; y <= YMax; y += 0.17 {
				p := Point{X: x, Y: y}
				got := s.ToMath(s.ToPixel(p))
				if math.Abs(got.X-p.X) > 1e-6 || math.Abs(got.Y-p.Y) > 1e-6 {
					t.Fatalf("%vx%v: round trip of %v = %v", size[0], size[1], p, got)
				}
			}
		}
	}
}

func TestYAxisInverted(t *testing.T) {
	s := mustSystem(t, 700, 700)
	if s.ToPixelY(2) >= s.ToPixelY(1) {
		t.Errorf("expected higher math y to map to lower pixel y: %v vs %v", s.ToPixelY(2), s.ToPixelY(1))
	}
}
