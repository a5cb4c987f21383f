package canvas

import "testing"

func TestSnapToIntegerPoint_ExactGridPixels(t *testing.T) {
	s := mustSystem(t, 700, 700)

	for x := -3; x <= 3; x++ {
		for y := -3; y <= 3; y++ {
			px, py := s.ToPixelX(float64(x)), s.ToPixelY(float64(y))
			got := s.SnapPixel(px, py)
			if !got.Valid || got.X != x || got.Y != y {
				t.Errorf("SnapPixel at (%d,%d) = %+v", x, y, got)
			}
			if got.PixelX != px || got.PixelY != py {
				t.Errorf("SnapPixel at (%d,%d) pixel = (%v,%v), want (%v,%v)", x, y, got.PixelX, got.PixelY, px, py)
			}
		}
	}
}

func TestSnapToIntegerPoint_NearestWins(t *testing.T) {
	s := mustSystem(t, 700, 700)

	// Slightly right of and above (1, 1).
	got := s.SnapPixel(s.ToPixelX(1.2), s.ToPixelY(1.3))
	if !got.Valid || got.X != 1 || got.Y != 1 {
		t.Errorf("got %+v, want (1,1)", got)
	}

	got = s.SnapPixel(s.ToPixelX(-1.7), s.ToPixelY(0.4))
	if !got.Valid || got.X != -2 || got.Y != 0 {
		t.Errorf("got %+v, want (-2,0)", got)
	}
}

func TestSnapToIntegerPoint_TieKeepsFirstCandidate(t *testing.T) {
	s := mustSystem(t, 700, 700)

	// Exactly between (0,0) and (1,0). The scan visits x=0 before x=1.
	got := s.SnapToIntegerPoint(0.5, 0, s.ToPixelX(0.5), s.ToPixelY(0))
	if !got.Valid || got.X != 0 || got.Y != 0 {
		t.Errorf("got %+v, want (0,0)", got)
	}
}

func TestSnapToIntegerPoint_EdgeOfViewport(t *testing.T) {
	s := mustSystem(t, 700, 700)

	// Just past the right edge still snaps back onto the grid.
	got := s.SnapToIntegerPoint(3.9, 0.1, s.ToPixelX(3.9), s.ToPixelY(0.1))
	if !got.Valid || got.X != 3 || got.Y != 0 {
		t.Errorf("got %+v, want (3,0)", got)
	}

	// Far outside: nothing in the 3×3 block is in bounds.
	got = s.SnapToIntegerPoint(5.2, 5.1, 900, -120)
	if got.Valid {
		t.Fatalf("expected invalid snap, got %+v", got)
	}
	if got.X != 5 || got.Y != 5 || got.PixelX != 900 || got.PixelY != -120 {
		t.Errorf("invalid snap = %+v, want rounded position and raw pixels", got)
	}
}

func TestSnapToAxisLine(t *testing.T) {
	s := mustSystem(t, 700, 700) // 100px per unit, origin at (350, 350)

	tests := []struct {
		name   string
		px, py float64
		want   AxisLine
	}{
		{
			name: "near y axis",
			px:   355,
			py:   120,
			want: AxisLine{Kind: LineVertical, Value: 0, Pixel: 350, IsAxis: true},
		},
		{
			name: "near x axis",
			px:   120,
			py:   352,
			want: AxisLine{Kind: LineHorizontal, Value: 0, Pixel: 350, IsAxis: true},
		},
		{
			// Unweighted, x=0 and x=1 are both 50px away and y=1 is 40px
			// away; the axis weight brings x=0 down to 35px.
			name: "axis weight beats nearer line",
			px:   400,
			py:   290,
			want: AxisLine{Kind: LineVertical, Value: 0, Pixel: 350, IsAxis: true},
		},
		{
			name: "equal distance prefers horizontal",
			px:   555,
			py:   155,
			want: AxisLine{Kind: LineHorizontal, Value: 2, Pixel: 150, IsAxis: false},
		},
		{
			name: "plain vertical line",
			px:   648,
			py:   95,
			want: AxisLine{Kind: LineVertical, Value: 3, Pixel: 650, IsAxis: false},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := s.SnapToAxisLine(tc.px, tc.py)
			if got != tc.want {
				t.Errorf("SnapToAxisLine(%v, %v) = %+v, want %+v", tc.px, tc.py, got, tc.want)
			}
		})
	}
}
