package problemgen

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestGenerate_Invariants(t *testing.T) {
	g := NewGenerator(rand.NewPCG(1, 2))

	for i := 0; i < 500; i++ {
		p := g.Generate()
		if p.IsFallback() {
			t.Fatalf("draw %d: unexpected fallback", i)
		}
		if p.A != 1 && p.A != -1 {
			t.Errorf("draw %d: a = %d, want ±1", i, p.A)
		}
		if p.H == 0 && p.K == 0 {
			t.Errorf("draw %d: vertex at origin", i)
		}
		if p.YIntercept != p.A*p.H*p.H+p.K {
			t.Errorf("draw %d: yIntercept = %d, want %d", i, p.YIntercept, p.A*p.H*p.H+p.K)
		}
		if p.YIntercept < -3 || p.YIntercept > 3 {
			t.Errorf("draw %d: yIntercept %d outside [-3,3]", i, p.YIntercept)
		}
		if _, err := NewProblem(p.A, p.H, p.K); err != nil {
			t.Errorf("draw %d: generated problem rejected: %v", i, err)
		}
	}
}

func TestGenerate_DeterministicForSeed(t *testing.T) {
	a := NewGenerator(rand.NewPCG(7, 7))
	b := NewGenerator(rand.NewPCG(7, 7))
	for i := 0; i < 20; i++ {
		if pa, pb := a.Generate(), b.Generate(); pa != pb {
			t.Fatalf("draw %d: %+v != %+v", i, pa, pb)
		}
	}
}

func TestGenerate_FallbackAfterMaxAttempts(t *testing.T) {
	g := NewGenerator(rand.NewPCG(1, 1))
	calls := 0
	g.draw = func(*rand.Rand) (int, int, int) {
		calls++
		return 1, 2, 2 // y-intercept 6, always rejected
	}

	p := g.Generate()
	if !p.IsFallback() {
		t.Fatalf("expected fallback, got %+v", p)
	}
	if p != (Problem{A: 1, H: 0, K: 0, YIntercept: 0}) {
		t.Errorf("fallback = %+v", p)
	}
	if calls != MaxAttempts {
		t.Errorf("draws = %d, want %d", calls, MaxAttempts)
	}
}

func TestNewProblem(t *testing.T) {
	tests := []struct {
		a, h, k int
		wantY   int
		wantErr bool
	}{
		{1, -1, 2, 3, false},
		{-1, 2, 1, -3, false},
		{1, 1, 0, 1, false},
		{2, 1, 0, 0, true},   // a out of range
		{1, 0, 1, 0, true},   // h must be non-zero
		{1, 3, 0, 0, true},   // h out of range
		{1, 1, 3, 0, true},   // k out of range
		{1, 2, 0, 0, true},   // y-intercept 4
		{-1, 2, -1, 0, true}, // y-intercept -5
	}

	for _, tc := range tests {
		p, err := NewProblem(tc.a, tc.h, tc.k)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidProblem) {
				t.Errorf("NewProblem(%d,%d,%d) err = %v, want ErrInvalidProblem", tc.a, tc.h, tc.k, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewProblem(%d,%d,%d): %v", tc.a, tc.h, tc.k, err)
			continue
		}
		if p.YIntercept != tc.wantY {
			t.Errorf("NewProblem(%d,%d,%d).YIntercept = %d, want %d", tc.a, tc.h, tc.k, p.YIntercept, tc.wantY)
		}
	}
}

func TestProblemShapeAndEval(t *testing.T) {
	p := Problem{A: 1, H: -1, K: 2, YIntercept: 3}
	if p.Shape() != ShapeConvexDown {
		t.Errorf("Shape = %q, want convex-down", p.Shape())
	}
	if got := p.Eval(0); got != 3 {
		t.Errorf("Eval(0) = %d, want 3", got)
	}
	if got := p.Eval(1); got != 6 {
		t.Errorf("Eval(1) = %d, want 6", got)
	}

	q := Problem{A: -1, H: 1, K: 1, YIntercept: 0}
	if q.Shape() != ShapeConvexUp {
		t.Errorf("Shape = %q, want convex-up", q.Shape())
	}
	if got := q.Eval(3); got != -3 {
		t.Errorf("Eval(3) = %d, want -3", got)
	}
}
