package diagnosis

import (
	"testing"

	"github.com/abhisek/parabola/internal/canvas"
	"github.com/abhisek/parabola/internal/problemgen"
)

// testProblem is y = (x + 1)² + 2, i.e. y = x² + 2x + 3.
var testProblem = problemgen.Problem{A: 1, H: -1, K: 2, YIntercept: 3}

func pt(x, y int) canvas.GridPoint { return canvas.GridPoint{X: x, Y: y} }

func TestDiagnose(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		want  string
	}{
		{"shape reversed", Input{Step: 1, Shape: problemgen.ShapeConvexUp}, ShapeSignReversed},
		{"shape correct", Input{Step: 1, Shape: problemgen.ShapeConvexDown}, ""},
		{"h sign", Input{Step: 2, Vertex: pt(1, 2)}, VertexHSign},
		{"k sign", Input{Step: 2, Vertex: pt(-1, -2)}, VertexKSign},
		{"both signs", Input{Step: 2, Vertex: pt(1, -2)}, VertexBothSigns},
		{"swapped", Input{Step: 2, Vertex: pt(2, -1)}, VertexSwapped},
		{"expanded coefficients", Input{Step: 2, Vertex: pt(2, 3)}, VertexExpandedCoeffs},
		{"vertex unknown", Input{Step: 2, Vertex: pt(0, 0)}, ""},
		{"y-intercept is k", Input{Step: 3, YIntercept: 2}, YInterceptVertexY},
		{"square subtracted", Input{Step: 3, YIntercept: 1}, YInterceptSquareSign},
		{"y-intercept is h", Input{Step: 3, YIntercept: -1}, YInterceptVertexX},
		{"y-intercept unknown", Input{Step: 3, YIntercept: 5}, ""},
		{"graph vertex mirrored", Input{Step: 4, Vertex: pt(1, 2), Passing: pt(0, 3)}, GraphVertexSign},
		{"graph upside down", Input{Step: 4, Vertex: pt(-1, 2), Passing: pt(0, 1)}, GraphShapeFlipped},
		{"graph off curve", Input{Step: 4, Vertex: pt(-1, 2), Passing: pt(0, 0)}, GraphOffCurve},
		{"graph unknown", Input{Step: 4, Vertex: pt(0, 0), Passing: pt(1, 1)}, ""},
		{"explanation step", Input{Step: 5}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			in.Problem = testProblem
			got := Diagnose(&in)
			if tt.want == "" {
				if got.Category != CategoryUnclassified {
					t.Errorf("got %+v, want unclassified", got)
				}
				return
			}
			if got.Category != CategoryMisconception || got.MisconceptionID != tt.want {
				t.Fatalf("got %+v, want misconception %q", got, tt.want)
			}
			if got.Hint == "" || got.Label == "" || got.ClassifierName == "" {
				t.Errorf("incomplete result %+v", got)
			}
			if got.Confidence <= 0 || got.Confidence > 1 {
				t.Errorf("confidence = %f", got.Confidence)
			}
		})
	}
}

func TestRunClassifiers_FirstMatchWins(t *testing.T) {
	// With k = 0 the h-sign and both-signs readings coincide.
	in := &Input{Step: 2, Problem: problemgen.Problem{A: -1, H: 1, K: 0, YIntercept: -1}, Vertex: pt(-1, 0)}
	id, _, name := RunClassifiers(DefaultClassifiers(), in)
	if id != VertexHSign {
		t.Errorf("id = %q, want %q", id, VertexHSign)
	}
	if name != "vertex-sign" {
		t.Errorf("classifier = %q, want vertex-sign", name)
	}
}

func TestRunClassifiers_NoMatch(t *testing.T) {
	id, conf, name := RunClassifiers(nil, &Input{Step: 1})
	if id != "" || conf != 0 || name != "" {
		t.Errorf("got (%q, %f, %q), want empty", id, conf, name)
	}
}

func TestTaxonomy_Complete(t *testing.T) {
	all := AllMisconceptions()
	if len(all) != len(seedMisconceptions) {
		t.Fatalf("AllMisconceptions = %d, want %d", len(all), len(seedMisconceptions))
	}
	seen := make(map[string]bool)
	for _, m := range all {
		if seen[m.ID] {
			t.Errorf("duplicate misconception ID %q", m.ID)
		}
		seen[m.ID] = true
		if m.Label == "" || m.Description == "" || m.Hint == "" {
			t.Errorf("misconception %q has empty fields", m.ID)
		}
		if m.Step < 1 || m.Step > 4 {
			t.Errorf("misconception %q has step %d", m.ID, m.Step)
		}
	}
}

func TestMisconceptionsByStep(t *testing.T) {
	want := map[int]int{1: 1, 2: 5, 3: 3, 4: 3, 5: 0}
	for step, n := range want {
		if got := len(MisconceptionsByStep(step)); got != n {
			t.Errorf("step %d: %d misconceptions, want %d", step, got, n)
		}
	}
}

func TestGetMisconception(t *testing.T) {
	if m := GetMisconception(VertexSwapped); m == nil || m.Step != 2 {
		t.Errorf("GetMisconception(%q) = %+v", VertexSwapped, m)
	}
	if m := GetMisconception("nonexistent"); m != nil {
		t.Errorf("GetMisconception(nonexistent) = %+v, want nil", m)
	}
}
