package problemgen

import "testing"

func TestExpandedText(t *testing.T) {
	tests := []struct {
		p    Problem
		want string
	}{
		{Problem{A: 1, H: -1, K: 2}, "y = x^2 + 2x + 3"},
		{Problem{A: -1, H: 1, K: 1}, "y = -x^2 + 2x"},
		{Problem{A: 1, H: 2, K: -1}, "y = x^2 - 4x + 3"},
		{Problem{A: -1, H: -2, K: 1}, "y = -x^2 - 4x - 3"},
		{Problem{A: 1, H: 0, K: 0}, "y = x^2"},
	}
	for _, tc := range tests {
		if got := ExpandedText(tc.p); got != tc.want {
			t.Errorf("ExpandedText(%+v) = %q, want %q", tc.p, got, tc.want)
		}
	}
}

func TestExpandedLaTeX(t *testing.T) {
	p := Problem{A: -1, H: 2, K: 1}
	if got, want := ExpandedLaTeX(p), "y = -x^{2} + 4x - 3"; got != want {
		t.Errorf("ExpandedLaTeX = %q, want %q", got, want)
	}
	if got, want := ProblemText(p), `Draw the graph of \(y = -x^{2} + 4x - 3\) step by step.`; got != want {
		t.Errorf("ProblemText = %q, want %q", got, want)
	}
	if got, want := PlainProblemText(p), "Draw the graph of y = -x^2 + 4x - 3 step by step."; got != want {
		t.Errorf("PlainProblemText = %q, want %q", got, want)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		p    Problem
		want string
	}{
		{Problem{A: 1, H: -1, K: 2}, "y = (x + 1)² + 2"},
		{Problem{A: -1, H: 2, K: -1}, "y = -(x - 2)² - 1"},
		{Problem{A: 1, H: 1, K: 0}, "y = (x - 1)²"},
		{Problem{A: -1, H: 0, K: 2}, "y = -x² + 2"},
		{Problem{A: 1, H: 0, K: 0}, "y = x²"},
	}
	for _, tc := range tests {
		if got := Label(tc.p); got != tc.want {
			t.Errorf("Label(%+v) = %q, want %q", tc.p, got, tc.want)
		}
	}
}
