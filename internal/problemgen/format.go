package problemgen

import (
	"fmt"
	"strings"
)

// Expanded returns the coefficients of ax² + bx + c for p.
func Expanded(p Problem) (a, b, c int) {
	return p.A, -2 * p.A * p.H, p.A*p.H*p.H + p.K
}

// ExpandedLaTeX renders p in expanded form with LaTeX exponents,
// e.g. "y = x^{2} + 2x + 3".
func ExpandedLaTeX(p Problem) string {
	return "y = " + expandedExpr(p, "x^{2}")
}

// ExpandedText renders p in expanded form as plain text,
// e.g. "y = x^2 + 2x + 3". This is the form sent to the grader.
func ExpandedText(p Problem) string {
	return "y = " + expandedExpr(p, "x^2")
}

// ProblemText is the instruction shown to the student.
func ProblemText(p Problem) string {
	return fmt.Sprintf(`Draw the graph of \(%s\) step by step.`, ExpandedLaTeX(p))
}

// PlainProblemText is ProblemText with the LaTeX delimiters removed.
func PlainProblemText(p Problem) string {
	return fmt.Sprintf("Draw the graph of %s step by step.", ExpandedText(p))
}

// Label renders p in vertex form, e.g. "y = (x + 1)² + 2".
func Label(p Problem) string {
	var b strings.Builder
	b.WriteString("y = ")
	if p.A < 0 {
		b.WriteString("-")
	} else if p.A != 1 {
		fmt.Fprintf(&b, "%d", p.A)
	}

	switch {
	case p.H == 0:
		b.WriteString("x²")
	case p.H < 0:
		fmt.Fprintf(&b, "(x + %d)²", -p.H)
	default:
		fmt.Fprintf(&b, "(x - %d)²", p.H)
	}

	writeConstant(&b, p.K)
	return b.String()
}

func expandedExpr(p Problem, square string) string {
	a, bCoef, c := Expanded(p)

	var b strings.Builder
	switch a {
	case 1:
		b.WriteString(square)
	case -1:
		b.WriteString("-" + square)
	default:
		fmt.Fprintf(&b, "%d%s", a, square)
	}

	switch {
	case bCoef == 1:
		b.WriteString(" + x")
	case bCoef == -1:
		b.WriteString(" - x")
	case bCoef > 0:
		fmt.Fprintf(&b, " + %dx", bCoef)
	case bCoef < 0:
		fmt.Fprintf(&b, " - %dx", -bCoef)
	}

	writeConstant(&b, c)
	return b.String()
}

func writeConstant(b *strings.Builder, c int) {
	switch {
	case c > 0:
		fmt.Fprintf(b, " + %d", c)
	case c < 0:
		fmt.Fprintf(b, " - %d", -c)
	}
}
