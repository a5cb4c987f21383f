package problemgen

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ErrUnparseable is returned when an answer does not match any accepted
// input grammar. Callers treat it as a failed attempt, distinct from a
// well-formed wrong answer.
var ErrUnparseable = errors.New("unparseable answer")

var (
	pairPattern       = regexp.MustCompile(`^\((-?\d+),(-?\d+)\)$`)
	bareIntPattern    = regexp.MustCompile(`^([+-]?\d+)$`)
	yAxisPointPattern = regexp.MustCompile(`^\(0,([+-]?\d+)\)$`)
)

// ParseShape accepts "convex-up"/"convex-down" and the short forms
// "up"/"down", case-insensitively, with spaces or underscores in place
// of the hyphen.
func ParseShape(answer string) (Shape, error) {
	s := strings.ToLower(strings.TrimSpace(answer))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	switch s {
	case "convex-up", "up":
		return ShapeConvexUp, nil
	case "convex-down", "down":
		return ShapeConvexDown, nil
	}
	return "", fmt.Errorf("%w: shape %q", ErrUnparseable, answer)
}

// ParsePair parses an ordered pair such as "(-1, 2)". Whitespace and plus
// signs are ignored, so "( +1 , 2 )" equals "(1,2)".
func ParsePair(answer string) (x, y int, err error) {
	m := pairPattern.FindStringSubmatch(NormalizePair(answer))
	if m == nil {
		return 0, 0, fmt.Errorf("%w: pair %q", ErrUnparseable, answer)
	}
	x, errX := strconv.Atoi(m[1])
	y, errY := strconv.Atoi(m[2])
	if errX != nil || errY != nil {
		return 0, 0, fmt.Errorf("%w: pair %q", ErrUnparseable, answer)
	}
	return x, y, nil
}

// NormalizePair strips whitespace and plus signs from a pair answer. The
// result is what gets recorded as the step's last input.
func NormalizePair(answer string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '+' {
			return -1
		}
		return r
	}, answer)
}

// ParseYIntercept accepts either a bare integer ("3", "-2", "+1") or a point
// on the y axis ("(0, 3)").
func ParseYIntercept(answer string) (int, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, answer)

	m := bareIntPattern.FindStringSubmatch(s)
	if m == nil {
		m = yAxisPointPattern.FindStringSubmatch(s)
	}
	if m == nil {
		return 0, fmt.Errorf("%w: y-intercept %q", ErrUnparseable, answer)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: y-intercept %q", ErrUnparseable, answer)
	}
	return n, nil
}
