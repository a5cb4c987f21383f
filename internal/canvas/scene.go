package canvas

import (
	"errors"
	"fmt"
)

// ErrIncomplete is returned by DeriveCurve when either point is missing.
var ErrIncomplete = errors.New("vertex and passing point are both required")

// Role tags a placed point.
type Role string

const (
	RoleVertex  Role = "vertex"
	RolePassing Role = "passing"
)

// Element is one drawable item in a Scene: a PointElement or a Curve.
type Element interface {
	isElement()
}

// PointElement is a placed grid point.
type PointElement struct {
	Role Role `json:"role"`
	X    int  `json:"x"`
	Y    int  `json:"y"`
}

func (PointElement) isElement() {}
func (Curve) isElement()        {}

// GridPoint returns the point's coordinate.
func (p PointElement) GridPoint() GridPoint {
	return GridPoint{X: p.X, Y: p.Y}
}

// Change reports what UpsertPoint did.
type Change int

const (
	// ChangeApplied means the point was inserted or replaced.
	ChangeApplied Change = iota
	// ChangeUnchanged means the same point was already placed.
	ChangeUnchanged
	// ChangeRejected means the point collides with the other role or lies
	// outside the grid.
	ChangeRejected
	// ChangeLocked means a vertex is already placed and stays put.
	ChangeLocked
)

func (c Change) String() string {
	switch c {
	case ChangeApplied:
		return "applied"
	case ChangeUnchanged:
		return "unchanged"
	case ChangeRejected:
		return "rejected"
	case ChangeLocked:
		return "locked"
	default:
		return fmt.Sprintf("change(%d)", int(c))
	}
}

// Scene is the set of drawable elements on the plane: at most one point per
// role and at most one derived curve. The vertex locks on first placement;
// only RemovePoint(RoleVertex) or Clear frees it.
//
// A Scene is not safe for concurrent use.
type Scene struct {
	vertex  *PointElement
	passing *PointElement
	curve   *Curve
}

// UpsertPoint places a point for role, replacing a prior passing point.
// Any applied change drops the derived curve.
func (s *Scene) UpsertPoint(role Role, x, y int) Change {
	if !InBounds(float64(x), float64(y)) {
		return ChangeRejected
	}
	pt := &PointElement{Role: role, X: x, Y: y}

	switch role {
	case RoleVertex:
		if s.vertex != nil {
			if *s.vertex == *pt {
				return ChangeUnchanged
			}
			return ChangeLocked
		}
		if s.passing != nil && s.passing.X == x && s.passing.Y == y {
			return ChangeRejected
		}
		s.vertex = pt
	case RolePassing:
		if s.vertex != nil && s.vertex.X == x && s.vertex.Y == y {
			return ChangeRejected
		}
		if s.passing != nil && *s.passing == *pt {
			return ChangeUnchanged
		}
		s.passing = pt
	default:
		return ChangeRejected
	}

	s.curve = nil
	return ChangeApplied
}

// RemovePoint deletes the point with role and drops the curve. It reports
// whether a point was removed.
func (s *Scene) RemovePoint(role Role) bool {
	switch role {
	case RoleVertex:
		if s.vertex == nil {
			return false
		}
		s.vertex = nil
	case RolePassing:
		if s.passing == nil {
			return false
		}
		s.passing = nil
	default:
		return false
	}
	s.curve = nil
	return true
}

// DeriveCurve fits the curve through the placed vertex and passing point
// and stores it. On error the scene is left as it was.
func (s *Scene) DeriveCurve() (Curve, error) {
	if s.vertex == nil || s.passing == nil {
		return Curve{}, ErrIncomplete
	}
	c, err := FitGrid(s.vertex.GridPoint(), s.passing.GridPoint())
	if err != nil {
		return Curve{}, err
	}
	s.curve = &c
	return c, nil
}

// Clear removes every element.
func (s *Scene) Clear() {
	s.vertex, s.passing, s.curve = nil, nil, nil
}

// Vertex returns the placed vertex, if any.
func (s *Scene) Vertex() (PointElement, bool) {
	if s.vertex == nil {
		return PointElement{}, false
	}
	return *s.vertex, true
}

// Passing returns the placed passing point, if any.
func (s *Scene) Passing() (PointElement, bool) {
	if s.passing == nil {
		return PointElement{}, false
	}
	return *s.passing, true
}

// Curve returns the derived curve, if any.
func (s *Scene) Curve() (Curve, bool) {
	if s.curve == nil {
		return Curve{}, false
	}
	return *s.curve, true
}

// Elements lists the scene in draw order: vertex, passing point, curve.
func (s *Scene) Elements() []Element {
	var out []Element
	if s.vertex != nil {
		out = append(out, *s.vertex)
	}
	if s.passing != nil {
		out = append(out, *s.passing)
	}
	if s.curve != nil {
		out = append(out, *s.curve)
	}
	return out
}

// State is a serialisable copy of a Scene.
type State struct {
	Vertex  *GridPoint `json:"vertex,omitempty"`
	Passing *GridPoint `json:"passing,omitempty"`
	Curve   *Curve     `json:"curve,omitempty"`
}

// State returns a copy of the scene for rendering or persistence.
func (s *Scene) State() State {
	var st State
	if s.vertex != nil {
		g := s.vertex.GridPoint()
		st.Vertex = &g
	}
	if s.passing != nil {
		g := s.passing.GridPoint()
		st.Passing = &g
	}
	if s.curve != nil {
		c := *s.curve
		st.Curve = &c
	}
	return st
}

// Restore rebuilds a scene from a saved State. Points that violate the
// scene invariants are dropped.
func Restore(st State) *Scene {
	s := &Scene{}
	if st.Vertex != nil {
		s.UpsertPoint(RoleVertex, st.Vertex.X, st.Vertex.Y)
	}
	if st.Passing != nil {
		s.UpsertPoint(RolePassing, st.Passing.X, st.Passing.Y)
	}
	if st.Curve != nil && s.vertex != nil && s.passing != nil {
		_, _ = s.DeriveCurve()
	}
	return s
}
