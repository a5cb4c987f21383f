package session

import (
	"context"
	"fmt"
	"io"

	"github.com/abhisek/parabola/internal/canvas"
	"github.com/abhisek/parabola/internal/render"
)

// Preview is what the canvas shows under the pointer before a click.
type Preview struct {
	Snap canvas.Snap `json:"snap"`
	Tool ToolMode    `json:"tool"`

	// Curve is the parabola the previewed passing point would produce.
	Curve *canvas.Curve `json:"curve,omitempty"`
}

// ClickResult reports a committed pointer click.
type ClickResult struct {
	Snap   canvas.Snap   `json:"snap"`
	Role   canvas.Role   `json:"role"`
	Change canvas.Change `json:"-"`
	Result string        `json:"result"`
	Tool   ToolMode      `json:"tool"`
	Scene  canvas.State  `json:"scene"`
}

// Hover snaps the pixel position for the current tool without changing
// anything. It does not wait on grading.
func (s *ExerciseSession) Hover(px, py float64) (Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageGraphConstruction {
		return Preview{}, fmt.Errorf("%w: pointer input needs the graph step", ErrStepNotActive)
	}

	snap := s.sys.SnapPixel(px, py)
	pv := Preview{Snap: snap, Tool: s.tool}
	if s.tool == ToolPassing && snap.Valid {
		if v, ok := s.scene.Vertex(); ok {
			if c, err := canvas.FitGrid(v.GridPoint(), snap.GridPoint()); err == nil {
				pv.Curve = &c
			}
		}
	}
	return pv, nil
}

// Click snaps the pixel position and places the point for the current
// tool. Placing the vertex switches the tool to the passing point.
func (s *ExerciseSession) Click(ctx context.Context, px, py float64) (ClickResult, error) {
	s.mu.Lock()
	if err := s.activeLocked(StageGraphConstruction); err != nil {
		s.mu.Unlock()
		return ClickResult{}, err
	}

	snap := s.sys.SnapPixel(px, py)
	if !snap.Valid {
		s.mu.Unlock()
		return ClickResult{}, fmt.Errorf("%w: (%g, %g)", canvas.ErrOutOfBounds, px, py)
	}

	role := s.tool.role()
	change := s.scene.UpsertPoint(role, snap.X, snap.Y)
	if role == canvas.RoleVertex && (change == canvas.ChangeApplied || change == canvas.ChangeLocked) {
		s.tool = ToolPassing
	}
	res := ClickResult{
		Snap:   snap,
		Role:   role,
		Change: change,
		Result: change.String(),
		Tool:   s.tool,
		Scene:  s.scene.State(),
	}
	persisted := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, persisted)
	return res, nil
}

// SetTool switches the tool mode.
func (s *ExerciseSession) SetTool(ctx context.Context, mode ToolMode) error {
	if _, err := ParseToolMode(string(mode)); err != nil {
		return err
	}
	s.mu.Lock()
	if err := s.activeLocked(StageGraphConstruction); err != nil {
		s.mu.Unlock()
		return err
	}
	s.tool = mode
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snap)
	return nil
}

// ClearCanvas removes every placed element and unlocks the vertex.
func (s *ExerciseSession) ClearCanvas(ctx context.Context) error {
	s.mu.Lock()
	if err := s.activeLocked(StageGraphConstruction); err != nil {
		s.mu.Unlock()
		return err
	}
	s.scene.Clear()
	s.tool = ToolVertex
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snap)
	return nil
}

// DrawCurve fits and stores the curve through the placed points without
// checking it. A degenerate pair leaves the canvas unchanged.
func (s *ExerciseSession) DrawCurve(ctx context.Context) (canvas.Curve, error) {
	s.mu.Lock()
	if err := s.activeLocked(StageGraphConstruction); err != nil {
		s.mu.Unlock()
		return canvas.Curve{}, err
	}
	c, err := s.scene.DeriveCurve()
	if err != nil {
		s.mu.Unlock()
		return canvas.Curve{}, err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snap)
	return c, nil
}

// WriteCanvasPNG renders the current canvas, with an optional preview
// marker, to w.
func (s *ExerciseSession) WriteCanvasPNG(w io.Writer, preview *render.Preview) error {
	if s.renderer == nil {
		return ErrNoRenderer
	}
	s.mu.Lock()
	st := s.scene.State()
	s.mu.Unlock()
	return s.renderer.WritePNG(w, st, preview)
}
