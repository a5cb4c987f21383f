// Package exercise is the terminal screen for the five drawing steps.
package exercise

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/parabola/internal/canvas"
	"github.com/abhisek/parabola/internal/router"
	"github.com/abhisek/parabola/internal/screen"
	"github.com/abhisek/parabola/internal/screens/result"
	"github.com/abhisek/parabola/internal/session"
	"github.com/abhisek/parabola/internal/ui/components"
	"github.com/abhisek/parabola/internal/ui/layout"
)

// shapeOptions are the step 1 choices, in the words ParseShape accepts.
var shapeOptions = []string{"convex down", "convex up"}

// ExerciseScreen implements screen.Screen for a running ExerciseSession.
type ExerciseScreen struct {
	sess *session.ExerciseSession

	choice  components.MultiChoice
	input   components.TextInput
	explain textarea.Model
	plane   components.Plane
	spinner spinner.Model

	// last is the outcome of the most recent submission on this stage.
	last    *session.StepResult
	status  string
	errMsg  string
	grading bool

	events  chan session.Event
	initCmd tea.Cmd
}

var _ screen.Screen = (*ExerciseScreen)(nil)
var _ screen.KeyHintProvider = (*ExerciseScreen)(nil)
var _ screen.StepProvider = (*ExerciseScreen)(nil)

// New creates the screen for sess.
func New(sess *session.ExerciseSession) *ExerciseScreen {
	s := &ExerciseScreen{
		sess:    sess,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		events:  make(chan session.Event, 16),
	}
	sess.Subscribe(func(e session.Event) {
		select {
		case s.events <- e:
		default:
		}
	})
	s.initCmd = s.enterStage(sess.Stage())
	return s
}

func (s *ExerciseScreen) Init() tea.Cmd {
	return tea.Batch(s.initCmd, s.waitForEvent())
}

func (s *ExerciseScreen) Title() string {
	return "Draw the parabola"
}

// Step reports the current step for the header.
func (s *ExerciseScreen) Step() (int, int) {
	return s.sess.Stage().Step(), session.StageExplanation.Step()
}

func (s *ExerciseScreen) KeyHints() []layout.KeyHint {
	if s.grading {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	switch s.sess.Stage() {
	case session.StageShape:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	case session.StageGraphConstruction:
		return []layout.KeyHint{
			{Key: "←↑↓→", Description: "Move"},
			{Key: "Enter", Description: "Place"},
			{Key: "V/P", Description: "Tool"},
			{Key: "D", Description: "Draw"},
			{Key: "C", Description: "Clear"},
			{Key: "G", Description: "Check"},
		}
	case session.StageExplanation:
		return []layout.KeyHint{
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// enterStage prepares the widget for stage.
func (s *ExerciseScreen) enterStage(stage session.Stage) tea.Cmd {
	switch stage {
	case session.StageShape:
		s.choice = components.NewMultiChoice("What shape is the graph?", shapeOptions)
	case session.StageVertexForm:
		s.input = components.NewTextInput("(h, k)", 16)
		return s.input.Init()
	case session.StageYIntercept:
		s.input = components.NewTextInput("e.g. 3 or (0, 3)", 16)
		return s.input.Init()
	case session.StageGraphConstruction:
		s.plane = components.NewPlane(s.sess.View().Scene)
	case session.StageExplanation:
		s.explain = textarea.New()
		s.explain.Placeholder = "Describe how you drew the graph..."
		s.explain.SetWidth(60)
		s.explain.SetHeight(5)
		return s.explain.Focus()
	}
	return nil
}

func (s *ExerciseScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case gradedMsg:
		return s.handleGraded(msg)

	case sessionEventMsg:
		if text := describeEvent(session.Event(msg)); text != "" {
			s.status = text
		}
		return s, s.waitForEvent()

	case spinner.TickMsg:
		if !s.grading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	switch s.sess.Stage() {
	case session.StageVertexForm, session.StageYIntercept:
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	case session.StageExplanation:
		var cmd tea.Cmd
		s.explain, cmd = s.explain.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ExerciseScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.grading {
		return s, nil
	}
	s.errMsg = ""
	ctx := context.Background()

	switch s.sess.Stage() {
	case session.StageShape:
		var chosen bool
		s.choice, chosen = s.choice.Update(msg)
		if !chosen {
			return s, nil
		}
		res, err := s.sess.SubmitShape(ctx, s.choice.Choice())
		if err == nil && res.Outcome != session.OutcomeCorrect {
			s.choice.Wrong[s.choice.Selected] = true
		}
		return s.afterStep(res, err)

	case session.StageVertexForm, session.StageYIntercept:
		if msg.String() != "enter" {
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}
		submit := s.sess.SubmitVertexForm
		if s.sess.Stage() == session.StageYIntercept {
			submit = s.sess.SubmitYIntercept
		}
		res, err := submit(ctx, s.input.Value())
		if err == nil {
			s.input.Mark(res.Outcome == session.OutcomeCorrect)
		}
		return s.afterStep(res, err)

	case session.StageGraphConstruction:
		return s.handleCanvasKey(ctx, msg.String())

	case session.StageExplanation:
		if msg.String() == "ctrl+s" {
			return s, s.submitExplanation()
		}
		var cmd tea.Cmd
		s.explain, cmd = s.explain.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ExerciseScreen) handleCanvasKey(ctx context.Context, key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "left", "h":
		s.plane.Move(-1, 0)
	case "right", "l":
		s.plane.Move(1, 0)
	case "up", "k":
		s.plane.Move(0, 1)
	case "down", "j":
		s.plane.Move(0, -1)
	case "enter", "space", " ":
		px, py := s.cursorPixel()
		if _, err := s.sess.Click(ctx, px, py); err != nil {
			s.errMsg = err.Error()
		}
	case "v":
		s.setError(s.sess.SetTool(ctx, session.ToolVertex))
	case "p":
		s.setError(s.sess.SetTool(ctx, session.ToolPassing))
	case "c":
		s.setError(s.sess.ClearCanvas(ctx))
	case "d":
		if _, err := s.sess.DrawCurve(ctx); err != nil {
			s.errMsg = curveError(err)
		}
	case "g":
		res, err := s.sess.CheckGraph(ctx)
		if errors.Is(err, session.ErrIncomplete) {
			s.errMsg = "Place both the vertex and a passing point first."
			return s, nil
		}
		return s.afterStep(res, err)
	default:
		return s, nil
	}
	s.refreshPlane()
	return s, nil
}

// refreshPlane copies the scene and the hover preview into the plane.
func (s *ExerciseScreen) refreshPlane() {
	s.plane.Scene = s.sess.View().Scene
	s.plane.Ghost = nil
	px, py := s.cursorPixel()
	if pv, err := s.sess.Hover(px, py); err == nil {
		s.plane.Ghost = pv.Curve
	}
}

func (s *ExerciseScreen) cursorPixel() (float64, float64) {
	sys := s.sess.System()
	return sys.ToPixelX(float64(s.plane.CursorX)), sys.ToPixelY(float64(s.plane.CursorY))
}

func (s *ExerciseScreen) setError(err error) {
	if err != nil {
		s.errMsg = err.Error()
	}
}

func curveError(err error) string {
	switch {
	case errors.Is(err, canvas.ErrIncomplete):
		return "Place both the vertex and a passing point first."
	case errors.Is(err, canvas.ErrDegenerate):
		return "The passing point must not share the vertex's x. Move it and try again."
	}
	return err.Error()
}

// afterStep records a step result and moves to the next widget when the
// stage advanced.
func (s *ExerciseScreen) afterStep(res session.StepResult, err error) (screen.Screen, tea.Cmd) {
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.last = &res
	if res.Outcome != session.OutcomeCorrect {
		return s, nil
	}
	return s, s.enterStage(res.Stage)
}

func (s *ExerciseScreen) submitExplanation() tea.Cmd {
	s.grading = true
	s.last = nil
	sess := s.sess
	description := s.explain.Value()
	grade := func() tea.Msg {
		sub, err := sess.SubmitExplanation(context.Background(), description)
		return gradedMsg{Submission: sub, Err: err}
	}
	return tea.Batch(grade, s.spinner.Tick)
}

func (s *ExerciseScreen) handleGraded(msg gradedMsg) (screen.Screen, tea.Cmd) {
	s.grading = false
	if msg.Submission == nil {
		s.errMsg = fmt.Sprintf("Could not finish the exercise: %v", msg.Err)
		return s, nil
	}
	res := result.New(msg.Submission)
	if msg.Err != nil {
		res.Warning = "The submission could not be saved: " + msg.Err.Error()
	}
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: res} }
}

func (s *ExerciseScreen) waitForEvent() tea.Cmd {
	ch := s.events
	return func() tea.Msg {
		return sessionEventMsg(<-ch)
	}
}

func describeEvent(e session.Event) string {
	switch e.Kind {
	case session.EventStepPassed:
		return fmt.Sprintf("Step %d passed.", e.Step)
	case session.EventStepFailed:
		return fmt.Sprintf("Step %d: try again.", e.Step)
	case session.EventGradingStarted:
		return "Sending your explanation for grading..."
	case session.EventGradingFinished:
		return "Grading finished."
	case session.EventReset:
		return "Exercise restarted."
	}
	return ""
}
