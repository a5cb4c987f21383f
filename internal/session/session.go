// Package session runs one quadratic drawing exercise: five steps checked
// against a generated problem, the drawing canvas, grading of the final
// explanation and persistence of the result.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/parabola/internal/canvas"
	"github.com/abhisek/parabola/internal/grading"
	"github.com/abhisek/parabola/internal/problemgen"
	"github.com/abhisek/parabola/internal/render"
)

var (
	// ErrStepNotActive is returned when an answer targets a stage other
	// than the current one.
	ErrStepNotActive = errors.New("step not active")

	// ErrGradingInFlight is returned for transitions attempted while the
	// explanation is being graded.
	ErrGradingInFlight = errors.New("grading in flight")

	// ErrIncomplete is returned when the graph is checked before both
	// points are placed. No attempt is recorded.
	ErrIncomplete = canvas.ErrIncomplete

	// ErrCompleted is returned for any transition after the exercise ends.
	ErrCompleted = errors.New("exercise already completed")

	// ErrNoRenderer is returned by WriteCanvasPNG when rendering is off.
	ErrNoRenderer = errors.New("canvas rendering not configured")
)

// DefaultCanvasSize is the pixel size of the square drawing canvas.
const DefaultCanvasSize = 560

// Config wires an ExerciseSession.
type Config struct {
	// ID defaults to a new UUID.
	ID          string
	StudentID   string
	StudentName string

	// Problem fixes the target; nil draws one from Generator.
	Problem   *problemgen.Problem
	Generator *problemgen.Generator

	Grader   grading.Gateway
	Renderer *render.Renderer

	// Repo persists the session; nil keeps it in memory only.
	Repo *Repo

	// Key is the store key of the session record. Defaults to
	// CurrentSessionKey.
	Key string

	// CanvasSize is the pixel size pointer coordinates refer to.
	CanvasSize float64

	Logger *slog.Logger
	Now    func() time.Time
}

func (c *Config) setDefaults() {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.StudentID == "" {
		c.StudentID = GuestID
	}
	if c.StudentName == "" {
		c.StudentName = GuestID
	}
	if c.Grader == nil {
		c.Grader = grading.Unavailable{}
	}
	if c.Key == "" {
		c.Key = CurrentSessionKey
	}
	if c.CanvasSize <= 0 {
		c.CanvasSize = DefaultCanvasSize
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// ExerciseSession is one student's pass through the exercise. All methods
// are safe for concurrent use; transitions on the same session serialise.
type ExerciseSession struct {
	grader   grading.Gateway
	renderer *render.Renderer
	repo     *Repo
	key      string
	sys      canvas.System
	logger   *slog.Logger
	now      func() time.Time
	events   bus

	mu      sync.Mutex
	record  Record
	problem problemgen.Problem
	stage   Stage
	records StepRecords
	clues   []string
	scene   *canvas.Scene
	tool    ToolMode
	grading bool
	last    *Submission
	version uint64

	// persistMu orders store writes; written is the newest snapshot
	// version on disk.
	persistMu sync.Mutex
	written   uint64
}

// New starts a session on a fresh or given problem and persists it.
func New(ctx context.Context, cfg Config) (*ExerciseSession, error) {
	cfg.setDefaults()

	var p problemgen.Problem
	switch {
	case cfg.Problem != nil:
		p = *cfg.Problem
	case cfg.Generator != nil:
		p = cfg.Generator.Generate()
	default:
		p = problemgen.NewGenerator(nil).Generate()
	}
	if p.IsFallback() {
		cfg.Logger.Warn("problem generation exhausted its attempts, using fallback", "problem", problemgen.Label(p))
	}

	rec := Record{
		ID:               cfg.ID,
		StudentID:        cfg.StudentID,
		StudentName:      cfg.StudentName,
		ProblemID:        RandomProblemID,
		StartedAt:        cfg.Now().UTC(),
		GeneratedProblem: &p,
		ProblemLabel:     problemgen.Label(p),
		Stage:            StageShape,
		Tool:             ToolVertex,
	}
	s, err := newSession(cfg, rec, StepRecords{})
	if err != nil {
		return nil, err
	}
	s.persist(ctx, s.snapshotLocked())
	s.logger.Info("session started", "student", rec.StudentID, "problem", rec.ProblemLabel)
	return s, nil
}

// Resume restores the session stored under cfg.Key. It returns
// store.ErrNotFound when there is none.
func Resume(ctx context.Context, cfg Config) (*ExerciseSession, error) {
	cfg.setDefaults()
	if cfg.Repo == nil {
		return nil, errors.New("resume requires a repo")
	}
	rec, err := cfg.Repo.LoadSession(ctx, cfg.Key)
	if err != nil {
		return nil, err
	}
	if rec.GeneratedProblem == nil {
		return nil, fmt.Errorf("session %s has no problem", rec.ID)
	}
	if _, err := problemgen.NewProblem(rec.GeneratedProblem.A, rec.GeneratedProblem.H, rec.GeneratedProblem.K); err != nil && !rec.GeneratedProblem.IsFallback() {
		return nil, fmt.Errorf("session %s: %w", rec.ID, err)
	}
	records, err := cfg.Repo.LoadStepAnswers(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	if rec.Stage < StageShape || rec.Stage > StageCompleted {
		rec.Stage = StageShape
	}
	cfg.ID = rec.ID
	s, err := newSession(cfg, *rec, records)
	if err != nil {
		return nil, err
	}
	if s.stage == StageCompleted {
		if sub, err := cfg.Repo.LatestSubmission(ctx, rec.ID); err == nil {
			s.last = sub
		}
	}
	return s, nil
}

func newSession(cfg Config, rec Record, records StepRecords) (*ExerciseSession, error) {
	sys, err := canvas.NewSystem(cfg.CanvasSize, cfg.CanvasSize)
	if err != nil {
		return nil, err
	}
	tool := rec.Tool
	if tool == "" {
		tool = ToolVertex
	}
	if records == nil {
		records = StepRecords{}
	}
	return &ExerciseSession{
		grader:   cfg.Grader,
		renderer: cfg.Renderer,
		repo:     cfg.Repo,
		key:      cfg.Key,
		sys:      sys,
		logger:   cfg.Logger.With("session", rec.ID),
		now:      cfg.Now,
		record:   rec,
		problem:  *rec.GeneratedProblem,
		stage:    rec.Stage,
		records:  records,
		clues:    append([]string(nil), rec.Clues...),
		scene:    canvas.Restore(rec.Scene),
		tool:     tool,
	}, nil
}

// ID returns the session id.
func (s *ExerciseSession) ID() string { return s.record.ID }

// Key returns the store key of the session record.
func (s *ExerciseSession) Key() string { return s.key }

// Problem returns the target problem.
func (s *ExerciseSession) Problem() problemgen.Problem { return s.problem }

// System returns the pixel mapping used for pointer input.
func (s *ExerciseSession) System() canvas.System { return s.sys }

// Stage returns the current stage.
func (s *ExerciseSession) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Submission returns the submission once the exercise is completed.
func (s *ExerciseSession) Submission() *Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// View returns a snapshot for display.
func (s *ExerciseSession) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		ID:          s.record.ID,
		StudentID:   s.record.StudentID,
		StudentName: s.record.StudentName,
		ProblemText: problemgen.ProblemText(s.problem),
		Stage:       s.stage,
		Step:        s.stage.Step(),
		Records:     s.records.Clone(),
		Clues:       append([]string{}, s.clues...),
		Scene:       s.scene.State(),
		Tool:        s.tool,
		Grading:     s.grading,
		Submission:  s.last,
	}
}

// Subscribe registers fn for every subsequent event and returns a function
// that removes it.
func (s *ExerciseSession) Subscribe(fn func(Event)) (unsubscribe func()) {
	return s.events.subscribe(fn)
}

// SubmitShape answers step 1.
func (s *ExerciseSession) SubmitShape(ctx context.Context, answer string) (StepResult, error) {
	return s.submit(ctx, StageShape, func() (Verdict, error) {
		return CheckShape(s.problem, answer), nil
	})
}

// SubmitVertexForm answers step 2.
func (s *ExerciseSession) SubmitVertexForm(ctx context.Context, answer string) (StepResult, error) {
	return s.submit(ctx, StageVertexForm, func() (Verdict, error) {
		return CheckVertexForm(s.problem, answer), nil
	})
}

// SubmitYIntercept answers step 3.
func (s *ExerciseSession) SubmitYIntercept(ctx context.Context, answer string) (StepResult, error) {
	return s.submit(ctx, StageYIntercept, func() (Verdict, error) {
		return CheckYIntercept(s.problem, answer), nil
	})
}

// CheckGraph checks the placed points for step 4. A correct graph also
// derives and stores the curve.
func (s *ExerciseSession) CheckGraph(ctx context.Context) (StepResult, error) {
	return s.submit(ctx, StageGraphConstruction, func() (Verdict, error) {
		v, err := CheckGraph(s.problem, s.scene)
		if err != nil {
			return v, err
		}
		if v.Outcome == OutcomeCorrect {
			if _, err := s.scene.DeriveCurve(); err != nil {
				return Verdict{}, err
			}
		}
		return v, nil
	})
}

// submit runs check for stage under the session lock, records the attempt
// and advances on a correct answer.
func (s *ExerciseSession) submit(ctx context.Context, stage Stage, check func() (Verdict, error)) (StepResult, error) {
	s.mu.Lock()
	if err := s.activeLocked(stage); err != nil {
		s.mu.Unlock()
		return StepResult{}, err
	}
	v, err := check()
	if err != nil {
		s.mu.Unlock()
		return StepResult{}, err
	}

	step := stage.Step()
	rec := s.records[step]
	rec.Record(v.Outcome == OutcomeCorrect, v.Input, v.CorrectAnswer)
	if v.Diagnosis != nil {
		rec.AddMisconception(v.Diagnosis.MisconceptionID)
	}
	s.records[step] = rec

	res := StepResult{
		Step:        step,
		Outcome:     v.Outcome,
		Message:     v.Message,
		Explanation: v.Explanation,
		Diagnosis:   v.Diagnosis,
		Record:      rec,
	}
	var events []Event
	if v.Outcome == OutcomeCorrect {
		if v.Clue != "" {
			s.clues = append(s.clues, v.Clue)
			res.Clue = v.Clue
		}
		if c, ok := s.scene.Curve(); ok && stage == StageGraphConstruction {
			res.Curve = &c
		}
		s.stage++
		events = append(events,
			Event{Kind: EventStepPassed, Step: step, Outcome: v.Outcome, Message: v.Message},
			Event{Kind: EventStageAdvanced, Step: s.stage.Step(), Message: s.stage.String()},
		)
	} else {
		events = append(events, Event{Kind: EventStepFailed, Step: step, Outcome: v.Outcome, Message: v.Explanation})
	}
	res.Stage = s.stage
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("step submitted", "step", step, "outcome", v.Outcome, "attempts", rec.Attempts)
	s.persist(ctx, snap)
	s.events.emit(events...)
	return res, nil
}

// activeLocked checks that stage may take a transition now.
func (s *ExerciseSession) activeLocked(stage Stage) error {
	switch {
	case s.grading:
		return ErrGradingInFlight
	case s.stage == StageCompleted:
		return ErrCompleted
	case s.stage != stage:
		return fmt.Errorf("%w: current stage is %s, not %s", ErrStepNotActive, s.stage, stage)
	}
	return nil
}

// Reset clears every step record, the clues and the canvas and returns to
// the shape step. The problem stays the same.
func (s *ExerciseSession) Reset(ctx context.Context) error {
	s.mu.Lock()
	if s.grading {
		s.mu.Unlock()
		return ErrGradingInFlight
	}
	s.stage = StageShape
	s.records = StepRecords{}
	s.clues = nil
	s.scene.Clear()
	s.tool = ToolVertex
	s.last = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("session reset")
	s.persist(ctx, snap)
	s.events.emit(Event{Kind: EventReset, Step: StageShape.Step()})
	return nil
}

type snapshot struct {
	version uint64
	record  Record
	records StepRecords
}

func (s *ExerciseSession) snapshotLocked() snapshot {
	rec := s.record
	rec.Stage = s.stage
	rec.Clues = append([]string(nil), s.clues...)
	rec.Scene = s.scene.State()
	rec.Tool = s.tool
	s.record = rec
	s.version++
	return snapshot{version: s.version, record: rec, records: s.records.Clone()}
}

// persist writes the session record and step answers. Writes are
// serialised, and a snapshot older than the one already written is
// dropped. Failures are logged; the in-memory session stays authoritative.
func (s *ExerciseSession) persist(ctx context.Context, snap snapshot) {
	if s.repo == nil {
		return
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if snap.version <= s.written {
		s.logger.Debug("stale snapshot skipped", "version", snap.version, "written", s.written)
		return
	}
	s.written = snap.version
	ctx = context.WithoutCancel(ctx)
	if err := s.repo.SaveSession(ctx, s.key, &snap.record); err != nil {
		s.logger.Warn("persist session failed", "error", err)
	}
	if err := s.repo.SaveStepAnswers(ctx, snap.record.ID, snap.records); err != nil {
		s.logger.Warn("persist step answers failed", "error", err)
	}
}
