package session

import (
	"fmt"
	"time"

	"github.com/abhisek/parabola/internal/canvas"
	"github.com/abhisek/parabola/internal/diagnosis"
	"github.com/abhisek/parabola/internal/grading"
	"github.com/abhisek/parabola/internal/problemgen"
)

// Stage is a step of the exercise. Stages only move forward; Reset returns
// to StageShape.
type Stage int

const (
	StageShape Stage = iota + 1
	StageVertexForm
	StageYIntercept
	StageGraphConstruction
	StageExplanation
	StageCompleted
)

var stageNames = map[Stage]string{
	StageShape:             "shape",
	StageVertexForm:        "vertex-form",
	StageYIntercept:        "y-intercept",
	StageGraphConstruction: "graph",
	StageExplanation:       "explanation",
	StageCompleted:         "completed",
}

func (s Stage) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Step returns the step number 1–5, or 0 once the exercise is completed.
func (s Stage) Step() int {
	if s < StageShape || s > StageExplanation {
		return 0
	}
	return int(s)
}

func (s Stage) MarshalText() ([]byte, error) {
	if _, ok := stageNames[s]; !ok {
		return nil, fmt.Errorf("unknown stage %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(b []byte) error {
	for st, name := range stageNames {
		if name == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", b)
}

// Outcome classifies one step submission.
type Outcome string

const (
	OutcomeCorrect Outcome = "correct"
	OutcomeWrong   Outcome = "wrong"

	// OutcomeMalformed means the input did not parse. It counts as a wrong
	// attempt.
	OutcomeMalformed Outcome = "malformed"
)

// ToolMode selects which point a click places during graph construction.
type ToolMode string

const (
	ToolVertex  ToolMode = "vertex"
	ToolPassing ToolMode = "passing"
)

// ParseToolMode accepts "vertex" or "passing".
func ParseToolMode(s string) (ToolMode, error) {
	switch ToolMode(s) {
	case ToolVertex, ToolPassing:
		return ToolMode(s), nil
	}
	return "", fmt.Errorf("unknown tool mode %q", s)
}

func (m ToolMode) role() canvas.Role {
	if m == ToolPassing {
		return canvas.RolePassing
	}
	return canvas.RoleVertex
}

const (
	// GuestID is the student id and name used when none is given.
	GuestID = "guest"

	// RandomProblemID marks a generated problem.
	RandomProblemID = "random"
)

// Record is the persisted state of one exercise session.
type Record struct {
	ID               string              `json:"id"`
	StudentID        string              `json:"studentId"`
	StudentName      string              `json:"studentName"`
	ProblemID        string              `json:"problemId"`
	StartedAt        time.Time           `json:"startedAt"`
	GeneratedProblem *problemgen.Problem `json:"generatedProblem,omitempty"`
	ProblemLabel     string              `json:"problemLabel,omitempty"`

	Stage Stage        `json:"stage"`
	Clues []string     `json:"clues,omitempty"`
	Scene canvas.State `json:"scene"`
	Tool  ToolMode     `json:"tool,omitempty"`
}

// Submission is the finished exercise as the teacher view sees it. It is
// written once and never changed.
type Submission struct {
	ID            string             `json:"id"`
	SessionID     string             `json:"sessionId"`
	StudentID     string             `json:"studentId"`
	StudentName   string             `json:"studentName"`
	ProblemID     string             `json:"problemId"`
	Problem       problemgen.Problem `json:"problem"`
	ProblemLabel  string             `json:"problemLabel"`
	ProblemText   string             `json:"problemText"`
	StepRecords   StepRecords        `json:"stepAnswers"`
	Description   string             `json:"description"`
	RenderedImage []byte             `json:"renderedImage,omitempty"`
	GPTFeedback   *grading.Result    `json:"gptFeedback"`
	StudyAdvice   StudyAdvice        `json:"studyAdvice"`
	SubmittedAt   time.Time          `json:"submittedAt"`
}

// View is a read-only snapshot of a session for presentation layers. It
// carries the problem text but not the answer key.
type View struct {
	ID          string       `json:"id"`
	StudentID   string       `json:"studentId"`
	StudentName string       `json:"studentName"`
	ProblemText string       `json:"problemText"`
	Stage       Stage        `json:"stage"`
	Step        int          `json:"step"`
	Records     StepRecords  `json:"stepAnswers"`
	Clues       []string     `json:"clues"`
	Scene       canvas.State `json:"scene"`
	Tool        ToolMode     `json:"tool"`
	Grading     bool         `json:"grading"`
	Submission  *Submission  `json:"submission,omitempty"`
}

// StepResult reports the outcome of one step submission.
type StepResult struct {
	Step        int               `json:"step"`
	Outcome     Outcome           `json:"outcome"`
	Message     string            `json:"message"`
	Explanation string            `json:"explanation,omitempty"`
	Clue        string            `json:"clue,omitempty"`
	Diagnosis   *diagnosis.Result `json:"diagnosis,omitempty"`
	Record      StepRecord        `json:"record"`
	Stage       Stage             `json:"stage"`
	Curve       *canvas.Curve     `json:"curve,omitempty"`
}
