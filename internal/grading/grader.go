package grading

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/abhisek/parabola/internal/llm"
	"github.com/abhisek/parabola/internal/problemgen"
)

// Purpose tags grading calls in the LLM event log.
const Purpose = "grading"

// GraderConfig holds configuration for the LLM grader.
type GraderConfig struct {
	MaxTokens   int
	Temperature float64

	// AttachImage sends the rendered graph along with the text.
	AttachImage bool

	// Timeout bounds one grading call. Zero means no extra deadline.
	Timeout time.Duration
}

// DefaultGraderConfig returns the grading defaults.
func DefaultGraderConfig() GraderConfig {
	return GraderConfig{
		MaxTokens:   1024,
		Temperature: 0.4,
		AttachImage: true,
		Timeout:     30 * time.Second,
	}
}

// Grader is the LLM-backed Gateway.
type Grader struct {
	provider llm.Provider
	cfg      GraderConfig
	logger   *slog.Logger
}

// NewGrader creates a Grader. A nil logger uses slog.Default.
func NewGrader(provider llm.Provider, cfg GraderConfig, logger *slog.Logger) *Grader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Grader{provider: provider, cfg: cfg, logger: logger}
}

// Grade sends req to the LLM. Every failure yields a zero-score fallback
// result alongside the error.
func (g *Grader) Grade(ctx context.Context, req *Request) (*Result, error) {
	ctx = llm.WithCall(ctx, llm.Call{Purpose: Purpose, SessionID: req.SessionID})
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	withImage := g.cfg.AttachImage && len(req.RenderedImage) > 0
	userMsg, err := buildGradingMessage(req, withImage)
	if err != nil {
		return networkFallback(err), fmt.Errorf("build grading prompt: %w", err)
	}

	msg := llm.Message{Role: llm.RoleUser, Content: userMsg}
	if withImage {
		msg.Images = []llm.Image{{MediaType: "image/png", Data: req.RenderedImage}}
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      gradingSystemPrompt,
		Messages:    []llm.Message{msg},
		Schema:      ResultSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})

	var content []byte
	var inv *llm.ErrInvalidResponse
	switch {
	case err == nil:
		content = resp.Content
	case errors.As(err, &inv) && len(inv.Content) > 0:
		// Fenced or partially valid JSON still goes through repair.
		content = inv.Content
	default:
		g.logger.Warn("grading call failed", "error", err)
		return Fallback(err), fmt.Errorf("grading call: %w", err)
	}

	res, perr := Parse(content)
	if perr != nil {
		g.logger.Warn("grading response unparseable", "error", perr, "content", string(content))
		return parseFallback(content), perr
	}

	g.logger.Info("graded explanation", "score", res.Score, "max_score", res.MaxScore)
	return res, nil
}

// Fallback returns the zero-score result for a failed grading call.
// Provider-side rejections get the four-criterion upstream variant and
// everything else the network variant.
func Fallback(err error) *Result {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return networkFallback(err)
	}
	var (
		rl       *llm.ErrRateLimit
		unavail  *llm.ErrProviderUnavailable
		maxTok   *llm.ErrMaxTokensExceeded
		rejected *llm.ErrRejected
	)
	if errors.As(err, &rl) || errors.As(err, &unavail) || errors.As(err, &maxTok) || errors.As(err, &rejected) {
		return upstreamFallback(err)
	}
	return networkFallback(err)
}

const gradingSystemPrompt = `You are a high-school mathematics teacher. You grade students' quadratic function graphs accurately and report your evaluation as a checklist.`

const exampleAnswer = `Writing the function in completed-square form gives y = -(x-1)^2 + 1, so the vertex is at (1, 1). Substituting x = 0 gives y = 1, so the y-intercept is 1. The leading coefficient is negative, so the graph is convex up.`

type promptData struct {
	Problem       string
	Vertex        string
	YIntercept    int
	Shape         string
	Clues         []string
	Example       string
	Description   string
	ImageAttached bool
}

var gradingUserTemplate = template.Must(template.New("grading").Parse(`You are grading a student's quadratic graph assignment.
Problem: {{.Problem}}

Correct answer (grade strictly against these values):
- Vertex: {{.Vertex}}
- y-intercept: {{.YIntercept}}
- Shape: {{.Shape}}
{{if .Clues}}
The student confirmed these facts during the exercise:
{{range .Clues}}- {{.}}
{{end}}{{end}}{{if .ImageAttached}}
The attached image is the graph the student drew.
{{end}}
Grade the student's explanation of their graph with this checklist:
1. Is the vertex of the parabola correct? (1 point)
   Pass when the vertex the student states matches the correct vertex.
2. Is the y-intercept correct? (1 point)
   Pass when the y-intercept the student states matches the correct y-intercept.
3. Did the student identify whether the parabola is convex up or convex down? (1 point)
   Pass when the shape the student states matches the correct shape.

Example of a full-score answer:
"{{.Example}}"

The student's explanation:
"{{.Description}}"

Output pure JSON only. Never use markdown code blocks or add any prose.

Output format:
{
  "checklist": {
    "vertexCorrect": {"passed": true/false, "score": 0 or 1, "comment": "evaluation comment"},
    "yInterceptCorrect": {"passed": true/false, "score": 0 or 1, "comment": "evaluation comment"},
    "shapeCorrect": {"passed": true/false, "score": 0 or 1, "comment": "evaluation comment"}
  },
  "score": integer 0-3 (the sum of the checklist scores),
  "maxScore": 3,
  "feedback": "Kind overall feedback with suggestions. Even when the explanation is correct, mention what would be worth explaining further."
}
`))

var (
	latexDelims = strings.NewReplacer(`\(`, "", `\)`, "")
	latexExpGrp = regexp.MustCompile(`\^\{([^}]+)\}`)
	latexBraces = regexp.MustCompile(`\{([^}]+)\}`)
)

// PlainText strips LaTeX markup from a problem statement:
// `\(y = x^{2}\)` becomes `y = x^2`.
func PlainText(s string) string {
	s = latexDelims.Replace(s)
	s = latexExpGrp.ReplaceAllString(s, "^$1")
	return latexBraces.ReplaceAllString(s, "$1")
}

func shapeWords(s problemgen.Shape) string {
	if s == problemgen.ShapeConvexDown {
		return "convex down"
	}
	return "convex up"
}

func buildGradingMessage(req *Request, withImage bool) (string, error) {
	desc := strings.TrimSpace(req.StudentDescription)
	if desc == "" {
		desc = "(none)"
	}
	text := req.ProblemText
	if text == "" {
		text = problemgen.ProblemText(req.Problem)
	}

	data := promptData{
		Problem:       PlainText(text),
		Vertex:        req.Problem.VertexString(),
		YIntercept:    req.Problem.YIntercept,
		Shape:         shapeWords(req.Problem.Shape()),
		Clues:         req.Clues,
		Example:       exampleAnswer,
		Description:   desc,
		ImageAttached: withImage,
	}

	var buf bytes.Buffer
	if err := gradingUserTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
