package grading

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/parabola/internal/llm"
	"github.com/abhisek/parabola/internal/problemgen"
)

func testRequest(t *testing.T) *Request {
	t.Helper()
	p, err := problemgen.NewProblem(1, -1, 2)
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	return &Request{
		ProblemText:        problemgen.ProblemText(p),
		Problem:            p,
		StudentDescription: "The vertex is (-1, 2) and it crosses the y axis at 3.",
		RenderedImage:      []byte{0x89, 'P', 'N', 'G'},
		Clues:              []string{"Shape: convex down", "Vertex: (-1, 2)"},
	}
}

const fullResponse = `{"checklist":{"vertexCorrect":{"passed":true,"score":1,"comment":"ok"},"yInterceptCorrect":{"passed":true,"score":1,"comment":"ok"},"shapeCorrect":{"passed":false,"score":0,"comment":"shape not mentioned"}},"score":2,"maxScore":3,"feedback":"Mention the shape too."}`

func TestGrader_Success(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(fullResponse)})
	g := NewGrader(mock, DefaultGraderConfig(), nil)

	res, err := g.Grade(context.Background(), testRequest(t))
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.Score != 2 || res.MaxScore != 3 || res.Fallback {
		t.Errorf("result = %+v", res)
	}
	if res.Checklist[CriterionShape].Passed {
		t.Error("shape criterion should have failed")
	}

	call := mock.Calls[0]
	if call.Temperature != 0.4 {
		t.Errorf("temperature = %v, want 0.4", call.Temperature)
	}
	if call.Schema != ResultSchema {
		t.Error("expected grading schema")
	}
	if !strings.Contains(call.System, "high-school mathematics teacher") {
		t.Errorf("system prompt = %q", call.System)
	}

	msg := call.Messages[0]
	if len(msg.Images) != 1 || msg.Images[0].MediaType != "image/png" {
		t.Errorf("images = %+v", msg.Images)
	}
	for _, want := range []string{
		"Problem: Draw the graph of y = x^2 + 2x + 3 step by step.",
		"- Vertex: (-1, 2)",
		"- y-intercept: 3",
		"- Shape: convex down",
		"- Shape: convex down\n- Vertex: (-1, 2)\n",
		"The attached image is the graph the student drew.",
		`"The vertex is (-1, 2) and it crosses the y axis at 3."`,
	} {
		if !strings.Contains(msg.Content, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg.Content)
		}
	}
	if strings.Contains(msg.Content, `\(`) {
		t.Error("prompt still contains LaTeX delimiters")
	}
}

func TestGrader_ImageDisabled(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(fullResponse)})
	cfg := DefaultGraderConfig()
	cfg.AttachImage = false
	g := NewGrader(mock, cfg, nil)

	if _, err := g.Grade(context.Background(), testRequest(t)); err != nil {
		t.Fatalf("Grade: %v", err)
	}
	msg := mock.Calls[0].Messages[0]
	if len(msg.Images) != 0 {
		t.Errorf("expected no images, got %d", len(msg.Images))
	}
	if strings.Contains(msg.Content, "attached image") {
		t.Error("prompt mentions an image that was not attached")
	}
}

func TestGrader_EmptyDescription(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(fullResponse)})
	g := NewGrader(mock, DefaultGraderConfig(), nil)

	req := testRequest(t)
	req.StudentDescription = "   "
	if _, err := g.Grade(context.Background(), req); err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, `"(none)"`) {
		t.Error("expected placeholder for empty description")
	}
}

func TestGrader_FencedContentRepaired(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("```json\n{\"feedback\":\"Good start.\"}\n```"),
	})
	g := NewGrader(mock, DefaultGraderConfig(), nil)

	res, err := g.Grade(context.Background(), testRequest(t))
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.Feedback != "Good start." || res.MaxScore != 3 || res.Score != 0 {
		t.Errorf("result = %+v", res)
	}
	if res.Checklist[CriterionVertex].Comment != "checklist missing" {
		t.Errorf("comment = %q", res.Checklist[CriterionVertex].Comment)
	}
}

func TestGrader_InvalidResponseContentRepaired(t *testing.T) {
	raw := json.RawMessage(`{"checklist":{"vertexCorrect":{"passed":true,"score":3}},"feedback":"ok"}`)
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrInvalidResponse{Content: raw, Err: errors.New("schema validation failed")},
	})
	g := NewGrader(mock, DefaultGraderConfig(), nil)

	res, err := g.Grade(context.Background(), testRequest(t))
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.Score != 1 || res.MaxScore != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestGrader_UnparseableResponse(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("Great job overall!")})
	g := NewGrader(mock, DefaultGraderConfig(), nil)

	res, err := g.Grade(context.Background(), testRequest(t))
	if !errors.Is(err, ErrUnparseable) {
		t.Fatalf("err = %v, want ErrUnparseable", err)
	}
	if res == nil || res.Score != 0 || res.MaxScore != 3 || !res.Fallback {
		t.Fatalf("result = %+v", res)
	}
	if !strings.Contains(res.Feedback, "Great job overall!") {
		t.Errorf("feedback should carry the raw content: %q", res.Feedback)
	}
}

func TestGrader_UpstreamError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{Err: errors.New("HTTP 503")},
	})
	g := NewGrader(mock, DefaultGraderConfig(), nil)

	res, err := g.Grade(context.Background(), testRequest(t))
	if err == nil {
		t.Fatal("expected error")
	}
	if res.Score != 0 || res.MaxScore != 4 || len(res.Checklist) != 4 {
		t.Errorf("result = %+v", res)
	}
	if _, ok := res.Checklist[CriterionGraphMatch]; !ok {
		t.Error("expected upstream fallback criteria")
	}
	if res.Feedback == "" || !strings.Contains(res.Feedback, "HTTP 503") {
		t.Errorf("feedback = %q", res.Feedback)
	}
}

func TestGrader_NetworkError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("dial tcp: connection refused")})
	g := NewGrader(mock, DefaultGraderConfig(), nil)

	res, err := g.Grade(context.Background(), testRequest(t))
	if err == nil {
		t.Fatal("expected error")
	}
	if res.MaxScore != 3 || res.Checklist[CriterionVertex].Comment != "cannot grade - network error" {
		t.Errorf("result = %+v", res)
	}
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestGrader_Timeout(t *testing.T) {
	cfg := DefaultGraderConfig()
	cfg.Timeout = 10 * time.Millisecond
	g := NewGrader(blockingProvider{}, cfg, nil)

	res, err := g.Grade(context.Background(), testRequest(t))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if res.Score != 0 || res.MaxScore != 3 || !res.Fallback {
		t.Errorf("result = %+v", res)
	}
}

func TestUnavailable(t *testing.T) {
	res, err := Unavailable{}.Grade(context.Background(), testRequest(t))
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v", err)
	}
	if res.Score != 0 || res.Feedback == "" {
		t.Errorf("result = %+v", res)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`Draw the graph of \(y = x^{2} + 2x + 3\) step by step.`, "Draw the graph of y = x^2 + 2x + 3 step by step."},
		{`\(y = -x^{2}\)`, "y = -x^2"},
		{`{x}`, "x"},
	}
	for _, tt := range tests {
		if got := PlainText(tt.in); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGrader_TagsCallWithSession(t *testing.T) {
	var got llm.Call
	p := callRecorder{fn: func(ctx context.Context) { got = llm.CallFrom(ctx) }}
	g := NewGrader(p, DefaultGraderConfig(), nil)

	req := testRequest(t)
	req.SessionID = "ex-42"
	if _, err := g.Grade(context.Background(), req); err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if got.Purpose != Purpose || got.SessionID != "ex-42" {
		t.Errorf("call = %+v", got)
	}
}

func TestGrader_RejectedUsesUpstreamFallback(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrRejected{StatusCode: 401, Err: errors.New("invalid api key")},
	})
	g := NewGrader(mock, DefaultGraderConfig(), nil)

	res, err := g.Grade(context.Background(), testRequest(t))
	if err == nil {
		t.Fatal("expected error")
	}
	if res.MaxScore != 4 || res.Score != 0 {
		t.Errorf("result = %+v", res)
	}
}

type callRecorder struct {
	fn func(context.Context)
}

func (c callRecorder) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	c.fn(ctx)
	return &llm.Response{Content: json.RawMessage(fullResponse), Model: "rec", StopReason: "end"}, nil
}

func (callRecorder) ModelID() string { return "rec" }
