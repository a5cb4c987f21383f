package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/parabola/internal/grading"
	"github.com/abhisek/parabola/internal/render"
	"github.com/abhisek/parabola/internal/session"
	"github.com/abhisek/parabola/internal/store"
)

const (
	testCanvasSize = 140
	testPassword   = "chalkboard"
)

type stubGrader struct{}

func (stubGrader) Grade(_ context.Context, _ *grading.Request) (*grading.Result, error) {
	return &grading.Result{
		Checklist: map[string]grading.Criterion{
			grading.CriterionVertex:     {Passed: true, Score: 1},
			grading.CriterionYIntercept: {Passed: true, Score: 1},
			grading.CriterionShape:      {Passed: true, Score: 1},
		},
		Score:    3,
		MaxScore: 3,
		Feedback: "Good.",
	}, nil
}

type testEnv struct {
	handler  http.Handler
	sessions *session.Manager
	repo     *session.Repo
}

func newTestEnv(t *testing.T, withAuth bool) *testEnv {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	rnd, err := render.New(render.Options{Size: testCanvasSize, Supersample: 1})
	require.NoError(t, err)

	repo := session.NewRepo(st)
	mgr := session.NewManager(session.Config{
		Grader:     stubGrader{},
		Renderer:   rnd,
		Repo:       repo,
		CanvasSize: testCanvasSize,
	})

	opts := Options{Sessions: mgr, Repo: repo}
	if withAuth {
		hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
		require.NoError(t, err)
		auth, err := NewAuthService("test-secret", string(hash))
		require.NoError(t, err)
		opts.Auth = auth
	}
	return &testEnv{handler: NewServer(opts).Handler(), sessions: mgr, repo: repo}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

type viewResp struct {
	ID          string `json:"id"`
	StudentID   string `json:"studentId"`
	ProblemText string `json:"problemText"`
	Stage       string `json:"stage"`
	Step        int    `json:"step"`
}

type stepResult struct {
	Result struct {
		Step    int    `json:"step"`
		Outcome string `json:"outcome"`
		Clue    string `json:"clue"`
	} `json:"result"`
	Session viewResp `json:"session"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (e *testEnv) createSession(t *testing.T) (viewResp, *session.ExerciseSession) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/sessions", map[string]string{"studentId": "s1", "studentName": "Sam"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	v := decode[viewResp](t, rec)
	sess, err := e.sessions.Get(context.Background(), v.ID)
	require.NoError(t, err)
	return v, sess
}

// completeGraphStage answers steps 1-3 and places the vertex and the
// y-intercept point.
func (e *testEnv) completeGraphStage(t *testing.T, sess *session.ExerciseSession) {
	t.Helper()
	p := sess.Problem()
	base := "/api/sessions/" + sess.ID()

	steps := []struct{ path, answer string }{
		{"/shape", string(p.Shape())},
		{"/vertex-form", p.VertexString()},
		{"/y-intercept", strconv.Itoa(p.YIntercept)},
	}
	for _, st := range steps {
		rec := e.do(t, http.MethodPost, base+st.path, map[string]string{"answer": st.answer}, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "correct", decode[stepResult](t, rec).Result.Outcome, st.path)
	}

	sys := sess.System()
	for _, pt := range [][2]int{{p.H, p.K}, {0, p.YIntercept}} {
		rec := e.do(t, http.MethodPost, base+"/pointer", map[string]any{
			"x":      sys.ToPixelX(float64(pt[0])),
			"y":      sys.ToPixelY(float64(pt[1])),
			"commit": true,
		}, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	e := newTestEnv(t, false)
	rec := e.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateSession_EmptyBodyIsGuest(t *testing.T) {
	e := newTestEnv(t, false)
	rec := e.do(t, http.MethodPost, "/api/sessions", nil, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	v := decode[viewResp](t, rec)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, session.GuestID, v.StudentID)
	assert.Equal(t, "shape", v.Stage)
	assert.Equal(t, 1, v.Step)
	assert.True(t, strings.HasPrefix(v.ProblemText, "Draw the graph of"), v.ProblemText)
}

func TestSessionFlow(t *testing.T) {
	e := newTestEnv(t, false)
	v, sess := e.createSession(t)
	base := "/api/sessions/" + v.ID

	rec := e.do(t, http.MethodPost, base+"/shape", map[string]string{"answer": "sideways"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "malformed", decode[stepResult](t, rec).Result.Outcome)

	e.completeGraphStage(t, sess)

	rec = e.do(t, http.MethodGet, base, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "graph", decode[viewResp](t, rec).Stage)

	rec = e.do(t, http.MethodPost, base+"/pointer", map[string]any{"x": 70, "y": 70}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	pv := decode[session.Preview](t, rec)
	assert.True(t, pv.Snap.Valid)
	assert.Equal(t, 0, pv.Snap.X)
	assert.Equal(t, 0, pv.Snap.Y)

	rec = e.do(t, http.MethodGet, base+"/canvas.png?x=70&y=70", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, testCanvasSize, img.Bounds().Dx())

	rec = e.do(t, http.MethodPost, base+"/graph", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sr := decode[stepResult](t, rec)
	assert.Equal(t, "correct", sr.Result.Outcome)
	assert.Equal(t, "explanation", sr.Session.Stage)

	rec = e.do(t, http.MethodPost, base+"/explanation", map[string]string{"description": "Vertex first, then the intercept."}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		SubmissionID string          `json:"submissionId"`
		Result       *grading.Result `json:"result"`
		Session      viewResp        `json:"session"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.SubmissionID)
	require.NotNil(t, out.Result)
	assert.Equal(t, 3, out.Result.Score)
	assert.Equal(t, "completed", out.Session.Stage)

	subs, err := e.repo.Submissions(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, out.SubmissionID, subs[0].ID)
	assert.Equal(t, 1, subs[0].StepRecords.WrongCount(1))

	rec = e.do(t, http.MethodPost, base+"/shape", map[string]string{"answer": "up"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.do(t, http.MethodPost, base+"/reset", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shape", decode[viewResp](t, rec).Stage)
}

func TestSessionErrors(t *testing.T) {
	e := newTestEnv(t, false)
	v, sess := e.createSession(t)
	base := "/api/sessions/" + v.ID

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown session", http.MethodGet, "/api/sessions/nope", nil, http.StatusNotFound},
		{"graph before its step", http.MethodPost, base + "/graph", nil, http.StatusConflict},
		{"pointer before its step", http.MethodPost, base + "/pointer", map[string]any{"x": 1, "y": 1}, http.StatusConflict},
		{"bad json", http.MethodPost, base + "/shape", "not an object", http.StatusBadRequest},
		{"bad tool", http.MethodPost, base + "/tool", map[string]string{"mode": "eraser"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, tt.method, tt.path, tt.body, "")
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	p := sess.Problem()
	for _, st := range []struct{ path, answer string }{
		{"/shape", string(p.Shape())},
		{"/vertex-form", p.VertexString()},
		{"/y-intercept", strconv.Itoa(p.YIntercept)},
	} {
		rec := e.do(t, http.MethodPost, base+st.path, map[string]string{"answer": st.answer}, "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := e.do(t, http.MethodPost, base+"/graph", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "graph without points")

	rec = e.do(t, http.MethodPost, base+"/pointer", map[string]any{"x": -500, "y": -500, "commit": true}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "click off the grid")

	rec = e.do(t, http.MethodPost, base+"/tool", map[string]string{"mode": "passing"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(session.ToolPassing), decode[struct {
		Tool string `json:"tool"`
	}](t, rec).Tool)

	rec = e.do(t, http.MethodPost, base+"/clear", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionSurvivesRestart(t *testing.T) {
	e := newTestEnv(t, false)
	v, _ := e.createSession(t)

	rec := e.do(t, http.MethodPost, "/api/sessions/"+v.ID+"/shape", map[string]string{"answer": "sideways"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	fresh := session.NewManager(session.Config{Repo: e.repo, CanvasSize: testCanvasSize})
	h := NewServer(Options{Sessions: fresh, Repo: e.repo}).Handler()
	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+v.ID, nil)
	out := httptest.NewRecorder()
	h.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code, out.Body.String())

	var body struct {
		Stage   string                     `json:"stage"`
		Records map[string]json.RawMessage `json:"stepAnswers"`
	}
	require.NoError(t, json.Unmarshal(out.Body.Bytes(), &body))
	assert.Equal(t, "shape", body.Stage)
	assert.Contains(t, body.Records, "1")
}

func TestSubmissions_RequireTeacher(t *testing.T) {
	e := newTestEnv(t, true)
	_, sess := e.createSession(t)
	e.completeGraphStage(t, sess)
	base := "/api/sessions/" + sess.ID()
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, base+"/graph", nil, "").Code)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, base+"/explanation", map[string]string{"description": "x"}, "").Code)

	rec := e.do(t, http.MethodGet, "/api/submissions", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPost, "/auth/login", map[string]string{"password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPost, "/auth/login", map[string]string{"password": testPassword}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[map[string]string](t, rec)["access_token"]
	require.NotEmpty(t, token)

	rec = e.do(t, http.MethodGet, "/api/submissions", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := decode[[]submissionSummary](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "s1", list[0].StudentID)
	assert.Equal(t, 3, list[0].Score)
	assert.Equal(t, 3, list[0].MaxScore)

	rec = e.do(t, http.MethodGet, "/api/submissions?student=other", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]submissionSummary](t, rec))

	rec = e.do(t, http.MethodGet, "/api/submissions/"+list[0].ID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	sub := decode[session.Submission](t, rec)
	assert.Equal(t, sess.ID(), sub.SessionID)
	assert.NotEmpty(t, sub.RenderedImage)

	rec = e.do(t, http.MethodGet, "/api/submissions/missing", nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmissions_DisabledWithoutAuth(t *testing.T) {
	e := newTestEnv(t, false)
	rec := e.do(t, http.MethodGet, "/api/submissions", nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPost, "/auth/login", map[string]string{"password": testPassword}, "")
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestAuthService(t *testing.T) {
	auth, err := NewAuthService("", "")
	require.NoError(t, err)
	assert.False(t, auth.CheckPassword(""), "no hash refuses every password")

	tok, err := auth.IssueJWT("teacher", RoleTeacher)
	require.NoError(t, err)
	c, err := auth.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, RoleTeacher, c.Role)

	other, err := NewAuthService("another-secret", "")
	require.NoError(t, err)
	_, err = other.Parse(tok)
	assert.Error(t, err, "signature from another key")

	auth.now = func() time.Time { return time.Now().Add(-2 * tokenTTL) }
	expired, err := auth.IssueJWT("teacher", RoleTeacher)
	require.NoError(t, err)
	auth.now = time.Now
	_, err = auth.Parse(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Sub: "x", Role: RoleTeacher})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = auth.Parse(unsigned)
	assert.Error(t, err)
}

func TestTeacherOnly_RejectsOtherRoles(t *testing.T) {
	auth, err := NewAuthService("k", "")
	require.NoError(t, err)
	tok, err := auth.IssueJWT("s1", "student")
	require.NoError(t, err)

	var reached bool
	h := TeacherOnly(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}
