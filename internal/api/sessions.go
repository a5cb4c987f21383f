package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/parabola/internal/grading"
	"github.com/abhisek/parabola/internal/render"
	"github.com/abhisek/parabola/internal/session"
)

type createSessionReq struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
}

type answerReq struct {
	Answer string `json:"answer"`
}

type pointerReq struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Commit bool    `json:"commit"`
}

type toolReq struct {
	Mode string `json:"mode"`
}

type explanationReq struct {
	Description string `json:"description"`
}

type explanationResp struct {
	SubmissionID string              `json:"submissionId"`
	Result       *grading.Result     `json:"result"`
	StudyAdvice  session.StudyAdvice `json:"studyAdvice"`
	Session      session.View        `json:"session"`
}

type stepResp struct {
	Result  session.StepResult `json:"result"`
	Session session.View       `json:"session"`
}

// POST /api/sessions
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
		return
	}
	sess, err := s.sessions.Create(r.Context(), strings.TrimSpace(req.StudentID), strings.TrimSpace(req.StudentName))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.View())
}

// lookup loads the {sessionID} session, writing the error response when
// it cannot.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.ExerciseSession, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "sessionID"))
	if id == "" {
		http.Error(w, "sessionID required", http.StatusBadRequest)
		return nil, false
	}
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return sess, true
}

// GET /api/sessions/{sessionID}
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) submitShape(w http.ResponseWriter, r *http.Request) {
	s.answer(w, r, (*session.ExerciseSession).SubmitShape)
}

func (s *Server) submitVertexForm(w http.ResponseWriter, r *http.Request) {
	s.answer(w, r, (*session.ExerciseSession).SubmitVertexForm)
}

func (s *Server) submitYIntercept(w http.ResponseWriter, r *http.Request) {
	s.answer(w, r, (*session.ExerciseSession).SubmitYIntercept)
}

type submitFunc func(*session.ExerciseSession, context.Context, string) (session.StepResult, error)

// answer handles the three text steps: {answer} in, step result out.
func (s *Server) answer(w http.ResponseWriter, r *http.Request, submit submitFunc) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req answerReq
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := submit(sess, r.Context(), req.Answer)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stepResp{Result: res, Session: sess.View()})
}

// POST /api/sessions/{sessionID}/pointer
//
// Without commit the snapped preview is returned; with commit the point is
// placed for the current tool.
func (s *Server) pointer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req pointerReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Commit {
		pv, err := sess.Hover(req.X, req.Y)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pv)
		return
	}
	res, err := sess.Click(r.Context(), req.X, req.Y)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /api/sessions/{sessionID}/tool
func (s *Server) setTool(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req toolReq
	if !decodeJSON(w, r, &req) {
		return
	}
	mode, err := session.ParseToolMode(req.Mode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := sess.SetTool(r.Context(), mode); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// POST /api/sessions/{sessionID}/clear
func (s *Server) clearCanvas(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := sess.ClearCanvas(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// POST /api/sessions/{sessionID}/curve
func (s *Server) drawCurve(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if _, err := sess.DrawCurve(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// POST /api/sessions/{sessionID}/graph
func (s *Server) checkGraph(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	res, err := sess.CheckGraph(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stepResp{Result: res, Session: sess.View()})
}

// POST /api/sessions/{sessionID}/explanation
func (s *Server) submitExplanation(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req explanationReq
	if !decodeJSON(w, r, &req) {
		return
	}
	sub, err := sess.SubmitExplanation(r.Context(), req.Description)
	if sub == nil {
		s.writeError(w, err)
		return
	}
	if err != nil {
		// The exercise is complete; only the submission log missed it.
		s.logger.Error("submission not stored", "session", sess.ID(), "error", err)
	}
	writeJSON(w, http.StatusOK, explanationResp{
		SubmissionID: sub.ID,
		Result:       sub.GPTFeedback,
		StudyAdvice:  sub.StudyAdvice,
		Session:      sess.View(),
	})
}

// POST /api/sessions/{sessionID}/reset
func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := sess.Reset(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// GET /api/sessions/{sessionID}/canvas.png?x=&y=
//
// The optional pixel position adds the hover marker, and the ghost curve
// when the passing-point tool is active.
func (s *Server) canvasPNG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	preview := s.previewFor(sess, r)

	var buf bytes.Buffer
	if err := sess.WriteCanvasPNG(&buf, preview); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) previewFor(sess *session.ExerciseSession, r *http.Request) *render.Preview {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		return nil
	}
	pv, err := sess.Hover(x, y)
	if err != nil || !pv.Snap.Valid {
		return nil
	}
	return &render.Preview{X: pv.Snap.X, Y: pv.Snap.Y, WithCurve: pv.Curve != nil}
}
