package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/parabola/internal/session"
)

// submissionSummary is one row of the teacher's list.
type submissionSummary struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"sessionId"`
	StudentID    string    `json:"studentId"`
	StudentName  string    `json:"studentName"`
	ProblemLabel string    `json:"problemLabel"`
	Score        int       `json:"score"`
	MaxScore     int       `json:"maxScore"`
	TotalWrong   int       `json:"totalWrong"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

func summarize(sub session.Submission) submissionSummary {
	out := submissionSummary{
		ID:           sub.ID,
		SessionID:    sub.SessionID,
		StudentID:    sub.StudentID,
		StudentName:  sub.StudentName,
		ProblemLabel: sub.ProblemLabel,
		TotalWrong:   sub.StepRecords.TotalWrong(),
		SubmittedAt:  sub.SubmittedAt,
	}
	if sub.GPTFeedback != nil {
		out.Score = sub.GPTFeedback.Score
		out.MaxScore = sub.GPTFeedback.MaxScore
	}
	return out
}

// GET /api/submissions?student=
func (s *Server) listSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.repo.Submissions(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	student := strings.TrimSpace(r.URL.Query().Get("student"))
	out := make([]submissionSummary, 0, len(subs))
	for _, sub := range subs {
		if student != "" && sub.StudentID != student {
			continue
		}
		out = append(out, summarize(sub))
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/submissions/{submissionID}
func (s *Server) getSubmission(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "submissionID"))
	sub, err := s.repo.Submission(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
