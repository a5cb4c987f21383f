// Package api serves the exercise over HTTP: one JSON endpoint per session
// transition, the canvas as PNG and the teacher's submission list.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/parabola/internal/canvas"
	"github.com/abhisek/parabola/internal/session"
	"github.com/abhisek/parabola/internal/store"
)

// Options wires a Server.
type Options struct {
	Sessions    *session.Manager
	Repo        *session.Repo
	Auth        *AuthService
	CORSOrigins []string
	Logger      *slog.Logger

	// RequestTimeout bounds each request. Grading calls run inside it.
	RequestTimeout time.Duration
}

// Server holds the handlers' dependencies.
type Server struct {
	sessions *session.Manager
	repo     *session.Repo
	auth     *AuthService
	origins  []string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewServer creates a Server.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 2 * time.Minute
	}
	return &Server{
		sessions: opts.Sessions,
		repo:     opts.Repo,
		auth:     opts.Auth,
		origins:  opts.CORSOrigins,
		timeout:  opts.RequestTimeout,
		logger:   opts.Logger,
	}
}

// Handler returns the router with every route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.origins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	if s.auth != nil {
		r.Post("/auth/login", LoginHandler(s.auth))
	}

	r.Route("/api/sessions", func(sr chi.Router) {
		sr.Post("/", s.createSession)
		sr.Route("/{sessionID}", func(sr chi.Router) {
			sr.Get("/", s.getSession)
			sr.Post("/shape", s.submitShape)
			sr.Post("/vertex-form", s.submitVertexForm)
			sr.Post("/y-intercept", s.submitYIntercept)
			sr.Post("/pointer", s.pointer)
			sr.Post("/tool", s.setTool)
			sr.Post("/clear", s.clearCanvas)
			sr.Post("/curve", s.drawCurve)
			sr.Post("/graph", s.checkGraph)
			sr.Post("/explanation", s.submitExplanation)
			sr.Post("/reset", s.reset)
			sr.Get("/canvas.png", s.canvasPNG)
		})
	})

	r.Group(func(pr chi.Router) {
		if s.auth != nil {
			pr.Use(TeacherOnly(s.auth))
		} else {
			pr.Use(func(http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					http.Error(w, "teacher login disabled", http.StatusForbidden)
				})
			})
		}
		pr.Get("/api/submissions", s.listSubmissions)
		pr.Get("/api/submissions/{submissionID}", s.getSubmission)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrStepNotActive),
		errors.Is(err, session.ErrGradingInFlight),
		errors.Is(err, session.ErrCompleted):
		status = http.StatusConflict
	case errors.Is(err, session.ErrIncomplete),
		errors.Is(err, canvas.ErrDegenerate),
		errors.Is(err, canvas.ErrOutOfBounds):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrNoRenderer):
		status = http.StatusNotImplemented
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}
