package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/parabola/internal/store"
)

// ErrSessionNotFound is returned by Manager.Get for an unknown id.
var ErrSessionNotFound = errors.New("session not found")

// Manager holds the server's live sessions, one per id, and reloads
// persisted ones on demand. With a repo, a session is dropped from memory
// once it completes; Get resumes it from the store if it is asked for again.
type Manager struct {
	base Config

	mu       sync.Mutex
	sessions map[string]*ExerciseSession
}

// NewManager creates a Manager. base supplies the shared dependencies;
// its identity fields are ignored.
func NewManager(base Config) *Manager {
	base.ID, base.StudentID, base.StudentName, base.Problem, base.Key = "", "", "", nil, ""
	return &Manager{base: base, sessions: make(map[string]*ExerciseSession)}
}

// Create starts a session for the student. Empty identity fields fall back
// to the guest identity.
func (m *Manager) Create(ctx context.Context, studentID, studentName string) (*ExerciseSession, error) {
	cfg := m.base
	cfg.StudentID = studentID
	cfg.StudentName = studentName
	cfg.setDefaults()
	cfg.Key = ServerSessionKey(cfg.ID)

	s, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.trackLocked(s)
	m.mu.Unlock()
	return s, nil
}

// Get returns the live session with id, resuming it from the store after a
// restart.
func (m *Manager) Get(ctx context.Context, id string) (*ExerciseSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	if m.base.Repo == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	cfg := m.base
	cfg.Key = ServerSessionKey(id)
	s, err := Resume(ctx, cfg)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if m.evictable(s) {
		return s, nil
	}
	m.trackLocked(s)
	return s, nil
}

func (m *Manager) evictable(s *ExerciseSession) bool {
	return m.base.Repo != nil && s.Stage() == StageCompleted
}

// trackLocked caches s until it completes.
func (m *Manager) trackLocked(s *ExerciseSession) {
	id := s.ID()
	m.sessions[id] = s
	if m.base.Repo == nil {
		return
	}
	s.Subscribe(func(e Event) {
		if e.Kind == EventStageAdvanced && e.Message == StageCompleted.String() {
			m.evict(id, s)
		}
	})
}

// evict drops s if it is still the cached session for id.
func (m *Manager) evict(id string, s *ExerciseSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[id] == s {
		delete(m.sessions, id)
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
