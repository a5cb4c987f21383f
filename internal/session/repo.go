package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhisek/parabola/internal/store"
)

// Store keys.
const (
	CurrentSessionKey = "current-session"
	SubmissionsKey    = "submissions"
	stepAnswersPrefix = "step-answers/"
)

// ServerSessionKey is the record key for a server-side session.
func ServerSessionKey(id string) string {
	return CurrentSessionKey + "/" + id
}

// StepAnswersKey is the key holding a session's step records.
func StepAnswersKey(id string) string {
	return stepAnswersPrefix + id
}

// Repo persists sessions and submissions as JSON values in a store.
type Repo struct {
	store *store.Store
}

// NewRepo creates a Repo.
func NewRepo(s *store.Store) *Repo {
	return &Repo{store: s}
}

// SaveSession writes rec under key.
func (r *Repo) SaveSession(ctx context.Context, key string, rec *Record) error {
	if err := r.store.Put(ctx, key, rec); err != nil {
		return fmt.Errorf("save session %s: %w", rec.ID, err)
	}
	return nil
}

// LoadSession reads the record under key. A missing or corrupt record
// returns store.ErrNotFound.
func (r *Repo) LoadSession(ctx context.Context, key string) (*Record, error) {
	var rec Record
	if err := r.store.Get(ctx, key, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteSession removes the record under key and its step records.
func (r *Repo) DeleteSession(ctx context.Context, key, id string) error {
	if err := r.store.Delete(ctx, key); err != nil {
		return err
	}
	if id == "" {
		return nil
	}
	return r.store.Delete(ctx, StepAnswersKey(id))
}

// SaveStepAnswers rewrites the step records of session id.
func (r *Repo) SaveStepAnswers(ctx context.Context, id string, records StepRecords) error {
	if err := r.store.Put(ctx, StepAnswersKey(id), records); err != nil {
		return fmt.Errorf("save step answers %s: %w", id, err)
	}
	return nil
}

// LoadStepAnswers reads the step records of session id. Missing or
// corrupt records yield an empty map.
func (r *Repo) LoadStepAnswers(ctx context.Context, id string) (StepRecords, error) {
	records := StepRecords{}
	err := r.store.Get(ctx, StepAnswersKey(id), &records)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return StepRecords{}, nil
	case err != nil:
		return nil, err
	}
	if records == nil {
		// A stored null decodes to a nil map.
		return StepRecords{}, nil
	}
	return records, nil
}

// AppendSubmission adds sub to the submission list.
func (r *Repo) AppendSubmission(ctx context.Context, sub *Submission) error {
	if err := r.store.Append(ctx, SubmissionsKey, sub); err != nil {
		return fmt.Errorf("append submission %s: %w", sub.ID, err)
	}
	return nil
}

// Submissions returns every stored submission in submission order.
// Entries that no longer decode are skipped.
func (r *Repo) Submissions(ctx context.Context) ([]Submission, error) {
	var raw []json.RawMessage
	err := r.store.Get(ctx, SubmissionsKey, &raw)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}

	out := make([]Submission, 0, len(raw))
	for i, item := range raw {
		var sub Submission
		if err := json.Unmarshal(item, &sub); err != nil {
			slog.Warn("skipping corrupt submission", "index", i, "error", err)
			continue
		}
		out = append(out, sub)
	}
	return out, nil
}

// Submission returns the submission with id, or store.ErrNotFound.
func (r *Repo) Submission(ctx context.Context, id string) (*Submission, error) {
	subs, err := r.Submissions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		if subs[i].ID == id {
			return &subs[i], nil
		}
	}
	return nil, fmt.Errorf("submission %s: %w", id, store.ErrNotFound)
}

// LatestSubmission returns the newest submission of session sessionID, or
// store.ErrNotFound.
func (r *Repo) LatestSubmission(ctx context.Context, sessionID string) (*Submission, error) {
	subs, err := r.Submissions(ctx)
	if err != nil {
		return nil, err
	}
	for i := len(subs) - 1; i >= 0; i-- {
		if subs[i].SessionID == sessionID {
			return &subs[i], nil
		}
	}
	return nil, fmt.Errorf("submission for session %s: %w", sessionID, store.ErrNotFound)
}
