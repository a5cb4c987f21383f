package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/abhisek/parabola/internal/grading"
	"github.com/abhisek/parabola/internal/problemgen"
)

// SubmitExplanation answers step 5. The rendered canvas and the
// explanation go to the grader; the session lock is released for the call
// and other transitions get ErrGradingInFlight until it returns. A grading
// failure still completes the exercise with a zero-score fallback result.
// The submission is appended to the store in every case; the returned
// error is non-nil only when that append fails.
func (s *ExerciseSession) SubmitExplanation(ctx context.Context, description string) (*Submission, error) {
	s.mu.Lock()
	if err := s.activeLocked(StageExplanation); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.grading = true
	p := s.problem
	clues := append([]string(nil), s.clues...)
	scene := s.scene.State()
	id := s.record.ID
	s.mu.Unlock()

	s.events.emit(Event{Kind: EventGradingStarted, Step: StageExplanation.Step()})

	var image []byte
	if s.renderer != nil {
		img, err := s.renderer.PNG(scene)
		if err != nil {
			s.logger.Warn("render canvas failed, grading without image", "error", err)
		} else {
			image = img
		}
	}

	req := &grading.Request{
		ProblemText:        problemgen.ProblemText(p),
		Problem:            p,
		StudentDescription: description,
		RenderedImage:      image,
		Clues:              clues,
		SessionID:          id,
	}
	result, err := s.grader.Grade(ctx, req)
	if err != nil {
		s.logger.Warn("grading failed, using fallback result", "error", err)
		if result == nil {
			result = grading.Fallback(err)
		}
	}

	s.mu.Lock()
	step := StageExplanation.Step()
	rec := s.records[step]
	rec.Record(true, description, "")
	s.records[step] = rec
	s.stage = StageCompleted
	s.grading = false

	sub := &Submission{
		ID:            uuid.NewString(),
		SessionID:     s.record.ID,
		StudentID:     s.record.StudentID,
		StudentName:   s.record.StudentName,
		ProblemID:     s.record.ProblemID,
		Problem:       p,
		ProblemLabel:  problemgen.Label(p),
		ProblemText:   req.ProblemText,
		StepRecords:   s.records.Clone(),
		Description:   description,
		RenderedImage: image,
		GPTFeedback:   result,
		StudyAdvice:   BuildStudyAdvice(s.records),
		SubmittedAt:   s.now().UTC(),
	}
	s.last = sub
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snap)
	var appendErr error
	if s.repo != nil {
		if err := s.repo.AppendSubmission(context.WithoutCancel(ctx), sub); err != nil {
			s.logger.Error("append submission failed", "submission", sub.ID, "error", err)
			appendErr = fmt.Errorf("store submission: %w", err)
		}
	}
	s.logger.Info("exercise completed", "submission", sub.ID, "score", result.Score, "max_score", result.MaxScore)

	s.events.emit(
		Event{Kind: EventGradingFinished, Step: step, Message: result.Feedback},
		Event{Kind: EventStepPassed, Step: step, Outcome: OutcomeCorrect},
		Event{Kind: EventStageAdvanced, Message: StageCompleted.String()},
	)
	return sub, appendErr
}
