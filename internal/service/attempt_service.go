package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/smartquiz/smartquiz-backend/internal/model"
	"github.com/smartquiz/smartquiz-backend/internal/session"
)

// Attempt lifecycle errors.
var (
	ErrNoQuestions      = errors.New("quiz has no questions")
	ErrAttemptNotFound  = errors.New("no attempt in progress")
	ErrOutOfSequence    = errors.New("answer submitted out of sequence")
	ErrQuestionNotFound = errors.New("question missing during attempt")
	ErrResultNotSaved   = errors.New("attempt finalized but result not saved")
)

// QuestionBank provides read access to quiz questions during an attempt.
type QuestionBank interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	ListRefsByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.QuestionRef, error)
}

// ResultRecorder persists the durable record of a finalized attempt.
type ResultRecorder interface {
	Record(ctx context.Context, userID int, quizID uuid.UUID, score, totalQuestions int, completedAt time.Time) (uuid.UUID, error)
}

// AnswerSink receives graded answers for background persistence.
// May be nil, in which case the audit log is skipped.
type AnswerSink interface {
	Enqueue(ctx context.Context, entry model.GradedAnswer) error
}

// AttemptService drives the quiz attempt state machine. Every public
// method serializes on the attempt key, so concurrent requests for one
// student's attempt at one quiz apply one at a time.
type AttemptService struct {
	store     session.Store
	locks     *session.KeyMutex
	questions QuestionBank
	results   ResultRecorder
	answers   AnswerSink
	sequencer *Sequencer
	log       zerolog.Logger
	now       func() time.Time
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	store session.Store,
	questions QuestionBank,
	results ResultRecorder,
	answers AnswerSink,
	sequencer *Sequencer,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		store:     store,
		locks:     session.NewKeyMutex(256),
		questions: questions,
		results:   results,
		answers:   answers,
		sequencer: sequencer,
		log:       log.With().Str("component", "attempt_service").Logger(),
		now:       time.Now,
	}
}

// Start begins a quiz attempt, or resumes the existing one if the student
// already has this quiz in progress. Resuming never reshuffles the order
// or touches the score.
func (s *AttemptService) Start(ctx context.Context, userID int, quizID uuid.UUID) (*model.Attempt, bool, error) {
	key := session.Key{UserID: userID, QuizID: quizID}
	unlock := s.locks.Lock(key)
	defer unlock()

	existing, err := s.store.Get(ctx, key)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, session.ErrNotFound) {
		return nil, false, fmt.Errorf("load attempt: %w", err)
	}

	refs, err := s.questions.ListRefsByQuiz(ctx, quizID)
	if err != nil {
		return nil, false, fmt.Errorf("list questions: %w", err)
	}
	if len(refs) == 0 {
		return nil, false, ErrNoQuestions
	}

	attempt := &model.Attempt{
		UserID:        userID,
		QuizID:        quizID,
		QuestionOrder: s.sequencer.Order(refs),
		Answers:       make(map[string]string),
		StartedAt:     s.now(),
	}

	if err := s.store.Put(ctx, key, attempt); err != nil {
		return nil, false, fmt.Errorf("save attempt: %w", err)
	}

	s.log.Info().
		Int("user_id", userID).
		Str("quiz_id", quizID.String()).
		Int("questions", len(attempt.QuestionOrder)).
		Msg("attempt started")

	return attempt, false, nil
}

// CurrentQuestion serves the question at the attempt's cursor and arms it
// for answering. Re-fetching the same question re-arms it, which is how a
// client recovers from ErrOutOfSequence. When every question has already
// been answered the attempt is finalized instead and the result returned.
func (s *AttemptService) CurrentQuestion(ctx context.Context, userID int, quizID uuid.UUID) (*model.CurrentQuestion, *model.ResultView, error) {
	key := session.Key{UserID: userID, QuizID: quizID}
	unlock := s.locks.Lock(key)
	defer unlock()

	attempt, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, nil, ErrAttemptNotFound
		}
		return nil, nil, fmt.Errorf("load attempt: %w", err)
	}

	if attempt.Exhausted() {
		view, err := s.finalize(ctx, key, attempt, len(attempt.QuestionOrder))
		return nil, view, err
	}

	question, err := s.loadQuestion(ctx, key, attempt.QuestionOrder[attempt.CurrentIndex])
	if err != nil {
		return nil, nil, err
	}

	startedAt := s.now()
	attempt.QuestionStartedAt = &startedAt
	if err := s.store.Put(ctx, key, attempt); err != nil {
		return nil, nil, fmt.Errorf("save attempt: %w", err)
	}

	return &model.CurrentQuestion{
		Question: question.ForStudent(),
		Ordinal:  attempt.CurrentIndex + 1,
		Total:    len(attempt.QuestionOrder),
	}, nil, nil
}

// SubmitAnswer grades the armed question and advances the cursor. The
// answer is trimmed and uppercased before comparison; an empty answer is
// graded incorrect. Submitting without an armed question returns
// ErrOutOfSequence and leaves the attempt untouched, so a duplicate
// submit can never double-grade. Answering the last question finalizes
// the attempt.
func (s *AttemptService) SubmitAnswer(ctx context.Context, userID int, quizID uuid.UUID, answer string) (*model.AnswerFeedback, error) {
	key := session.Key{UserID: userID, QuizID: quizID}
	unlock := s.locks.Lock(key)
	defer unlock()

	attempt, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("load attempt: %w", err)
	}

	if attempt.QuestionStartedAt == nil || attempt.Exhausted() {
		return nil, ErrOutOfSequence
	}

	question, err := s.loadQuestion(ctx, key, attempt.QuestionOrder[attempt.CurrentIndex])
	if err != nil {
		return nil, err
	}

	normalized := strings.ToUpper(strings.TrimSpace(answer))
	correct := normalized != "" && normalized == strings.ToUpper(strings.TrimSpace(question.CorrectOption))
	timeTaken := int(s.now().Sub(*attempt.QuestionStartedAt).Seconds())
	if timeTaken < 0 {
		timeTaken = 0
	}

	attempt.Answers[question.ID.String()] = normalized
	if correct {
		attempt.Score++
	}
	attempt.CurrentIndex++
	attempt.QuestionStartedAt = nil

	s.logAnswer(ctx, attempt, question.ID, normalized, correct, timeTaken)

	feedback := &model.AnswerFeedback{
		Correct:          correct,
		CorrectOption:    question.CorrectOption,
		Score:            attempt.Score,
		Answered:         attempt.CurrentIndex,
		Total:            len(attempt.QuestionOrder),
		TimeTakenSeconds: timeTaken,
	}

	if attempt.Exhausted() {
		view, err := s.finalize(ctx, key, attempt, len(attempt.QuestionOrder))
		if err != nil {
			return nil, err
		}
		feedback.Finished = true
		feedback.Result = view
		return feedback, nil
	}

	if err := s.store.Put(ctx, key, attempt); err != nil {
		return nil, fmt.Errorf("save attempt: %w", err)
	}
	return feedback, nil
}

// EndEarly finalizes the attempt with the score accumulated so far. The
// result's total is the number of questions answered, not the quiz length.
func (s *AttemptService) EndEarly(ctx context.Context, userID int, quizID uuid.UUID) (*model.ResultView, error) {
	key := session.Key{UserID: userID, QuizID: quizID}
	unlock := s.locks.Lock(key)
	defer unlock()

	attempt, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("load attempt: %w", err)
	}

	return s.finalize(ctx, key, attempt, attempt.CurrentIndex)
}

// Progress returns the live monitor snapshot of one attempt.
func (s *AttemptService) Progress(ctx context.Context, userID int, quizID uuid.UUID) (*model.AttemptProgress, error) {
	attempt, err := s.store.Get(ctx, session.Key{UserID: userID, QuizID: quizID})
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("load attempt: %w", err)
	}
	progress := attempt.Progress()
	return &progress, nil
}

// ListProgress returns monitor snapshots for every live attempt at a quiz.
func (s *AttemptService) ListProgress(ctx context.Context, quizID uuid.UUID) ([]model.AttemptProgress, error) {
	attempts, err := s.store.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	snapshots := make([]model.AttemptProgress, 0, len(attempts))
	for _, attempt := range attempts {
		snapshots = append(snapshots, attempt.Progress())
	}
	return snapshots, nil
}

// finalize records the result and removes the live attempt. The attempt
// is removed even when the insert fails so the student is never trapped
// in a half-finished state; the caller then sees ErrResultNotSaved.
func (s *AttemptService) finalize(ctx context.Context, key session.Key, attempt *model.Attempt, totalQuestions int) (*model.ResultView, error) {
	defer func() {
		if err := s.store.Remove(ctx, key); err != nil {
			s.log.Error().Err(err).
				Int("user_id", key.UserID).
				Str("quiz_id", key.QuizID.String()).
				Msg("failed to remove finalized attempt")
		}
	}()

	completedAt := s.now()
	view := &model.ResultView{
		Score:          attempt.Score,
		TotalQuestions: totalQuestions,
		CompletedAt:    completedAt,
	}

	if _, err := s.results.Record(ctx, attempt.UserID, attempt.QuizID, attempt.Score, totalQuestions, completedAt); err != nil {
		s.log.Error().Err(err).
			Int("user_id", attempt.UserID).
			Str("quiz_id", attempt.QuizID.String()).
			Int("score", attempt.Score).
			Msg("failed to record result")
		return view, ErrResultNotSaved
	}

	view.Saved = true
	s.log.Info().
		Int("user_id", attempt.UserID).
		Str("quiz_id", attempt.QuizID.String()).
		Int("score", attempt.Score).
		Int("total", totalQuestions).
		Msg("attempt finalized")

	return view, nil
}

// loadQuestion fetches a question from the bank. A missing row means the
// lecturer deleted it mid-attempt; the attempt cannot continue and is
// cancelled without a result.
func (s *AttemptService) loadQuestion(ctx context.Context, key session.Key, id uuid.UUID) (*model.Question, error) {
	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.log.Warn().
				Str("question_id", id.String()).
				Int("user_id", key.UserID).
				Msg("question vanished mid-attempt, cancelling")
			if rmErr := s.store.Remove(ctx, key); rmErr != nil {
				s.log.Error().Err(rmErr).Msg("failed to remove cancelled attempt")
			}
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("load question: %w", err)
	}
	return question, nil
}

func (s *AttemptService) logAnswer(ctx context.Context, attempt *model.Attempt, questionID uuid.UUID, answer string, correct bool, timeTaken int) {
	if s.answers == nil {
		return
	}
	entry := model.GradedAnswer{
		UserID:           attempt.UserID,
		QuizID:           attempt.QuizID,
		QuestionID:       questionID,
		Answer:           answer,
		Correct:          correct,
		TimeTakenSeconds: timeTaken,
		AnsweredAt:       s.now(),
	}
	if err := s.answers.Enqueue(ctx, entry); err != nil {
		s.log.Warn().Err(err).Msg("failed to enqueue answer log entry")
	}
}
