package service

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/smartquiz/smartquiz-backend/internal/model"
	"github.com/smartquiz/smartquiz-backend/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Fakes ──────────────────────────────────────────────────────────

type fakeQuestionBank struct {
	quizID    uuid.UUID
	questions map[uuid.UUID]*model.Question
}

func newFakeBank(quizID uuid.UUID) *fakeQuestionBank {
	return &fakeQuestionBank{quizID: quizID, questions: make(map[uuid.UUID]*model.Question)}
}

func (b *fakeQuestionBank) add(correct string, difficulty model.Difficulty) *model.Question {
	q := &model.Question{
		ID:            uuid.New(),
		QuizID:        b.quizID,
		QuestionText:  "q",
		OptionA:       "a",
		OptionB:       "b",
		OptionC:       "c",
		OptionD:       "d",
		CorrectOption: correct,
		Difficulty:    difficulty,
	}
	b.questions[q.ID] = q
	return q
}

func (b *fakeQuestionBank) GetByID(_ context.Context, id uuid.UUID) (*model.Question, error) {
	q, ok := b.questions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return q, nil
}

func (b *fakeQuestionBank) ListRefsByQuiz(_ context.Context, quizID uuid.UUID) ([]model.QuestionRef, error) {
	var refs []model.QuestionRef
	if quizID != b.quizID {
		return nil, nil
	}
	for _, q := range b.questions {
		refs = append(refs, model.QuestionRef{ID: q.ID, Difficulty: q.Difficulty})
	}
	return refs, nil
}

type recordedResult struct {
	UserID int
	QuizID uuid.UUID
	Score  int
	Total  int
}

type fakeRecorder struct {
	results []recordedResult
	fail    bool
}

func (r *fakeRecorder) Record(_ context.Context, userID int, quizID uuid.UUID, score, total int, _ time.Time) (uuid.UUID, error) {
	if r.fail {
		return uuid.Nil, errors.New("insert failed")
	}
	r.results = append(r.results, recordedResult{UserID: userID, QuizID: quizID, Score: score, Total: total})
	return uuid.New(), nil
}

type fakeSink struct {
	entries []model.GradedAnswer
}

func (s *fakeSink) Enqueue(_ context.Context, entry model.GradedAnswer) error {
	s.entries = append(s.entries, entry)
	return nil
}

// ─── Harness ────────────────────────────────────────────────────────

type attemptFixture struct {
	svc      *AttemptService
	store    *session.MemoryStore
	bank     *fakeQuestionBank
	recorder *fakeRecorder
	sink     *fakeSink
	quizID   uuid.UUID
}

func newFixture(t *testing.T, seed int64) *attemptFixture {
	t.Helper()
	quizID := uuid.New()
	store := session.NewMemoryStore()
	bank := newFakeBank(quizID)
	recorder := &fakeRecorder{}
	sink := &fakeSink{}

	svc := NewAttemptService(store, bank, recorder, sink, NewSequencer(rand.New(rand.NewSource(seed))), zerolog.Nop())
	return &attemptFixture{svc: svc, store: store, bank: bank, recorder: recorder, sink: sink, quizID: quizID}
}

const testUserID = 7

// answerCurrent fetches the current question and submits the given
// transform of its correct option.
func (f *attemptFixture) answerCurrent(t *testing.T, transform func(correct string) string) *model.AnswerFeedback {
	t.Helper()
	ctx := context.Background()

	current, result, err := f.svc.CurrentQuestion(ctx, testUserID, f.quizID)
	require.NoError(t, err)
	require.Nil(t, result, "quiz ended before expected")

	correct := f.bank.questions[current.Question.ID].CorrectOption
	feedback, err := f.svc.SubmitAnswer(ctx, testUserID, f.quizID, transform(correct))
	require.NoError(t, err)
	return feedback
}

func identity(s string) string { return s }

// ─── Tests ──────────────────────────────────────────────────────────

func TestFullRunAllCorrect(t *testing.T) {
	f := newFixture(t, 1)
	for i := 0; i < 5; i++ {
		f.bank.add("A", model.DifficultyMedium)
	}

	attempt, resumed, err := f.svc.Start(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.Len(t, attempt.QuestionOrder, 5)
	assert.Zero(t, attempt.Score)

	var last *model.AnswerFeedback
	for i := 0; i < 5; i++ {
		last = f.answerCurrent(t, identity)
		assert.True(t, last.Correct)
	}

	require.True(t, last.Finished)
	require.NotNil(t, last.Result)
	assert.Equal(t, 5, last.Result.Score)
	assert.Equal(t, 5, last.Result.TotalQuestions)
	assert.True(t, last.Result.Saved)

	// Exactly one durable result, live state gone.
	require.Len(t, f.recorder.results, 1)
	assert.Equal(t, recordedResult{UserID: testUserID, QuizID: f.quizID, Score: 5, Total: 5}, f.recorder.results[0])
	_, err = f.store.Get(context.Background(), session.Key{UserID: testUserID, QuizID: f.quizID})
	assert.ErrorIs(t, err, session.ErrNotFound)

	// Every graded answer reached the audit sink.
	assert.Len(t, f.sink.entries, 5)
}

func TestWrongAndEmptyAnswersGradedIncorrect(t *testing.T) {
	f := newFixture(t, 2)
	f.bank.add("B", model.DifficultyEasy)
	f.bank.add("B", model.DifficultyEasy)
	f.bank.add("B", model.DifficultyEasy)

	_, _, err := f.svc.Start(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)

	fb := f.answerCurrent(t, func(string) string { return "D" })
	assert.False(t, fb.Correct)
	assert.Equal(t, "B", fb.CorrectOption)

	fb = f.answerCurrent(t, func(string) string { return "" })
	assert.False(t, fb.Correct)

	fb = f.answerCurrent(t, identity)
	assert.True(t, fb.Correct)
	require.True(t, fb.Finished)
	assert.Equal(t, 1, fb.Result.Score)
	assert.Equal(t, 3, fb.Result.TotalQuestions)
}

func TestAnswerNormalization(t *testing.T) {
	f := newFixture(t, 3)
	f.bank.add("C", model.DifficultyMedium)
	f.bank.add("C", model.DifficultyMedium)

	_, _, err := f.svc.Start(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)

	fb := f.answerCurrent(t, func(correct string) string { return "  " + strings.ToLower(correct) + "  " })
	assert.True(t, fb.Correct, "trimmed lowercase answer must grade correct")

	fb = f.answerCurrent(t, func(string) string { return "   " })
	assert.False(t, fb.Correct, "whitespace-only answer must grade incorrect")
}

func TestEndEarlyUsesAnsweredDenominator(t *testing.T) {
	f := newFixture(t, 4)
	for i := 0; i < 6; i++ {
		f.bank.add("A", model.DifficultyHard)
	}

	_, _, err := f.svc.Start(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)

	f.answerCurrent(t, identity)
	f.answerCurrent(t, func(string) string { return "B" })

	view, err := f.svc.EndEarly(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Score)
	assert.Equal(t, 2, view.TotalQuestions, "denominator is answered count, not quiz length")
	assert.True(t, view.Saved)

	require.Len(t, f.recorder.results, 1)
	assert.Equal(t, 2, f.recorder.results[0].Total)

	// Finalized: further calls see no attempt.
	_, err = f.svc.EndEarly(context.Background(), testUserID, f.quizID)
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestEndEarlyWithZeroAnswered(t *testing.T) {
	f := newFixture(t, 5)
	f.bank.add("A", model.DifficultyEasy)

	_, _, err := f.svc.Start(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)

	view, err := f.svc.EndEarly(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)
	assert.Zero(t, view.Score)
	assert.Zero(t, view.TotalQuestions)
}

func TestStartResumesExistingAttempt(t *testing.T) {
	f := newFixture(t, 6)
	for i := 0; i < 4; i++ {
		f.bank.add("A", model.DifficultyMedium)
	}

	first, resumed, err := f.svc.Start(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)
	require.False(t, resumed)

	f.answerCurrent(t, identity)

	second, resumed, err := f.svc.Start(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.Equal(t, first.QuestionOrder, second.QuestionOrder, "resume must not reshuffle")
	assert.Equal(t, 1, second.CurrentIndex)
	assert.Equal(t, 1, second.Score)
}

func TestSubmitWithoutFetchIsOutOfSequence(t *testing.T) {
	f := newFixture(t, 7)
	f.bank.add("A", model.DifficultyEasy)

	_, _, err := f.svc.Start(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)

	_, err = f.svc.SubmitAnswer(context.Background(), testUserID, f.quizID, "A")
	assert.ErrorIs(t, err, ErrOutOfSequence)

	// Attempt untouched.
	attempt, err := f.store.Get(context.Background(), session.Key{UserID: testUserID, QuizID: f.quizID})
	require.NoError(t, err)
	assert.Zero(t, attempt.CurrentIndex)
	assert.Zero(t, attempt.Score)
}

func TestDuplicateSubmitRejected(t *testing.T) {
	f := newFixture(t, 8)
	f.bank.add("A", model.DifficultyEasy)
	f.bank.add("A", model.DifficultyEasy)

	_, _, err := f.svc.Start(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)

	fb := f.answerCurrent(t, identity)
	require.True(t, fb.Correct)

	// Second submit without re-fetching the question.
	_, err = f.svc.SubmitAnswer(context.Background(), testUserID, f.quizID, "A")
	assert.ErrorIs(t, err, ErrOutOfSequence)

	attempt, err := f.store.Get(context.Background(), session.Key{UserID: testUserID, QuizID: f.quizID})
	require.NoError(t, err)
	assert.Equal(t, 1, attempt.CurrentIndex, "duplicate submit must not advance")
	assert.Equal(t, 1, attempt.Score, "duplicate submit must not double-grade")

	// Re-fetching recovers and serves the next question.
	current, result, err := f.svc.CurrentQuestion(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)
	require.Nil(t, result)
	assert.Equal(t, 2, current.Ordinal)
}

func TestStartEmptyQuiz(t *testing.T) {
	f := newFixture(t, 9)

	_, _, err := f.svc.Start(context.Background(), testUserID, f.quizID)
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestOperationsWithoutAttempt(t *testing.T) {
	f := newFixture(t, 10)
	f.bank.add("A", model.DifficultyEasy)
	ctx := context.Background()

	_, _, err := f.svc.CurrentQuestion(ctx, testUserID, f.quizID)
	assert.ErrorIs(t, err, ErrAttemptNotFound)

	_, err = f.svc.SubmitAnswer(ctx, testUserID, f.quizID, "A")
	assert.ErrorIs(t, err, ErrAttemptNotFound)

	_, err = f.svc.EndEarly(ctx, testUserID, f.quizID)
	assert.ErrorIs(t, err, ErrAttemptNotFound)

	_, err = f.svc.Progress(ctx, testUserID, f.quizID)
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestQuestionDeletedMidAttempt(t *testing.T) {
	f := newFixture(t, 11)
	q1 := f.bank.add("A", model.DifficultyMedium)
	q2 := f.bank.add("A", model.DifficultyMedium)

	_, _, err := f.svc.Start(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)

	// Lecturer deletes every question mid-attempt.
	delete(f.bank.questions, q1.ID)
	delete(f.bank.questions, q2.ID)

	_, _, err = f.svc.CurrentQuestion(context.Background(), testUserID, f.quizID)
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	// Attempt cancelled: no result row, no live state.
	assert.Empty(t, f.recorder.results)
	_, err = f.store.Get(context.Background(), session.Key{UserID: testUserID, QuizID: f.quizID})
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSubmitFinalAnswerRecordFailure(t *testing.T) {
	f := newFixture(t, 12)
	f.bank.add("A", model.DifficultyEasy)
	f.recorder.fail = true

	_, _, err := f.svc.Start(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)

	current, _, err := f.svc.CurrentQuestion(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)

	_, err = f.svc.SubmitAnswer(context.Background(), testUserID, f.quizID, f.bank.questions[current.Question.ID].CorrectOption)
	assert.ErrorIs(t, err, ErrResultNotSaved)

	// The attempt is still torn down so the student is not stuck.
	_, err = f.store.Get(context.Background(), session.Key{UserID: testUserID, QuizID: f.quizID})
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestEndEarlyRecordFailureRemovesState(t *testing.T) {
	f := newFixture(t, 13)
	f.bank.add("A", model.DifficultyEasy)
	f.bank.add("A", model.DifficultyEasy)
	f.recorder.fail = true

	_, _, err := f.svc.Start(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)

	f.answerCurrent(t, identity)

	view, err := f.svc.EndEarly(context.Background(), testUserID, f.quizID)
	assert.ErrorIs(t, err, ErrResultNotSaved)
	require.NotNil(t, view)
	assert.False(t, view.Saved)
	assert.Equal(t, 1, view.Score)

	// State removed even though the insert failed.
	_, err = f.store.Get(context.Background(), session.Key{UserID: testUserID, QuizID: f.quizID})
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Empty(t, f.recorder.results)
}

func TestScoreMatchesCorrectCountOverRandomRuns(t *testing.T) {
	rnd := rand.New(rand.NewSource(99))

	for run := 0; run < 10; run++ {
		f := newFixture(t, int64(run))
		n := 3 + rnd.Intn(8)
		for i := 0; i < n; i++ {
			f.bank.add("A", model.DifficultyMedium)
		}

		_, _, err := f.svc.Start(context.Background(), testUserID, f.quizID)
		require.NoError(t, err)

		wantScore := 0
		var last *model.AnswerFeedback
		for i := 0; i < n; i++ {
			if rnd.Intn(2) == 0 {
				wantScore++
				last = f.answerCurrent(t, identity)
			} else {
				last = f.answerCurrent(t, func(string) string { return "D" })
			}
		}

		require.True(t, last.Finished)
		assert.Equal(t, wantScore, last.Result.Score)
		assert.Equal(t, n, last.Result.TotalQuestions)
	}
}

func TestProgressAndListProgress(t *testing.T) {
	f := newFixture(t, 14)
	for i := 0; i < 4; i++ {
		f.bank.add("A", model.DifficultyMedium)
	}

	_, _, err := f.svc.Start(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)
	f.answerCurrent(t, identity)

	progress, err := f.svc.Progress(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Answered)
	assert.Equal(t, 4, progress.Total)
	assert.Equal(t, 1, progress.Score)

	snapshots, err := f.svc.ListProgress(context.Background(), f.quizID)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, testUserID, snapshots[0].UserID)
}

func TestFinalQuestionViaGetAfterAllAnswered(t *testing.T) {
	f := newFixture(t, 15)
	f.bank.add("A", model.DifficultyEasy)

	_, _, err := f.svc.Start(context.Background(), testUserID, f.quizID)
	require.NoError(t, err)

	fb := f.answerCurrent(t, identity)
	require.True(t, fb.Finished)

	// A stale client polling the question endpoint sees attempt gone.
	_, _, err = f.svc.CurrentQuestion(context.Background(), testUserID, f.quizID)
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}
