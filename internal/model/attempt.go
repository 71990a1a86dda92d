package model

import (
	"time"

	"github.com/google/uuid"
)

// Attempt is the full per-student quiz progress snapshot, serialized to
// JSON and held in the session store while the attempt is in progress.
// Once finalized it is removed from the store; the durable record is a
// Result row. Answers is keyed by question ID string so the map survives
// JSON round-trips.
type Attempt struct {
	UserID            int               `json:"user_id"`
	QuizID            uuid.UUID         `json:"quiz_id"`
	QuestionOrder     []uuid.UUID       `json:"question_order"`
	CurrentIndex      int               `json:"current_index"`
	Answers           map[string]string `json:"answers"`
	Score             int               `json:"score"`
	StartedAt         time.Time         `json:"started_at"`
	QuestionStartedAt *time.Time        `json:"question_started_at,omitempty"`
}

// Remaining reports how many questions have not been answered yet.
func (a *Attempt) Remaining() int {
	return len(a.QuestionOrder) - a.CurrentIndex
}

// Exhausted reports whether every question in the order has been answered.
func (a *Attempt) Exhausted() bool {
	return a.CurrentIndex >= len(a.QuestionOrder)
}

// SubmitAnswerRequest is the payload for answering the current question.
type SubmitAnswerRequest struct {
	Answer string `json:"answer" binding:"max=10"`
}

// AnswerFeedback is returned after each graded answer.
type AnswerFeedback struct {
	Correct          bool        `json:"correct"`
	CorrectOption    string      `json:"correct_option"`
	Score            int         `json:"score"`
	Answered         int         `json:"answered"`
	Total            int         `json:"total"`
	TimeTakenSeconds int         `json:"time_taken_seconds"`
	Finished         bool        `json:"finished"`
	Result           *ResultView `json:"result,omitempty"`
}

// CurrentQuestion wraps the question served to a student with positional info.
type CurrentQuestion struct {
	Question QuestionForStudent `json:"question"`
	Ordinal  int                `json:"ordinal"`
	Total    int                `json:"total"`
}

// AttemptProgress is the live snapshot streamed to the lecturer monitor.
type AttemptProgress struct {
	UserID    int       `json:"user_id"`
	QuizID    uuid.UUID `json:"quiz_id"`
	Answered  int       `json:"answered"`
	Total     int       `json:"total"`
	Score     int       `json:"score"`
	StartedAt time.Time `json:"started_at"`
}

// Progress projects an attempt into its monitor snapshot.
func (a *Attempt) Progress() AttemptProgress {
	return AttemptProgress{
		UserID:    a.UserID,
		QuizID:    a.QuizID,
		Answered:  a.CurrentIndex,
		Total:     len(a.QuestionOrder),
		Score:     a.Score,
		StartedAt: a.StartedAt,
	}
}
