package model

import (
	"time"

	"github.com/google/uuid"
)

// GradedAnswer is the per-question audit record pushed to the answer log
// queue after grading. A background worker batches these into the
// attempt_answers table for lecturer analytics; losing one never affects
// the student's score.
type GradedAnswer struct {
	UserID           int       `json:"user_id"`
	QuizID           uuid.UUID `json:"quiz_id"`
	QuestionID       uuid.UUID `json:"question_id"`
	Answer           string    `json:"answer"`
	Correct          bool      `json:"correct"`
	TimeTakenSeconds int       `json:"time_taken_seconds"`
	AnsweredAt       time.Time `json:"answered_at"`
}
