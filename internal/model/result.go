package model

import (
	"time"

	"github.com/google/uuid"
)

// Result is the durable record of a finalized attempt. Exactly one row
// exists per finalized attempt; a second start of the same quiz by the
// same student produces another row.
type Result struct {
	ID             uuid.UUID `json:"id"`
	UserID         int       `json:"user_id"`
	QuizID         uuid.UUID `json:"quiz_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`
}

// ResultView is the student-facing summary of a finalized attempt.
// TotalQuestions is the answered-so-far count when the attempt was
// ended early, not the full quiz length.
type ResultView struct {
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`
	Saved          bool      `json:"saved"`
}

// ResultWithUser joins a result with its student for lecturer reports.
type ResultWithUser struct {
	Result
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// QuizReport aggregates result statistics for a single quiz.
type QuizReport struct {
	QuizID       uuid.UUID `json:"quiz_id"`
	QuizTitle    string    `json:"quiz_title"`
	Attempts     int       `json:"attempts"`
	AverageScore float64   `json:"average_score"`
	BestScore    int       `json:"best_score"`
	WorstScore   int       `json:"worst_score"`
}
