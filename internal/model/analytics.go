package model

import "time"

// DifficultyStat is the per-difficulty slice of a student's answer history.
type DifficultyStat struct {
	Difficulty string  `json:"difficulty"`
	Answered   int     `json:"answered"`
	Correct    int     `json:"correct"`
	Accuracy   float64 `json:"accuracy"`
}

// StudentAnalytics aggregates a student's graded answers across attempts.
// Built from the answer audit log, so it covers early-ended attempts too.
type StudentAnalytics struct {
	TotalAnswered int              `json:"total_answered"`
	TotalCorrect  int              `json:"total_correct"`
	Accuracy      float64          `json:"accuracy"`
	ByDifficulty  []DifficultyStat `json:"by_difficulty"`
}

// StudentOverview is one row of the lecturer's student roster: a student
// who has at least one result on the lecturer's quizzes.
type StudentOverview struct {
	UserID          int       `json:"user_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Attempts        int       `json:"attempts"`
	AverageAccuracy float64   `json:"average_accuracy"`
	LastCompletedAt time.Time `json:"last_completed_at"`
}
