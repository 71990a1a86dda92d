package model

import (
	"time"

	"github.com/google/uuid"
)

// MaxQuestionsPerQuiz caps how many questions a lecturer may add to one quiz.
const MaxQuestionsPerQuiz = 20

// Quiz represents a quiz entity owned by a lecturer.
type Quiz struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CourseID    *int      `json:"course_id,omitempty"`
	AuthorID    int       `json:"author_id"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// QuizSummary is the student-facing listing entry. Completed reports
// whether the requesting student already has a result for the quiz.
type QuizSummary struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	QuestionCount int       `json:"question_count"`
	Completed     bool      `json:"completed"`
}

// CreateQuizRequest is the payload for creating a new quiz.
type CreateQuizRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	CourseID    *int   `json:"course_id" binding:"omitempty"`
}

// UpdateQuizRequest is the payload for updating an existing quiz.
type UpdateQuizRequest struct {
	Title       string `json:"title" binding:"omitempty,min=3,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	CourseID    *int   `json:"course_id" binding:"omitempty"`
	Published   *bool  `json:"published" binding:"omitempty"`
}
