package model

import "github.com/google/uuid"

// Difficulty enumerates the question difficulty levels. The sequencer
// serves Medium questions first, then Easy, then Hard.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Question represents a single four-option quiz question.
type Question struct {
	ID            uuid.UUID  `json:"id"`
	QuizID        uuid.UUID  `json:"quiz_id"`
	QuestionText  string     `json:"question_text"`
	OptionA       string     `json:"option_a"`
	OptionB       string     `json:"option_b"`
	OptionC       string     `json:"option_c"`
	OptionD       string     `json:"option_d"`
	CorrectOption string     `json:"correct_option"`
	Difficulty    Difficulty `json:"difficulty"`
}

// QuestionRef is the lightweight projection the sequencer orders by.
type QuestionRef struct {
	ID         uuid.UUID  `json:"id"`
	Difficulty Difficulty `json:"difficulty"`
}

// QuestionForStudent is a question without the correct answer,
// sent to students during an attempt.
type QuestionForStudent struct {
	ID           uuid.UUID `json:"id"`
	QuestionText string    `json:"question_text"`
	OptionA      string    `json:"option_a"`
	OptionB      string    `json:"option_b"`
	OptionC      string    `json:"option_c"`
	OptionD      string    `json:"option_d"`
}

// ForStudent strips the grading fields from a question.
func (q *Question) ForStudent() QuestionForStudent {
	return QuestionForStudent{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		OptionA:      q.OptionA,
		OptionB:      q.OptionB,
		OptionC:      q.OptionC,
		OptionD:      q.OptionD,
	}
}

// AddQuestionRequest is the payload for adding a question to a quiz.
type AddQuestionRequest struct {
	QuestionText  string `json:"question_text" binding:"required,min=1,max=2000"`
	OptionA       string `json:"option_a" binding:"required,max=500"`
	OptionB       string `json:"option_b" binding:"required,max=500"`
	OptionC       string `json:"option_c" binding:"required,max=500"`
	OptionD       string `json:"option_d" binding:"required,max=500"`
	CorrectOption string `json:"correct_option" binding:"required,oneof=A B C D"`
	Difficulty    string `json:"difficulty" binding:"required,difficulty"`
}

// UpdateQuestionRequest is the payload for editing an existing question.
type UpdateQuestionRequest struct {
	QuestionText  string `json:"question_text" binding:"omitempty,min=1,max=2000"`
	OptionA       string `json:"option_a" binding:"omitempty,max=500"`
	OptionB       string `json:"option_b" binding:"omitempty,max=500"`
	OptionC       string `json:"option_c" binding:"omitempty,max=500"`
	OptionD       string `json:"option_d" binding:"omitempty,max=500"`
	CorrectOption string `json:"correct_option" binding:"omitempty,oneof=A B C D"`
	Difficulty    string `json:"difficulty" binding:"omitempty,difficulty"`
}
