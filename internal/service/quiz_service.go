package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/smartquiz/smartquiz-backend/internal/model"
	"github.com/smartquiz/smartquiz-backend/internal/repository"
)

// Quiz management errors.
var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrNotQuizAuthor    = errors.New("quiz belongs to another lecturer")
	ErrQuizNotPublished = errors.New("quiz is not published")
	ErrQuestionLimit    = errors.New("quiz question limit reached")
)

// QuizService handles lecturer quiz and question management plus the
// student-facing quiz catalog.
type QuizService struct {
	quizRepo     *repository.QuizRepository
	questionRepo *repository.QuestionRepository
	log          zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(quizRepo *repository.QuizRepository, questionRepo *repository.QuestionRepository, log zerolog.Logger) *QuizService {
	return &QuizService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		log:          log.With().Str("component", "quiz_service").Logger(),
	}
}

// Create makes a new unpublished quiz owned by the lecturer.
func (s *QuizService) Create(ctx context.Context, authorID int, req *model.CreateQuizRequest) (*model.Quiz, error) {
	quiz := &model.Quiz{
		Title:       req.Title,
		Description: req.Description,
		CourseID:    req.CourseID,
		AuthorID:    authorID,
	}
	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}

	s.log.Info().Str("quiz_id", quiz.ID.String()).Int("author_id", authorID).Msg("quiz created")
	return quiz, nil
}

// GetOwned fetches a quiz and verifies the lecturer owns it.
func (s *QuizService) GetOwned(ctx context.Context, authorID int, quizID uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	if quiz.AuthorID != authorID {
		return nil, ErrNotQuizAuthor
	}
	return quiz, nil
}

// GetPublished fetches a quiz students may attempt.
func (s *QuizService) GetPublished(ctx context.Context, quizID uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	if !quiz.Published {
		return nil, ErrQuizNotPublished
	}
	return quiz, nil
}

// ListByAuthor returns all quizzes owned by a lecturer.
func (s *QuizService) ListByAuthor(ctx context.Context, authorID int) ([]model.Quiz, error) {
	return s.quizRepo.ListByAuthor(ctx, authorID)
}

// ListForStudent returns published quizzes annotated with the student's
// completion status.
func (s *QuizService) ListForStudent(ctx context.Context, userID int) ([]model.QuizSummary, error) {
	return s.quizRepo.ListPublishedForStudent(ctx, userID)
}

// Update applies partial changes to an owned quiz.
func (s *QuizService) Update(ctx context.Context, authorID int, quizID uuid.UUID, req *model.UpdateQuizRequest) (*model.Quiz, error) {
	quiz, err := s.GetOwned(ctx, authorID, quizID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		quiz.Title = req.Title
	}
	if req.Description != "" {
		quiz.Description = req.Description
	}
	if req.CourseID != nil {
		quiz.CourseID = req.CourseID
	}
	if req.Published != nil {
		quiz.Published = *req.Published
	}

	if err := s.quizRepo.Update(ctx, quiz); err != nil {
		return nil, fmt.Errorf("update quiz: %w", err)
	}
	return quiz, nil
}

// Delete removes an owned quiz with its questions.
func (s *QuizService) Delete(ctx context.Context, authorID int, quizID uuid.UUID) error {
	if _, err := s.GetOwned(ctx, authorID, quizID); err != nil {
		return err
	}
	if _, err := s.quizRepo.Delete(ctx, quizID); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	return nil
}

// AddQuestion appends a question to an owned quiz, enforcing the
// per-quiz question cap.
func (s *QuizService) AddQuestion(ctx context.Context, authorID int, quizID uuid.UUID, req *model.AddQuestionRequest) (*model.Question, error) {
	if _, err := s.GetOwned(ctx, authorID, quizID); err != nil {
		return nil, err
	}

	count, err := s.questionRepo.CountByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	if count >= model.MaxQuestionsPerQuiz {
		return nil, ErrQuestionLimit
	}

	question := &model.Question{
		QuizID:        quizID,
		QuestionText:  req.QuestionText,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectOption: req.CorrectOption,
		Difficulty:    model.Difficulty(req.Difficulty),
	}
	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return question, nil
}

// ListQuestions returns the full questions of an owned quiz for editing.
func (s *QuizService) ListQuestions(ctx context.Context, authorID int, quizID uuid.UUID) ([]model.Question, error) {
	if _, err := s.GetOwned(ctx, authorID, quizID); err != nil {
		return nil, err
	}
	return s.questionRepo.ListByQuiz(ctx, quizID)
}

// UpdateQuestion applies partial changes to a question of an owned quiz.
func (s *QuizService) UpdateQuestion(ctx context.Context, authorID int, quizID, questionID uuid.UUID, req *model.UpdateQuestionRequest) (*model.Question, error) {
	if _, err := s.GetOwned(ctx, authorID, quizID); err != nil {
		return nil, err
	}

	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}
	if question.QuizID != quizID {
		return nil, ErrQuestionNotFound
	}

	if req.QuestionText != "" {
		question.QuestionText = req.QuestionText
	}
	if req.OptionA != "" {
		question.OptionA = req.OptionA
	}
	if req.OptionB != "" {
		question.OptionB = req.OptionB
	}
	if req.OptionC != "" {
		question.OptionC = req.OptionC
	}
	if req.OptionD != "" {
		question.OptionD = req.OptionD
	}
	if req.CorrectOption != "" {
		question.CorrectOption = req.CorrectOption
	}
	if req.Difficulty != "" {
		question.Difficulty = model.Difficulty(req.Difficulty)
	}

	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	return question, nil
}

// DeleteQuestion removes a question from an owned quiz.
func (s *QuizService) DeleteQuestion(ctx context.Context, authorID int, quizID, questionID uuid.UUID) error {
	if _, err := s.GetOwned(ctx, authorID, quizID); err != nil {
		return err
	}

	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("get question: %w", err)
	}
	if question.QuizID != quizID {
		return ErrQuestionNotFound
	}

	if _, err := s.questionRepo.Delete(ctx, questionID); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}
