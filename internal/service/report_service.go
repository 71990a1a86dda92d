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

// ErrResultNotFound covers unknown result IDs and results belonging to
// another student, so result IDs cannot be enumerated.
var ErrResultNotFound = errors.New("result not found")

// PlatformSummary is the admin dashboard payload.
type PlatformSummary struct {
	TotalUsers     int            `json:"total_users"`
	TotalQuizzes   int            `json:"total_quizzes"`
	TotalQuestions int            `json:"total_questions"`
	TotalResults   int            `json:"total_results"`
	UsersByRole    map[string]int `json:"users_by_role"`
}

// ReportService assembles aggregate views for lecturers and admins.
type ReportService struct {
	reportRepo *repository.ReportRepository
	resultRepo *repository.ResultRepository
	quizRepo   *repository.QuizRepository
	log        zerolog.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(reportRepo *repository.ReportRepository, resultRepo *repository.ResultRepository, quizRepo *repository.QuizRepository, log zerolog.Logger) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		resultRepo: resultRepo,
		quizRepo:   quizRepo,
		log:        log.With().Str("component", "report_service").Logger(),
	}
}

// PlatformSummary builds the admin dashboard metrics.
func (s *ReportService) PlatformSummary(ctx context.Context) (*PlatformSummary, error) {
	users, quizzes, questions, results, err := s.reportRepo.GetSummaryCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("summary counts: %w", err)
	}

	roles, err := s.reportRepo.GetRoleCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("role counts: %w", err)
	}

	return &PlatformSummary{
		TotalUsers:     users,
		TotalQuizzes:   quizzes,
		TotalQuestions: questions,
		TotalResults:   results,
		UsersByRole:    roles,
	}, nil
}

// LecturerReports returns per-quiz statistics for one lecturer.
func (s *ReportService) LecturerReports(ctx context.Context, authorID int) ([]model.QuizReport, error) {
	return s.reportRepo.GetQuizReports(ctx, authorID)
}

// QuizResults returns all student results for one owned quiz.
func (s *ReportService) QuizResults(ctx context.Context, authorID int, quizID uuid.UUID) ([]model.ResultWithUser, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, ErrQuizNotFound
	}
	if quiz.AuthorID != authorID {
		return nil, ErrNotQuizAuthor
	}
	return s.resultRepo.ListByQuiz(ctx, quizID)
}

// StudentHistory returns a student's own result history.
func (s *ReportService) StudentHistory(ctx context.Context, userID int) ([]model.Result, error) {
	return s.resultRepo.ListByUser(ctx, userID)
}

// StudentResult returns one of the student's own results.
func (s *ReportService) StudentResult(ctx context.Context, userID int, id uuid.UUID) (*model.Result, error) {
	result, err := s.resultRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("get result: %w", err)
	}
	if result.UserID != userID {
		return nil, ErrResultNotFound
	}
	return result, nil
}

// StudentAnalytics aggregates a student's graded answers across all their
// attempts, broken down by question difficulty.
func (s *ReportService) StudentAnalytics(ctx context.Context, userID int) (*model.StudentAnalytics, error) {
	stats, err := s.reportRepo.GetDifficultyStats(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("difficulty stats: %w", err)
	}
	return buildAnalytics(stats), nil
}

// LecturerStudents returns the roster of students who finished at least
// one of the lecturer's quizzes.
func (s *ReportService) LecturerStudents(ctx context.Context, authorID int) ([]model.StudentOverview, error) {
	return s.reportRepo.ListStudentsForLecturer(ctx, authorID)
}

// LecturerStudentAnalytics aggregates one student's answers, restricted to
// the lecturer's own quizzes.
func (s *ReportService) LecturerStudentAnalytics(ctx context.Context, authorID, studentID int) (*model.StudentAnalytics, error) {
	stats, err := s.reportRepo.GetDifficultyStats(ctx, studentID, &authorID)
	if err != nil {
		return nil, fmt.Errorf("difficulty stats: %w", err)
	}
	return buildAnalytics(stats), nil
}

func buildAnalytics(stats []model.DifficultyStat) *model.StudentAnalytics {
	analytics := &model.StudentAnalytics{ByDifficulty: make([]model.DifficultyStat, 0, len(stats))}
	for _, stat := range stats {
		if stat.Answered > 0 {
			stat.Accuracy = float64(stat.Correct) / float64(stat.Answered)
		}
		analytics.TotalAnswered += stat.Answered
		analytics.TotalCorrect += stat.Correct
		analytics.ByDifficulty = append(analytics.ByDifficulty, stat)
	}
	if analytics.TotalAnswered > 0 {
		analytics.Accuracy = float64(analytics.TotalCorrect) / float64(analytics.TotalAnswered)
	}
	return analytics
}
