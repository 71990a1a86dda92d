package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/smartquiz/smartquiz-backend/internal/model"
)

// ReportRepository handles aggregate reporting queries for lecturers
// and administrators.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// GetSummaryCounts retrieves the high-level metrics for the admin dashboard.
func (r *ReportRepository) GetSummaryCounts(ctx context.Context) (totalUsers, totalQuizzes, totalQuestions, totalResults int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM quizzes),
			(SELECT COUNT(*) FROM questions),
			(SELECT COUNT(*) FROM results)`,
	).Scan(&totalUsers, &totalQuizzes, &totalQuestions, &totalResults)
	return
}

// GetRoleCounts retrieves the distribution of users by role.
func (r *ReportRepository) GetRoleCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var role string
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, err
		}
		counts[role] = count
	}
	return counts, rows.Err()
}

// GetDifficultyStats aggregates a student's graded answers by question
// difficulty. authorID, when non-nil, restricts the aggregation to quizzes
// owned by that lecturer. Answers to since-deleted questions are grouped
// under Unknown rather than dropped.
func (r *ReportRepository) GetDifficultyStats(ctx context.Context, userID int, authorID *int) ([]model.DifficultyStat, error) {
	query := `
		SELECT COALESCE(q.difficulty, 'Unknown'),
		       COUNT(*),
		       COUNT(*) FILTER (WHERE a.correct)
		FROM attempt_answers a
		LEFT JOIN questions q ON q.id = a.question_id`
	args := []interface{}{userID}

	if authorID != nil {
		query += `
		JOIN quizzes z ON z.id = a.quiz_id AND z.author_id = $2`
		args = append(args, *authorID)
	}

	query += `
		WHERE a.user_id = $1
		GROUP BY 1
		ORDER BY 1`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []model.DifficultyStat
	for rows.Next() {
		var s model.DifficultyStat
		if err := rows.Scan(&s.Difficulty, &s.Answered, &s.Correct); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// ListStudentsForLecturer returns every student with at least one result
// on the lecturer's quizzes, with attempt counts and average accuracy.
func (r *ReportRepository) ListStudentsForLecturer(ctx context.Context, authorID int) ([]model.StudentOverview, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name, u.email,
		        COUNT(res.id),
		        COALESCE(AVG(res.score::float / NULLIF(res.total_questions, 0)), 0),
		        MAX(res.completed_at)
		 FROM results res
		 JOIN users u ON u.id = res.user_id
		 JOIN quizzes q ON q.id = res.quiz_id
		 WHERE q.author_id = $1
		 GROUP BY u.id, u.name, u.email
		 ORDER BY u.name`, authorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.StudentOverview
	for rows.Next() {
		var s model.StudentOverview
		if err := rows.Scan(&s.UserID, &s.Name, &s.Email, &s.Attempts, &s.AverageAccuracy, &s.LastCompletedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// GetQuizReports aggregates result statistics per quiz for one lecturer.
// Quizzes with no results yet report zero attempts.
func (r *ReportRepository) GetQuizReports(ctx context.Context, authorID int) ([]model.QuizReport, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.title,
		        COUNT(res.id),
		        COALESCE(AVG(res.score), 0),
		        COALESCE(MAX(res.score), 0),
		        COALESCE(MIN(res.score), 0)
		 FROM quizzes q
		 LEFT JOIN results res ON res.quiz_id = q.id
		 WHERE q.author_id = $1
		 GROUP BY q.id, q.title
		 ORDER BY q.title`, authorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.QuizReport
	for rows.Next() {
		var rep model.QuizReport
		if err := rows.Scan(&rep.QuizID, &rep.QuizTitle, &rep.Attempts, &rep.AverageScore, &rep.BestScore, &rep.WorstScore); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}
