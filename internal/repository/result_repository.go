package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/smartquiz/smartquiz-backend/internal/model"
)

// ResultRepository handles finalized attempt results.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Record inserts a result row for a finalized attempt and returns its ID.
func (r *ResultRepository) Record(ctx context.Context, userID int, quizID uuid.UUID, score, totalQuestions int, completedAt time.Time) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`INSERT INTO results (user_id, quiz_id, score, total_questions, completed_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		userID, quizID, score, totalQuestions, completedAt,
	).Scan(&id)
	return id, err
}

// GetByID retrieves a single result.
func (r *ResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Result, error) {
	res := &model.Result{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, quiz_id, score, total_questions, completed_at
		 FROM results WHERE id = $1`, id,
	).Scan(&res.ID, &res.UserID, &res.QuizID, &res.Score, &res.TotalQuestions, &res.CompletedAt)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ListByUser retrieves a student's result history, newest first.
func (r *ResultRepository) ListByUser(ctx context.Context, userID int) ([]model.Result, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, quiz_id, score, total_questions, completed_at
		 FROM results WHERE user_id = $1
		 ORDER BY completed_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		var res model.Result
		if err := rows.Scan(&res.ID, &res.UserID, &res.QuizID, &res.Score, &res.TotalQuestions, &res.CompletedAt); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// ListByQuiz retrieves all results for a quiz joined with student info,
// for lecturer report pages.
func (r *ResultRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.ResultWithUser, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT res.id, res.user_id, res.quiz_id, res.score, res.total_questions, res.completed_at, u.name, u.email
		 FROM results res
		 JOIN users u ON u.id = res.user_id
		 WHERE res.quiz_id = $1
		 ORDER BY res.completed_at DESC`, quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.ResultWithUser
	for rows.Next() {
		var res model.ResultWithUser
		if err := rows.Scan(&res.ID, &res.UserID, &res.QuizID, &res.Score, &res.TotalQuestions, &res.CompletedAt, &res.UserName, &res.UserEmail); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
