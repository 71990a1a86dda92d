package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/smartquiz/smartquiz-backend/internal/model"
)

// QuizRepository handles quiz data access.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// GetByID retrieves a quiz by ID.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, course_id, author_id, published, created_at, updated_at
		 FROM quizzes WHERE id = $1`, id,
	).Scan(&q.ID, &q.Title, &q.Description, &q.CourseID, &q.AuthorID, &q.Published, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListByAuthor retrieves all quizzes created by a lecturer.
func (r *QuizRepository) ListByAuthor(ctx context.Context, authorID int) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, course_id, author_id, published, created_at, updated_at
		 FROM quizzes WHERE author_id = $1
		 ORDER BY created_at DESC`, authorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.CourseID, &q.AuthorID, &q.Published, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// ListPublishedForStudent retrieves published quizzes with question counts
// and whether the given student already has a result for each.
func (r *QuizRepository) ListPublishedForStudent(ctx context.Context, userID int) ([]model.QuizSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.title, q.description,
		        (SELECT COUNT(*) FROM questions WHERE quiz_id = q.id),
		        EXISTS (SELECT 1 FROM results WHERE quiz_id = q.id AND user_id = $1)
		 FROM quizzes q
		 WHERE q.published = TRUE
		 ORDER BY q.created_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.QuizSummary
	for rows.Next() {
		var s model.QuizSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.QuestionCount, &s.Completed); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Create inserts a new quiz.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO quizzes (title, description, course_id, author_id, published)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		q.Title, q.Description, q.CourseID, q.AuthorID, q.Published,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// Update modifies a quiz.
func (r *QuizRepository) Update(ctx context.Context, q *model.Quiz) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quizzes SET title = $1, description = $2, course_id = $3, published = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5`,
		q.Title, q.Description, q.CourseID, q.Published, q.ID,
	)
	return err
}

// Delete removes a quiz and, via cascade, its questions.
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
