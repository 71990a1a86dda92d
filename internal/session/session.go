// Package session holds in-progress quiz attempts keyed by user and quiz.
// Attempts live here only while in progress; finalization removes them and
// the durable record becomes a result row.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/smartquiz/smartquiz-backend/internal/model"
)

// ErrNotFound is returned when no attempt exists for the given key.
var ErrNotFound = errors.New("attempt not found")

// Key identifies one student's attempt at one quiz. A student can hold at
// most one live attempt per quiz.
type Key struct {
	UserID int
	QuizID uuid.UUID
}

// Store persists in-progress attempts. Implementations must provide
// read-your-writes consistency per key.
type Store interface {
	// Get returns the attempt for key, or ErrNotFound.
	Get(ctx context.Context, key Key) (*model.Attempt, error)
	// Put saves the attempt under key, refreshing its idle expiry.
	Put(ctx context.Context, key Key, attempt *model.Attempt) error
	// Remove deletes the attempt under key. Removing a missing key is not
	// an error.
	Remove(ctx context.Context, key Key) error
	// ListByQuiz returns every live attempt for a quiz, for monitoring.
	ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]*model.Attempt, error)
}
