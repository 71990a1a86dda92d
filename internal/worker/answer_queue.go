package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/smartquiz/smartquiz-backend/internal/config"
	"github.com/smartquiz/smartquiz-backend/internal/model"
)

// AnswerQueue is the producer side of the graded answer pipeline. It
// satisfies the attempt engine's sink interface.
type AnswerQueue struct {
	rdb *redis.Client
}

// NewAnswerQueue creates a new AnswerQueue.
func NewAnswerQueue(rdb *redis.Client) *AnswerQueue {
	return &AnswerQueue{rdb: rdb}
}

// Enqueue pushes one graded answer onto the persistence queue.
func (q *AnswerQueue) Enqueue(ctx context.Context, entry model.GradedAnswer) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode answer: %w", err)
	}
	if err := q.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, raw).Err(); err != nil {
		return fmt.Errorf("enqueue answer: %w", err)
	}
	return nil
}
