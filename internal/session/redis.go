package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/smartquiz/smartquiz-backend/internal/config"
	"github.com/smartquiz/smartquiz-backend/internal/model"
)

// RedisStore keeps attempts in Redis with an idle TTL. Every Put refreshes
// the expiry, so an attempt only disappears after the student has been
// inactive for the full TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a RedisStore with the given idle expiry.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key Key) (*model.Attempt, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.AttemptKey(key.UserID, key.QuizID.String())).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}

	var attempt model.Attempt
	if err := json.Unmarshal([]byte(raw), &attempt); err != nil {
		return nil, fmt.Errorf("decode attempt: %w", err)
	}
	return &attempt, nil
}

func (s *RedisStore) Put(ctx context.Context, key Key, attempt *model.Attempt) error {
	raw, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("encode attempt: %w", err)
	}

	if err := s.rdb.Set(ctx, config.CacheKey.AttemptKey(key.UserID, key.QuizID.String()), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key Key) error {
	if err := s.rdb.Del(ctx, config.CacheKey.AttemptKey(key.UserID, key.QuizID.String())).Err(); err != nil {
		return fmt.Errorf("remove attempt: %w", err)
	}
	return nil
}

func (s *RedisStore) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]*model.Attempt, error) {
	pattern := config.CacheKey.AttemptKeyPattern(quizID.String())

	var attempts []*model.Attempt
	iter := s.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		raw, err := s.rdb.Get(ctx, iter.Val()).Result()
		if errors.Is(err, redis.Nil) {
			continue // Expired between SCAN and GET
		}
		if err != nil {
			return nil, fmt.Errorf("get attempt %s: %w", iter.Val(), err)
		}

		var attempt model.Attempt
		if err := json.Unmarshal([]byte(raw), &attempt); err != nil {
			continue // Skip undecodable entries rather than break the monitor
		}
		attempts = append(attempts, &attempt)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan attempts: %w", err)
	}

	return attempts, nil
}
