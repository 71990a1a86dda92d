package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartquiz/smartquiz-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeAttempt(userID int, quizID uuid.UUID) *model.Attempt {
	return &model.Attempt{
		UserID:        userID,
		QuizID:        quizID,
		QuestionOrder: []uuid.UUID{uuid.New(), uuid.New()},
		Answers:       make(map[string]string),
		StartedAt:     time.Now(),
	}
}

func TestMemoryStorePutGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	quizID := uuid.New()
	key := Key{UserID: 1, QuizID: quizID}

	require.NoError(t, store.Put(ctx, key, makeAttempt(1, quizID)))

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, got.UserID)
	assert.Equal(t, quizID, got.QuizID)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), Key{UserID: 1, QuizID: uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	quizID := uuid.New()
	key := Key{UserID: 1, QuizID: quizID}

	require.NoError(t, store.Put(ctx, key, makeAttempt(1, quizID)))

	first, err := store.Get(ctx, key)
	require.NoError(t, err)
	first.Score = 99
	first.CurrentIndex = 99

	second, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, second.Score, "mutating a returned attempt must not leak into the store")
	assert.Zero(t, second.CurrentIndex)
}

func TestMemoryStoreRemove(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	quizID := uuid.New()
	key := Key{UserID: 1, QuizID: quizID}

	require.NoError(t, store.Put(ctx, key, makeAttempt(1, quizID)))
	require.NoError(t, store.Remove(ctx, key))

	_, err := store.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	// Removing an absent key is a no-op.
	assert.NoError(t, store.Remove(ctx, key))
}

func TestMemoryStoreListByQuiz(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	quizA := uuid.New()
	quizB := uuid.New()

	require.NoError(t, store.Put(ctx, Key{UserID: 1, QuizID: quizA}, makeAttempt(1, quizA)))
	require.NoError(t, store.Put(ctx, Key{UserID: 2, QuizID: quizA}, makeAttempt(2, quizA)))
	require.NoError(t, store.Put(ctx, Key{UserID: 1, QuizID: quizB}, makeAttempt(1, quizB)))

	attempts, err := store.ListByQuiz(ctx, quizA)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	for _, a := range attempts {
		assert.Equal(t, quizA, a.QuizID)
	}

	attempts, err = store.ListByQuiz(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	quizID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			key := Key{UserID: userID, QuizID: quizID}
			_ = store.Put(ctx, key, makeAttempt(userID, quizID))
			_, _ = store.Get(ctx, key)
			_, _ = store.ListByQuiz(ctx, quizID)
		}(i)
	}
	wg.Wait()

	attempts, err := store.ListByQuiz(ctx, quizID)
	require.NoError(t, err)
	assert.Len(t, attempts, 20)
}

func TestKeyMutexSerializesSameKey(t *testing.T) {
	m := NewKeyMutex(8)
	key := Key{UserID: 1, QuizID: uuid.New()}

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock(key)
			counter++
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}
