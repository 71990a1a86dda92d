package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/smartquiz/smartquiz-backend/internal/config"
	"github.com/smartquiz/smartquiz-backend/internal/model"
)

const (
	AnswerBatchSize    = 50
	AnswerBatchTimeout = 2 * time.Second
	AnswerPollTimeout  = 1 * time.Second
)

// AnswerLogWorker drains the graded answer queue and batches rows into
// the attempt_answers audit table. Grading never waits on this path.
type AnswerLogWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewAnswerLogWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *AnswerLogWorker {
	return &AnswerLogWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "answer_log_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *AnswerLogWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AnswerLogWorker started")

	batch := make([]*model.GradedAnswer, 0, AnswerBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= AnswerBatchSize || time.Since(lastFlush) >= AnswerBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, AnswerPollTimeout, config.WorkerKey.PersistAnswersQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var entry model.GradedAnswer
			if err := json.Unmarshal([]byte(item[1]), &entry); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &entry)
		}
	}
}

// ----------------------------------------------------------------
// Batch insert wrapper
// ----------------------------------------------------------------

func (w *AnswerLogWorker) flushSafe(ctx context.Context, batch []*model.GradedAnswer) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkInsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk answer insert failed, using fallback")

		for _, entry := range batch {
			if err := w.persistSingle(ctx, entry); err != nil {
				w.log.Error().Err(err).Msg("persistSingle failed, requeueing")
				raw, _ := json.Marshal(entry)
				w.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, raw)
			}
		}
	}
}

// ----------------------------------------------------------------
// BULK PostgreSQL INSERT using UNNEST
// ----------------------------------------------------------------

func (w *AnswerLogWorker) bulkInsert(ctx context.Context, batch []*model.GradedAnswer) error {
	n := len(batch)

	userIDs := make([]int, 0, n)
	quizIDs := make([]uuid.UUID, 0, n)
	questionIDs := make([]uuid.UUID, 0, n)
	answers := make([]string, 0, n)
	corrects := make([]bool, 0, n)
	timesTaken := make([]int, 0, n)
	answeredAts := make([]time.Time, 0, n)

	for _, entry := range batch {
		userIDs = append(userIDs, entry.UserID)
		quizIDs = append(quizIDs, entry.QuizID)
		questionIDs = append(questionIDs, entry.QuestionID)
		answers = append(answers, entry.Answer)
		corrects = append(corrects, entry.Correct)
		timesTaken = append(timesTaken, entry.TimeTakenSeconds)
		answeredAts = append(answeredAts, entry.AnsweredAt)
	}

	query := `
		INSERT INTO attempt_answers (user_id, quiz_id, question_id, answer, correct, time_taken_seconds, answered_at)
		SELECT u.user_id, u.quiz_id, u.question_id, u.answer, u.correct, u.time_taken_seconds, u.answered_at
		FROM UNNEST(
			$1::int[],
			$2::uuid[],
			$3::uuid[],
			$4::text[],
			$5::boolean[],
			$6::int[],
			$7::timestamptz[]
		) AS u (user_id, quiz_id, question_id, answer, correct, time_taken_seconds, answered_at)
	`

	_, err := w.pool.Exec(ctx, query, userIDs, quizIDs, questionIDs, answers, corrects, timesTaken, answeredAts)
	return err
}

// ----------------------------------------------------------------
// FALLBACK single insert
// ----------------------------------------------------------------

func (w *AnswerLogWorker) persistSingle(ctx context.Context, entry *model.GradedAnswer) error {
	_, err := w.pool.Exec(ctx,
		`INSERT INTO attempt_answers (user_id, quiz_id, question_id, answer, correct, time_taken_seconds, answered_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.UserID, entry.QuizID, entry.QuestionID, entry.Answer, entry.Correct, entry.TimeTakenSeconds, entry.AnsweredAt,
	)
	return err
}
