package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/smartquiz/smartquiz-backend/internal/config"
	"github.com/smartquiz/smartquiz-backend/internal/database"
	"github.com/smartquiz/smartquiz-backend/internal/handler"
	"github.com/smartquiz/smartquiz-backend/internal/logger"
	"github.com/smartquiz/smartquiz-backend/internal/repository"
	"github.com/smartquiz/smartquiz-backend/internal/router"
	"github.com/smartquiz/smartquiz-backend/internal/service"
	"github.com/smartquiz/smartquiz-backend/internal/session"
	"github.com/smartquiz/smartquiz-backend/internal/validator"
	"github.com/smartquiz/smartquiz-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting SmartQuiz Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	resultRepo := repository.NewResultRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	attemptStore := session.NewRedisStore(rdb, cfg.AttemptTTL)
	answerQueue := worker.NewAnswerQueue(rdb)
	sequencer := service.NewSequencer(rand.New(rand.NewSource(time.Now().UnixNano())))

	authService := service.NewAuthService(cfg, userRepo, log)
	userService := service.NewUserService(userRepo, authService, log)
	quizService := service.NewQuizService(quizRepo, questionRepo, log)
	attemptService := service.NewAttemptService(attemptStore, questionRepo, resultRepo, answerQueue, sequencer, log)
	reportService := service.NewReportService(reportRepo, resultRepo, quizRepo, log)
	courseService := service.NewCourseService(courseRepo, log)
	notificationService := service.NewNotificationService(notificationRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService, userService),
		Attempt:  handler.NewAttemptHandler(attemptService, quizService),
		Student:  handler.NewStudentHandler(quizService, reportService, notificationService),
		Lecturer: handler.NewLecturerHandler(quizService, reportService),
		Monitor:  handler.NewMonitorHandler(attemptService, quizService, log, cfg.AllowedOrigins),
		Admin:    handler.NewAdminHandler(userService, courseService, notificationService, reportService),
		System:   handler.NewSystemHandler(rdb, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	answerLogWorker := worker.NewAnswerLogWorker(pool, rdb, log)
	go answerLogWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
