package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/smartquiz/smartquiz-backend/internal/config"
	"github.com/smartquiz/smartquiz-backend/internal/database"
	"github.com/smartquiz/smartquiz-backend/internal/logger"
	"github.com/smartquiz/smartquiz-backend/internal/model"
	"github.com/smartquiz/smartquiz-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type seedQuestion struct {
	text       string
	a, b, c, d string
	correct    string
	difficulty model.Difficulty
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)

	fmt.Println("=== Seeding Python Basics Quiz ===")

	// Find or create a demo lecturer to own the quiz.
	var lecturerID int
	lecturer, err := userRepo.GetByEmail(ctx, "lecturer@smartquiz.local")
	if err != nil {
		if err != pgx.ErrNoRows {
			log.Fatal().Err(err).Msg("Failed to check existing lecturer")
		}
		fmt.Println("Demo lecturer not found. Creating it...")
		hash, err := bcrypt.GenerateFromPassword([]byte("smartquiz"), cfg.BcryptCost)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to hash password")
		}
		newLecturer := &model.User{
			Name:         "Demo Lecturer",
			Email:        "lecturer@smartquiz.local",
			PasswordHash: string(hash),
			Role:         model.RoleLecturer,
		}
		if err := userRepo.Create(ctx, newLecturer); err != nil {
			log.Fatal().Err(err).Msg("Failed to create lecturer")
		}
		lecturerID = newLecturer.ID
		fmt.Printf("Created lecturer with ID: %d\n", lecturerID)
	} else {
		lecturerID = lecturer.ID
		fmt.Printf("Found existing lecturer with ID: %d\n", lecturerID)
	}

	quiz := &model.Quiz{
		Title:       "Python Basics",
		Description: "Core Python syntax, types and control flow.",
		AuthorID:    lecturerID,
		Published:   true,
	}
	if err := quizRepo.Create(ctx, quiz); err != nil {
		log.Fatal().Err(err).Msg("Failed to create quiz")
	}
	fmt.Printf("Created quiz: %s\n", quiz.ID)

	questions := []seedQuestion{
		{"What is the output of print(2 ** 3)?", "6", "8", "9", "23", "B", model.DifficultyEasy},
		{"Which keyword defines a function in Python?", "func", "define", "def", "fn", "C", model.DifficultyEasy},
		{"What type does input() return?", "int", "str", "float", "bool", "B", model.DifficultyEasy},
		{"Which symbol starts a comment in Python?", "//", "#", "/*", "--", "B", model.DifficultyEasy},
		{"What does len([1, 2, 3]) return?", "2", "3", "4", "Error", "B", model.DifficultyEasy},
		{"What is the output of print(10 // 3)?", "3.33", "3", "4", "1", "B", model.DifficultyMedium},
		{"Which method adds an element to the end of a list?", "push()", "add()", "append()", "insert()", "C", model.DifficultyMedium},
		{"What is the result of 'abc' * 2?", "abcabc", "abc2", "Error", "aabbcc", "A", model.DifficultyMedium},
		{"Which statement exits a loop immediately?", "pass", "continue", "break", "return", "C", model.DifficultyMedium},
		{"What does dict.get('x', 0) return when 'x' is missing?", "None", "KeyError", "0", "''", "C", model.DifficultyMedium},
		{"What is the output of print(bool(''))?", "True", "False", "None", "Error", "B", model.DifficultyMedium},
		{"What does [x * 2 for x in range(3)] evaluate to?", "[0, 2, 4]", "[2, 4, 6]", "[0, 1, 2]", "[1, 2, 3]", "A", model.DifficultyHard},
		{"Which of these is immutable?", "list", "dict", "set", "tuple", "D", model.DifficultyHard},
		{"What is the output of print(type(lambda: 0))?", "<class 'lambda'>", "<class 'function'>", "<class 'method'>", "Error", "B", model.DifficultyHard},
		{"What does *args collect in a function signature?", "Keyword arguments", "Positional arguments", "Default values", "Return values", "B", model.DifficultyHard},
	}

	successCount := 0
	for _, sq := range questions {
		q := &model.Question{
			QuizID:        quiz.ID,
			QuestionText:  sq.text,
			OptionA:       sq.a,
			OptionB:       sq.b,
			OptionC:       sq.c,
			OptionD:       sq.d,
			CorrectOption: sq.correct,
			Difficulty:    sq.difficulty,
		}
		if err := questionRepo.Create(ctx, q); err != nil {
			fmt.Printf("Error creating question %q: %v\n", sq.text, err)
		} else {
			successCount++
		}
	}

	fmt.Printf("\nSeed completed! Added %d/%d questions.\n", successCount, len(questions))
}
