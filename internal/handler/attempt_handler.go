package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smartquiz/smartquiz-backend/internal/middleware"
	"github.com/smartquiz/smartquiz-backend/internal/model"
	"github.com/smartquiz/smartquiz-backend/internal/response"
	"github.com/smartquiz/smartquiz-backend/internal/service"
	"github.com/smartquiz/smartquiz-backend/internal/validator"
)

// AttemptHandler handles the student quiz-taking endpoints.
type AttemptHandler struct {
	attemptService *service.AttemptService
	quizService    *service.QuizService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService *service.AttemptService, quizService *service.QuizService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService, quizService: quizService}
}

// Start godoc
// POST /api/v1/student/quizzes/:quiz_id/attempt
// Begins an attempt, or resumes the one already in progress.
func (h *AttemptHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	quiz, err := h.quizService.GetPublished(c.Request.Context(), quizID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrQuizNotPublished):
			response.Fail(c, http.StatusForbidden, response.ErrQuizNotPublished)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	attempt, resumed, err := h.attemptService.Start(c.Request.Context(), claims.UserID, quizID)
	if err != nil {
		if errors.Is(err, service.ErrNoQuestions) {
			response.Fail(c, http.StatusBadRequest, response.ErrNoQuestions)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"quiz_id":  quiz.ID,
		"title":    quiz.Title,
		"resumed":  resumed,
		"answered": attempt.CurrentIndex,
		"total":    len(attempt.QuestionOrder),
	})
}

// GetQuestion godoc
// GET /api/v1/student/quizzes/:quiz_id/attempt/question
// Serves the current question and arms it for answering. Fetching again
// re-arms the same question; that is the recovery path after a 409.
func (h *AttemptHandler) GetQuestion(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	current, result, err := h.attemptService.CurrentQuestion(c.Request.Context(), claims.UserID, quizID)
	if err != nil {
		h.failAttemptError(c, err)
		return
	}

	if result != nil {
		response.Success(c, http.StatusOK, gin.H{"finished": true, "result": result})
		return
	}

	response.Success(c, http.StatusOK, current)
}

// SubmitAnswer godoc
// POST /api/v1/student/quizzes/:quiz_id/attempt/answer
// Grades the armed question. An empty answer is accepted and graded
// incorrect, matching a student who skips without choosing.
func (h *AttemptHandler) SubmitAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	feedback, err := h.attemptService.SubmitAnswer(c.Request.Context(), claims.UserID, quizID, req.Answer)
	if err != nil {
		h.failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, feedback)
}

// End godoc
// POST /api/v1/student/quizzes/:quiz_id/attempt/end
// Finalizes the attempt early; the result is scored over the questions
// answered so far.
func (h *AttemptHandler) End(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.attemptService.EndEarly(c.Request.Context(), claims.UserID, quizID)
	if err != nil {
		h.failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Status godoc
// GET /api/v1/student/quizzes/:quiz_id/attempt
// Returns attempt progress without arming a question.
func (h *AttemptHandler) Status(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	progress, err := h.attemptService.Progress(c.Request.Context(), claims.UserID, quizID)
	if err != nil {
		h.failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, progress)
}

func (h *AttemptHandler) failAttemptError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAttemptNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
	case errors.Is(err, service.ErrOutOfSequence):
		response.Fail(c, http.StatusConflict, response.ErrOutOfSequence)
	case errors.Is(err, service.ErrQuestionNotFound):
		response.Fail(c, http.StatusGone, response.ErrQuestionCorrupt)
	case errors.Is(err, service.ErrResultNotSaved):
		response.Fail(c, http.StatusInternalServerError, response.ErrPersistenceFail)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
