package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smartquiz/smartquiz-backend/internal/middleware"
	"github.com/smartquiz/smartquiz-backend/internal/model"
	"github.com/smartquiz/smartquiz-backend/internal/response"
	"github.com/smartquiz/smartquiz-backend/internal/service"
)

// StudentHandler handles the student catalog, history and notifications.
type StudentHandler struct {
	quizService         *service.QuizService
	reportService       *service.ReportService
	notificationService *service.NotificationService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(
	quizService *service.QuizService,
	reportService *service.ReportService,
	notificationService *service.NotificationService,
) *StudentHandler {
	return &StudentHandler{
		quizService:         quizService,
		reportService:       reportService,
		notificationService: notificationService,
	}
}

// ListQuizzes godoc
// GET /api/v1/student/quizzes
// Returns published quizzes with the student's completion status.
func (h *StudentHandler) ListQuizzes(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizzes, err := h.quizService.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if quizzes == nil {
		quizzes = []model.QuizSummary{}
	}

	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

// ListResults godoc
// GET /api/v1/student/results
func (h *StudentHandler) ListResults(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	results, err := h.reportService.StudentHistory(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if results == nil {
		results = []model.Result{}
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// GetResult godoc
// GET /api/v1/student/results/:id
func (h *StudentHandler) GetResult(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.reportService.StudentResult(c.Request.Context(), claims.UserID, id)
	if err != nil {
		if errors.Is(err, service.ErrResultNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Analytics godoc
// GET /api/v1/student/analytics
// Per-difficulty accuracy across all of the student's attempts.
func (h *StudentHandler) Analytics(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	analytics, err := h.reportService.StudentAnalytics(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, analytics)
}

// ListNotifications godoc
// GET /api/v1/student/notifications
func (h *StudentHandler) ListNotifications(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	notifications, err := h.notificationService.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}

	response.Success(c, http.StatusOK, gin.H{"notifications": notifications})
}

// MarkNotificationRead godoc
// POST /api/v1/student/notifications/:id/read
func (h *StudentHandler) MarkNotificationRead(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id, claims.UserID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"read": true})
}
