package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/smartquiz/smartquiz-backend/internal/config"
	"github.com/smartquiz/smartquiz-backend/internal/handler"
	"github.com/smartquiz/smartquiz-backend/internal/middleware"
	"github.com/smartquiz/smartquiz-backend/internal/model"
	"github.com/smartquiz/smartquiz-backend/internal/response"
	"github.com/smartquiz/smartquiz-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Attempt  *handler.AttemptHandler
	Student  *handler.StudentHandler
	Lecturer *handler.LecturerHandler
	Monitor  *handler.MonitorHandler
	Admin    *handler.AdminHandler
	System   *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Student Group ──────────────────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireAuth(authService),
		middleware.RequireRole(model.RoleStudent),
	)
	{
		studentAPI.GET("/quizzes", handlers.Student.ListQuizzes)
		studentAPI.GET("/results", handlers.Student.ListResults)
		studentAPI.GET("/results/:id", handlers.Student.GetResult)
		studentAPI.GET("/analytics", handlers.Student.Analytics)
		studentAPI.GET("/notifications", handlers.Student.ListNotifications)
		studentAPI.POST("/notifications/:id/read", handlers.Student.MarkNotificationRead)

		// Attempt state machine
		studentAPI.POST("/quizzes/:quiz_id/attempt", handlers.Attempt.Start)
		studentAPI.GET("/quizzes/:quiz_id/attempt", handlers.Attempt.Status)
		studentAPI.GET("/quizzes/:quiz_id/attempt/question", handlers.Attempt.GetQuestion)
		studentAPI.POST("/quizzes/:quiz_id/attempt/answer", handlers.Attempt.SubmitAnswer)
		studentAPI.POST("/quizzes/:quiz_id/attempt/end", handlers.Attempt.End)
	}

	// ─── 3. Lecturer Group ─────────────────────────────────────────────
	lecturerAPI := router.Group("/api/v1/lecturer")
	lecturerAPI.Use(
		middleware.RequireAuth(authService),
		middleware.RequireRole(model.RoleLecturer, model.RoleAdmin),
	)
	{
		lecturerAPI.GET("/quizzes", handlers.Lecturer.ListQuizzes)
		lecturerAPI.POST("/quizzes", handlers.Lecturer.CreateQuiz)
		lecturerAPI.GET("/quizzes/:quiz_id", handlers.Lecturer.GetQuiz)
		lecturerAPI.PUT("/quizzes/:quiz_id", handlers.Lecturer.UpdateQuiz)
		lecturerAPI.DELETE("/quizzes/:quiz_id", handlers.Lecturer.DeleteQuiz)

		lecturerAPI.GET("/quizzes/:quiz_id/questions", handlers.Lecturer.ListQuestions)
		lecturerAPI.POST("/quizzes/:quiz_id/questions", handlers.Lecturer.AddQuestion)
		lecturerAPI.PUT("/quizzes/:quiz_id/questions/:question_id", handlers.Lecturer.UpdateQuestion)
		lecturerAPI.DELETE("/quizzes/:quiz_id/questions/:question_id", handlers.Lecturer.DeleteQuestion)

		lecturerAPI.GET("/reports", handlers.Lecturer.Reports)
		lecturerAPI.GET("/quizzes/:quiz_id/results", handlers.Lecturer.QuizResults)
		lecturerAPI.GET("/students", handlers.Lecturer.ListStudents)
		lecturerAPI.GET("/students/:student_id/analytics", handlers.Lecturer.StudentAnalytics)
	}

	// ─── 4. WebSocket Group (WS Auth via ?token=) ──────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(
		middleware.RequireWSAuth(authService),
		middleware.RequireRole(model.RoleLecturer, model.RoleAdmin),
	)
	{
		ws.GET("/lecturer/quizzes/:quiz_id/monitor", handlers.Monitor.QuizMonitorStream)
	}

	// ─── 5. Admin Group ────────────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(
		middleware.RequireAuth(authService),
		middleware.RequireRole(model.RoleAdmin),
	)
	{
		adminAPI.GET("/dashboard", handlers.Admin.Dashboard)
		adminAPI.GET("/system/metrics", handlers.System.SystemMetricsSSE)

		adminAPI.GET("/users", handlers.Admin.ListUsers)
		adminAPI.POST("/users", handlers.Admin.CreateUser)
		adminAPI.PUT("/users/:id/role", handlers.Admin.UpdateUserRole)
		adminAPI.DELETE("/users/:id", handlers.Admin.DeleteUser)

		adminAPI.GET("/courses", handlers.Admin.ListCourses)
		adminAPI.POST("/courses", handlers.Admin.CreateCourse)
		adminAPI.PUT("/courses/:id", handlers.Admin.UpdateCourse)
		adminAPI.DELETE("/courses/:id", handlers.Admin.DeleteCourse)

		adminAPI.POST("/notifications", handlers.Admin.SendNotification)
	}

	return router
}
