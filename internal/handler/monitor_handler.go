package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/smartquiz/smartquiz-backend/internal/middleware"
	"github.com/smartquiz/smartquiz-backend/internal/model"
	"github.com/smartquiz/smartquiz-backend/internal/service"
	ws "github.com/smartquiz/smartquiz-backend/internal/websocket"
)

// MonitorSnapshotInterval is how often live attempt snapshots are pushed
// to a connected lecturer without an explicit refresh.
const MonitorSnapshotInterval = 5 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// MonitorHandler streams live attempt progress to quiz authors.
type MonitorHandler struct {
	attemptService *service.AttemptService
	quizService    *service.QuizService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(attemptService *service.AttemptService, quizService *service.QuizService, log zerolog.Logger, allowedOrigins []string) *MonitorHandler {
	return &MonitorHandler{
		attemptService: attemptService,
		quizService:    quizService,
		log:            log.With().Str("component", "monitor_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// QuizMonitorStream godoc
// WS /ws/v1/lecturer/quizzes/:quiz_id/monitor
// Pushes a snapshot of every live attempt periodically and on demand.
func (h *MonitorHandler) QuizMonitorStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quiz ID"})
		return
	}

	// Only the quiz author may watch its attempts.
	if _, err := h.quizService.GetOwned(c.Request.Context(), claims.UserID, quizID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the quiz author"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("lecturer_id", claims.UserID).
		Str("quiz_id", quizID.String()).
		Logger()

	wsLog.Info().Msg("Lecturer connected")

	// Reader goroutine feeds client actions; the main loop multiplexes
	// them with the periodic ticker.
	actions := make(chan ws.Action)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestPayload
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			select {
			case actions <- msg.Action:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(MonitorSnapshotInterval)
	defer ticker.Stop()

	if err := h.pushSnapshot(c, conn, quizID); err != nil {
		return
	}

	for {
		select {
		case <-done:
			wsLog.Debug().Msg("Connection closed")
			return
		case action := <-actions:
			switch action {
			case ws.ActionPing:
				if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
					return
				}
			case ws.ActionRefresh:
				if err := h.pushSnapshot(c, conn, quizID); err != nil {
					return
				}
			}
		case <-ticker.C:
			if err := h.pushSnapshot(c, conn, quizID); err != nil {
				return
			}
		}
	}
}

func (h *MonitorHandler) pushSnapshot(c *gin.Context, conn *websocket.Conn, quizID uuid.UUID) error {
	snapshots, err := h.attemptService.ListProgress(c.Request.Context(), quizID)
	if err != nil {
		h.log.Error().Err(err).Msg("snapshot failed")
		return ws.WriteError(conn, "failed to load attempts")
	}
	if snapshots == nil {
		snapshots = []model.AttemptProgress{}
	}
	return ws.WriteTyped(conn, ws.SnapshotResponse{
		Event:    ws.EventSnapshot,
		Attempts: snapshots,
	})
}
