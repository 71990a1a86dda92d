package websocket

import "github.com/smartquiz/smartquiz-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionRefresh Action = "refresh"
	ActionPing    Action = "ping"
)

// RequestPayload is the single client message shape for the monitor stream.
type RequestPayload struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventSnapshot Event = "snapshot"
	EventError    Event = "error"
	EventPong     Event = "pong"
)

// SnapshotResponse carries the live attempt progress of every student
// currently taking the quiz.
type SnapshotResponse struct {
	Event    Event                   `json:"event"`
	Attempts []model.AttemptProgress `json:"attempts"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
