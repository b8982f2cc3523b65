package http

import "github.com/randomtoy/tarotchat/internal/domain"

// CreateSessionRequest is the JSON body of POST /api/sessions.
type CreateSessionRequest struct {
	Name string `json:"name"`
}

// HealthResponse is the JSON shape returned by GET /api/health.
type HealthResponse struct {
	OK   bool   `json:"ok"`
	Time string `json:"time"`
}

// DrawResponse is the JSON shape returned by POST /api/tarot/draw.
type DrawResponse struct {
	Spread string             `json:"spread"`
	Cards  []domain.DrawnCard `json:"cards"`
}

// ChatStreamRequest is the JSON body of POST /api/chat/stream.
type ChatStreamRequest struct {
	SessionID   string   `json:"session_id"`
	UserMessage string   `json:"user_message"`
	Mode        string   `json:"mode"`
	Meta        ChatMeta `json:"meta"`
}

// ChatMeta grounds a tarot turn in a previously drawn spread.
type ChatMeta struct {
	Topic  string             `json:"topic"`
	Spread string             `json:"spread"`
	Cards  []domain.DrawnCard `json:"cards"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
