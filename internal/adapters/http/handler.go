package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/randomtoy/tarotchat/internal/app"
	"github.com/randomtoy/tarotchat/internal/domain"
)

type Handler struct {
	svc *app.ChatService
}

func NewHandler(svc *app.ChatService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/api/health", h.Health)
	e.POST("/api/sessions", h.CreateSession)
	e.GET("/api/sessions", h.ListSessions)
	e.GET("/api/messages", h.GetMessages)
	e.POST("/api/tarot/draw", h.Draw)
	e.POST("/api/chat/stream", h.StreamChat)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		OK:   true,
		Time: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) CreateSession(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	sess, err := h.svc.CreateSession(c.Request().Context(), req.Name)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *Handler) ListSessions(c echo.Context) error {
	sessions, err := h.svc.ListSessions(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, sessions)
}

func (h *Handler) GetMessages(c echo.Context) error {
	msgs, err := h.svc.Messages(c.Request().Context(), c.QueryParam("session_id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, msgs)
}

func (h *Handler) Draw(c echo.Context) error {
	spread := c.QueryParam("spread")
	if spread == "" {
		spread = "three"
	}

	cards, err := h.svc.Draw(c.Request().Context(), spread, c.QueryParam("seed"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, DrawResponse{Spread: spread, Cards: cards})
}

// StreamChat handles POST /api/chat/stream as a server-sent event stream.
// Validation happens before the first stream byte; everything after that
// degrades in-band because the response status is already on the wire.
func (h *Handler) StreamChat(c echo.Context) error {
	var req ChatStreamRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "session_id is required"})
	}

	appReq := app.ChatRequest{
		SessionID:   req.SessionID,
		UserMessage: req.UserMessage,
		Mode:        domain.ParseMode(req.Mode),
		Tarot: app.TarotContext{
			Topic:  req.Meta.Topic,
			Spread: req.Meta.Spread,
			Cards:  req.Meta.Cards,
		},
	}
	if appReq.Tarot.Spread == "" {
		appReq.Tarot.Spread = "three"
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream; charset=utf-8")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)

	err := h.svc.StreamChat(c.Request().Context(), appReq, func(ev app.Event) error {
		return writeEvent(res, ev)
	})
	if err != nil {
		slog.ErrorContext(c.Request().Context(), "chat stream aborted",
			"session_id", req.SessionID, "error", err)
	}
	return nil
}

// writeEvent frames one orchestrator event in the wire format the frontend
// expects and flushes it immediately.
func writeEvent(res *echo.Response, ev app.Event) error {
	var err error
	switch ev.Type {
	case app.EventStart:
		_, err = fmt.Fprint(res.Writer, "data: {\"type\":\"start\"}\n\n")
	case app.EventFragment:
		_, err = fmt.Fprintf(res.Writer, "data: %s\n\n", ev.Data)
	case app.EventEnd:
		_, err = fmt.Fprint(res.Writer, "data: {\"type\":\"end\"}\n\n")
	case app.EventClose:
		_, err = fmt.Fprint(res.Writer, "event: close\ndata: done\n\n")
	}
	if err != nil {
		return err
	}
	res.Flush()
	return nil
}

func mapError(c echo.Context, err error) error {
	requestID, _ := c.Get("request_id").(string)

	switch {
	case errors.Is(err, domain.ErrUnknownSpread),
		errors.Is(err, domain.ErrDeckTooSmall),
		errors.Is(err, domain.ErrSessionIDRequired):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		slog.Error("internal error", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
