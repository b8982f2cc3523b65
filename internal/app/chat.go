package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/randomtoy/tarotchat/internal/domain"
	"github.com/randomtoy/tarotchat/internal/ports"
)

// EventType tags one element of a chat turn's output stream.
type EventType string

const (
	EventStart    EventType = "start"
	EventFragment EventType = "fragment"
	EventEnd      EventType = "end"
	EventClose    EventType = "close"
)

// Event is one ordered element of a streaming chat turn. Data is the
// fragment text and is empty for marker events.
type Event struct {
	Type EventType
	Data string
}

// EmitFunc forwards one event to the client. Returning an error means the
// client can no longer be written to.
type EmitFunc func(Event) error

// ChatRequest is the application-level input for one streaming turn.
type ChatRequest struct {
	SessionID   string
	UserMessage string
	Mode        domain.Mode
	Tarot       TarotContext
}

// ChatService ties the store, the prompt composer and the stream relay
// together, and serves the spread draws the tarot mode is grounded on.
type ChatService struct {
	store    ports.ConversationStore
	streamer ports.Streamer
	decks    ports.DeckStore
	rng      domain.RNG
	logger   *slog.Logger
}

func NewChatService(store ports.ConversationStore, streamer ports.Streamer, decks ports.DeckStore, rng domain.RNG, logger *slog.Logger) *ChatService {
	return &ChatService{
		store:    store,
		streamer: streamer,
		decks:    decks,
		rng:      rng,
		logger:   logger,
	}
}

// Draw performs one spread draw. A non-empty seed makes the result
// reproducible.
func (s *ChatService) Draw(ctx context.Context, spread, seed string) ([]domain.DrawnCard, error) {
	deck, err := s.decks.Deck(ctx)
	if err != nil {
		return nil, fmt.Errorf("load deck: %w", err)
	}

	rng := s.rng
	if seed != "" {
		rng = domain.SeededRNG(seed)
	}
	return domain.Draw(deck, spread, rng)
}

func (s *ChatService) CreateSession(ctx context.Context, name string) (domain.Session, error) {
	return s.store.CreateSession(ctx, name)
}

func (s *ChatService) ListSessions(ctx context.Context) ([]domain.Session, error) {
	return s.store.ListSessions(ctx)
}

func (s *ChatService) Messages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	return s.store.Messages(ctx, sessionID)
}

// StreamChat runs one chat turn: it records the user message, relays model
// fragments to emit in arrival order, and records the assembled reply once
// the stream has ended.
//
// Relay failures degrade to one in-band diagnostic fragment and the stream
// still ends with the usual end and close markers. If the client goes away
// mid-stream, the partial reply accumulated so far is persisted anyway and
// no diagnostic is appended, since the client cannot see it.
func (s *ChatService) StreamChat(ctx context.Context, req ChatRequest, emit EmitFunc) error {
	if req.SessionID == "" {
		return domain.ErrSessionIDRequired
	}

	userContent := req.UserMessage
	if userContent == "" && req.Mode == domain.ModeTarot {
		userContent = req.Tarot.Topic
	}
	if _, err := s.store.AddMessage(ctx, req.SessionID, domain.RoleUser, userContent); err != nil {
		return fmt.Errorf("record user message: %w", err)
	}

	if err := emit(Event{Type: EventStart}); err != nil {
		return err
	}

	var full strings.Builder
	clientGone := false

	messages := composeMessages(req.Mode, req.UserMessage, req.Tarot)
	err := s.streamer.StreamChat(ctx, messages, func(text string) error {
		full.WriteString(text)
		if err := emit(Event{Type: EventFragment, Data: text}); err != nil {
			clientGone = true
			return err
		}
		return nil
	})
	if err != nil && !clientGone {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			clientGone = true
		} else {
			diag := fmt.Sprintf("[model error] %T: %v", err, err)
			full.WriteString("\n" + diag)
			if emitErr := emit(Event{Type: EventFragment, Data: diag}); emitErr != nil {
				clientGone = true
			}
			s.logger.WarnContext(ctx, "stream degraded to inline error",
				"session_id", req.SessionID, "error", err)
		}
	}

	if !clientGone {
		if err := emit(Event{Type: EventEnd}); err != nil {
			clientGone = true
		}
	}

	// The assistant turn is recorded exactly once, after every fragment
	// (including any diagnostic) has been accumulated.
	if _, err := s.store.AddMessage(ctx, req.SessionID, domain.RoleAssistant, full.String()); err != nil {
		return fmt.Errorf("record assistant message: %w", err)
	}

	if clientGone {
		return nil
	}
	return emit(Event{Type: EventClose})
}
