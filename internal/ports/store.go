package ports

import (
	"context"

	"github.com/randomtoy/tarotchat/internal/domain"
)

// ConversationStore holds sessions and their ordered message history.
type ConversationStore interface {
	CreateSession(ctx context.Context, name string) (domain.Session, error)
	ListSessions(ctx context.Context) ([]domain.Session, error)
	AddMessage(ctx context.Context, sessionID string, role domain.Role, content string) (domain.Message, error)
	Messages(ctx context.Context, sessionID string) ([]domain.Message, error)
}
