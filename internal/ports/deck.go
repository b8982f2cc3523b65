package ports

import (
	"context"

	"github.com/randomtoy/tarotchat/internal/domain"
)

// DeckStore provides the static reference deck.
type DeckStore interface {
	Deck(ctx context.Context) ([]domain.Card, error)
}
