// Package decks loads the static reference deck.
package decks

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/randomtoy/tarotchat/internal/domain"
)

// fallbackDeck is a small built-in deck used when no deck file exists at
// the configured path. A full 78-card deck should live in the data file.
//
//go:embed data/tarot_deck.json
var fallbackDeck []byte

// Store reads the deck once: from the configured file path when present,
// otherwise from the built-in fallback deck.
type Store struct {
	path  string
	once  sync.Once
	cards []domain.Card
	err   error
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) load() {
	raw := fallbackDeck
	if s.path != "" {
		if b, err := os.ReadFile(s.path); err == nil {
			raw = b
		}
	}

	var cards []domain.Card
	if err := json.Unmarshal(raw, &cards); err != nil {
		s.err = fmt.Errorf("parse deck: %w", err)
		return
	}
	s.cards = cards
}

func (s *Store) Deck(_ context.Context) ([]domain.Card, error) {
	s.once.Do(s.load)
	return s.cards, s.err
}
