// Package memstore keeps conversation state in process memory. Nothing
// survives a restart and nothing is ever evicted.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randomtoy/tarotchat/internal/domain"
)

const defaultSessionName = "New chat"

type sessionEntry struct {
	session domain.Session
	seq     uint64
}

// Store is a mutex-guarded in-memory conversation store.
type Store struct {
	mu       sync.RWMutex
	seq      uint64
	sessions map[string]sessionEntry
	messages map[string][]domain.Message
}

func New() *Store {
	return &Store{
		sessions: make(map[string]sessionEntry),
		messages: make(map[string][]domain.Message),
	}
}

func (s *Store) CreateSession(_ context.Context, name string) (domain.Session, error) {
	if name == "" {
		name = defaultSessionName
	}
	sess := domain.Session{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.seq++
	s.sessions[sess.ID] = sessionEntry{session: sess, seq: s.seq}
	s.messages[sess.ID] = []domain.Message{}
	s.mu.Unlock()

	return sess, nil
}

// ListSessions returns all sessions newest first. Creation order breaks
// ties between equal timestamps.
func (s *Store) ListSessions(_ context.Context) ([]domain.Session, error) {
	s.mu.RLock()
	entries := make([]sessionEntry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].session.CreatedAt.Equal(entries[j].session.CreatedAt) {
			return entries[i].seq > entries[j].seq
		}
		return entries[i].session.CreatedAt.After(entries[j].session.CreatedAt)
	})

	out := make([]domain.Session, len(entries))
	for i, e := range entries {
		out[i] = e.session
	}
	return out, nil
}

// AddMessage appends a message to the session's history. Unknown session
// ids are not rejected: the history list is created on demand.
func (s *Store) AddMessage(_ context.Context, sessionID string, role domain.Role, content string) (domain.Message, error) {
	msg := domain.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.messages[sessionID] = append(s.messages[sessionID], msg)
	s.mu.Unlock()

	return msg, nil
}

// Messages returns the session's history in insertion order, empty for
// unknown ids.
func (s *Store) Messages(_ context.Context, sessionID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[sessionID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
