package domain

import "time"

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Mode selects the prompt flavour of a chat turn.
type Mode int

const (
	ModeChat Mode = iota
	ModeTarot
)

// ParseMode normalizes a raw mode string from the wire. Anything that is
// not exactly "tarot" is plain chat.
func ParseMode(raw string) Mode {
	if raw == "tarot" {
		return ModeTarot
	}
	return ModeChat
}

// Card is a single deck entry. JSON keys match the deck data file.
type Card struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	LocalizedName string   `json:"cn"`
	Upright       []string `json:"upright"`
	Reversed      []string `json:"reversed"`
}

// DrawnCard is one filled slot of a completed draw. Meanings hold the
// card's upright or reversed list, matching the Upright flag.
type DrawnCard struct {
	Slot          string   `json:"slot"`
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	LocalizedName string   `json:"cn"`
	Upright       bool     `json:"upright"`
	Meanings      []string `json:"meanings"`
}

// Session is one conversation.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is a single entry in a session's history.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
