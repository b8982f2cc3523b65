package ports

import "context"

// ChatMessage is one role-tagged entry of a composed prompt.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FragmentFunc receives one incremental piece of model output. Returning an
// error stops the stream.
type FragmentFunc func(text string) error

// Streamer produces a model reply as an ordered, finite sequence of text
// fragments. Implementations perform no retries and no partial suppression:
// they either complete the stream or return a single error.
type Streamer interface {
	StreamChat(ctx context.Context, messages []ChatMessage, emit FragmentFunc) error
}
