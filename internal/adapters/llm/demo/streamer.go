// Package demo provides the local fallback stream used when no upstream
// model endpoint is configured. It is a development placeholder, not an
// imitation of real model output.
package demo

import (
	"context"
	"time"

	"github.com/randomtoy/tarotchat/internal/ports"
)

var fragments = []string{
	"(demo stream) Frontend and backend are talking to each other!\n",
	"To stream from a real model, set OPENAI_BASE_URL / OPENAI_API_KEY / OPENAI_MODEL and restart the backend.\n",
}

// Streamer emits a fixed fragment sequence with an artificial delay before
// each fragment, emulating a live stream during local development.
type Streamer struct {
	delay time.Duration
}

func NewStreamer() *Streamer {
	return &Streamer{delay: 250 * time.Millisecond}
}

// NewStreamerWithDelay lets tests avoid real sleeps.
func NewStreamerWithDelay(d time.Duration) *Streamer {
	return &Streamer{delay: d}
}

func (s *Streamer) StreamChat(ctx context.Context, _ []ports.ChatMessage, emit ports.FragmentFunc) error {
	for _, f := range fragments {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.delay):
		}
		if err := emit(f); err != nil {
			return err
		}
	}
	return nil
}

// Fragments returns a copy of the canned sequence.
func Fragments() []string {
	out := make([]string, len(fragments))
	copy(out, fragments)
	return out
}
