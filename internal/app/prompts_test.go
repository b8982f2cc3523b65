package app

import (
	"strings"
	"testing"

	"github.com/randomtoy/tarotchat/internal/domain"
)

func TestComposeMessages_Chat(t *testing.T) {
	msgs := composeMessages(domain.ModeChat, "hello there", TarotContext{})

	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "system" {
		t.Errorf("expected system role first, got %s", msgs[0].Role)
	}
	if msgs[1].Role != "user" || msgs[1].Content != "hello there" {
		t.Errorf("unexpected user message: %+v", msgs[1])
	}
}

func TestComposeMessages_Tarot(t *testing.T) {
	tc := TarotContext{
		Topic:  "career",
		Spread: "three",
		Cards: []domain.DrawnCard{
			{Slot: "past", ID: "0", Name: "The Fool", Upright: true, Meanings: []string{"beginnings"}},
		},
	}
	msgs := composeMessages(domain.ModeTarot, "", tc)

	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	roles := []string{"system", "user", "system"}
	for i, r := range roles {
		if msgs[i].Role != r {
			t.Errorf("message %d: expected role %s, got %s", i, r, msgs[i].Role)
		}
	}
	if !strings.Contains(msgs[1].Content, "career") {
		t.Errorf("topic missing from user message: %q", msgs[1].Content)
	}
	for _, want := range []string{`"spread":"three"`, `"topic":"career"`, "The Fool"} {
		if !strings.Contains(msgs[2].Content, want) {
			t.Errorf("grounding message missing %q: %q", want, msgs[2].Content)
		}
	}
}

func TestComposeMessages_UnknownModeFallsBackToChat(t *testing.T) {
	msgs := composeMessages(domain.ParseMode("something-else"), "hi", TarotContext{})

	if len(msgs) != 2 {
		t.Fatalf("expected chat-shaped prompt, got %d messages", len(msgs))
	}
	if msgs[1].Content != "hi" {
		t.Errorf("unexpected user content: %q", msgs[1].Content)
	}
}
