package app

import (
	"encoding/json"
	"fmt"

	"github.com/randomtoy/tarotchat/internal/domain"
	"github.com/randomtoy/tarotchat/internal/ports"
)

const chatSystemPrompt = "You are a helpful assistant. Reply in the user's language."

const tarotSystemPrompt = `You are a professional tarot reader. Stay warm and respectful of free will, and ground every statement in the spread and card meanings provided.

Rules:
- Never state absolute conclusions or predict specific outcomes.
- Never give medical, legal or financial advice; add a disclaimer where needed.

Output format:
## Overview
(1-3 sentences)
## Position by position
- slot: card name (upright/reversed) -> 2-3 sentences
## Advice
(1-3 practical, actionable points)`

// TarotContext carries what a tarot turn needs to ground the reading.
type TarotContext struct {
	Topic  string
	Spread string
	Cards  []domain.DrawnCard
}

// composeMessages builds the exact payload sent to the stream relay for one
// turn. Tarot turns get a second system message carrying the drawn cards as
// JSON so the model answers from the actual draw.
func composeMessages(mode domain.Mode, userMessage string, tc TarotContext) []ports.ChatMessage {
	if mode == domain.ModeTarot {
		grounding, _ := json.Marshal(map[string]any{
			"topic":  tc.Topic,
			"spread": tc.Spread,
			"cards":  tc.Cards,
		})
		return []ports.ChatMessage{
			{Role: "system", Content: tarotSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Topic: %s. Interpret the cards drawn below.", tc.Topic)},
			{Role: "system", Content: "[drawn cards JSON]\n" + string(grounding)},
		}
	}

	return []ports.ChatMessage{
		{Role: "system", Content: chatSystemPrompt},
		{Role: "user", Content: userMessage},
	}
}
