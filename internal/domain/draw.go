package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Spreads maps spread names to their ordered slot labels.
var Spreads = map[string][]string{
	"three": {"past", "present", "future"},
	"celtic": {
		"situation", "challenge", "subconscious", "conscious", "past",
		"future", "self", "environment", "hopes_fears", "outcome",
	},
}

// SeededRNG returns an RNG whose stream is fully determined by seed.
func SeededRNG(seed string) RNG {
	sum := sha256.Sum256([]byte(seed))
	src := rand.NewPCG(
		binary.LittleEndian.Uint64(sum[:8]),
		binary.LittleEndian.Uint64(sum[8:16]),
	)
	return pcgRNG{rand.New(src)}
}

type pcgRNG struct{ r *rand.Rand }

func (p pcgRNG) Intn(n int) int { return p.r.IntN(n) }

// Draw shuffles the full deck, takes one card per slot of the named spread
// and gives each a 50/50 orientation from the same RNG stream. The deck is
// reshuffled in full on every call, so consecutive draws are independent
// and no card repeats within one result.
func Draw(deck []Card, spread string, rng RNG) ([]DrawnCard, error) {
	slots, ok := Spreads[spread]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpread, spread)
	}
	if len(slots) > len(deck) {
		return nil, ErrDeckTooSmall
	}

	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	out := make([]DrawnCard, len(slots))
	for i, slot := range slots {
		card := shuffled[i]
		upright := rng.Intn(2) == 0
		meanings := card.Upright
		if !upright {
			meanings = card.Reversed
		}
		out[i] = DrawnCard{
			Slot:          slot,
			ID:            card.ID,
			Name:          card.Name,
			LocalizedName: card.LocalizedName,
			Upright:       upright,
			Meanings:      meanings,
		}
	}

	return out, nil
}
