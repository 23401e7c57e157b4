package composer

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"visiostar-nodes/backend/internal/adapter"
)

// Diversifier adds cosmetic variation to a request's messages. It must not
// change what the model is asked to return, so extraction never needs to
// know about it.
type Diversifier interface {
	Diversify(messages []adapter.Message, rng *rand.Rand) []adapter.Message
}

// NoopDiversifier returns messages unchanged
type NoopDiversifier struct{}

func (NoopDiversifier) Diversify(messages []adapter.Message, _ *rand.Rand) []adapter.Message {
	return messages
}

// RandomDiversifier appends a style keyword, an approach keyword and a
// session id, then shuffles the user-side messages. A leading system message
// stays first. All randomness comes from rng, so a fixed seed reproduces the
// same messages.
type RandomDiversifier struct {
	Styles     []string
	Approaches []string
}

// NewRandomDiversifier uses the keyword lists from the templates
func NewRandomDiversifier(t *Templates) *RandomDiversifier {
	return &RandomDiversifier{
		Styles:     t.Diversification.Styles,
		Approaches: t.Diversification.Approaches,
	}
}

func (d *RandomDiversifier) Diversify(messages []adapter.Message, rng *rand.Rand) []adapter.Message {
	session, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		session = uuid.Nil
	}

	hint := fmt.Sprintf("Style hint: %s\nApproach: %s\nSession: %s",
		pick(rng, d.Styles, "natural"),
		pick(rng, d.Approaches, "free"),
		session,
	)

	out := make([]adapter.Message, 0, len(messages)+1)
	out = append(out, messages...)
	out = append(out, adapter.Message{Role: adapter.RoleUser, Content: hint})

	head := 0
	if len(out) > 0 && out[0].Role == adapter.RoleSystem {
		head = 1
	}
	tail := out[head:]
	rng.Shuffle(len(tail), func(i, j int) { tail[i], tail[j] = tail[j], tail[i] })

	return out
}

func pick(rng *rand.Rand, options []string, fallback string) string {
	if len(options) == 0 {
		return fallback
	}
	return options[rng.Intn(len(options))]
}

// newSeed returns an uncorrelated seed for calls that did not supply one
func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
