package promptlist

import (
	"strings"

	"go.uber.org/zap"

	"visiostar-nodes/backend/internal/constants"
	"visiostar-nodes/backend/pkg/logger"
)

// List is the outcome of collecting a set of prompt slots
type List struct {
	Prompts    []string `json:"prompt_list" yaml:"prompt_list"`
	TotalCount int      `json:"total_count" yaml:"total_count"`
}

// Collect keeps the non-blank prompts among the first count slots.
// count is clamped to [1, MaxPromptSlots].
func Collect(count int, prompts []string) []string {
	count = clamp(count, 1, constants.MaxPromptSlots)
	if count > len(prompts) {
		count = len(prompts)
	}

	out := make([]string, 0, count)
	for _, p := range prompts[:count] {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Process collects the prompts and reports how many were kept. An empty
// result is the single placeholder entry with a total of zero.
func Process(count int, prompts []string) List {
	collected := Collect(count, prompts)
	if len(collected) == 0 {
		return List{Prompts: []string{constants.NoValidPrompts}, TotalCount: 0}
	}

	logger.Get().Debug("Prompt list processed", zap.Int("total", len(collected)))
	return List{Prompts: collected, TotalCount: len(collected)}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
