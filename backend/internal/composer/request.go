package composer

import (
	"fmt"
	"strings"

	"visiostar-nodes/backend/internal/constants"
	apperrors "visiostar-nodes/backend/pkg/errors"
)

// Request carries every input of one composer invocation
type Request struct {
	Instruction string `json:"instruction"`
	Topic       string `json:"prompt_topic"`
	Title       string `json:"title_text"`

	APIKey   string `json:"api_key"`
	Provider string `json:"api_choice"`
	Model    string `json:"model"`

	Temperature      float64 `json:"temperature"`
	MaxTokens        int     `json:"max_tokens"`
	TopP             float64 `json:"top_p"`
	TopK             int     `json:"top_k"`
	FrequencyPenalty float64 `json:"frequency_penalty"`

	UseSystemRole bool   `json:"use_system_role"`
	FormatMode    string `json:"format_mode"`
	StrictJSON    bool   `json:"strict_json"`
	Language      string `json:"language"`

	// Diversify appends cosmetic hints so repeated calls with identical
	// inputs produce varied answers. Seed makes the hints reproducible.
	Diversify bool   `json:"diversify"`
	Seed      *int64 `json:"seed,omitempty"`
}

// DefaultRequest returns a request populated with the node's default values.
// Decode caller JSON on top of it so omitted fields keep their defaults.
func DefaultRequest() Request {
	return Request{
		Topic:            "夏日海边氛围，夕阳、胶片颗粒感",
		Title:            "SUMMER TIDES",
		Provider:         constants.ProviderDeepSeek,
		Model:            "deepseek-chat",
		Temperature:      0.7,
		MaxTokens:        512,
		TopP:             0.7,
		TopK:             50,
		FrequencyPenalty: 0.0,
		UseSystemRole:    true,
		FormatMode:       constants.FormatModeAutoJSONFirst,
		StrictJSON:       true,
		Language:         constants.LanguageCodeEnglish,
	}
}

// Validate checks the provider, the format mode and sampling ranges
func (r Request) Validate() error {
	switch r.Provider {
	case constants.ProviderDeepSeek, constants.ProviderSiliconFlow:
	default:
		return apperrors.NewUnknownProvider(r.Provider)
	}
	if strings.TrimSpace(r.Model) == "" {
		return apperrors.NewInvalidRequest("model", "must not be empty")
	}
	if err := checkRange("temperature", r.Temperature, 0, 2); err != nil {
		return err
	}
	if r.MaxTokens < 1 || r.MaxTokens > 4096 {
		return apperrors.NewInvalidRequest("max_tokens", fmt.Sprintf("%d not in [1, 4096]", r.MaxTokens))
	}
	if err := checkRange("top_p", r.TopP, 0, 1); err != nil {
		return err
	}
	if r.TopK < 1 || r.TopK > 100 {
		return apperrors.NewInvalidRequest("top_k", fmt.Sprintf("%d not in [1, 100]", r.TopK))
	}
	if err := checkRange("frequency_penalty", r.FrequencyPenalty, 0, 2); err != nil {
		return err
	}
	switch r.FormatMode {
	case constants.FormatModeAutoJSONFirst, constants.FormatModeLabelsOnly:
	default:
		return apperrors.NewInvalidRequest("format_mode", fmt.Sprintf("unknown mode %q", r.FormatMode))
	}
	// Language is not checked: anything other than a known code uses the
	// English hints.
	return nil
}

func checkRange(field string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return apperrors.NewInvalidRequest(field, fmt.Sprintf("%g not in [%g, %g]", v, lo, hi))
	}
	return nil
}
