package adapter

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"visiostar-nodes/backend/internal/constants"
	apperrors "visiostar-nodes/backend/pkg/errors"
	"visiostar-nodes/backend/pkg/logger"
)

// Message roles
const (
	RoleSystem = openai.ChatMessageRoleSystem
	RoleUser   = openai.ChatMessageRoleUser
)

// Message is one role-tagged chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Sampling holds the generation parameters forwarded to the provider
type Sampling struct {
	Temperature      float64 `json:"temperature"`
	MaxTokens        int     `json:"max_tokens"`
	TopP             float64 `json:"top_p"`
	TopK             int     `json:"top_k"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
}

// CompletionRequest is everything needed for one chat-completions call
type CompletionRequest struct {
	Provider   string
	APIKey     string // overrides the configured provider key when set
	Model      string
	Messages   []Message
	Sampling   Sampling
	StrictJSON bool
}

// ProviderConfig locates one provider's API
type ProviderConfig struct {
	BaseURL string
	APIKey  string
}

// Providers holds the two supported endpoints
type Providers struct {
	DeepSeek    ProviderConfig
	SiliconFlow ProviderConfig
}

func (p Providers) lookup(name string) (ProviderConfig, string, bool) {
	switch name {
	case constants.ProviderDeepSeek:
		return p.DeepSeek, "DeepSeek", true
	case constants.ProviderSiliconFlow:
		return p.SiliconFlow, "SiliconFlow", true
	}
	return ProviderConfig{}, "", false
}

// LLMAdapter sends chat-completions requests to DeepSeek or SiliconFlow.
// It performs exactly one request per call and never retries.
type LLMAdapter struct {
	providers  Providers
	httpClient *http.Client
	logger     *zap.Logger
}

// NewLLMAdapter creates a new LLM adapter
func NewLLMAdapter(providers Providers, timeout time.Duration) *LLMAdapter {
	return &LLMAdapter{
		providers: providers,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newExtraBodyTransport(http.DefaultTransport),
		},
		logger: logger.Get(),
	}
}

// Complete performs the request and returns the first choice's text, which
// is empty when the provider sent no choices.
func (a *LLMAdapter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	provider, displayName, ok := a.providers.lookup(req.Provider)
	if !ok {
		return "", apperrors.NewUnknownProvider(req.Provider)
	}

	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = provider.APIKey
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimRight(provider.BaseURL, "/")
	config.HTTPClient = a.httpClient
	client := openai.NewClientWithConfig(config)

	chatReq, extra := buildChatRequest(req)
	ex := &exchange{extra: extra}

	a.logger.Debug("Sending chat completion",
		zap.String("provider", req.Provider),
		zap.String("model", chatReq.Model),
		zap.Int("messages", len(chatReq.Messages)),
		zap.Bool("strict_json", req.StrictJSON),
	)

	start := time.Now()
	resp, err := client.CreateChatCompletion(withExchange(ctx, ex), chatReq)
	if err != nil {
		wrapped := a.classifyError(ctx, displayName, ex, err)
		a.logger.Error("Chat completion failed",
			zap.String("provider", req.Provider),
			zap.String("model", chatReq.Model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(wrapped),
		)
		return "", wrapped
	}

	if len(resp.Choices) == 0 {
		a.logger.Warn("Chat completion returned no choices", zap.String("provider", req.Provider))
		return "", nil
	}

	content := resp.Choices[0].Message.Content
	a.logger.Debug("Chat completion received",
		zap.String("provider", req.Provider),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("content_length", len(content)),
	)

	return content, nil
}

// buildChatRequest shapes the payload per provider. The second return holds
// body fields go-openai cannot express: top_k, and sampling values that its
// omitempty tags would drop when zero.
func buildChatRequest(req CompletionRequest) (openai.ChatCompletionRequest, map[string]any) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	chatReq := openai.ChatCompletionRequest{
		Model:     req.Model,
		Messages:  messages,
		Stream:    false,
		MaxTokens: req.Sampling.MaxTokens,
	}

	switch req.Provider {
	case constants.ProviderSiliconFlow:
		if chatReq.Model == constants.ModelDeepSeekReasoner {
			chatReq.Model = constants.ModelSiliconFlowReasoner
		}
		chatReq.N = 1
		format := openai.ChatCompletionResponseFormatTypeText
		if req.StrictJSON {
			format = openai.ChatCompletionResponseFormatTypeJSONObject
		}
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: format}
		return chatReq, map[string]any{
			"temperature":       req.Sampling.Temperature,
			"top_p":             req.Sampling.TopP,
			"top_k":             req.Sampling.TopK,
			"frequency_penalty": req.Sampling.FrequencyPenalty,
		}

	default:
		if req.StrictJSON {
			chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			}
		}
		// deepseek-reasoner ignores sampling parameters
		if chatReq.Model == constants.ModelDeepSeekReasoner {
			return chatReq, nil
		}
		return chatReq, map[string]any{
			"temperature": req.Sampling.Temperature,
			"top_p":       req.Sampling.TopP,
		}
	}
}

func (a *LLMAdapter) classifyError(ctx context.Context, provider string, ex *exchange, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.NewContextTimeout("chat completion", a.httpClient.Timeout, err)
	case errors.Is(err, context.Canceled):
		return apperrors.NewContextCancelled("chat completion", err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apperrors.NewProviderRequestFailed(provider, apiErr.HTTPStatusCode, errorBody(ex, apiErr.Message), err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return apperrors.NewProviderRequestFailed(provider, reqErr.HTTPStatusCode, errorBody(ex, ""), err)
	}

	return apperrors.NewProviderRequestFailed(provider, 0, "", err)
}

func errorBody(ex *exchange, fallback string) string {
	if ex != nil && ex.errorBody != "" {
		return ex.errorBody
	}
	return fallback
}
