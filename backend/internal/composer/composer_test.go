package composer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visiostar-nodes/backend/internal/adapter"
	"visiostar-nodes/backend/internal/constants"
	apperrors "visiostar-nodes/backend/pkg/errors"
)

type fakeCompleter struct {
	mu       sync.Mutex
	calls    []adapter.CompletionRequest
	complete func(req adapter.CompletionRequest) (string, error)
}

func (f *fakeCompleter) Complete(_ context.Context, req adapter.CompletionRequest) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	return f.complete(req)
}

func replying(content string) *fakeCompleter {
	return &fakeCompleter{complete: func(adapter.CompletionRequest) (string, error) { return content, nil }}
}

type recordedCompose struct {
	provider string
	source   string
	missing  []string
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []recordedCompose
}

func (r *fakeRecorder) RecordCompose(provider, source string, missing []string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, recordedCompose{provider: provider, source: source, missing: missing})
}

func TestCompose_Success(t *testing.T) {
	fc := replying(`{"bg": "sea", "typo": "bold title"}`)
	c := NewComposer(fc)

	req := DefaultRequest()
	req.APIKey = "sk-caller"
	got := c.Compose(context.Background(), req)

	assert.Equal(t, "sea", got.Background)
	assert.Equal(t, "bold title", got.Typography)
	assert.Equal(t, SourceStructured, got.Source)
	assert.Nil(t, got.Seed)

	require.Len(t, fc.calls, 1)
	call := fc.calls[0]
	assert.Equal(t, constants.ProviderDeepSeek, call.Provider)
	assert.Equal(t, "sk-caller", call.APIKey)
	assert.Equal(t, "deepseek-chat", call.Model)
	assert.True(t, call.StrictJSON)
	assert.Equal(t, adapter.Sampling{Temperature: 0.7, MaxTokens: 512, TopP: 0.7, TopK: 50}, call.Sampling)
	assert.Equal(t, BuildMessages(req), call.Messages)
}

func TestCompose_TransportErrorIsAnErrorPair(t *testing.T) {
	fc := &fakeCompleter{complete: func(adapter.CompletionRequest) (string, error) {
		return "", apperrors.NewProviderRequestFailed("DeepSeek", 401, `{"error":"bad key"}`, nil)
	}}
	c := NewComposer(fc)

	got := c.Compose(context.Background(), DefaultRequest())

	assert.Equal(t, SourceError, got.Source)
	assert.Equal(t, got.Background, got.Typography)
	assert.True(t, strings.HasPrefix(got.Background, constants.ErrorMarker))
	assert.Contains(t, got.Background, `DeepSeek API Error: 401 - {"error":"bad key"}`)
	assert.NotContains(t, got.Background, constants.ParseErrorMarker)
}

func TestCompose_ProviderErrorPairShowsBodyOnce(t *testing.T) {
	cause := errors.New("error, status code: 500, message: upstream exploded")
	fc := &fakeCompleter{complete: func(adapter.CompletionRequest) (string, error) {
		return "", apperrors.NewProviderRequestFailed("DeepSeek", 500, "upstream exploded", cause)
	}}
	c := NewComposer(fc)

	got := c.Compose(context.Background(), DefaultRequest())

	assert.Equal(t, "Error: DeepSeek API Error: 500 - upstream exploded", got.Background)
	assert.Equal(t, got.Background, got.Typography)
	assert.Equal(t, 1, strings.Count(got.Background, "upstream exploded"))
}

func TestCompose_InvalidRequestSkipsTransport(t *testing.T) {
	fc := replying("unused")
	c := NewComposer(fc)

	req := DefaultRequest()
	req.Provider = "openai"
	got := c.Compose(context.Background(), req)

	assert.Empty(t, fc.calls)
	assert.Equal(t, SourceError, got.Source)
	assert.Contains(t, got.Background, `invalid api provider: "openai"`)
	assert.Equal(t, got.Background, got.Typography)
}

func TestCompose_RecoversPanics(t *testing.T) {
	fc := &fakeCompleter{complete: func(adapter.CompletionRequest) (string, error) { panic("boom") }}
	c := NewComposer(fc)

	got := c.Compose(context.Background(), DefaultRequest())

	assert.Equal(t, SourceError, got.Source)
	assert.True(t, strings.HasPrefix(got.Background, constants.ErrorMarker))
	assert.Contains(t, got.Background, "boom")
	assert.Equal(t, got.Background, got.Typography)
}

func TestCompose_EmptyAnswerGivesDiagnostics(t *testing.T) {
	c := NewComposer(replying(""))

	got := c.Compose(context.Background(), DefaultRequest())

	assert.Equal(t, "ParseError: missing background | RAW: ", got.Background)
	assert.Equal(t, "ParseError: missing typography | RAW: ", got.Typography)
}

func TestCompose_LabelsOnlyMode(t *testing.T) {
	c := NewComposer(replying("背景提示语: warm sunset\n文字排版提示语: serif caps"))

	req := DefaultRequest()
	req.FormatMode = constants.FormatModeLabelsOnly
	got := c.Compose(context.Background(), req)

	assert.Equal(t, SourceLabels, got.Source)
	assert.Equal(t, "warm sunset", got.Background)
	assert.Equal(t, "serif caps", got.Typography)
}

func TestCompose_DiversifyEchoesSeed(t *testing.T) {
	fc := replying(`{"bg": "sea", "typo": "bold"}`)
	c := NewComposer(fc)

	req := DefaultRequest()
	req.Diversify = true
	seed := int64(1234)
	req.Seed = &seed

	first := c.Compose(context.Background(), req)
	second := c.Compose(context.Background(), req)

	require.NotNil(t, first.Seed)
	assert.Equal(t, seed, *first.Seed)
	require.Len(t, fc.calls, 2)
	assert.Equal(t, fc.calls[0].Messages, fc.calls[1].Messages)
	assert.Len(t, fc.calls[0].Messages, 3)
	assert.Equal(t, first.Background, second.Background)
}

func TestCompose_DiversifyWithoutSeedPicksOne(t *testing.T) {
	c := NewComposer(replying(`{"bg": "sea", "typo": "bold"}`))

	req := DefaultRequest()
	req.Diversify = true
	got := c.Compose(context.Background(), req)

	assert.NotNil(t, got.Seed)
}

func TestCompose_DiversificationDoesNotChangeExtraction(t *testing.T) {
	answer := "1) ocean at dawn\n2) bold serif"

	plain := NewComposer(replying(answer), WithDiversifier(NoopDiversifier{}))
	varied := NewComposer(replying(answer))

	req := DefaultRequest()
	req.Diversify = true
	a := plain.Compose(context.Background(), req)
	b := varied.Compose(context.Background(), req)

	assert.Equal(t, a.Background, b.Background)
	assert.Equal(t, a.Typography, b.Typography)
}

func TestCompose_UnknownLanguageUsesEnglishHints(t *testing.T) {
	fc := replying(`{"bg": "sea", "typo": "bold"}`)
	c := NewComposer(fc)

	req := DefaultRequest()
	req.Language = "fr"
	got := c.Compose(context.Background(), req)

	assert.Equal(t, SourceStructured, got.Source)
	require.Len(t, fc.calls, 1)
	english := DefaultRequest()
	assert.Equal(t, BuildMessages(english), fc.calls[0].Messages)
}

func TestCompose_Records(t *testing.T) {
	rec := &fakeRecorder{}
	c := NewComposer(replying("only one line"), WithRecorder(rec))

	c.Compose(context.Background(), DefaultRequest())

	require.Len(t, rec.records, 1)
	assert.Equal(t, recordedCompose{
		provider: constants.ProviderDeepSeek,
		source:   string(SourceLabels),
		missing:  []string{FieldTypography},
	}, rec.records[0])
}

func TestComposeBatch_KeepsOrder(t *testing.T) {
	fc := &fakeCompleter{complete: func(req adapter.CompletionRequest) (string, error) {
		if strings.Contains(req.Messages[1].Content, "TITLE: FAIL") {
			return "", errors.New("connection reset")
		}
		return "bg: for " + req.Model + "\ntypo: t", nil
	}}
	c := NewComposer(fc, WithConcurrency(2))

	reqs := make([]Request, 6)
	for i := range reqs {
		reqs[i] = DefaultRequest()
		reqs[i].Model = string(rune('a' + i))
	}
	reqs[3].Title = "FAIL"

	results := c.ComposeBatch(context.Background(), reqs)

	require.Len(t, results, len(reqs))
	for i, r := range results {
		if i == 3 {
			assert.Equal(t, SourceError, r.Source)
			continue
		}
		assert.Equal(t, "for "+string(rune('a'+i)), r.Background)
	}
	assert.Len(t, fc.calls, len(reqs))
}

func TestComposeBatch_Empty(t *testing.T) {
	c := NewComposer(replying(""))

	assert.Empty(t, c.ComposeBatch(context.Background(), nil))
}
