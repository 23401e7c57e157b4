package composer

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"visiostar-nodes/backend/internal/adapter"
	"visiostar-nodes/backend/internal/constants"
	apperrors "visiostar-nodes/backend/pkg/errors"
	"visiostar-nodes/backend/pkg/logger"
)

// Completer is the transport collaborator: one chat-completions call
type Completer interface {
	Complete(ctx context.Context, req adapter.CompletionRequest) (string, error)
}

// Recorder observes finished invocations
type Recorder interface {
	RecordCompose(provider, source string, missing []string, elapsed time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) RecordCompose(string, string, []string, time.Duration) {}

// Composer turns a topic and a title into a background prompt and a
// typography prompt through a remote language model.
type Composer struct {
	completer   Completer
	templates   *Templates
	diversifier Diversifier
	recorder    Recorder
	concurrency int
	logger      *zap.Logger
}

// Option configures a Composer
type Option func(*Composer)

// WithDiversifier replaces the default RandomDiversifier
func WithDiversifier(d Diversifier) Option {
	return func(c *Composer) { c.diversifier = d }
}

// WithTemplates replaces the embedded request wording
func WithTemplates(t *Templates) Option {
	return func(c *Composer) { c.templates = t }
}

// WithRecorder attaches a metrics recorder
func WithRecorder(r Recorder) Option {
	return func(c *Composer) { c.recorder = r }
}

// WithConcurrency bounds ComposeBatch fan-out
func WithConcurrency(n int) Option {
	return func(c *Composer) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewComposer creates a composer backed by the given completer
func NewComposer(completer Completer, opts ...Option) *Composer {
	c := &Composer{
		completer:   completer,
		templates:   defaultTemplates,
		recorder:    noopRecorder{},
		concurrency: 4,
		logger:      logger.Get(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.diversifier == nil {
		c.diversifier = NewRandomDiversifier(c.templates)
	}
	return c
}

// Compose runs one invocation. It never fails: transport errors, invalid
// input and unexpected panics all come back as a pair of identical
// "Error: ..." strings, and unrecoverable fields as diagnostic placeholders.
func (c *Composer) Compose(ctx context.Context, req Request) (result Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err := apperrors.NewUnexpected("compose", r)
			c.logger.Error("Composer panicked", zap.Error(err), zap.Stack("stack"))
			result = errorResult(err)
		}
		c.recorder.RecordCompose(req.Provider, string(result.Source), result.Missing, time.Since(start))
	}()

	if err := req.Validate(); err != nil {
		c.logger.Warn("Rejected compose request", zap.Error(err))
		return errorResult(err)
	}

	messages := c.templates.BuildMessages(req)

	var seed *int64
	if req.Diversify {
		s := newSeed()
		if req.Seed != nil {
			s = *req.Seed
		}
		seed = &s
		messages = c.diversifier.Diversify(messages, rand.New(rand.NewSource(s)))
	}

	content, err := c.completer.Complete(ctx, adapter.CompletionRequest{
		Provider: req.Provider,
		APIKey:   req.APIKey,
		Model:    req.Model,
		Messages: messages,
		Sampling: adapter.Sampling{
			Temperature:      req.Temperature,
			MaxTokens:        req.MaxTokens,
			TopP:             req.TopP,
			TopK:             req.TopK,
			FrequencyPenalty: req.FrequencyPenalty,
		},
		StrictJSON: req.StrictJSON,
	})
	if err != nil {
		return errorResult(err)
	}

	result = Normalize(content, req.FormatMode)
	result.Seed = seed
	return result
}

// ComposeBatch runs independent invocations with bounded concurrency.
// Results are in request order.
func (c *Composer) ComposeBatch(ctx context.Context, reqs []Request) []Result {
	results := make([]Result, len(reqs))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i := range reqs {
		g.Go(func() error {
			results[i] = c.Compose(ctx, reqs[i])
			return nil
		})
	}
	_ = g.Wait()

	c.logger.Debug("Batch composed", zap.Int("requests", len(reqs)))
	return results
}

func errorResult(err error) Result {
	msg := constants.ErrorMarker + err.Error()
	return Result{Background: msg, Typography: msg, Source: SourceError}
}
