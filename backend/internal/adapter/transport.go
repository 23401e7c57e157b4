package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// exchange carries per-call data between Complete and the transport:
// body fields the OpenAI request type has no slot for, and the raw body of a
// failed response so errors can surface it verbatim.
type exchange struct {
	extra     map[string]any
	errorBody string
}

type exchangeKey struct{}

func withExchange(ctx context.Context, ex *exchange) context.Context {
	return context.WithValue(ctx, exchangeKey{}, ex)
}

func exchangeFrom(ctx context.Context) *exchange {
	ex, _ := ctx.Value(exchangeKey{}).(*exchange)
	return ex
}

// extraBodyTransport merges exchange.extra into outgoing JSON bodies and keeps
// a copy of non-2xx response bodies.
type extraBodyTransport struct {
	base http.RoundTripper
}

func newExtraBodyTransport(base http.RoundTripper) *extraBodyTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &extraBodyTransport{base: base}
}

func (t *extraBodyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ex := exchangeFrom(req.Context())
	if ex == nil {
		return t.base.RoundTrip(req)
	}

	if len(ex.extra) > 0 && req.Body != nil {
		merged, err := mergeBody(req.Body, ex.extra)
		if err != nil {
			return nil, err
		}
		clone := req.Clone(req.Context())
		clone.Body = io.NopCloser(bytes.NewReader(merged))
		clone.ContentLength = int64(len(merged))
		clone.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(merged)), nil
		}
		req = clone
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("failed to read error response body: %w", readErr)
		}
		ex.errorBody = string(body)
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}

	return resp, nil
}

func mergeBody(body io.ReadCloser, extra map[string]any) ([]byte, error) {
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode request body: %w", err)
	}
	for k, v := range extra {
		payload[k] = v
	}

	merged, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return merged, nil
}
