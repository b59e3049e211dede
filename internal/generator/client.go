package generator

import (
	"context"
	"strings"
	"time"

	"exegesis/internal/logging"
	"exegesis/internal/study"
)

// Client is the retrying fetch client. Each attempt calls the model once
// and only counts as a success when the payload is non-empty and matches
// the output schema.
type Client struct {
	model   Model
	retrier *Retrier
}

// NewClient wraps model with the given retrier (DefaultRetryConfig when nil).
func NewClient(model Model, retrier *Retrier) *Client {
	if retrier == nil {
		retrier = NewRetrier(DefaultRetryConfig())
	}
	return &Client{model: model, retrier: retrier}
}

// Fetch implements study.Fetcher.
func (c *Client) Fetch(ctx context.Context, p study.Prompt) (*study.Document, error) {
	return Do(ctx, c.retrier, "generate study", func(ctx context.Context) (*study.Document, error) {
		return c.attempt(ctx, p)
	})
}

func (c *Client) attempt(ctx context.Context, p study.Prompt) (*study.Document, error) {
	start := time.Now()
	text, err := c.model.Generate(ctx, p)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResponse
	}
	logging.APIDebug("model returned %d bytes in %v", len(text), time.Since(start))

	doc, err := study.Decode(text)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

var _ study.Fetcher = (*Client)(nil)
