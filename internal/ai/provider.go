package ai

import (
	"context"
	"time"
)

// SourceHint is a structured citation returned inline by a provider API.
type SourceHint struct {
	URL   string
	Title string
}

// Answer is the raw output of one provider for a single topic question.
// It is transient: consumed by the mention analyzer and source extractor,
// never persisted as-is.
type Answer struct {
	Text        string
	SourceHints []SourceHint
	// SourcesText holds the free-form enumeration returned by the one bounded
	// follow-up request, for providers that do not cite sources inline.
	SourcesText string
}

// Provider wraps one external answer-generating service behind a uniform
// capability. Implementations own their retry/backoff and response parsing.
type Provider interface {
	Name() string
	Ask(ctx context.Context, topic string) (*Answer, error)
}

// ProviderConfig holds configuration for an OpenAI-compatible provider
type ProviderConfig struct {
	Name    string
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}
