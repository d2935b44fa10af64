package scan

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/amityadav/brandlens/internal/ai"
	"github.com/amityadav/brandlens/internal/mention"
	"github.com/amityadav/brandlens/internal/sources"
)

// TrackedProviders are the provider names whose positions feed the
// keyword-level rollup, independent of which other providers are configured.
var TrackedProviders = []string{"openai", "gemini", "perplexity"}

// Request is the immutable input to one scan run. ProviderSet optionally
// restricts the run to a subset of configured providers; KeywordID links the
// run to a tracked keyword for rollup updates and may be empty for ad-hoc
// scans.
type Request struct {
	RequesterID string
	KeywordID   string
	BrandName   string
	Topic       string
	ProviderSet []string
}

// Result is the unit persisted per provider per scan. A failed provider is
// recorded as an unmentioned, zero-confidence result.
type Result struct {
	Provider       string
	BrandMentioned bool
	Position       *int
	AnswerText     string
	ContextSnippet string
	Sources        []sources.SourceReference
	DurationMs     int64
	Confidence     float64
}

// Aggregate holds the cross-provider roll-up for one scan
type Aggregate struct {
	AvgPosition         *float64
	PerProviderPosition map[string]int
}

// Batch is the complete outcome of one scan run. It lives only for the
// duration of the orchestration call; its results are handed to the result
// sink for durable storage.
type Batch struct {
	Request   Request
	Results   []Result
	Aggregate Aggregate
}

// Orchestrator fans one scan request out to all configured providers
// concurrently and aggregates their results
type Orchestrator struct {
	registry *ai.Registry
	timeout  time.Duration
	titles   *sources.TitleFetcher
}

// NewOrchestrator creates a scan orchestrator. The titles fetcher is
// optional; pass nil to skip source-title enrichment.
func NewOrchestrator(registry *ai.Registry, timeout time.Duration, titles *sources.TitleFetcher) *Orchestrator {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Orchestrator{
		registry: registry,
		timeout:  timeout,
		titles:   titles,
	}
}

// RunScan dispatches one Ask per provider concurrently and waits for all of
// them. A provider failure never aborts the others; it contributes an
// unmentioned zero-confidence result. Total latency is bounded by the
// per-provider timeout, not the sum of round trips.
func (o *Orchestrator) RunScan(ctx context.Context, req Request) *Batch {
	providers := o.registry.Filter(req.ProviderSet)
	log.Printf("[Orchestrator.RunScan] Scanning brand %q, topic %q across %d providers", req.BrandName, req.Topic, len(providers))

	// one slot per provider; each goroutine writes only its own index
	results := make([]Result, len(providers))
	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p ai.Provider) {
			defer wg.Done()
			results[i] = o.scanProvider(ctx, p, req)
		}(i, p)
	}
	wg.Wait()

	batch := &Batch{Request: req, Results: results}
	batch.Aggregate = aggregate(results)

	if batch.Aggregate.AvgPosition != nil {
		log.Printf("[Orchestrator.RunScan] Done, avg position %.2f", *batch.Aggregate.AvgPosition)
	} else {
		log.Printf("[Orchestrator.RunScan] Done, no ranked mentions")
	}
	return batch
}

func (o *Orchestrator) scanProvider(ctx context.Context, p ai.Provider, req Request) Result {
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	ans, err := p.Ask(callCtx, req.Topic)
	durationMs := time.Since(start).Milliseconds()

	if err != nil || ans == nil || strings.TrimSpace(ans.Text) == "" {
		// recorded, not thrown: a failed provider looks like "not mentioned"
		// in the result shape, the distinction lives only in the logs
		log.Printf("[Orchestrator.%s] Provider failed for %q: %v", p.Name(), req.Topic, err)
		return Result{Provider: p.Name(), DurationMs: durationMs}
	}

	analysis := mention.Analyze(ans.Text, req.BrandName, req.Topic)
	refs := sources.Collect(ans)
	if o.titles != nil && len(refs) > 0 {
		refs = o.titles.Enrich(callCtx, refs)
	}

	return Result{
		Provider:       p.Name(),
		BrandMentioned: analysis.Mentioned,
		Position:       analysis.Position,
		AnswerText:     ans.Text,
		ContextSnippet: analysis.ContextSnippet,
		Sources:        refs,
		DurationMs:     durationMs,
		Confidence:     analysis.Confidence,
	}
}

// aggregate computes the cross-provider roll-up. AvgPosition averages the
// positions of mentioned-with-position results only; PerProviderPosition
// covers the tracked providers, keyed by name so completion order is
// irrelevant.
func aggregate(results []Result) Aggregate {
	agg := Aggregate{PerProviderPosition: make(map[string]int)}

	tracked := make(map[string]bool, len(TrackedProviders))
	for _, name := range TrackedProviders {
		tracked[name] = true
	}

	sum := 0
	count := 0
	for _, r := range results {
		if !r.BrandMentioned || r.Position == nil {
			continue
		}
		sum += *r.Position
		count++
		if tracked[r.Provider] {
			agg.PerProviderPosition[r.Provider] = *r.Position
		}
	}
	if count > 0 {
		avg := float64(sum) / float64(count)
		agg.AvgPosition = &avg
	}
	return agg
}
