package server

import (
	"time"

	"github.com/amityadav/brandlens/internal/scan"
	"github.com/amityadav/brandlens/internal/sources"
	"github.com/amityadav/brandlens/internal/store"
)

type scanResultJSON struct {
	Provider       string                    `json:"provider"`
	BrandMentioned bool                      `json:"brand_mentioned"`
	Position       *int                      `json:"position"`
	ContextSnippet string                    `json:"context_snippet,omitempty"`
	Sources        []sources.SourceReference `json:"sources,omitempty"`
	DurationMs     int64                     `json:"duration_ms"`
	Confidence     float64                   `json:"confidence"`
}

type scanBatchJSON struct {
	BrandName           string           `json:"brand_name"`
	Topic               string           `json:"topic"`
	Results             []scanResultJSON `json:"results"`
	AvgPosition         *float64         `json:"avg_position"`
	PerProviderPosition map[string]int   `json:"per_provider_position"`
}

// scanResponse maps a scan batch to its wire shape. Full answer texts are
// persisted but not returned; callers read them from storage if needed.
func scanResponse(batch *scan.Batch) scanBatchJSON {
	out := scanBatchJSON{
		BrandName:           batch.Request.BrandName,
		Topic:               batch.Request.Topic,
		Results:             make([]scanResultJSON, 0, len(batch.Results)),
		AvgPosition:         batch.Aggregate.AvgPosition,
		PerProviderPosition: batch.Aggregate.PerProviderPosition,
	}
	for _, r := range batch.Results {
		out.Results = append(out.Results, scanResultJSON{
			Provider:       r.Provider,
			BrandMentioned: r.BrandMentioned,
			Position:       r.Position,
			ContextSnippet: r.ContextSnippet,
			Sources:        r.Sources,
			DurationMs:     r.DurationMs,
			Confidence:     r.Confidence,
		})
	}
	return out
}

type rollupJSON struct {
	KeywordID          string    `json:"keyword_id"`
	AvgPosition        *float64  `json:"avg_position"`
	OpenAIPosition     *int      `json:"openai_position"`
	GeminiPosition     *int      `json:"gemini_position"`
	PerplexityPosition *int      `json:"perplexity_position"`
	LastScannedAt      time.Time `json:"last_scanned_at"`
}

func rollupResponse(r *store.KeywordRollup) rollupJSON {
	return rollupJSON{
		KeywordID:          r.KeywordID,
		AvgPosition:        r.AvgPosition,
		OpenAIPosition:     r.OpenAIPosition,
		GeminiPosition:     r.GeminiPosition,
		PerplexityPosition: r.PerplexityPosition,
		LastScannedAt:      r.LastScannedAt,
	}
}
