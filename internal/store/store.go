package store

import (
	"context"
	"time"

	"github.com/amityadav/brandlens/internal/scan"
)

// TrackedKeyword is a brand/topic pair the scheduler scans periodically
type TrackedKeyword struct {
	ID          string
	UserID      string
	BrandName   string
	Topic       string
	ScanEnabled bool
}

// KeywordRollup is the longer-lived visibility summary for one keyword,
// refreshed after every scan batch
type KeywordRollup struct {
	KeywordID          string
	AvgPosition        *float64
	OpenAIPosition     *int
	GeminiPosition     *int
	PerplexityPosition *int
	LastScannedAt      time.Time
}

// Store is the narrow persistence surface the scan engine depends on. The
// surrounding application owns the schema; the engine only appends results
// and refreshes rollups.
type Store interface {
	PersistResults(ctx context.Context, batch *scan.Batch) error
	GetTrackedKeywords(ctx context.Context) ([]*TrackedKeyword, error)
	GetKeywordRollup(ctx context.Context, keywordID string) (*KeywordRollup, error)
	Close()
}
