package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/amityadav/brandlens/internal/scan"
	"github.com/amityadav/brandlens/internal/store"
)

// ScanCore handles the business logic around running scans and persisting
// their results
type ScanCore struct {
	orchestrator *scan.Orchestrator
	store        store.Store
	scanDelay    time.Duration
}

// NewScanCore creates a new ScanCore instance
func NewScanCore(orchestrator *scan.Orchestrator, st store.Store, scanDelay time.Duration) *ScanCore {
	return &ScanCore{
		orchestrator: orchestrator,
		store:        st,
		scanDelay:    scanDelay,
	}
}

// ScanAndPersist runs one scan and hands the batch to the result sink. The
// scan itself cannot fail (provider failures are folded into results); a
// persistence failure is surfaced to the caller, who owns retry policy.
func (c *ScanCore) ScanAndPersist(ctx context.Context, req scan.Request) (*scan.Batch, error) {
	batch := c.orchestrator.RunScan(ctx, req)
	if err := c.store.PersistResults(ctx, batch); err != nil {
		return batch, fmt.Errorf("scan succeeded but results could not be saved: %w", err)
	}
	return batch, nil
}

// ScanKeyword runs a scan for one tracked keyword
func (c *ScanCore) ScanKeyword(ctx context.Context, kw *store.TrackedKeyword) error {
	log.Printf("[ScanCore.ScanKeyword] Scanning keyword %s (brand %q)", kw.ID, kw.BrandName)

	req := scan.Request{
		RequesterID: kw.UserID,
		KeywordID:   kw.ID,
		BrandName:   kw.BrandName,
		Topic:       kw.Topic,
	}
	_, err := c.ScanAndPersist(ctx, req)
	return err
}

// ScanAllKeywords walks every scan-enabled keyword sequentially with a delay
// between keywords to avoid hammering the provider APIs. Per-keyword errors
// are isolated; the run continues.
func (c *ScanCore) ScanAllKeywords(ctx context.Context) error {
	log.Printf("[ScanCore] Starting scheduled keyword scans...")

	keywords, err := c.store.GetTrackedKeywords(ctx)
	if err != nil {
		return fmt.Errorf("failed to get tracked keywords: %w", err)
	}

	log.Printf("[ScanCore] Processing %d tracked keywords...", len(keywords))

	successCount := 0
	for i, kw := range keywords {
		if i > 0 && c.scanDelay > 0 {
			log.Printf("[ScanCore] Rate limiting: waiting %s before keyword %d/%d...", c.scanDelay, i+1, len(keywords))
			select {
			case <-time.After(c.scanDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.ScanKeyword(ctx, kw); err != nil {
			log.Printf("[ScanCore] Error for keyword %s: %v", kw.ID, err)
			// Continue with other keywords
		} else {
			successCount++
		}
	}

	log.Printf("[ScanCore] Scheduled scans completed. Success: %d/%d keywords", successCount, len(keywords))
	return nil
}
