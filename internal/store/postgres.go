package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/amityadav/brandlens/internal/scan"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

// PersistResults writes one row per provider result and refreshes the
// keyword rollup when the batch belongs to a tracked keyword
func (s *PostgresStore) PersistResults(ctx context.Context, batch *scan.Batch) error {
	log.Printf("[Store.PersistResults] Persisting %d results for brand %q", len(batch.Results), batch.Request.BrandName)

	query := `
        INSERT INTO ai_scan_results
            (requester_id, keyword_id, brand_name, topic, provider, brand_mentioned,
             position, answer_text, context_snippet, sources, duration_ms, confidence)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
    `
	for _, r := range batch.Results {
		sourcesJSON, err := json.Marshal(r.Sources)
		if err != nil {
			return fmt.Errorf("failed to marshal sources for %s: %w", r.Provider, err)
		}
		_, err = s.db.Exec(ctx, query,
			batch.Request.RequesterID,
			nullIfEmpty(batch.Request.KeywordID),
			batch.Request.BrandName,
			batch.Request.Topic,
			r.Provider,
			r.BrandMentioned,
			r.Position,
			r.AnswerText,
			r.ContextSnippet,
			sourcesJSON,
			r.DurationMs,
			r.Confidence,
		)
		if err != nil {
			log.Printf("[Store.PersistResults] Insert failed for %s: %v", r.Provider, err)
			return fmt.Errorf("failed to insert scan result for %s: %w", r.Provider, err)
		}
	}

	if batch.Request.KeywordID == "" {
		return nil
	}
	return s.upsertRollup(ctx, batch)
}

func (s *PostgresStore) upsertRollup(ctx context.Context, batch *scan.Batch) error {
	agg := batch.Aggregate
	pos := func(name string) *int {
		if p, ok := agg.PerProviderPosition[name]; ok {
			return &p
		}
		return nil
	}

	query := `
        INSERT INTO keyword_rollups
            (keyword_id, avg_position, openai_position, gemini_position, perplexity_position, last_scanned_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        ON CONFLICT (keyword_id) DO UPDATE
        SET avg_position = EXCLUDED.avg_position,
            openai_position = EXCLUDED.openai_position,
            gemini_position = EXCLUDED.gemini_position,
            perplexity_position = EXCLUDED.perplexity_position,
            last_scanned_at = NOW();
    `
	_, err := s.db.Exec(ctx, query,
		batch.Request.KeywordID,
		agg.AvgPosition,
		pos("openai"),
		pos("gemini"),
		pos("perplexity"),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert keyword rollup: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetTrackedKeywords(ctx context.Context) ([]*TrackedKeyword, error) {
	query := `
        SELECT id, user_id, brand_name, topic
        FROM tracked_keywords
        WHERE scan_enabled = TRUE
        ORDER BY created_at;
    `
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracked keywords: %w", err)
	}
	defer rows.Close()

	var keywords []*TrackedKeyword
	for rows.Next() {
		kw := &TrackedKeyword{ScanEnabled: true}
		if err := rows.Scan(&kw.ID, &kw.UserID, &kw.BrandName, &kw.Topic); err != nil {
			return nil, fmt.Errorf("failed to scan tracked keyword: %w", err)
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

func (s *PostgresStore) GetKeywordRollup(ctx context.Context, keywordID string) (*KeywordRollup, error) {
	query := `
        SELECT keyword_id, avg_position, openai_position, gemini_position, perplexity_position, last_scanned_at
        FROM keyword_rollups
        WHERE keyword_id = $1;
    `
	row := s.db.QueryRow(ctx, query, keywordID)
	var rollup KeywordRollup
	err := row.Scan(
		&rollup.KeywordID,
		&rollup.AvgPosition,
		&rollup.OpenAIPosition,
		&rollup.GeminiPosition,
		&rollup.PerplexityPosition,
		&rollup.LastScannedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get keyword rollup: %w", err)
	}
	return &rollup, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
