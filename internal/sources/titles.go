package sources

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// TitleFetcher optionally replaces fallback titles ("Content from <domain>")
// with the page's real <title>. Failures leave the fallback in place.
type TitleFetcher struct {
	client *http.Client
}

// NewTitleFetcher creates a title fetcher with a bounded per-page timeout
func NewTitleFetcher() *TitleFetcher {
	return &TitleFetcher{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enrich fetches page titles for references that only carry the fallback
// title. Best-effort: errors are logged and skipped.
func (f *TitleFetcher) Enrich(ctx context.Context, refs []SourceReference) []SourceReference {
	for i := range refs {
		if !strings.HasPrefix(refs[i].Title, "Content from ") {
			continue
		}
		title, err := f.fetchTitle(ctx, refs[i].URL)
		if err != nil {
			log.Printf("[TitleFetcher] %s: %v", refs[i].URL, err)
			continue
		}
		if title != "" {
			refs[i].Title = title
		}
	}
	return refs
}

func (f *TitleFetcher) fetchTitle(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status code error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if len(title) < 3 {
		return "", nil
	}
	if len(title) > 150 {
		title = title[:150]
	}
	return title, nil
}
