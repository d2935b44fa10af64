package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	g "github.com/serpapi/google-search-results-golang"
)

// AIOverviewProvider reads the Google AI Overview block for a topic query
// via SerpApi. Not one of the three tracked providers, but the same scan
// pipeline applies to its answer text.
type AIOverviewProvider struct {
	apiKey string
}

// NewAIOverviewProvider creates a new SerpApi-backed AI Overview provider
func NewAIOverviewProvider(apiKey string) *AIOverviewProvider {
	return &AIOverviewProvider{apiKey: apiKey}
}

func (p *AIOverviewProvider) Name() string {
	return "google-aio"
}

type serpResult struct {
	data map[string]interface{}
	err  error
}

func (p *AIOverviewProvider) Ask(ctx context.Context, topic string) (*Answer, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("SerpApi API key is not set")
	}

	parameter := map[string]string{
		"engine":        "google",
		"q":             topic,
		"google_domain": "google.com",
		"gl":            "us",
		"hl":            "en",
	}

	log.Printf("[GoogleAIO.Ask] Searching for: %q", topic)
	search := g.NewGoogleSearch(parameter, p.apiKey)

	// the serpapi client is not context-aware, so run it in a goroutine and
	// honor the per-call deadline ourselves
	ch := make(chan serpResult, 1)
	go func() {
		data, err := search.GetJSON()
		ch <- serpResult{data: data, err: err}
	}()

	var results map[string]interface{}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("serpapi search failed: %w", r.err)
		}
		results = r.data
	}

	overview, ok := results["ai_overview"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("no ai_overview block in response")
	}

	ans := &Answer{Text: overviewText(overview)}
	if strings.TrimSpace(ans.Text) == "" {
		return nil, fmt.Errorf("empty ai_overview text")
	}

	if refs, ok := overview["references"].([]interface{}); ok {
		for _, item := range refs {
			ref, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			link, _ := ref["link"].(string)
			title, _ := ref["title"].(string)
			if link == "" {
				continue
			}
			ans.SourceHints = append(ans.SourceHints, SourceHint{URL: link, Title: title})
		}
	}

	log.Printf("[GoogleAIO.Ask] Success, response length: %d, references: %d", len(ans.Text), len(ans.SourceHints))
	return ans, nil
}

// overviewText flattens the loosely-typed text_blocks node into plain text,
// numbering list entries so rank extraction can see them
func overviewText(overview map[string]interface{}) string {
	blocks, ok := overview["text_blocks"].([]interface{})
	if !ok {
		return ""
	}

	var sb strings.Builder
	for _, b := range blocks {
		block, ok := b.(map[string]interface{})
		if !ok {
			continue
		}
		if snippet, _ := block["snippet"].(string); snippet != "" {
			sb.WriteString(snippet)
			sb.WriteString("\n")
		}
		list, ok := block["list"].([]interface{})
		if !ok {
			continue
		}
		for i, item := range list {
			entry, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			title, _ := entry["title"].(string)
			snippet, _ := entry["snippet"].(string)
			fmt.Fprintf(&sb, "%d. %s %s\n", i+1, title, snippet)
		}
	}
	return strings.TrimSpace(sb.String())
}
