package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const tavilyAPIURL = "https://api.tavily.com/search"

// TavilyProvider answers via the Tavily Search API with include_answer set,
// which returns a synthesized answer alongside the cited results
type TavilyProvider struct {
	apiKey string
	client *http.Client
}

func NewTavilyProvider(apiKey string) *TavilyProvider {
	return &TavilyProvider{
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *TavilyProvider) Name() string {
	return "tavily"
}

type tavilySearchRequest struct {
	Query         string `json:"query"`
	APIKey        string `json:"api_key"`
	IncludeAnswer bool   `json:"include_answer,omitempty"`
	MaxResults    int    `json:"max_results,omitempty"`
}

type tavilySearchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type tavilySearchResponse struct {
	Answer  string               `json:"answer,omitempty"`
	Results []tavilySearchResult `json:"results"`
}

// Ask runs one Tavily search for the topic and maps the synthesized answer
// and its cited results into an Answer
func (p *TavilyProvider) Ask(ctx context.Context, topic string) (*Answer, error) {
	log.Printf("[tavily.Ask] Searching for: %s", topic)

	reqBody := tavilySearchRequest{
		Query:         topic,
		APIKey:        p.apiKey,
		IncludeAnswer: true,
		MaxResults:    5,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", tavilyAPIURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api error: %d %s", resp.StatusCode, string(bodyBytes))
	}

	var searchResp tavilySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if searchResp.Answer == "" {
		return nil, fmt.Errorf("no answer returned")
	}

	ans := &Answer{Text: searchResp.Answer}
	for _, r := range searchResp.Results {
		if r.URL == "" {
			continue
		}
		ans.SourceHints = append(ans.SourceHints, SourceHint{URL: r.URL, Title: r.Title})
	}

	log.Printf("[tavily.Ask] Success, answer length: %d, %d results", len(ans.Text), len(ans.SourceHints))
	return ans, nil
}
