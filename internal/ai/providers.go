package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// maxTransientRetries bounds retries on network failure so total scan
// latency stays predictable.
const maxTransientRetries = 1

// BaseProvider implements Provider for OpenAI-compatible chat APIs
type BaseProvider struct {
	config ProviderConfig
	client *http.Client
}

// NewBaseProvider creates a new base provider
func NewBaseProvider(config ProviderConfig) *BaseProvider {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	return &BaseProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

func (p *BaseProvider) Name() string {
	return p.config.Name
}

// Ask issues the primary request for the topic. If the response carries no
// usable source URLs, it issues one bounded follow-up request asking the
// provider to enumerate its sources for the same topic.
func (p *BaseProvider) Ask(ctx context.Context, topic string) (*Answer, error) {
	text, citations, err := p.sendChat(ctx, topic, "Ask")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty answer from %s", p.config.Name)
	}

	ans := &Answer{Text: text}
	for _, c := range citations {
		ans.SourceHints = append(ans.SourceHints, SourceHint{URL: c})
	}

	if len(ans.SourceHints) == 0 && !strings.Contains(text, "http") {
		prompt := fmt.Sprintf("List up to 5 web source URLs that support an answer to the following question. Return one URL per line, nothing else.\n\nQuestion: %s", topic)
		srcText, _, err := p.sendChat(ctx, prompt, "Sources")
		if err != nil {
			// sources are best-effort, the answer itself already succeeded
			log.Printf("[%s.Sources] follow-up failed: %v", p.config.Name, err)
		} else {
			ans.SourcesText = srcText
		}
	}

	return ans, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	// Perplexity returns source URLs at the top level
	Citations []string `json:"citations"`
}

// sendChat handles one chat-completion round trip to the provider
func (p *BaseProvider) sendChat(ctx context.Context, prompt, operation string) (string, []string, error) {
	log.Printf("[%s.%s] Sending request...", p.config.Name, operation)

	reqBody := chatRequest{
		Model:    p.config.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, jsonBody, operation)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	log.Printf("[%s.%s] Response status: %d", p.config.Name, operation, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", nil, fmt.Errorf("api error: %d %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", nil, fmt.Errorf("no choices returned")
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	log.Printf("[%s.%s] Success, response length: %d", p.config.Name, operation, len(content))
	return content, chatResp.Citations, nil
}

// doWithRetry retries the call once on transient network failure
func (p *BaseProvider) doWithRetry(ctx context.Context, jsonBody []byte, operation string) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= maxTransientRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", p.config.BaseURL, bytes.NewReader(jsonBody))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

		resp, err := p.client.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if attempt < maxTransientRetries {
			log.Printf("[%s.%s] Transient failure, retrying: %v", p.config.Name, operation, err)
		}
	}
	return nil, fmt.Errorf("request failed: %w", lastErr)
}
