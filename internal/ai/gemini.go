package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider asks Gemini with Google Search grounding enabled, so the
// response carries grounding chunks we can surface as source hints.
type GeminiProvider struct {
	model  string
	client *genai.Client
}

// NewGeminiProvider creates a Gemini provider using the Gemini API backend
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiProvider{model: model, client: client}, nil
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) Ask(ctx context.Context, topic string) (*Answer, error) {
	log.Printf("[Gemini.Ask] Sending request (model=%s)...", p.model)

	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(topic), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("empty answer from gemini")
	}

	ans := &Answer{Text: text}
	for _, cand := range resp.Candidates {
		if cand.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			ans.SourceHints = append(ans.SourceHints, SourceHint{
				URL:   chunk.Web.URI,
				Title: chunk.Web.Title,
			})
		}
	}

	log.Printf("[Gemini.Ask] Success, response length: %d, grounding sources: %d", len(text), len(ans.SourceHints))
	return ans, nil
}
