package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func chatBody(content string, citations ...string) string {
	resp := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
	if len(citations) > 0 {
		resp["citations"] = citations
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func newTestProvider(url string) *BaseProvider {
	return NewBaseProvider(ProviderConfig{
		Name:    "openai",
		BaseURL: url,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 5 * time.Second,
	})
}

func TestAskReturnsAnswerText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("want bearer auth header, got %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("request body must be valid JSON: %v", err)
		}
		if req.Model != "test-model" || len(req.Messages) != 1 {
			t.Errorf("unexpected request payload: %+v", req)
		}
		fmt.Fprint(w, chatBody("The best tool is Acme, available at https://acme.io"))
	}))
	defer srv.Close()

	ans, err := newTestProvider(srv.URL).Ask(context.Background(), "best tools")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if ans.Text != "The best tool is Acme, available at https://acme.io" {
		t.Fatalf("unexpected answer text: %q", ans.Text)
	}
	if ans.SourcesText != "" {
		t.Fatal("answer with an inline URL must not trigger the sources follow-up")
	}
}

func TestAskMapsCitationsToSourceHints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatBody("Acme leads the market.", "https://a.example.org/report", "https://b.example.org"))
	}))
	defer srv.Close()

	ans, err := newTestProvider(srv.URL).Ask(context.Background(), "best tools")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if len(ans.SourceHints) != 2 {
		t.Fatalf("want 2 source hints from citations, got %d", len(ans.SourceHints))
	}
	if ans.SourceHints[0].URL != "https://a.example.org/report" {
		t.Fatalf("unexpected hint: %+v", ans.SourceHints[0])
	}
	if ans.SourcesText != "" {
		t.Fatal("citations must suppress the sources follow-up")
	}
}

func TestAskFollowsUpForSources(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, chatBody("Acme is a well known brand."))
			return
		}
		fmt.Fprint(w, chatBody("https://review.example.net/acme"))
	}))
	defer srv.Close()

	ans, err := newTestProvider(srv.URL).Ask(context.Background(), "best tools")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("want a follow-up sources request, got %d calls", calls)
	}
	if ans.SourcesText != "https://review.example.net/acme" {
		t.Fatalf("unexpected sources text: %q", ans.SourcesText)
	}
}

func TestAskToleratesFailedSourcesFollowUp(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, chatBody("Acme is a well known brand."))
			return
		}
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ans, err := newTestProvider(srv.URL).Ask(context.Background(), "best tools")
	if err != nil {
		t.Fatalf("a failed sources follow-up must not fail the answer: %v", err)
	}
	if ans.Text == "" || ans.SourcesText != "" {
		t.Fatalf("unexpected answer: %+v", ans)
	}
}

func TestAskErrorsOnAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	if _, err := newTestProvider(srv.URL).Ask(context.Background(), "best tools"); err == nil {
		t.Fatal("non-200 response must surface as an error")
	}
}

func TestAskErrorsOnEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices": []}`)
	}))
	defer srv.Close()

	if _, err := newTestProvider(srv.URL).Ask(context.Background(), "best tools"); err == nil {
		t.Fatal("empty choices must surface as an error")
	}
}

func TestAskHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := newTestProvider(srv.URL).Ask(ctx, "best tools")
	if err == nil {
		t.Fatal("cancelled context must surface as an error")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("cancelled request must not wait out the full server delay")
	}
}

func TestFactoryConfiguresKnownProviders(t *testing.T) {
	p := NewLLMProvider("openai", "k", "gpt-4o-mini", time.Second)
	if p.Name() != "openai" {
		t.Fatalf("want openai, got %q", p.Name())
	}
	p = NewLLMProvider("perplexity", "k", "sonar", time.Second)
	if p.Name() != "perplexity" {
		t.Fatalf("want perplexity, got %q", p.Name())
	}
}

func TestRegistryFilter(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewLLMProvider("openai", "k", "m", time.Second))
	reg.Register(NewLLMProvider("perplexity", "k", "m", time.Second))

	if got := len(reg.Filter(nil)); got != 2 {
		t.Fatalf("empty filter must return all providers, got %d", got)
	}
	got := reg.Filter([]string{"perplexity"})
	if len(got) != 1 || got[0].Name() != "perplexity" {
		t.Fatalf("filter must restrict by name: %+v", got)
	}
	if got := reg.Filter([]string{"unknown"}); len(got) != 0 {
		t.Fatalf("unknown names must match nothing, got %+v", got)
	}
}
