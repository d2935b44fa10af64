package sources

import (
	"testing"

	"github.com/amityadav/brandlens/internal/ai"
)

func TestExtractCapAndOrder(t *testing.T) {
	text := "See https://alpha.com/a and https://beta.com/b and https://gamma.com/c for details."
	refs := Extract(text)
	if len(refs) != MaxPerProvider {
		t.Fatalf("want %d refs, got %d", MaxPerProvider, len(refs))
	}
	if refs[0].URL != "https://alpha.com/a" || refs[1].URL != "https://beta.com/b" {
		t.Fatalf("want discovery order, got %q then %q", refs[0].URL, refs[1].URL)
	}
}

func TestExtractDeduplicates(t *testing.T) {
	text := "https://alpha.com/x is cited twice: https://alpha.com/x and also www.beta.io"
	refs := Extract(text)
	if len(refs) != 2 {
		t.Fatalf("want 2 refs, got %d", len(refs))
	}
	if refs[0].URL != "https://alpha.com/x" {
		t.Fatalf("unexpected first url: %q", refs[0].URL)
	}
	if refs[1].URL != "https://www.beta.io" || refs[1].Domain != "beta.io" {
		t.Fatalf("www url not normalized: %+v", refs[1])
	}
}

func TestExtractNormalization(t *testing.T) {
	refs := Extract("Check www.foo.com. Background at wikipedia.org too.")
	if len(refs) != 2 {
		t.Fatalf("want 2 refs, got %d", len(refs))
	}
	if refs[0].URL != "https://www.foo.com" {
		t.Fatalf("trailing punctuation or scheme not normalized: %q", refs[0].URL)
	}
	if refs[1].URL != "https://wikipedia.org" {
		t.Fatalf("bare domain not normalized: %q", refs[1].URL)
	}
}

func TestExtractRejectsNonProductionDomains(t *testing.T) {
	text := "Try https://example.com/docs or http://localhost:8080/x, otherwise https://real-site.com"
	refs := Extract(text)
	if len(refs) != 1 {
		t.Fatalf("want 1 ref, got %d", len(refs))
	}
	if refs[0].Domain != "real-site.com" {
		t.Fatalf("unexpected domain: %q", refs[0].Domain)
	}
}

func TestExtractTitleFromQuotes(t *testing.T) {
	text := `Read "A Deep Dive into Widgets" at https://widgets.io/guide for more.`
	refs := Extract(text)
	if len(refs) != 1 {
		t.Fatalf("want 1 ref, got %d", len(refs))
	}
	if refs[0].Title != "A Deep Dive into Widgets" {
		t.Fatalf("want quoted title, got %q", refs[0].Title)
	}
}

func TestExtractTitleFallback(t *testing.T) {
	refs := Extract("see foo-bar.net now")
	if len(refs) != 1 {
		t.Fatalf("want 1 ref, got %d", len(refs))
	}
	if refs[0].Title != "Content from foo-bar.net" {
		t.Fatalf("want fallback title, got %q", refs[0].Title)
	}
}

func TestCollectPrefersStructuredHints(t *testing.T) {
	ans := &ai.Answer{
		Text: "More context at https://blog.zenith.dev/post and https://alpha.com/a",
		SourceHints: []ai.SourceHint{
			{URL: "https://docs.acme.com/intro", Title: "Acme Intro"},
		},
	}
	refs := Collect(ans)
	if len(refs) != 2 {
		t.Fatalf("want 2 refs, got %d", len(refs))
	}
	if refs[0].URL != "https://docs.acme.com/intro" || refs[0].Title != "Acme Intro" {
		t.Fatalf("structured hint should come first: %+v", refs[0])
	}
	if refs[1].URL != "https://blog.zenith.dev/post" {
		t.Fatalf("answer text should backfill: %+v", refs[1])
	}
}

func TestCollectSkipsInvalidHints(t *testing.T) {
	ans := &ai.Answer{
		Text:        "nothing here",
		SourcesText: "1. https://one.com\n2. https://two.com\n3. https://three.com",
		SourceHints: []ai.SourceHint{{URL: "https://example.com/fake"}},
	}
	refs := Collect(ans)
	if len(refs) != 2 {
		t.Fatalf("want 2 refs, got %d", len(refs))
	}
	if refs[0].URL != "https://one.com" || refs[1].URL != "https://two.com" {
		t.Fatalf("follow-up sources should fill in: %+v", refs)
	}
}

func TestCollectNeverExceedsCapOrDuplicates(t *testing.T) {
	ans := &ai.Answer{
		Text: "https://one.com again https://one.com and https://two.com and https://three.com",
		SourceHints: []ai.SourceHint{
			{URL: "https://one.com", Title: "One"},
		},
	}
	refs := Collect(ans)
	if len(refs) != 2 {
		t.Fatalf("want 2 refs, got %d", len(refs))
	}
	seen := map[string]bool{}
	for _, r := range refs {
		if seen[r.URL] {
			t.Fatalf("duplicate url %q", r.URL)
		}
		seen[r.URL] = true
	}
}
