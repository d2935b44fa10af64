package mention

import (
	"math"
	"strings"
	"testing"
)

func TestAnalyzeNoMention(t *testing.T) {
	a := Analyze("There are many options on the market.", "Acme", "best tools")
	if a.Mentioned {
		t.Fatal("want no mention")
	}
	if a.Position != nil {
		t.Fatalf("want nil position, got %d", *a.Position)
	}
	if a.Confidence != 0 {
		t.Fatalf("want confidence 0, got %f", a.Confidence)
	}
	if a.ContextSnippet != "" {
		t.Fatalf("want empty snippet, got %q", a.ContextSnippet)
	}
}

func TestAnalyzePositions(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		brand string
		topic string
		pos   int
	}{
		{
			name:  "numbered list",
			text:  "1. Google, 2. Bing, 3. DuckDuckGo",
			brand: "Bing",
			pos:   2,
		},
		{
			name:  "numbered list with parens",
			text:  "Our picks: 1) Alpha 2) Beta 3) Zenith",
			brand: "Zenith",
			pos:   3,
		},
		{
			name:  "comma enumeration",
			text:  "The best tools are Acme, Zenith, and Corp.",
			brand: "Corp",
			topic: "best project management tools",
			pos:   3,
		},
		{
			name:  "ordinal word",
			text:  "The second tool, Zenith, impressed us.",
			brand: "Zenith",
			topic: "project tools",
			pos:   2,
		},
		{
			name:  "bullet segments",
			text:  "Top picks:\n- Alpha\n- Beta\n- Gamma",
			brand: "Beta",
			topic: "picks",
			pos:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Analyze(tt.text, tt.brand, tt.topic)
			if !a.Mentioned {
				t.Fatal("want mention")
			}
			if a.Position == nil {
				t.Fatal("want position, got nil")
			}
			if *a.Position != tt.pos {
				t.Fatalf("want position %d, got %d", tt.pos, *a.Position)
			}
		})
	}
}

func TestAnalyzePositionCap(t *testing.T) {
	text := "11. FooTool\n12. AcmeCorp is a great option"
	a := Analyze(text, "AcmeCorp", "")
	if !a.Mentioned {
		t.Fatal("want mention")
	}
	if a.Position != nil {
		t.Fatalf("position beyond cap must normalize to nil, got %d", *a.Position)
	}
}

func TestAnalyzeMentionWithoutPosition(t *testing.T) {
	a := Analyze("Acme remains a solid choice for small teams.", "Acme", "team software")
	if !a.Mentioned {
		t.Fatal("want mention")
	}
	if a.Position != nil {
		t.Fatalf("want nil position, got %d", *a.Position)
	}
	if !strings.Contains(a.ContextSnippet, "Acme") {
		t.Fatalf("snippet should contain the brand, got %q", a.ContextSnippet)
	}
}

func TestAnalyzeSubstringMatchIsLenient(t *testing.T) {
	// no word-boundary requirement, by original behavior
	a := Analyze("The Acelab suite performed well in our tests.", "Ace", "lab software")
	if !a.Mentioned {
		t.Fatal("substring inside another word must still count as a mention")
	}
}

func TestRelevanceFilter(t *testing.T) {
	text := "People searching the web rely on Google, Bing, DuckDuckGo, Ecosia, and Yandex every day."

	// off-topic generic enumeration is a false positive
	a := Analyze(text, "Yandex", "best laptops 2024")
	if a.Mentioned {
		t.Fatal("off-topic generic enumeration should be filtered out")
	}
	if a.Confidence != 0 {
		t.Fatalf("filtered mention must have confidence 0, got %f", a.Confidence)
	}

	// topic about the category disables the filter
	b := Analyze(text, "Yandex", "top search engines")
	if !b.Mentioned {
		t.Fatal("on-topic enumeration must count as a mention")
	}
	if b.Position == nil || *b.Position != 5 {
		t.Fatalf("want list-derived position 5, got %v", b.Position)
	}
}

func TestRelevanceFilterSparesOtherLines(t *testing.T) {
	text := "Search is dominated by Google, Bing, DuckDuckGo and Yandex.\nYandex also offers a popular maps product."
	a := Analyze(text, "Yandex", "best map services")
	if !a.Mentioned {
		t.Fatal("a non-enumeration line mentioning the brand must survive the filter")
	}
}

func TestConfidenceQuotedBonus(t *testing.T) {
	a := Analyze(`Many call "Acme" the industry leader.`, "Acme", "industry tools")
	if !a.Mentioned {
		t.Fatal("want mention")
	}
	// 0.5 base + 0.2 quoted, no sentiment keywords, no position
	if math.Abs(a.Confidence-0.7) > 1e-9 {
		t.Fatalf("want confidence 0.7, got %f", a.Confidence)
	}
}

func TestConfidencePositionBonus(t *testing.T) {
	a := Analyze("The best tools are Acme, Zenith, and Corp.", "Corp", "best project management tools")
	// 0.5 base + 0.1 "best" + 0.1*(10-3)/10
	if math.Abs(a.Confidence-0.67) > 1e-9 {
		t.Fatalf("want confidence 0.67, got %f", a.Confidence)
	}
}

func TestConfidenceClamped(t *testing.T) {
	low := Analyze("worst bad poor terrible avoid disappointing Acme inferior", "Acme", "tools")
	if low.Confidence != 0 {
		t.Fatalf("want confidence clamped to 0, got %f", low.Confidence)
	}

	high := Analyze(`"Acme" is the best, excellent, amazing, great, top, premium, quality, recommended, outstanding, superior, leading and innovative choice.`, "Acme", "tools")
	if high.Confidence != 1 {
		t.Fatalf("want confidence clamped to 1, got %f", high.Confidence)
	}
}

func TestAnalyzeEmptyInputs(t *testing.T) {
	if a := Analyze("", "Acme", "tools"); a.Mentioned {
		t.Fatal("empty answer must not be a mention")
	}
	if a := Analyze("Acme is fine.", "", "tools"); a.Mentioned {
		t.Fatal("empty brand must not be a mention")
	}
}
