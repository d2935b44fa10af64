package sources

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/amityadav/brandlens/internal/ai"
)

// MaxPerProvider caps retained source references per provider answer. First
// two valid URLs in discovery order win; this is a storage/cost tradeoff,
// not a quality ranking.
const MaxPerProvider = 2

// SourceReference is a validated candidate source extracted from an answer
type SourceReference struct {
	URL          string    `json:"url"`
	Domain       string    `json:"domain"`
	Title        string    `json:"title"`
	ObservedDate time.Time `json:"observed_date"`
}

const titleWindow = 100

var (
	fullURLPattern    = regexp.MustCompile(`https?://[^\s<>"')\]]+`)
	wwwPattern        = regexp.MustCompile(`\bwww\.[^\s<>"')\]]+`)
	bareDomainPattern = regexp.MustCompile(`(?i)\b[a-z0-9][a-z0-9-]*(?:\.[a-z0-9-]+)*\.(?:com|org|net|io|co|ai|dev|app|edu|gov)\b(?:/[^\s<>"')\]]*)?`)

	quotedTitle         = regexp.MustCompile(`"([^"\n]{10,100})"`)
	bracketedTitle      = regexp.MustCompile(`\[([^\]\n]{10,100})\]`)
	capitalizedFragment = regexp.MustCompile(`[A-Z][A-Za-z0-9][A-Za-z0-9 ,'&:-]{8,98}`)
)

// Extract scans free-form text for candidate source URLs and returns at most
// MaxPerProvider validated, deduplicated references in discovery order.
func Extract(text string) []SourceReference {
	refs := extractAll(text)
	if len(refs) > MaxPerProvider {
		refs = refs[:MaxPerProvider]
	}
	return refs
}

// Collect builds the source references for one provider answer. Structured
// hints from the provider API are preferred; free-form follow-up text and
// the answer body are fallbacks. The overall cap still applies.
func Collect(ans *ai.Answer) []SourceReference {
	if ans == nil {
		return nil
	}

	var refs []SourceReference
	seen := map[string]bool{}
	add := func(ref SourceReference) {
		if len(refs) >= MaxPerProvider || seen[ref.URL] {
			return
		}
		seen[ref.URL] = true
		refs = append(refs, ref)
	}

	for _, hint := range ans.SourceHints {
		norm, domain, ok := normalizeURL(hint.URL)
		if !ok {
			continue
		}
		title := strings.TrimSpace(hint.Title)
		if title == "" {
			title = "Content from " + domain
		}
		add(SourceReference{URL: norm, Domain: domain, Title: title, ObservedDate: time.Now()})
	}

	if len(refs) < MaxPerProvider {
		for _, ref := range extractAll(ans.SourcesText) {
			add(ref)
		}
	}
	if len(refs) < MaxPerProvider {
		for _, ref := range extractAll(ans.Text) {
			add(ref)
		}
	}
	return refs
}

// extractAll runs the three URL patterns in sequence: fully-qualified,
// www-prefixed, then bare domain tokens. Later patterns skip regions already
// matched so a bare-domain hit inside a full URL does not duplicate it.
func extractAll(text string) []SourceReference {
	if text == "" {
		return nil
	}

	var refs []SourceReference
	seen := map[string]bool{}
	var covered [][]int

	inCovered := func(loc []int) bool {
		for _, c := range covered {
			if loc[0] >= c[0] && loc[1] <= c[1] {
				return true
			}
		}
		return false
	}

	for _, pattern := range []*regexp.Regexp{fullURLPattern, wwwPattern, bareDomainPattern} {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			if inCovered(loc) {
				continue
			}
			covered = append(covered, loc)

			norm, domain, ok := normalizeURL(text[loc[0]:loc[1]])
			if !ok || seen[norm] {
				continue
			}
			seen[norm] = true
			refs = append(refs, SourceReference{
				URL:          norm,
				Domain:       domain,
				Title:        inferTitle(text, loc[0], loc[1], domain),
				ObservedDate: time.Now(),
			})
		}
	}
	return refs
}

// normalizeURL strips trailing punctuation, completes the scheme and rejects
// non-production hosts. Unparsable candidates are skipped, never fatal.
func normalizeURL(raw string) (normalized, domain string, ok bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimRight(raw, `.,;:!?)]}"'`)
	if raw == "" {
		return "", "", false
	}

	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "", "", false
	}

	host := strings.ToLower(u.Hostname())
	if host == "localhost" || host == "example.com" || strings.HasSuffix(host, ".example.com") || !strings.Contains(host, ".") {
		return "", "", false
	}

	return raw, strings.TrimPrefix(host, "www."), true
}

// inferTitle searches a window of text around the URL occurrence for quoted
// text, bracketed text, or a capitalized fragment of 10-100 chars
func inferTitle(text string, start, end int, domain string) string {
	ws := start - titleWindow
	if ws < 0 {
		ws = 0
	}
	we := end + titleWindow
	if we > len(text) {
		we = len(text)
	}
	window := text[ws:start] + " " + text[end:we]

	if m := quotedTitle.FindStringSubmatch(window); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := bracketedTitle.FindStringSubmatch(window); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := strings.TrimSpace(capitalizedFragment.FindString(window)); len(m) >= 10 {
		return m
	}
	return "Content from " + domain
}
