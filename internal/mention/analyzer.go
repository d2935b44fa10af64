package mention

import (
	"regexp"
	"strconv"
	"strings"
)

// maxPosition is the trackable rank cap; anything beyond it is unranked.
const maxPosition = 10

// Analysis is the outcome of analyzing one provider answer for a brand.
// Position is nil when the brand is unranked or beyond the trackable cap.
type Analysis struct {
	Mentioned      bool
	Position       *int
	Confidence     float64
	ContextSnippet string
}

// Analyze determines whether brandName is mentioned in answerText, estimates
// its rank position within any enumerated list, and scores confidence. The
// topic is used only by the relevance filter, which suppresses mentions that
// occur solely inside off-topic generic enumerations.
//
// Matching is intentionally lenient: a brand that is a substring of another
// word still counts as a mention.
func Analyze(answerText, brandName, topic string) Analysis {
	if answerText == "" || brandName == "" {
		return Analysis{}
	}

	brand := strings.ToLower(brandName)
	if !strings.Contains(strings.ToLower(answerText), brand) {
		return Analysis{}
	}

	if onlyGenericEnumeration(answerText, brand, topic) {
		return Analysis{}
	}

	pos := extractPosition(answerText, brand)
	if pos != nil && *pos > maxPosition {
		pos = nil
	}

	return Analysis{
		Mentioned:      true,
		Position:       pos,
		Confidence:     confidence(answerText, brand, pos),
		ContextSnippet: sentenceContaining(answerText, brand),
	}
}

// onlyGenericEnumeration reports whether every line mentioning the brand is a
// generic enumeration of a known category the topic is not about. With no
// topic text there is nothing to judge relevance against, so the filter is
// disabled.
func onlyGenericEnumeration(text, brand, topic string) bool {
	topicLower := strings.ToLower(strings.TrimSpace(topic))
	if topicLower == "" {
		return false
	}

	sawBrand := false
	for _, line := range strings.Split(strings.ToLower(text), "\n") {
		if !strings.Contains(line, brand) {
			continue
		}
		sawBrand = true
		if !isGenericLine(line, topicLower) {
			return false
		}
	}
	return sawBrand
}

func isGenericLine(line, topic string) bool {
	for _, cat := range categories {
		if cat.topicMatches(topic) {
			// the enumeration is on-topic for this category
			continue
		}
		if cat.itemsInLine(line) >= genericItemThreshold {
			return true
		}
	}
	return false
}

var (
	numberedMarker = regexp.MustCompile(`(\d+)[.)]\s*`)
	bulletSplit    = regexp.MustCompile("[•▪‣]|\n\\s*[-*–]\\s+")
	sentenceEnd    = regexp.MustCompile(`[.!?]\s+|\n+`)
)

var ordinalWords = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
}

// extractPosition tries the position patterns in priority order; the first
// non-nil result wins. Ties within a pattern resolve to the earliest
// occurrence.
func extractPosition(text, brand string) *int {
	if pos := numberedListPosition(text, brand); pos != nil {
		return pos
	}
	if pos := ordinalPosition(text, brand); pos != nil {
		return pos
	}
	if pos := commaPosition(text, brand); pos != nil {
		return pos
	}
	return bulletPosition(text, brand)
}

// numberedListPosition finds "N. ... brand" or "N) ... brand" where the brand
// falls between the marker and the next marker (or end of line)
func numberedListPosition(text, brand string) *int {
	lower := strings.ToLower(text)
	locs := numberedMarker.FindAllStringSubmatchIndex(lower, -1)
	for i, loc := range locs {
		end := len(lower)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segment := lower[loc[1]:end]
		if nl := strings.Index(segment, "\n"); nl >= 0 {
			segment = segment[:nl]
		}
		if !strings.Contains(segment, brand) {
			continue
		}
		if n, err := strconv.Atoi(lower[loc[2]:loc[3]]); err == nil && n > 0 {
			return &n
		}
	}
	return nil
}

// ordinalPosition maps "first ... brand" through "tenth ... brand" within the
// brand's sentence, taking the nearest ordinal preceding the brand
func ordinalPosition(text, brand string) *int {
	sentence := strings.ToLower(sentenceContaining(text, brand))
	idx := strings.Index(sentence, brand)
	if idx < 0 {
		return nil
	}

	best := -1
	bestPos := 0
	for word, n := range ordinalWords {
		if w := strings.LastIndex(sentence[:idx], word); w > best {
			best = w
			bestPos = n
		}
	}
	if best < 0 {
		return nil
	}
	return &bestPos
}

// commaPosition splits the brand's sentence on commas and returns the brand's
// 1-based index among the items
func commaPosition(text, brand string) *int {
	sentence := sentenceContaining(text, brand)
	if !strings.Contains(sentence, ",") {
		return nil
	}
	for i, part := range strings.Split(sentence, ",") {
		if strings.Contains(strings.ToLower(part), brand) {
			n := i + 1
			return &n
		}
	}
	return nil
}

// bulletPosition splits the whole text on bullet characters and returns the
// brand's 1-based index among the non-empty segments
func bulletPosition(text, brand string) *int {
	segments := bulletSplit.Split(text, -1)
	if len(segments) < 2 {
		return nil
	}
	idx := 0
	for _, seg := range segments {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		idx++
		if strings.Contains(strings.ToLower(seg), brand) {
			n := idx
			return &n
		}
	}
	return nil
}

// sentenceContaining returns the first sentence of text that mentions the
// brand, for use as the context snippet
func sentenceContaining(text, brand string) string {
	for _, sentence := range sentenceEnd.Split(text, -1) {
		if strings.Contains(strings.ToLower(sentence), brand) {
			return strings.TrimSpace(sentence)
		}
	}
	return ""
}

var positiveKeywords = []string{
	"best", "excellent", "amazing", "great", "top", "premium", "quality",
	"recommended", "outstanding", "superior", "leading", "innovative",
}

var negativeKeywords = []string{
	"worst", "bad", "poor", "terrible", "avoid", "disappointing",
	"inferior", "subpar", "unreliable",
}

// confidence starts at 0.5 and adjusts for sentiment keywords (each distinct
// keyword applies once), a quoted brand mention, and extracted rank (better
// rank earns a larger bonus). The result is clamped to [0,1].
func confidence(text, brand string, pos *int) float64 {
	lower := strings.ToLower(text)
	score := 0.5

	for _, kw := range positiveKeywords {
		if strings.Contains(lower, kw) {
			score += 0.1
		}
	}
	for _, kw := range negativeKeywords {
		if strings.Contains(lower, kw) {
			score -= 0.1
		}
	}

	if strings.Contains(lower, `"`+brand+`"`) || strings.Contains(lower, "'"+brand+"'") {
		score += 0.2
	}

	if pos != nil {
		score += 0.1 * float64(maxPosition-*pos) / float64(maxPosition)
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
