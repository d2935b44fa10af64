package mention

import "strings"

// Category is one entry of the generic-enumeration table used by the
// relevance filter. Items are well-known members of the category; a line
// naming several of them is treated as a generic enumeration. TopicKeywords
// disable the filter when the scan topic is actually about the category.
//
// The table is data-driven so coverage can grow without touching the filter
// logic. All entries must be lowercase.
type Category struct {
	Name          string
	Items         []string
	TopicKeywords []string
}

// genericItemThreshold is the number of distinct category members a line
// must name before it counts as a generic enumeration.
const genericItemThreshold = 3

var categories = []Category{
	{
		Name:          "search engines",
		Items:         []string{"google", "bing", "yahoo", "duckduckgo", "yandex", "baidu", "ecosia", "startpage"},
		TopicKeywords: []string{"search engine", "web search"},
	},
	{
		Name:          "social platforms",
		Items:         []string{"facebook", "instagram", "twitter", "tiktok", "linkedin", "snapchat", "pinterest", "reddit"},
		TopicKeywords: []string{"social media", "social network", "social platform"},
	},
	{
		Name:          "big tech",
		Items:         []string{"google", "microsoft", "apple", "amazon", "meta", "nvidia", "intel", "ibm", "oracle", "samsung"},
		TopicKeywords: []string{"tech company", "tech companies", "technology companies", "big tech"},
	},
	{
		Name:          "browsers",
		Items:         []string{"chrome", "firefox", "safari", "edge", "opera", "vivaldi", "brave"},
		TopicKeywords: []string{"browser", "browsers"},
	},
}

func (c Category) topicMatches(topic string) bool {
	for _, kw := range c.TopicKeywords {
		if strings.Contains(topic, kw) {
			return true
		}
	}
	return false
}

func (c Category) itemsInLine(line string) int {
	count := 0
	for _, item := range c.Items {
		if strings.Contains(line, item) {
			count++
		}
	}
	return count
}
