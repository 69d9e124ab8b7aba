// Package videos picks a YouTube tutorial for each learning item.
package videos

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultVideoID is returned when no topic matches.
const DefaultVideoID = "rfscVS0vtbw"

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ValidID reports whether id looks like a YouTube video id.
func ValidID(id string) bool {
	return videoIDPattern.MatchString(id)
}

// catalog maps topics to curated tutorials from well-known educational channels.
var catalog = map[string]string{
	"python":        "rfscVS0vtbw",
	"java":          "UmnCZ7-9yDY",
	"javascript":    "W6NZfCO5SIk",
	"typescript":    "30LWjhZzg50",
	"go":            "un6ZyFkqFKo",
	"rust":          "zF34dRivLOw",
	"c++":           "vLnPwxZdW4Y",
	"react":         "bMknfKXLgFA",
	"node":          "Oe421EPjeBE",
	"angular":       "3qBXWUpoPHo",
	"vue":           "FXpIoQ_rT_c",
	"html":          "pQN-pnXPaVg",
	"css":           "1Rs2ND1ryYc",
	"sql":           "HXV3zeQKqGY",
	"postgresql":    "qw--VwXb71Q",
	"mongodb":       "c2M-rlkkT5o",
	"mysql":         "7S_tz1z_5bA",
	"spring":        "9ptm2c5Fk5U",
	"spring boot":   "9z_fS1jT77k",
	"docker":        "pTJxdL_pIWM",
	"kubernetes":    "X48VuDVv0do",
	"git":           "RGOj5yH7evk",
	"aws":           "f1c24P3bO2E",
	"system design": "ZgdS0EUasK0",
}

// topicsBySpecificity lists catalog keys longest first, ties alphabetical.
var topicsBySpecificity = func() []string {
	keys := make([]string, 0, len(catalog))
	for k := range catalog {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

var wordSplit = regexp.MustCompile(`[\s\-_]+`)

// LookupTopic returns a curated video for a free-text topic.
// Matching order: whole topic, JavaScript before Java, single word, longest substring, default.
func LookupTopic(topic string) string {
	t := strings.ToLower(strings.TrimSpace(topic))
	if t == "" {
		return DefaultVideoID
	}
	if id, ok := catalog[t]; ok {
		return id
	}
	if strings.Contains(t, "javascript") || strings.Contains(" "+t+" ", " js ") {
		return catalog["javascript"]
	}
	for _, w := range wordSplit.Split(t, -1) {
		if id, ok := catalog[w]; ok {
			return id
		}
	}
	for _, k := range topicsBySpecificity {
		if strings.Contains(t, k) {
			return catalog[k]
		}
	}
	return DefaultVideoID
}

// IsCurated reports whether id is one of the catalogue videos.
func IsCurated(id string) bool {
	for _, v := range catalog {
		if v == id {
			return true
		}
	}
	return false
}
