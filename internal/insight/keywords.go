package insight

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Dictionary maps lowercase phrases to concept labels. It is loaded once
// at startup and swappable via config.
type Dictionary map[string]string

// LoadDictionary reads a JSON phrase->concept file. Any failure degrades
// to an empty dictionary: no concepts will match, nothing is fatal.
func LoadDictionary(path string, log *zap.Logger) Dictionary {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Warn("keyword dictionary unavailable, matching disabled",
			zap.String("path", path), zap.Error(err))
		return Dictionary{}
	}
	var raw map[string]string
	if err := json.Unmarshal(b, &raw); err != nil {
		log.Warn("keyword dictionary malformed, matching disabled",
			zap.String("path", path), zap.Error(err))
		return Dictionary{}
	}
	dict := make(Dictionary, len(raw))
	for phrase, concept := range raw {
		phrase = strings.TrimSpace(strings.ToLower(phrase))
		concept = strings.TrimSpace(concept)
		if phrase != "" && concept != "" {
			dict[phrase] = concept
		}
	}
	return dict
}

// Fixed distress phrase set. English-only.
var distressKeywords = []string{
	"better off dead",
	"can't go on",
	"end my life",
	"give up",
	"hopeless",
	"hurt myself",
	"kill myself",
	"no reason to live",
	"self harm",
	"want to die",
	"worthless",
}

// Matcher substring-matches redacted snippets against the concept
// dictionary and the fixed distress set.
type Matcher struct {
	Dict Dictionary
}

// Concepts returns the deduplicated, sorted concept labels whose phrases
// occur in any snippet. Matching is case-insensitive.
func (m *Matcher) Concepts(snippets []string) []string {
	if m == nil || len(m.Dict) == 0 {
		return nil
	}
	seen := map[string]struct{}{}
	for _, s := range snippets {
		low := strings.ToLower(s)
		for phrase, concept := range m.Dict {
			if strings.Contains(low, phrase) {
				seen[concept] = struct{}{}
			}
		}
	}
	return sortedKeys(seen)
}

// MatchDistress returns the deduplicated, sorted distress phrases found
// in the snippets. The distress set is fixed and independent of any
// loaded dictionary.
func MatchDistress(snippets []string) []string {
	seen := map[string]struct{}{}
	for _, s := range snippets {
		low := strings.ToLower(s)
		for _, kw := range distressKeywords {
			if strings.Contains(low, kw) {
				seen[kw] = struct{}{}
			}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
