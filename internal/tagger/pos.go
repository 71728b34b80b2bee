// Package tagger assigns part-of-speech classes to spans of text. The
// engine consumes it through the Tagger interface; the built-in lexicon
// tagger is the default backend.
package tagger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// POS is the closed part-of-speech classification the rule engine switches
// over. Heading is not produced by taggers; it exists so rules can target
// whole heading paragraphs with the same type.
type POS int

const (
	Other POS = iota
	Heading
	Verb
	Noun
	Adjective
	Adverb
)

var posNames = map[POS]string{
	Other:     "other",
	Heading:   "heading",
	Verb:      "verb",
	Noun:      "noun",
	Adjective: "adjective",
	Adverb:    "adverb",
}

func (p POS) String() string {
	if s, ok := posNames[p]; ok {
		return s
	}
	return fmt.Sprintf("pos(%d)", int(p))
}

// RuleTargets lists the classes a rule may target, in display order.
func RuleTargets() []POS {
	return []POS{Heading, Verb, Noun, Adjective, Adverb}
}

// ParseTarget parses a rule target name. Unknown names produce an error
// with a nearest-match suggestion when one is close enough.
func ParseTarget(s string) (POS, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, p := range RuleTargets() {
		if posNames[p] == name {
			return p, nil
		}
	}

	candidates := make([]string, 0, len(RuleTargets()))
	for _, p := range RuleTargets() {
		candidates = append(candidates, posNames[p])
	}
	if matches := fuzzy.RankFindNormalizedFold(name, candidates); len(matches) > 0 {
		sort.Sort(matches)
		return Other, fmt.Errorf("unknown rule target %q (did you mean %q?)", s, matches[0].Target)
	}
	return Other, fmt.Errorf("unknown rule target %q (valid: %s)", s, strings.Join(candidates, ", "))
}
