package tagger

import (
	"strings"
	"unicode"
)

// LexiconTagger is the built-in tagging backend: dictionary lookup with
// suffix heuristics, followed by a contextual correction pass. It only
// distinguishes the classes the rule engine can act on; everything else
// (determiners, prepositions, pronouns, punctuation) is Other.
type LexiconTagger struct {
	lexicon map[string]lexClass
}

// lexClass is the internal, finer-grained classification used during
// tagging. Context rules need to see determiners and modals even though
// they all collapse to Other in the emitted tokens.
type lexClass int

const (
	lexOther lexClass = iota
	lexDeterminer
	lexPreposition
	lexAuxiliary
	lexModal
	lexConjunction
	lexPronoun
	lexVerb
	lexNoun
	lexAdjective
	lexAdverb
	lexPunct
)

func (c lexClass) pos() POS {
	switch c {
	case lexVerb:
		return Verb
	case lexNoun:
		return Noun
	case lexAdjective:
		return Adjective
	case lexAdverb:
		return Adverb
	default:
		return Other
	}
}

func (c lexClass) verbal() bool  { return c == lexVerb || c == lexAuxiliary }
func (c lexClass) nominal() bool { return c == lexNoun || c == lexPronoun }

// NewLexiconTagger creates a tagger with the default lexicon.
func NewLexiconTagger() *LexiconTagger {
	t := &LexiconTagger{lexicon: make(map[string]lexClass)}
	t.loadDefaultLexicon()
	return t
}

// word is an intermediate token during tagging.
type word struct {
	text       string
	start, end int // rune offsets
	class      lexClass
}

// Tag splits text into word and punctuation tokens and classifies each.
// Never returns an error: the lexicon backend is always available.
func (t *LexiconTagger) Tag(text string) ([]Token, error) {
	words := tokenize(text)

	// pass 1: baseline lexicon lookup, then suffix heuristics
	for i := range words {
		words[i].class = t.baseline(words[i].text)
	}

	// pass 2: contextual correction
	for i := range words {
		var prev lexClass = lexOther
		if i > 0 {
			prev = words[i-1].class
		}
		cur := words[i].class

		switch {
		// "the run", "a fast attack": verb-like after determiner or
		// adjective is usually a noun
		case (prev == lexDeterminer || prev == lexAdjective) && cur.verbal():
			words[i].class = lexNoun

		// "can run", "will attack": nominal after modal is a verb
		case prev == lexModal && cur.nominal():
			words[i].class = lexVerb

		// "want to run": infinitive marker
		case i > 0 && strings.EqualFold(words[i-1].text, "to") && cur.nominal():
			words[i].class = lexVerb

		// "word of honor": verb-like after "of" is a noun
		case i > 0 && strings.EqualFold(words[i-1].text, "of") && cur.verbal():
			words[i].class = lexNoun
		}
	}

	tokens := make([]Token, 0, len(words))
	for _, w := range words {
		tokens = append(tokens, Token{Start: w.start, End: w.end, POS: w.class.pos()})
	}
	return tokens, nil
}

// tokenize splits text into words and single punctuation marks, tracking
// rune offsets. Apostrophes and hyphens join word parts ("don't",
// "well-known"); whitespace separates and is not emitted.
func tokenize(text string) []word {
	var words []word
	runes := []rune(text)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			start := i
			for i < len(runes) && isWordRune(runes, i) {
				i++
			}
			words = append(words, word{text: string(runes[start:i]), start: start, end: i})
		default:
			words = append(words, word{text: string(r), start: i, end: i + 1, class: lexPunct})
			i++
		}
	}
	return words
}

func isWordRune(runes []rune, i int) bool {
	r := runes[i]
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	// keep intra-word apostrophes and hyphens
	if (r == '\'' || r == '’' || r == '-') && i+1 < len(runes) && unicode.IsLetter(runes[i+1]) {
		return true
	}
	return false
}

func (t *LexiconTagger) baseline(text string) lexClass {
	if len(text) == 1 && unicode.IsPunct([]rune(text)[0]) {
		return lexPunct
	}

	lower := strings.ToLower(text)
	if class, ok := t.lexicon[lower]; ok {
		return class
	}

	// plural or third-person -s: classify by the stem when known
	if stem, ok := strings.CutSuffix(lower, "s"); ok {
		if class, ok := t.lexicon[stem]; ok {
			return class
		}
	}

	return inferFromSuffix(lower)
}

// inferFromSuffix guesses a class from common English derivational
// suffixes. Defaults to noun, the most frequent open class.
func inferFromSuffix(lower string) lexClass {
	switch {
	case strings.HasSuffix(lower, "ly"):
		return lexAdverb
	case strings.HasSuffix(lower, "ing"), strings.HasSuffix(lower, "ed"),
		strings.HasSuffix(lower, "ize"), strings.HasSuffix(lower, "ise"),
		strings.HasSuffix(lower, "ify"):
		return lexVerb
	case strings.HasSuffix(lower, "ness"), strings.HasSuffix(lower, "tion"),
		strings.HasSuffix(lower, "ment"), strings.HasSuffix(lower, "ity"),
		strings.HasSuffix(lower, "ship"), strings.HasSuffix(lower, "ance"):
		return lexNoun
	case strings.HasSuffix(lower, "ful"), strings.HasSuffix(lower, "less"),
		strings.HasSuffix(lower, "ous"), strings.HasSuffix(lower, "ive"),
		strings.HasSuffix(lower, "able"), strings.HasSuffix(lower, "ible"),
		strings.HasSuffix(lower, "al"), strings.HasSuffix(lower, "ic"):
		return lexAdjective
	default:
		return lexNoun
	}
}

func (t *LexiconTagger) add(class lexClass, words ...string) {
	for _, w := range words {
		t.lexicon[w] = class
	}
}

func (t *LexiconTagger) loadDefaultLexicon() {
	t.add(lexDeterminer,
		"the", "a", "an", "this", "that", "these", "those", "my", "your",
		"his", "her", "its", "our", "their", "some", "any", "no", "every",
		"each", "all", "both", "few", "many", "much", "most", "other")

	t.add(lexPreposition,
		"in", "on", "at", "to", "for", "with", "by", "from", "of", "about",
		"into", "through", "during", "before", "after", "above", "below",
		"between", "under", "over", "against", "among", "around", "behind",
		"beside", "beyond", "near", "toward", "towards", "upon", "within",
		"without", "across", "along", "inside", "outside", "throughout")

	t.add(lexAuxiliary,
		"is", "are", "was", "were", "be", "been", "being", "am",
		"have", "has", "had", "having", "do", "does", "did", "doing")

	t.add(lexModal,
		"can", "could", "will", "would", "shall", "should", "may", "might", "must")

	t.add(lexConjunction,
		"and", "or", "but", "nor", "yet", "so", "because", "although",
		"while", "if", "unless", "until", "since", "when", "where", "whether")

	t.add(lexPronoun,
		"i", "you", "he", "she", "it", "we", "they", "me", "him", "us",
		"them", "who", "whom", "whose", "which", "myself", "yourself",
		"himself", "herself", "itself", "ourselves", "themselves")

	t.add(lexAdjective,
		"old", "new", "good", "bad", "great", "small", "large", "big",
		"little", "young", "long", "short", "high", "low", "early", "late",
		"first", "last", "dark", "bright", "quick", "slow", "warm", "cold",
		"black", "white", "red", "blue", "green", "golden", "strong", "weak")

	t.add(lexAdverb,
		"very", "quite", "rather", "really", "too", "just", "only", "now",
		"then", "here", "there", "always", "never", "often", "sometimes",
		"fast", "well", "slowly", "quickly", "suddenly", "finally",
		"already", "still", "even", "soon", "again")

	t.add(lexVerb,
		"go", "went", "gone", "going", "come", "came", "coming", "say",
		"said", "saying", "see", "saw", "seen", "seeing", "know", "knew",
		"known", "knowing", "take", "took", "taken", "taking", "get", "got",
		"getting", "make", "made", "making", "walk", "walked", "walking",
		"run", "ran", "running", "live", "lived", "living", "speak",
		"spoke", "spoken", "speaking", "write", "wrote", "written", "read",
		"eat", "ate", "eaten", "sleep", "slept", "jump", "jumped", "find",
		"found", "give", "gave", "given", "think", "thought", "look",
		"looked", "want", "wanted", "use", "used", "work", "worked",
		"call", "called", "try", "tried", "ask", "asked", "need", "needed",
		"feel", "felt", "become", "became", "leave", "left", "put", "mean",
		"meant", "keep", "kept", "let", "begin", "began", "begun", "show",
		"showed", "shown", "hear", "heard", "play", "played", "move",
		"moved", "bring", "brought", "happen", "happened")

	t.add(lexNoun,
		"man", "woman", "child", "people", "person", "time", "year", "day",
		"way", "thing", "world", "life", "hand", "part", "place", "case",
		"week", "company", "system", "program", "question", "government",
		"number", "night", "point", "home", "water", "room", "mother",
		"father", "area", "money", "story", "fact", "month", "book", "eye",
		"word", "business", "issue", "side", "kind", "head", "house",
		"friend", "hour", "game", "line", "end", "member", "car", "city",
		"name", "team", "minute", "idea", "body", "back", "face", "door",
		"cat", "dog", "bird", "tree", "sun", "moon", "road", "river")
}
