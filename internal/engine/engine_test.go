package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkstone-dev/go-doc-styler/internal/document"
	"github.com/inkstone-dev/go-doc-styler/internal/tagger"
)

// stubTagger returns a fixed token sequence for any text.
type stubTagger struct {
	tokens []tagger.Token
	err    error
}

func (s *stubTagger) Tag(text string) ([]tagger.Token, error) {
	return s.tokens, s.err
}

func textDoc(paras ...*document.Paragraph) *document.Document {
	return &document.Document{Format: document.FormatMarkdown, Paragraphs: paras}
}

func plainPara(text string) *document.Paragraph {
	return &document.Paragraph{Styleable: true, Runs: []document.Run{{Text: text}}}
}

func boldRule(target tagger.POS) Rule {
	return Rule{ID: "bold", Target: target, Style: RuleStyle{Style: document.Style{Bold: true}}}
}

func TestEngineMatch(t *testing.T) {
	t.Run("Token Rules Produce Ops", func(t *testing.T) {
		// "The cat runs fast."
		tg := &stubTagger{tokens: []tagger.Token{
			{Start: 0, End: 3, POS: tagger.Other},
			{Start: 4, End: 7, POS: tagger.Noun},
			{Start: 8, End: 12, POS: tagger.Verb},
			{Start: 13, End: 17, POS: tagger.Adverb},
			{Start: 17, End: 18, POS: tagger.Other},
		}}
		eng := New(tg, nil)

		rules := []Rule{boldRule(tagger.Verb), {
			ID:     "ital",
			Target: tagger.Noun,
			Style:  RuleStyle{Style: document.Style{Italic: true}},
		}}
		ops, err := eng.Match(textDoc(plainPara("The cat runs fast.")), rules)
		require.NoError(t, err)
		require.Len(t, ops, 2)

		assert.Equal(t, StyleOp{Para: 0, Start: 4, End: 7, Style: rules[1].Style}, ops[0])
		assert.Equal(t, StyleOp{Para: 0, Start: 8, End: 12, Style: rules[0].Style}, ops[1])
	})

	t.Run("First Matching Rule Wins", func(t *testing.T) {
		tg := &stubTagger{tokens: []tagger.Token{{Start: 0, End: 3, POS: tagger.Verb}}}
		eng := New(tg, nil)

		first := boldRule(tagger.Verb)
		second := Rule{ID: "late", Target: tagger.Verb, Style: RuleStyle{Style: document.Style{Italic: true}}}
		ops, err := eng.Match(textDoc(plainPara("run")), []Rule{first, second})
		require.NoError(t, err)
		require.Len(t, ops, 1)
		assert.True(t, ops[0].Style.Bold)
		assert.False(t, ops[0].Style.Italic)
	})

	t.Run("Heading Rule Styles Full Span", func(t *testing.T) {
		eng := New(&stubTagger{}, nil)
		para := plainPara("Chapter One")
		para.Heading = true

		ops, err := eng.Match(textDoc(para), []Rule{boldRule(tagger.Heading)})
		require.NoError(t, err)
		require.Len(t, ops, 1)
		assert.Equal(t, 0, ops[0].Start)
		assert.Equal(t, para.Len(), ops[0].End)
	})

	t.Run("Heading Rule Ignores Body Paragraphs", func(t *testing.T) {
		eng := New(&stubTagger{}, nil)
		ops, err := eng.Match(textDoc(plainPara("Just a sentence.")), []Rule{boldRule(tagger.Heading)})
		require.NoError(t, err)
		assert.Empty(t, ops)
	})

	t.Run("Heading-Only Rules Skip Tagging", func(t *testing.T) {
		tg := &stubTagger{err: errors.New("backend down")}
		eng := New(tg, nil)
		para := plainPara("Title")
		para.Heading = true

		ops, err := eng.Match(textDoc(para), []Rule{boldRule(tagger.Heading)})
		require.NoError(t, err, "no token rule means the tagger is never consulted")
		assert.Len(t, ops, 1)
	})

	t.Run("Unstyleable Paragraph Skipped", func(t *testing.T) {
		tg := &stubTagger{tokens: []tagger.Token{{Start: 0, End: 4, POS: tagger.Verb}}}
		eng := New(tg, nil)
		para := &document.Paragraph{Styleable: false, Runs: []document.Run{{Text: "code"}}}

		ops, err := eng.Match(textDoc(para), []Rule{boldRule(tagger.Verb)})
		require.NoError(t, err)
		assert.Empty(t, ops)
	})

	t.Run("Overlapping Token Dropped", func(t *testing.T) {
		tg := &stubTagger{tokens: []tagger.Token{
			{Start: 0, End: 5, POS: tagger.Verb},
			{Start: 3, End: 8, POS: tagger.Verb}, // malformed: overlaps previous
			{Start: 9, End: 12, POS: tagger.Verb},
		}}
		eng := New(tg, nil)

		ops, err := eng.Match(textDoc(plainPara("abcdefgh abc")), []Rule{boldRule(tagger.Verb)})
		require.NoError(t, err)
		require.Len(t, ops, 2)
		assert.Equal(t, 0, ops[0].Start)
		assert.Equal(t, 9, ops[1].Start)
	})

	t.Run("Out Of Range Token Dropped", func(t *testing.T) {
		tg := &stubTagger{tokens: []tagger.Token{
			{Start: 0, End: 3, POS: tagger.Verb},
			{Start: 3, End: 99, POS: tagger.Verb},
		}}
		eng := New(tg, nil)

		ops, err := eng.Match(textDoc(plainPara("run")), []Rule{boldRule(tagger.Verb)})
		require.NoError(t, err)
		require.Len(t, ops, 1)
	})

	t.Run("Tagger Error Propagates", func(t *testing.T) {
		tg := &stubTagger{err: tagger.ErrTaggingUnavailable}
		eng := New(tg, nil)

		_, err := eng.Match(textDoc(plainPara("text")), []Rule{boldRule(tagger.Verb)})
		require.Error(t, err)
		assert.True(t, errors.Is(err, tagger.ErrTaggingUnavailable))
	})

	t.Run("Empty Paragraph Yields Nothing", func(t *testing.T) {
		eng := New(&stubTagger{}, nil)
		para := &document.Paragraph{Styleable: true}
		ops, err := eng.Match(textDoc(para), []Rule{boldRule(tagger.Verb)})
		require.NoError(t, err)
		assert.Empty(t, ops)
	})
}

func TestRuleValidate(t *testing.T) {
	t.Run("No-Op Style Rejected", func(t *testing.T) {
		r := Rule{ID: "empty", Target: tagger.Verb}
		assert.Error(t, r.Validate())
	})

	t.Run("Other Target Rejected", func(t *testing.T) {
		r := Rule{ID: "bad", Target: tagger.Other, Style: RuleStyle{Uppercase: true}}
		assert.Error(t, r.Validate())
	})

	t.Run("Uppercase Alone Is Enough", func(t *testing.T) {
		r := Rule{ID: "up", Target: tagger.Noun, Style: RuleStyle{Uppercase: true}}
		assert.NoError(t, r.Validate())
	})
}

func TestRuleDescribe(t *testing.T) {
	red := document.RGB{R: 0xFF}
	r := Rule{Target: tagger.Noun, Style: RuleStyle{
		Style:     document.Style{Bold: true, Color: &red},
		Uppercase: true,
	}}
	desc := r.Describe()
	assert.Contains(t, desc, "bold")
	assert.Contains(t, desc, "uppercase")
	assert.Contains(t, desc, "FF0000")
	assert.Contains(t, desc, "noun")
}
