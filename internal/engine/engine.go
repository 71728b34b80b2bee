package engine

import (
	"fmt"

	"github.com/inkstone-dev/go-doc-styler/internal/document"
	"github.com/inkstone-dev/go-doc-styler/internal/tagger"
	"go.uber.org/zap"
)

// Engine matches an ordered rule list against a document's tagged text and
// emits style operations. Matching is a pure function of (document text,
// heading flags, rule order, tagger output); the only side effect is a
// warning log when the tagger misbehaves.
type Engine struct {
	tagger tagger.Tagger
	logger *zap.Logger
}

// New creates an engine around a tagging backend.
func New(tg tagger.Tagger, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{tagger: tg, logger: logger}
}

// Match computes the style operations for the whole document. Unstyleable
// paragraphs are skipped. Returns ops grouped by paragraph, in paragraph
// order; within a paragraph the heading op (if any) comes first, then
// token ops in token order.
func (e *Engine) Match(doc *document.Document, rules []Rule) ([]StyleOp, error) {
	var ops []StyleOp
	for i, para := range doc.Paragraphs {
		if !para.Styleable {
			continue
		}
		paraOps, err := e.matchParagraph(i, para, rules)
		if err != nil {
			return nil, err
		}
		ops = append(ops, paraOps...)
	}
	return ops, nil
}

// matchParagraph applies heading and token matching to one paragraph.
func (e *Engine) matchParagraph(index int, para *document.Paragraph, rules []Rule) ([]StyleOp, error) {
	length := para.Len()
	if length == 0 {
		return nil, nil
	}

	var ops []StyleOp

	// A heading rule styles the full paragraph span, independent of token
	// classification. First rule in declaration order wins.
	if para.Heading {
		if rule, ok := firstRuleFor(rules, tagger.Heading); ok {
			ops = append(ops, StyleOp{Para: index, Start: 0, End: length, Style: rule.Style})
		}
	}

	if !hasTokenRules(rules) {
		return ops, nil
	}

	tokens, err := e.tagger.Tag(para.Text())
	if err != nil {
		return nil, fmt.Errorf("paragraph %d: %w", index, err)
	}

	// Token ops never overlap each other: every token yields at most one
	// op, and overlapping tokens are malformed tagger output, so the
	// later one is dropped.
	prevEnd := 0
	for _, tok := range tokens {
		if tok.Start < prevEnd {
			e.logger.Warn("tagger produced overlapping tokens, dropping the later one",
				zap.Int("paragraph", index),
				zap.Int("start", tok.Start),
				zap.Int("end", tok.End),
				zap.Int("prevEnd", prevEnd))
			continue
		}
		if tok.Start < 0 || tok.End > length || tok.Start >= tok.End {
			e.logger.Warn("tagger produced an out-of-range token, dropping it",
				zap.Int("paragraph", index),
				zap.Int("start", tok.Start),
				zap.Int("end", tok.End),
				zap.Int("length", length))
			continue
		}
		prevEnd = tok.End

		if tok.POS == tagger.Other {
			continue
		}
		if rule, ok := firstRuleFor(rules, tok.POS); ok {
			ops = append(ops, StyleOp{Para: index, Start: tok.Start, End: tok.End, Style: rule.Style})
		}
	}

	return ops, nil
}

// firstRuleFor returns the earliest-declared rule targeting pos.
func firstRuleFor(rules []Rule, pos tagger.POS) (Rule, bool) {
	for _, r := range rules {
		if r.Target == pos {
			return r, true
		}
	}
	return Rule{}, false
}

// hasTokenRules reports whether any rule needs token classification.
func hasTokenRules(rules []Rule) bool {
	for _, r := range rules {
		if r.Target != tagger.Heading {
			return true
		}
	}
	return false
}
