// Package engine matches style rules against tagged document text and
// applies the resulting operations to the document model.
package engine

import (
	"fmt"
	"strings"

	"github.com/inkstone-dev/go-doc-styler/internal/document"
	"github.com/inkstone-dev/go-doc-styler/internal/tagger"
)

// RuleStyle is what a rule applies: stored run attributes plus the
// uppercase transform. Uppercase is kept separate from document.Style
// because it mutates run text irreversibly instead of toggling state.
type RuleStyle struct {
	document.Style
	Uppercase bool
}

// IsZero reports whether the rule style does nothing at all.
func (s RuleStyle) IsZero() bool {
	return s.Style.IsZero() && !s.Uppercase
}

// Rule is one declarative style instruction. Rules live in an ordered
// list; list order defines precedence (lowest index wins). The pipeline
// snapshots the list at batch start, after which it is immutable.
type Rule struct {
	ID     string
	Target tagger.POS
	Style  RuleStyle
}

// Describe renders a short human-readable form, e.g. "bold+italic nouns".
func (r Rule) Describe() string {
	var attrs []string
	if r.Style.Bold {
		attrs = append(attrs, "bold")
	}
	if r.Style.Italic {
		attrs = append(attrs, "italic")
	}
	if r.Style.Underline {
		attrs = append(attrs, "underline")
	}
	if r.Style.Strikethrough {
		attrs = append(attrs, "strikethrough")
	}
	if r.Style.Uppercase {
		attrs = append(attrs, "uppercase")
	}
	if r.Style.Color != nil {
		attrs = append(attrs, "color #"+r.Style.Color.Hex())
	}
	if len(attrs) == 0 {
		attrs = append(attrs, "no-op")
	}
	return fmt.Sprintf("%s %ss", strings.Join(attrs, "+"), r.Target)
}

// Validate rejects rules that could never do anything.
func (r Rule) Validate() error {
	if r.Target == tagger.Other {
		return fmt.Errorf("rule %s: cannot target the unclassified class", r.ID)
	}
	if r.Style.IsZero() {
		return fmt.Errorf("rule %s: no style attributes set", r.ID)
	}
	return nil
}
