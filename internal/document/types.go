package document

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"
)

// Format identifies a supported document format.
type Format string

const (
	FormatDOCX     Format = "docx"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatUnknown  Format = "unknown"
)

// RGB is a 24-bit color as stored in run properties.
type RGB struct {
	R, G, B uint8
}

// Hex renders the color as an uppercase RRGGBB string.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// ParseRGB parses "RRGGBB" or "#RRGGBB".
func ParseRGB(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid color %q: want RRGGBB", s)
	}
	var c RGB
	if _, err := fmt.Sscanf(strings.ToLower(s), "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// Style holds the toggleable presentation attributes of a run. Uppercase is
// deliberately absent: it is a one-way text transform applied at mutation
// time, not stored run state.
type Style struct {
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Color         *RGB
}

// Equal reports whether two styles are attribute-for-attribute identical.
func (s Style) Equal(o Style) bool {
	if s.Bold != o.Bold || s.Italic != o.Italic || s.Underline != o.Underline || s.Strikethrough != o.Strikethrough {
		return false
	}
	if (s.Color == nil) != (o.Color == nil) {
		return false
	}
	return s.Color == nil || *s.Color == *o.Color
}

// IsZero reports whether the style carries no attributes at all.
func (s Style) IsZero() bool {
	return s.Equal(Style{})
}

// Merge returns the union of s and o: boolean attributes OR together and
// o's color, when set, replaces the current one (last-applied-wins).
func (s Style) Merge(o Style) Style {
	out := Style{
		Bold:          s.Bold || o.Bold,
		Italic:        s.Italic || o.Italic,
		Underline:     s.Underline || o.Underline,
		Strikethrough: s.Strikethrough || o.Strikethrough,
		Color:         s.Color,
	}
	if o.Color != nil {
		c := *o.Color
		out.Color = &c
	}
	return out
}

// Run is a contiguous span of paragraph text sharing one style. Meta is
// codec-owned state (for DOCX, the original run properties that the model
// does not represent) and is carried through splits and merges.
type Run struct {
	Text  string
	Style Style
	Meta  any
}

// Len returns the run text length in runes.
func (r Run) Len() int {
	return utf8.RuneCountInString(r.Text)
}

// Paragraph is an ordered sequence of runs whose concatenated text equals
// the paragraph text with no gaps or overlaps. Styleable is false for
// content the engine must not touch (code fences, front matter, paragraphs
// whose structure the codec cannot safely rebuild); such paragraphs round-
// trip through Raw or Meta verbatim.
type Paragraph struct {
	Runs         []Run
	Heading      bool
	HeadingLevel int
	Styleable    bool

	// Raw holds the verbatim source block for paragraphs the markdown
	// codec re-emits untouched.
	Raw string

	// Meta is codec-owned paragraph state.
	Meta any
}

// Text returns the concatenation of all run texts.
func (p *Paragraph) Text() string {
	if len(p.Runs) == 1 {
		return p.Runs[0].Text
	}
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Len returns the paragraph text length in runes.
func (p *Paragraph) Len() int {
	n := 0
	for _, r := range p.Runs {
		n += r.Len()
	}
	return n
}

// Document is an ordered sequence of paragraphs. It is owned exclusively by
// the worker mutating it; Meta is codec-owned state needed to serialize the
// document back out.
type Document struct {
	Format     Format
	Path       string
	Paragraphs []*Paragraph
	Meta       any
}

// Validate checks the paragraph invariant: no run has empty text unless the
// paragraph itself is empty.
func (d *Document) Validate() error {
	for i, p := range d.Paragraphs {
		if len(p.Runs) == 1 && p.Runs[0].Text == "" {
			continue // empty paragraph
		}
		for j, r := range p.Runs {
			if r.Text == "" {
				return fmt.Errorf("paragraph %d: run %d has empty text", i, j)
			}
		}
	}
	return nil
}

// MergeAdjacentRuns collapses neighboring runs with identical style and
// identical codec metadata, restoring a minimal run sequence.
func (p *Paragraph) MergeAdjacentRuns() {
	if len(p.Runs) < 2 {
		return
	}
	merged := p.Runs[:1]
	for _, r := range p.Runs[1:] {
		last := &merged[len(merged)-1]
		if last.Style.Equal(r.Style) && reflect.DeepEqual(last.Meta, r.Meta) {
			last.Text += r.Text
			continue
		}
		merged = append(merged, r)
	}
	p.Runs = merged
}
