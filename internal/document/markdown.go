package document

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"go.uber.org/zap"
)

// MarkdownCodec reads and writes markdown and plain-text files. Blocks the
// styler cannot safely rebuild (code fences, front matter, lists, tables,
// paragraphs that already carry inline markup) load as unstyleable and are
// written back verbatim.
type MarkdownCodec struct {
	format           Format
	inferHeadings    bool
	headingMaxLength int
	logger           *zap.Logger
}

// NewMarkdownCodec creates a markdown codec.
func NewMarkdownCodec(opts Options) (*MarkdownCodec, error) {
	c := &MarkdownCodec{
		format:           FormatMarkdown,
		inferHeadings:    opts.InferHeadings,
		headingMaxLength: opts.HeadingMaxLength,
		logger:           opts.logger(),
	}
	if c.inferHeadings {
		c.format = FormatText
	}
	if c.headingMaxLength <= 0 {
		c.headingMaxLength = DefaultHeadingMaxLength
	}
	return c, nil
}

// Format returns FormatMarkdown, or FormatText when heading inference is on.
func (c *MarkdownCodec) Format() Format {
	return c.format
}

// mdParaMeta is per-paragraph codec state.
type mdParaMeta struct {
	prefix string // heading marker, e.g. "## "
	sep    string // newlines separating this block from the next
	text   string // paragraph text as loaded, for untouched detection
}

var (
	mdATXHeadingRe  = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*\s*$`)
	mdSetextRe      = regexp.MustCompile(`^(=+|-+)\s*$`)
	mdThematicRe    = regexp.MustCompile(`^\s{0,3}((\*\s*){3,}|(-\s*){3,}|(_\s*){3,})$`)
	mdFenceRe       = regexp.MustCompile("^\\s{0,3}(```|~~~)")
	mdListItemRe    = regexp.MustCompile(`^\s{0,3}(?:[-*+]|\d{1,9}[.)])\s+`)
	mdBlockQuoteRe  = regexp.MustCompile(`^\s{0,3}>`)
	mdTableRowRe    = regexp.MustCompile(`^\s{0,3}\|`)
	mdIndentCodeRe  = regexp.MustCompile(`^(?: {4}|\t)`)
	mdHTMLBlockRe   = regexp.MustCompile(`^\s{0,3}<`)
	mdTerminalPunct = ".!?:;,"
)

// mdInlineMarkupRe detects emphasis, code spans, links, strikethrough and
// inline HTML. Lookbehind keeps escaped markers from counting, which is why
// this one is regexp2 instead of the standard library.
var mdInlineMarkupRe = regexp2.MustCompile("(?<!\\\\)(\\*|_|`|~~|!?\\[[^\\]]*\\]\\(|</?[A-Za-z])", 0)

func hasInlineMarkup(text string) bool {
	ok, err := mdInlineMarkupRe.MatchString(text)
	return err == nil && ok
}

// Load reads a markdown or plain-text file into the document model.
func (c *MarkdownCodec) Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc := &Document{
		Format: c.format,
		Path:   path,
	}
	doc.Paragraphs = c.parseBlocks(strings.ReplaceAll(string(data), "\r\n", "\n"))

	c.logger.Debug("loaded markdown",
		zap.String("path", path),
		zap.Int("paragraphs", len(doc.Paragraphs)))

	return doc, nil
}

// parseBlocks splits source text into blank-line separated blocks, the way
// markdown block structure works at the level the styler needs.
func (c *MarkdownCodec) parseBlocks(text string) []*Paragraph {
	lines := strings.Split(text, "\n")
	trailingNewline := strings.HasSuffix(text, "\n")
	if trailingNewline {
		lines = lines[:len(lines)-1]
	}

	var paras []*Paragraph
	i := 0

	// YAML front matter only counts at the very top of the file.
	if len(lines) > 0 && strings.TrimRight(lines[0], " ") == "---" {
		for j := 1; j < len(lines); j++ {
			t := strings.TrimRight(lines[j], " ")
			if t == "---" || t == "..." {
				paras = append(paras, rawParagraph(strings.Join(lines[:j+1], "\n")))
				i = j + 1
				break
			}
		}
	}

	for i < len(lines) {
		if lines[i] == "" {
			// leading blank lines attach to the previous block's separator
			if len(paras) > 0 {
				meta := paras[len(paras)-1].Meta.(*mdParaMeta)
				meta.sep += "\n"
			} else {
				paras = append(paras, rawParagraph(""))
			}
			i++
			continue
		}

		start := i
		var para *Paragraph
		switch {
		case mdFenceRe.MatchString(lines[i]):
			fence := mdFenceRe.FindStringSubmatch(lines[i])[1]
			i++
			for i < len(lines) && !strings.HasPrefix(strings.TrimLeft(lines[i], " "), fence) {
				i++
			}
			if i < len(lines) {
				i++ // closing fence
			}
			para = rawParagraph(strings.Join(lines[start:i], "\n"))

		case mdATXHeadingRe.MatchString(lines[i]):
			m := mdATXHeadingRe.FindStringSubmatch(lines[i])
			para = c.headingParagraph(m[2], len(m[1]), strings.Repeat("#", len(m[1]))+" ")
			i++

		case mdThematicRe.MatchString(lines[i]),
			mdListItemRe.MatchString(lines[i]),
			mdBlockQuoteRe.MatchString(lines[i]),
			mdTableRowRe.MatchString(lines[i]),
			mdIndentCodeRe.MatchString(lines[i]),
			c.format == FormatMarkdown && mdHTMLBlockRe.MatchString(lines[i]):
			for i < len(lines) && lines[i] != "" {
				i++
			}
			para = rawParagraph(strings.Join(lines[start:i], "\n"))

		default:
			for i < len(lines) && lines[i] != "" && !mdFenceRe.MatchString(lines[i]) &&
				!mdATXHeadingRe.MatchString(lines[i]) && !mdSetextRe.MatchString(lines[i]) {
				i++
			}
			if i == start {
				i++ // a lone marker line is its own block
			}
			// setext underline promotes the block to a heading
			if i < len(lines) && i > start && mdSetextRe.MatchString(lines[i]) {
				level := 1
				if strings.HasPrefix(lines[i], "-") {
					level = 2
				}
				body := strings.Join(lines[start:i], "\n")
				raw := body + "\n" + lines[i]
				i++
				para = c.headingParagraph(body, level, strings.Repeat("#", level)+" ")
				para.Raw = raw
				break
			}
			para = c.textParagraph(strings.Join(lines[start:i], "\n"))
		}

		paras = append(paras, para)
	}

	// separators: one newline ends each block, the last one only when the
	// file had a trailing newline
	for idx, p := range paras {
		meta := p.Meta.(*mdParaMeta)
		if idx == len(paras)-1 {
			if !trailingNewline {
				continue
			}
			meta.sep = "\n" + meta.sep
		} else {
			meta.sep = "\n" + meta.sep
		}
	}

	return paras
}

func rawParagraph(raw string) *Paragraph {
	return &Paragraph{
		Styleable: false,
		Raw:       raw,
		Meta:      &mdParaMeta{},
	}
}

func (c *MarkdownCodec) headingParagraph(text string, level int, prefix string) *Paragraph {
	p := &Paragraph{
		Heading:      true,
		HeadingLevel: level,
		Styleable:    true,
		Raw:          prefix + text,
		Meta:         &mdParaMeta{prefix: prefix, text: text},
	}
	if text != "" {
		p.Runs = []Run{{Text: text}}
	}
	if hasInlineMarkup(text) {
		p.Styleable = false
	}
	return p
}

func (c *MarkdownCodec) textParagraph(text string) *Paragraph {
	p := &Paragraph{
		Styleable: true,
		Raw:       text,
		Meta:      &mdParaMeta{text: text},
	}
	if text != "" {
		p.Runs = []Run{{Text: text}}
	}
	if c.format == FormatMarkdown && hasInlineMarkup(text) {
		p.Styleable = false
	}
	if c.inferHeadings && c.isInferredHeading(text) {
		p.Heading = true
		p.HeadingLevel = 1
	}
	return p
}

// isInferredHeading applies the plain-text heuristic: a single short line
// without terminal sentence punctuation. Best effort; false positives are
// expected on fragments like list-style lines.
func (c *MarkdownCodec) isInferredHeading(text string) bool {
	if text == "" || strings.Contains(text, "\n") {
		return false
	}
	if utf8.RuneCountInString(text) > c.headingMaxLength {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(text)
	return !strings.ContainsRune(mdTerminalPunct, last)
}

// Save serializes the document. Untouched paragraphs re-emit their original
// source; styled paragraphs are rebuilt run by run.
func (c *MarkdownCodec) Save(doc *Document, path string) error {
	var out strings.Builder
	for _, para := range doc.Paragraphs {
		meta, _ := para.Meta.(*mdParaMeta)
		if meta == nil {
			meta = &mdParaMeta{}
		}
		if c.isUntouched(para) {
			out.WriteString(para.Raw)
		} else {
			out.WriteString(meta.prefix)
			for _, run := range para.Runs {
				out.WriteString(renderMarkdownRun(run))
			}
		}
		out.WriteString(meta.sep)
	}

	if err := os.WriteFile(path, []byte(out.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	c.logger.Debug("saved markdown", zap.String("path", path))
	return nil
}

// isUntouched reports whether the paragraph still matches what was loaded.
func (c *MarkdownCodec) isUntouched(para *Paragraph) bool {
	if !para.Styleable || len(para.Runs) == 0 {
		return true
	}
	meta, ok := para.Meta.(*mdParaMeta)
	if !ok {
		return false
	}
	return len(para.Runs) == 1 && para.Runs[0].Style.IsZero() && para.Runs[0].Text == meta.text
}

var mdEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `_`, `\_`, `~`, `\~`)

// renderMarkdownRun wraps a run's text in the markers its style calls for.
// Underline and color have no markdown syntax and fall back to inline HTML.
func renderMarkdownRun(run Run) string {
	text := run.Text
	if !run.Style.IsZero() {
		text = mdEscaper.Replace(text)
	}
	if run.Style.Bold {
		text = "**" + text + "**"
	}
	if run.Style.Italic {
		text = "*" + text + "*"
	}
	if run.Style.Strikethrough {
		text = "~~" + text + "~~"
	}
	if run.Style.Underline {
		text = "<u>" + text + "</u>"
	}
	if run.Style.Color != nil {
		text = `<span style="color:#` + run.Style.Color.Hex() + `">` + text + `</span>`
	}
	return text
}

// NewTextCodec creates the plain-text variant: same block handling with
// heading inference enabled.
func NewTextCodec(opts Options) (*MarkdownCodec, error) {
	opts.InferHeadings = true
	return NewMarkdownCodec(opts)
}
