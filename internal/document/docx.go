package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// DocxCodec reads and writes DOCX files. It follows the minimal-surgery
// approach: the original archive is kept byte-for-byte and only the run
// content of restyled paragraphs inside word/document.xml is rebuilt, so
// sections, numbering, tables and every other part survive untouched.
type DocxCodec struct {
	logger *zap.Logger
}

// NewDocxCodec creates a DOCX codec.
func NewDocxCodec(opts Options) (*DocxCodec, error) {
	return &DocxCodec{logger: opts.logger()}, nil
}

// Format returns FormatDOCX.
func (c *DocxCodec) Format() Format {
	return FormatDOCX
}

// docxMeta is the document-level state needed to serialize again.
type docxMeta struct {
	archive []byte      // original file
	docXML  string      // original word/document.xml
	chunks  []docxChunk // paragraph element byte ranges, in document order
}

// docxChunk is one <w:p> element inside document.xml.
type docxChunk struct {
	start, end int
}

// docxParaMeta is per-paragraph codec state.
type docxParaMeta struct {
	openTag  string // "<w:p>" or "<w:p w14:paraId=...>"
	propsXML string // "<w:pPr>...</w:pPr>" or ""
}

// docxRunMeta is per-run codec state.
type docxRunMeta struct {
	kind string // "text", "tab" or "break"
	// props is the original rPr inner XML with the style elements the model
	// manages (b, i, u, strike, color) stripped out.
	props string
}

const (
	docxRunText  = "text"
	docxRunTab   = "tab"
	docxRunBreak = "break"
)

// Load reads a DOCX file into the document model.
func (c *DocxCodec) Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	docXML, err := readDocumentXML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	chunks := findParagraphChunks(docXML)

	doc := &Document{
		Format: FormatDOCX,
		Path:   path,
		Meta: &docxMeta{
			archive: data,
			docXML:  docXML,
			chunks:  chunks,
		},
	}

	for _, ch := range chunks {
		para, err := c.parseParagraph(docXML[ch.start:ch.end])
		if err != nil {
			return nil, fmt.Errorf("failed to parse paragraph in %s: %w", path, err)
		}
		doc.Paragraphs = append(doc.Paragraphs, para)
	}

	c.logger.Debug("loaded docx",
		zap.String("path", path),
		zap.Int("paragraphs", len(doc.Paragraphs)))

	return doc, nil
}

// Save serializes the document, replacing word/document.xml inside a copy
// of the original archive.
func (c *DocxCodec) Save(doc *Document, path string) error {
	meta, ok := doc.Meta.(*docxMeta)
	if !ok {
		return fmt.Errorf("document was not loaded by the docx codec")
	}
	if len(doc.Paragraphs) != len(meta.chunks) {
		return fmt.Errorf("paragraph count changed: %d model vs %d source", len(doc.Paragraphs), len(meta.chunks))
	}

	var out strings.Builder
	cursor := 0
	for i, ch := range meta.chunks {
		out.WriteString(meta.docXML[cursor:ch.start])
		para := doc.Paragraphs[i]
		if para.Styleable {
			writeDocxParagraph(&out, para)
		} else {
			out.WriteString(meta.docXML[ch.start:ch.end])
		}
		cursor = ch.end
	}
	out.WriteString(meta.docXML[cursor:])

	data, err := replaceDocumentXML(meta.archive, out.String())
	if err != nil {
		return fmt.Errorf("failed to rebuild archive: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	c.logger.Debug("saved docx", zap.String("path", path))
	return nil
}

// readDocumentXML extracts word/document.xml from the archive bytes.
func readDocumentXML(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("not a zip archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return "", fmt.Errorf("word/document.xml not found")
}

// replaceDocumentXML copies every archive entry and substitutes the new
// document.xml.
func replaceDocumentXML(archive []byte, docXML string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		w, err := zw.Create(f.Name)
		if err != nil {
			return nil, err
		}
		if f.Name == "word/document.xml" {
			if _, err := io.WriteString(w, docXML); err != nil {
				return nil, err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(w, rc); err != nil {
			rc.Close()
			return nil, err
		}
		rc.Close()
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// findParagraphChunks locates every top-level <w:p> element. Paragraphs do
// not nest in WordprocessingML, so scanning for matching close tags is safe;
// "<w:pPr>" and friends are excluded by checking the character after the
// open tag prefix.
func findParagraphChunks(docXML string) []docxChunk {
	var chunks []docxChunk
	pos := 0
	for {
		idx := strings.Index(docXML[pos:], "<w:p")
		if idx < 0 {
			break
		}
		start := pos + idx
		after := start + len("<w:p")
		if after >= len(docXML) {
			break
		}
		switch docXML[after] {
		case '>', '/', ' ', '\t', '\n', '\r':
			// real paragraph open tag
		default:
			pos = after
			continue
		}
		gt := strings.Index(docXML[after:], ">")
		if gt < 0 {
			return chunks
		}
		tagEnd := after + gt + 1
		if docXML[tagEnd-2] == '/' {
			// self-closing empty paragraph, "<w:p/>" or "<w:p w:rsidR=.../>"
			chunks = append(chunks, docxChunk{start: start, end: tagEnd})
			pos = tagEnd
			continue
		}
		closeIdx := strings.Index(docXML[tagEnd:], "</w:p>")
		if closeIdx < 0 {
			break
		}
		end := tagEnd + closeIdx + len("</w:p>")
		chunks = append(chunks, docxChunk{start: start, end: end})
		pos = end
	}
	return chunks
}

var (
	docxStyleIDRe  = regexp.MustCompile(`<w:pStyle[^>]*w:val="([^"]*)"`)
	docxHeadingRe  = regexp.MustCompile(`^(?:[Hh]eading|Title)\s*([0-9]*)$`)
	docxColorRe    = regexp.MustCompile(`<w:color[^>]*w:val="([0-9A-Fa-f]{6})"`)
	docxBoldRe     = regexp.MustCompile(`<w:b(?:\s+[^>]*)?/>`)
	docxItalicRe   = regexp.MustCompile(`<w:i(?:\s+[^>]*)?/>`)
	docxStrikeRe   = regexp.MustCompile(`<w:strike(?:\s+[^>]*)?/>`)
	docxUnderRe    = regexp.MustCompile(`<w:u(?:\s+[^>]*)?/>`)
	docxValOffRe   = regexp.MustCompile(`w:val="(?:0|false|none)"`)
	// Elements the model manages; stripped from preserved run properties.
	// Paired (non self-closing) forms of these toggle elements are not
	// produced by Word and are not handled.
	docxManagedRe  = regexp.MustCompile(`<w:(?:b|bCs|i|iCs|u|strike|color)(?:\s+[^>]*)?/>`)
)

// parseParagraph converts one <w:p> fragment into a model paragraph. A
// paragraph whose children the codec cannot faithfully rebuild (hyperlinks,
// fields, drawings, mixed-content runs) loads as unstyleable and is copied
// through verbatim on save.
func (c *DocxCodec) parseParagraph(chunk string) (*Paragraph, error) {
	para := &Paragraph{Styleable: true}

	gt := strings.Index(chunk, ">")
	if gt < 0 {
		return nil, fmt.Errorf("malformed paragraph fragment")
	}
	openTag := chunk[:gt+1]
	if strings.HasSuffix(openTag, "/>") {
		// empty paragraph
		para.Meta = &docxParaMeta{openTag: strings.TrimSuffix(openTag, "/>") + ">"}
		return para, nil
	}

	propsXML := ""
	if i := strings.Index(chunk, "<w:pPr"); i >= 0 {
		if j := strings.Index(chunk, "</w:pPr>"); j >= 0 {
			propsXML = chunk[i : j+len("</w:pPr>")]
		} else if j := strings.Index(chunk[i:], "/>"); j >= 0 {
			propsXML = chunk[i : i+j+2]
		}
	}

	if m := docxStyleIDRe.FindStringSubmatch(propsXML); m != nil {
		if h := docxHeadingRe.FindStringSubmatch(m[1]); h != nil {
			para.Heading = true
			para.HeadingLevel = 1
			if h[1] != "" {
				fmt.Sscanf(h[1], "%d", &para.HeadingLevel)
			}
		}
	}

	para.Meta = &docxParaMeta{openTag: openTag, propsXML: propsXML}

	children, err := topLevelChildren(chunk)
	if err != nil {
		return nil, err
	}
	for _, name := range children {
		switch name {
		case "pPr", "r", "proofErr", "bookmarkStart", "bookmarkEnd":
		default:
			para.Styleable = false
		}
	}

	var parsed docxParagraphXML
	if err := unmarshalFragment(chunk, &parsed); err != nil {
		return nil, err
	}

	for _, run := range parsed.Runs {
		if len(run.Drawings)+len(run.Objects)+len(run.Pictures) > 0 {
			para.Styleable = false
			continue
		}
		content := 0
		if run.Text != nil {
			content++
		}
		content += len(run.Tabs) + len(run.Breaks)
		if content > 1 {
			// mixed t/tab/br children; ordering would be lost on rebuild
			para.Styleable = false
			continue
		}

		props := ""
		if run.Properties != nil {
			props = run.Properties.Inner
		}
		style := parseRunStyle(props)
		kept := docxManagedRe.ReplaceAllString(props, "")

		switch {
		case run.Text != nil && run.Text.Text != "":
			para.Runs = append(para.Runs, Run{
				Text:  run.Text.Text,
				Style: style,
				Meta:  &docxRunMeta{kind: docxRunText, props: kept},
			})
		case len(run.Tabs) == 1:
			para.Runs = append(para.Runs, Run{
				Text:  "\t",
				Style: style,
				Meta:  &docxRunMeta{kind: docxRunTab, props: kept},
			})
		case len(run.Breaks) == 1:
			para.Runs = append(para.Runs, Run{
				Text:  "\n",
				Style: style,
				Meta:  &docxRunMeta{kind: docxRunBreak, props: kept},
			})
		}
	}

	return para, nil
}

// parseRunStyle reads the managed style attributes out of rPr inner XML.
func parseRunStyle(props string) Style {
	var s Style
	if m := docxBoldRe.FindString(props); m != "" && !docxValOffRe.MatchString(m) {
		s.Bold = true
	}
	if m := docxItalicRe.FindString(props); m != "" && !docxValOffRe.MatchString(m) {
		s.Italic = true
	}
	if m := docxStrikeRe.FindString(props); m != "" && !docxValOffRe.MatchString(m) {
		s.Strikethrough = true
	}
	if m := docxUnderRe.FindString(props); m != "" && !docxValOffRe.MatchString(m) {
		s.Underline = true
	}
	if m := docxColorRe.FindStringSubmatch(props); m != nil {
		if c, err := ParseRGB(m[1]); err == nil {
			s.Color = &c
		}
	}
	return s
}

// unmarshalFragment decodes a w:-prefixed fragment by wrapping it in an
// element that declares the namespace.
func unmarshalFragment(chunk string, parsed *docxParagraphXML) error {
	wrapped := `<wrap xmlns:w="` + wordprocessingMLNamespace + `">` + chunk + `</wrap>`
	var frag struct {
		XMLName   xml.Name         `xml:"wrap"`
		Paragraph docxParagraphXML `xml:"p"`
	}
	if err := xml.Unmarshal([]byte(wrapped), &frag); err != nil {
		return err
	}
	*parsed = frag.Paragraph
	return nil
}

// topLevelChildren lists the local names of an element's direct children.
func topLevelChildren(chunk string) ([]string, error) {
	wrapped := `<wrap xmlns:w="` + wordprocessingMLNamespace + `">` + chunk + `</wrap>`
	dec := xml.NewDecoder(strings.NewReader(wrapped))

	var names []string
	depth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			// depth 0 = wrap, 1 = the paragraph, 2 = its children
			if depth == 2 {
				names = append(names, t.Name.Local)
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return names, nil
}

// writeDocxParagraph renders a model paragraph back to WordprocessingML.
func writeDocxParagraph(out *strings.Builder, para *Paragraph) {
	meta, _ := para.Meta.(*docxParaMeta)
	if meta == nil {
		meta = &docxParaMeta{openTag: "<w:p>"}
	}
	out.WriteString(meta.openTag)
	out.WriteString(meta.propsXML)
	for _, run := range para.Runs {
		writeDocxRun(out, run)
	}
	out.WriteString("</w:p>")
}

func writeDocxRun(out *strings.Builder, run Run) {
	meta, _ := run.Meta.(*docxRunMeta)
	if meta == nil {
		meta = &docxRunMeta{kind: docxRunText}
	}

	out.WriteString("<w:r>")
	if props := buildRunProps(meta.props, run.Style); props != "" {
		out.WriteString("<w:rPr>")
		out.WriteString(props)
		out.WriteString("</w:rPr>")
	}
	switch meta.kind {
	case docxRunTab:
		for range run.Text {
			out.WriteString("<w:tab/>")
		}
	case docxRunBreak:
		for range run.Text {
			out.WriteString("<w:br/>")
		}
	default:
		out.WriteString(`<w:t xml:space="preserve">`)
		xml.EscapeText(out, []byte(run.Text))
		out.WriteString("</w:t>")
	}
	out.WriteString("</w:r>")
}

// buildRunProps combines preserved properties with the managed style
// elements.
func buildRunProps(kept string, style Style) string {
	var b strings.Builder
	b.WriteString(kept)
	if style.Bold {
		b.WriteString("<w:b/>")
	}
	if style.Italic {
		b.WriteString("<w:i/>")
	}
	if style.Strikethrough {
		b.WriteString("<w:strike/>")
	}
	if style.Underline {
		b.WriteString(`<w:u w:val="single"/>`)
	}
	if style.Color != nil {
		b.WriteString(`<w:color w:val="` + style.Color.Hex() + `"/>`)
	}
	return b.String()
}
