package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadMarkdown(t *testing.T, source string, opts Options) (*MarkdownCodec, *Document) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	codec, err := NewMarkdownCodec(opts)
	require.NoError(t, err)
	doc, err := codec.Load(path)
	require.NoError(t, err)
	return codec, doc
}

func saveMarkdown(t *testing.T, codec *MarkdownCodec, doc *Document) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.md")
	require.NoError(t, codec.Save(doc, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestMarkdownLoad(t *testing.T) {
	t.Run("Heading And Paragraph", func(t *testing.T) {
		_, doc := loadMarkdown(t, "# Title\n\nThe cat runs fast.\n", Options{})
		require.Len(t, doc.Paragraphs, 2)

		h := doc.Paragraphs[0]
		assert.True(t, h.Heading)
		assert.Equal(t, 1, h.HeadingLevel)
		assert.True(t, h.Styleable)
		assert.Equal(t, "Title", h.Text())

		p := doc.Paragraphs[1]
		assert.False(t, p.Heading)
		assert.True(t, p.Styleable)
		assert.Equal(t, "The cat runs fast.", p.Text())
	})

	t.Run("Setext Heading", func(t *testing.T) {
		_, doc := loadMarkdown(t, "Title\n=====\n\nBody text here.\n", Options{})
		require.Len(t, doc.Paragraphs, 2)
		assert.True(t, doc.Paragraphs[0].Heading)
		assert.Equal(t, 1, doc.Paragraphs[0].HeadingLevel)
		assert.Equal(t, "Title", doc.Paragraphs[0].Text())
	})

	t.Run("Fence Is Unstyleable", func(t *testing.T) {
		_, doc := loadMarkdown(t, "```go\nfunc main() {}\n```\n", Options{})
		require.Len(t, doc.Paragraphs, 1)
		assert.False(t, doc.Paragraphs[0].Styleable)
	})

	t.Run("Front Matter Is Unstyleable", func(t *testing.T) {
		_, doc := loadMarkdown(t, "---\ntitle: x\n---\n\nBody.\n", Options{})
		require.Len(t, doc.Paragraphs, 2)
		assert.False(t, doc.Paragraphs[0].Styleable)
		assert.True(t, doc.Paragraphs[1].Styleable)
	})

	t.Run("Inline Markup Blocks Styling", func(t *testing.T) {
		_, doc := loadMarkdown(t, "Already has *emphasis* inline.\n", Options{})
		require.Len(t, doc.Paragraphs, 1)
		assert.False(t, doc.Paragraphs[0].Styleable)
	})

	t.Run("Escaped Marker Does Not Block Styling", func(t *testing.T) {
		_, doc := loadMarkdown(t, `A literal \* star.`+"\n", Options{})
		require.Len(t, doc.Paragraphs, 1)
		assert.True(t, doc.Paragraphs[0].Styleable)
	})

	t.Run("Lists Tables Quotes Are Raw", func(t *testing.T) {
		src := "- one\n- two\n\n> quoted\n\n| a | b |\n|---|---|\n"
		_, doc := loadMarkdown(t, src, Options{})
		for i, p := range doc.Paragraphs {
			assert.False(t, p.Styleable, "paragraph %d", i)
		}
	})
}

func TestMarkdownRoundTrip(t *testing.T) {
	sources := map[string]string{
		"Basic":             "# Title\n\nThe cat runs fast.\n",
		"Setext":            "Title\n=====\n\nBody text here.\n",
		"Fences And Blanks": "Intro line.\n\n\n```\ncode\n```\n\nOutro line.\n",
		"Front Matter":      "---\ntitle: x\n---\n\nBody.\n",
		"No Trailing NL":    "Only line",
		"Thematic Break":    "Before.\n\n---\n\nAfter.\n",
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			codec, doc := loadMarkdown(t, src, Options{})
			assert.Equal(t, src, saveMarkdown(t, codec, doc))
		})
	}
}

func TestMarkdownStyledSave(t *testing.T) {
	t.Run("Bold Run Gets Markers", func(t *testing.T) {
		codec, doc := loadMarkdown(t, "The cat runs fast.\n", Options{})
		p := doc.Paragraphs[0]
		p.Runs = []Run{
			{Text: "The "},
			{Text: "cat", Style: Style{Bold: true}},
			{Text: " runs fast."},
		}
		out := saveMarkdown(t, codec, doc)
		assert.Equal(t, "The **cat** runs fast.\n", out)
	})

	t.Run("Underline And Color Use HTML", func(t *testing.T) {
		codec, doc := loadMarkdown(t, "word\n", Options{})
		red := RGB{R: 0xFF}
		doc.Paragraphs[0].Runs = []Run{
			{Text: "word", Style: Style{Underline: true, Color: &red}},
		}
		out := saveMarkdown(t, codec, doc)
		assert.Equal(t, "<span style=\"color:#FF0000\"><u>word</u></span>\n", out)
	})

	t.Run("Styled Text Escapes Markers", func(t *testing.T) {
		codec, doc := loadMarkdown(t, "a_b\n", Options{})
		doc.Paragraphs[0].Runs = []Run{
			{Text: "a_b", Style: Style{Italic: true}},
		}
		out := saveMarkdown(t, codec, doc)
		assert.Equal(t, "*a\\_b*\n", out)
	})

	t.Run("Styled Heading Keeps Prefix", func(t *testing.T) {
		codec, doc := loadMarkdown(t, "## Results\n", Options{})
		doc.Paragraphs[0].Runs = []Run{
			{Text: "Results", Style: Style{Bold: true}},
		}
		out := saveMarkdown(t, codec, doc)
		assert.Equal(t, "## **Results**\n", out)
	})
}

func TestTextHeadingInference(t *testing.T) {
	codec, err := NewTextCodec(Options{HeadingMaxLength: 20})
	require.NoError(t, err)
	assert.Equal(t, FormatText, codec.Format())

	path := filepath.Join(t.TempDir(), "story.txt")
	src := "Chapter One\n\nIt was a dark and stormy night.\n\nThis single line is far too long to ever pass for a chapter heading\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	doc, err := codec.Load(path)
	require.NoError(t, err)
	require.Len(t, doc.Paragraphs, 3)

	assert.True(t, doc.Paragraphs[0].Heading, "short line without terminal punctuation")
	assert.False(t, doc.Paragraphs[1].Heading, "ends with a period")
	assert.False(t, doc.Paragraphs[2].Heading, "exceeds length threshold")
}
