package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkstone-dev/go-doc-styler/internal/document"
	"github.com/inkstone-dev/go-doc-styler/internal/engine"
	"github.com/inkstone-dev/go-doc-styler/internal/tagger"
)

func previewDoc(t *testing.T, source string, rules []engine.Rule) *goquery.Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	html, err := RenderPreview(path, rules, document.Options{})
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestRenderPreview(t *testing.T) {
	boldVerbs := engine.Rule{
		ID:     "bold-verbs",
		Target: tagger.Verb,
		Style:  engine.RuleStyle{Style: document.Style{Bold: true}},
	}
	colorHeadings := engine.Rule{
		ID:     "color-headings",
		Target: tagger.Heading,
		Style:  engine.RuleStyle{Style: document.Style{Color: &document.RGB{R: 0x33, G: 0x66, B: 0xCC}}},
	}

	t.Run("Bold Verb Shows As Strong", func(t *testing.T) {
		doc := previewDoc(t, "The cat runs fast.\n", []engine.Rule{boldVerbs})
		strong := doc.Find("p strong")
		require.Equal(t, 1, strong.Length())
		assert.Equal(t, "runs", strong.Text())
	})

	t.Run("Heading Color Shows As Span", func(t *testing.T) {
		doc := previewDoc(t, "# Results\n\nBody text.\n", []engine.Rule{colorHeadings})
		span := doc.Find("h1 span")
		require.Equal(t, 1, span.Length())
		assert.Equal(t, "Results", span.Text())
		style, _ := span.Attr("style")
		assert.Contains(t, style, "#3366CC")
	})

	t.Run("Front Matter Not Rendered As Body", func(t *testing.T) {
		doc := previewDoc(t, "---\ntitle: secret\n---\n\nThe cat runs fast.\n", []engine.Rule{boldVerbs})
		assert.NotContains(t, doc.Find("body").Text(), "secret")
		assert.Equal(t, 1, doc.Find("p strong").Length())
	})

	t.Run("Code Fences Untouched", func(t *testing.T) {
		doc := previewDoc(t, "```\nrun jump swim\n```\n", []engine.Rule{boldVerbs})
		assert.Equal(t, 0, doc.Find("pre strong").Length())
		assert.Contains(t, doc.Find("pre").Text(), "run jump swim")
	})

	t.Run("Docx Rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doc.docx")
		require.NoError(t, os.WriteFile(path, []byte("not a real docx"), 0o644))
		_, err := RenderPreview(path, []engine.Rule{boldVerbs}, document.Options{})
		assert.Error(t, err)
	})
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "short.md", truncateName("short.md"))
	long := strings.Repeat("a", 40) + ".md"
	got := truncateName(long)
	assert.LessOrEqual(t, len([]rune(got)), progressNameWidth)
	assert.True(t, strings.HasSuffix(got, "…"))
}
