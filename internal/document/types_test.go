package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRGB(t *testing.T) {
	t.Run("Plain Hex", func(t *testing.T) {
		c, err := ParseRGB("FF8000")
		require.NoError(t, err)
		assert.Equal(t, RGB{R: 0xFF, G: 0x80, B: 0x00}, c)
	})

	t.Run("Leading Hash And Lowercase", func(t *testing.T) {
		c, err := ParseRGB("#c0ffee")
		require.NoError(t, err)
		assert.Equal(t, RGB{R: 0xC0, G: 0xFF, B: 0xEE}, c)
		assert.Equal(t, "C0FFEE", c.Hex())
	})

	t.Run("Rejects Bad Input", func(t *testing.T) {
		for _, in := range []string{"", "FFF", "FF80000", "GG0000"} {
			_, err := ParseRGB(in)
			assert.Error(t, err, "input %q", in)
		}
	})
}

func TestStyleMerge(t *testing.T) {
	red := RGB{R: 0xFF}
	blue := RGB{B: 0xFF}

	t.Run("Booleans Union", func(t *testing.T) {
		merged := Style{Bold: true}.Merge(Style{Italic: true})
		assert.True(t, merged.Bold)
		assert.True(t, merged.Italic)
		assert.False(t, merged.Underline)
	})

	t.Run("Later Color Wins", func(t *testing.T) {
		merged := Style{Color: &red}.Merge(Style{Color: &blue})
		require.NotNil(t, merged.Color)
		assert.Equal(t, blue, *merged.Color)
	})

	t.Run("Nil Color Keeps Existing", func(t *testing.T) {
		merged := Style{Color: &red}.Merge(Style{Bold: true})
		require.NotNil(t, merged.Color)
		assert.Equal(t, red, *merged.Color)
	})

	t.Run("Merge Copies Color", func(t *testing.T) {
		merged := Style{}.Merge(Style{Color: &red})
		assert.NotSame(t, &red, merged.Color)
		assert.Equal(t, red, *merged.Color)
	})
}

func TestStyleEqual(t *testing.T) {
	red := RGB{R: 0xFF}
	red2 := RGB{R: 0xFF}

	assert.True(t, Style{Color: &red}.Equal(Style{Color: &red2}))
	assert.False(t, Style{Color: &red}.Equal(Style{}))
	assert.False(t, Style{Bold: true}.Equal(Style{Italic: true}))
	assert.True(t, Style{}.IsZero())
	assert.False(t, Style{Underline: true}.IsZero())
}

func TestMergeAdjacentRuns(t *testing.T) {
	t.Run("Merges Identical Neighbors", func(t *testing.T) {
		p := &Paragraph{Runs: []Run{
			{Text: "The "},
			{Text: "cat", Style: Style{Bold: true}},
			{Text: " runs", Style: Style{Bold: true}},
			{Text: " fast."},
		}}
		p.MergeAdjacentRuns()
		require.Len(t, p.Runs, 3)
		assert.Equal(t, "cat runs", p.Runs[1].Text)
		assert.Equal(t, "The cat runs fast.", p.Text())
	})

	t.Run("Different Meta Stays Split", func(t *testing.T) {
		p := &Paragraph{Runs: []Run{
			{Text: "a", Meta: "x"},
			{Text: "b", Meta: "y"},
		}}
		p.MergeAdjacentRuns()
		assert.Len(t, p.Runs, 2)
	})

	t.Run("Single Run Untouched", func(t *testing.T) {
		p := &Paragraph{Runs: []Run{{Text: "alone"}}}
		p.MergeAdjacentRuns()
		assert.Len(t, p.Runs, 1)
	})
}

func TestParagraphLen(t *testing.T) {
	p := &Paragraph{Runs: []Run{{Text: "héllo "}, {Text: "wörld"}}}
	assert.Equal(t, 11, p.Len())
	assert.Equal(t, "héllo wörld", p.Text())
}

func TestDocumentValidate(t *testing.T) {
	t.Run("Empty Paragraph Allowed", func(t *testing.T) {
		doc := &Document{Paragraphs: []*Paragraph{{Runs: []Run{{Text: ""}}}}}
		assert.NoError(t, doc.Validate())
	})

	t.Run("Empty Run In Non-Empty Paragraph Rejected", func(t *testing.T) {
		doc := &Document{Paragraphs: []*Paragraph{
			{Runs: []Run{{Text: "a"}, {Text: ""}}},
		}}
		assert.Error(t, doc.Validate())
	})
}
