package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkstone-dev/go-doc-styler/internal/tagger"
)

func TestLoad(t *testing.T) {
	t.Run("Explicit YAML File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "styler.yaml")
		content := `
output_dir: /tmp/styled
suffix: _marked
heading_max_length: 40
rules:
  - target: verb
    bold: true
  - target: heading
    underline: true
    color: "00FF00"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/styled", cfg.OutputDir)
		assert.Equal(t, "_marked", cfg.Suffix)
		assert.Equal(t, 40, cfg.HeadingMaxLength)
		require.Len(t, cfg.Rules, 2)

		rules, err := cfg.ToRules()
		require.NoError(t, err)
		assert.Equal(t, tagger.Verb, rules[0].Target)
		assert.True(t, rules[0].Style.Bold)
		assert.Equal(t, tagger.Heading, rules[1].Target)
		assert.True(t, rules[1].Style.Underline)
		require.NotNil(t, rules[1].Style.Color)
		assert.Equal(t, "00FF00", rules[1].Style.Color.Hex())
	})

	t.Run("Missing Explicit File Fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("Defaults Fill Empty Fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "styler.yaml")
		require.NoError(t, os.WriteFile(path, []byte("rules:\n  - target: noun\n    italic: true\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "_styled", cfg.Suffix)
		assert.Equal(t, 64, cfg.HeadingMaxLength)
	})

	t.Run("Bad Rule Target Rejected With Suggestion", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "styler.yaml")
		require.NoError(t, os.WriteFile(path, []byte("rules:\n  - target: vrb\n    bold: true\n"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "verb")
	})
}

func TestLoadRulesFile(t *testing.T) {
	t.Run("TOML Rules", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.toml")
		content := `
[[rules]]
target = "noun"
italic = true
uppercase = true

[[rules]]
target = "adjective"
color = "#3366CC"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		rcs, err := LoadRulesFile(path)
		require.NoError(t, err)
		require.Len(t, rcs, 2)

		rule, err := rcs[0].ToRule(0)
		require.NoError(t, err)
		assert.Equal(t, tagger.Noun, rule.Target)
		assert.True(t, rule.Style.Italic)
		assert.True(t, rule.Style.Uppercase)

		rule, err = rcs[1].ToRule(1)
		require.NoError(t, err)
		require.NotNil(t, rule.Style.Color)
		assert.Equal(t, "3366CC", rule.Style.Color.Hex())
	})

	t.Run("Empty Rules File Rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.toml")
		require.NoError(t, os.WriteFile(path, []byte("# nothing here\n"), 0o644))
		_, err := LoadRulesFile(path)
		assert.Error(t, err)
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := LoadRulesFile(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}

func TestRuleConfigToRule(t *testing.T) {
	t.Run("No Attributes Rejected", func(t *testing.T) {
		_, err := RuleConfig{Target: "verb"}.ToRule(0)
		assert.Error(t, err)
	})

	t.Run("Bad Color Rejected", func(t *testing.T) {
		_, err := RuleConfig{Target: "verb", Color: "red"}.ToRule(0)
		assert.Error(t, err)
	})

	t.Run("Uppercase Only Is Valid", func(t *testing.T) {
		rule, err := RuleConfig{Target: "adverb", Uppercase: true}.ToRule(3)
		require.NoError(t, err)
		assert.Equal(t, "rule-4", rule.ID)
		assert.Equal(t, tagger.Adverb, rule.Target)
	})
}

func TestValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.HeadingMaxLength = -1
	assert.Error(t, cfg.Validate())
}
