// Package config defines the tool configuration and its loaders: a viper
// YAML config for tool settings and a TOML rules file for the style rules.
package config

import (
	"fmt"

	"github.com/inkstone-dev/go-doc-styler/internal/document"
	"github.com/inkstone-dev/go-doc-styler/internal/engine"
	"github.com/inkstone-dev/go-doc-styler/internal/pipeline"
	"github.com/inkstone-dev/go-doc-styler/internal/tagger"
)

// Config is the tool-level configuration.
type Config struct {
	// OutputDir receives styled files; empty keeps them next to the input.
	OutputDir string `mapstructure:"output_dir" toml:"output_dir"`

	// Suffix goes between the file stem and the extension.
	Suffix string `mapstructure:"suffix" toml:"suffix"`

	// HeadingMaxLength bounds heading inference for plain-text files.
	HeadingMaxLength int `mapstructure:"heading_max_length" toml:"heading_max_length"`

	// HistoryPath is the batch history JSON file.
	HistoryPath string `mapstructure:"history_path" toml:"history_path"`

	Debug   bool `mapstructure:"debug" toml:"debug"`
	Verbose bool `mapstructure:"verbose" toml:"verbose"`

	// Rules in precedence order: the first rule for a class wins.
	Rules []RuleConfig `mapstructure:"rules" toml:"rules"`
}

// RuleConfig is the file representation of one style rule.
type RuleConfig struct {
	// Target names a POS class: heading, verb, noun, adjective, adverb.
	Target string `mapstructure:"target" toml:"target"`

	Bold          bool `mapstructure:"bold" toml:"bold"`
	Italic        bool `mapstructure:"italic" toml:"italic"`
	Underline     bool `mapstructure:"underline" toml:"underline"`
	Strikethrough bool `mapstructure:"strikethrough" toml:"strikethrough"`
	Uppercase     bool `mapstructure:"uppercase" toml:"uppercase"`

	// Color is an RRGGBB hex string, with or without the leading '#'.
	Color string `mapstructure:"color" toml:"color"`
}

// NewDefaultConfig returns the configuration used when no file is found.
func NewDefaultConfig() *Config {
	return &Config{
		Suffix:           pipeline.DefaultSuffix,
		HeadingMaxLength: document.DefaultHeadingMaxLength,
	}
}

// ToRule converts one file rule into an engine rule.
func (rc RuleConfig) ToRule(index int) (engine.Rule, error) {
	target, err := tagger.ParseTarget(rc.Target)
	if err != nil {
		return engine.Rule{}, fmt.Errorf("rule %d: %w", index+1, err)
	}

	rule := engine.Rule{
		ID:     fmt.Sprintf("rule-%d", index+1),
		Target: target,
		Style: engine.RuleStyle{
			Style: document.Style{
				Bold:          rc.Bold,
				Italic:        rc.Italic,
				Underline:     rc.Underline,
				Strikethrough: rc.Strikethrough,
			},
			Uppercase: rc.Uppercase,
		},
	}
	if rc.Color != "" {
		rgb, err := document.ParseRGB(rc.Color)
		if err != nil {
			return engine.Rule{}, fmt.Errorf("rule %d: %w", index+1, err)
		}
		rule.Style.Color = &rgb
	}
	if err := rule.Validate(); err != nil {
		return engine.Rule{}, err
	}
	return rule, nil
}

// ToRules converts the rule list, preserving order. Order is precedence:
// when two rules target the same class, the earlier one wins.
func (c *Config) ToRules() ([]engine.Rule, error) {
	rules := make([]engine.Rule, 0, len(c.Rules))
	for i, rc := range c.Rules {
		rule, err := rc.ToRule(i)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Validate checks the tool-level settings.
func (c *Config) Validate() error {
	if c.HeadingMaxLength < 0 {
		return fmt.Errorf("heading_max_length cannot be negative")
	}
	_, err := c.ToRules()
	return err
}
