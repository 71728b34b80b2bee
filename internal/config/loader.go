package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/inkstone-dev/go-doc-styler/internal/document"
	"github.com/inkstone-dev/go-doc-styler/internal/pipeline"
)

// Load reads the tool configuration. With an explicit path the file must
// exist; otherwise .styler.yaml is searched in the home directory and the
// working directory, and a missing file falls back to defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(".styler")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && configPath == "" {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := NewDefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Suffix == "" {
		cfg.Suffix = pipeline.DefaultSuffix
	}
	if cfg.HeadingMaxLength == 0 {
		cfg.HeadingMaxLength = document.DefaultHeadingMaxLength
	}
}

// rulesFile is the shape of a standalone TOML rules file.
type rulesFile struct {
	Rules []RuleConfig `toml:"rules"`
}

// LoadRulesFile reads style rules from a TOML file. Rules loaded this way
// replace any rules from the main config.
func LoadRulesFile(path string) ([]RuleConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rf rulesFile
	if err := toml.Unmarshal(raw, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	if len(rf.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s defines no rules", path)
	}
	return rf.Rules, nil
}
