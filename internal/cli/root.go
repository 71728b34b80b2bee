// Package cli wires the styler command line: flag parsing, config loading,
// batch execution, progress rendering, and the result summary.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inkstone-dev/go-doc-styler/internal/config"
	"github.com/inkstone-dev/go-doc-styler/internal/document"
	"github.com/inkstone-dev/go-doc-styler/internal/engine"
	"github.com/inkstone-dev/go-doc-styler/internal/logger"
	"github.com/inkstone-dev/go-doc-styler/internal/pipeline"
	"github.com/inkstone-dev/go-doc-styler/internal/tagger"
)

var (
	cfgFile     string
	rulesFile   string
	outputDir   string
	suffix      string
	dryRun      bool
	noProgress  bool
	noHistory   bool
	debugMode   bool
	verboseMode bool
	listFormats bool
	listRules   bool
)

// NewRootCommand creates the root command.
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "styler [flags] file...",
		Short: "styler applies part-of-speech driven style rules to documents",
		Long: `styler batch-applies style rules to docx, markdown, and plain-text
documents. Each rule targets a word class (verb, noun, adjective, adverb)
or whole heading paragraphs, and applies character styling: bold, italic,
underline, strikethrough, uppercase, or an RGB color.

Styled copies are written next to the originals (or into --output) with a
suffix before the extension; input files are never modified.`,
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		Args: func(cmd *cobra.Command, args []string) error {
			if listFormats || listRules {
				return nil
			}
			if len(args) < 1 {
				return fmt.Errorf("requires at least 1 file argument")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewLogger(debugMode, verboseMode)
			defer func() {
				_ = log.Sync()
			}()

			if listFormats {
				printFormats()
				return nil
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd, cfg)

			rules, err := cfg.ToRules()
			if err != nil {
				return err
			}

			if listRules {
				printRules(rules)
				return nil
			}
			if len(rules) == 0 {
				return fmt.Errorf("no style rules configured; define rules in %s or pass --rules", configHint())
			}

			if dryRun {
				return runDryRun(cmd.Context(), cfg, rules, args, log)
			}

			p, err := pipeline.New(pipeline.Config{
				OutputDir: cfg.OutputDir,
				Suffix:    cfg.Suffix,
				Rules:     rules,
				CodecOptions: document.Options{
					HeadingMaxLength: cfg.HeadingMaxLength,
				},
				Logger: log,
			}, tagger.NewLexiconTagger())
			if err != nil {
				return err
			}

			startedAt := time.Now()
			batch := p.Process(cmd.Context(), args)

			if !noProgress {
				renderProgress(batch, len(args))
			}
			results := batch.Wait()

			printSummary(results)

			if !noHistory && cfg.HistoryPath != "" {
				hist, err := pipeline.NewHistory(cfg.HistoryPath, log)
				if err != nil {
					log.Warn("history unavailable", zap.Error(err))
				} else if err := hist.Record(batch.ID, startedAt, len(rules), results); err != nil {
					log.Warn("failed to record batch history", zap.Error(err))
				}
			}

			for _, r := range results {
				if r.State == pipeline.StateFailed {
					os.Exit(1)
				}
			}
			return nil
		},
	}

	addGlobalFlags(rootCmd)
	rootCmd.AddCommand(NewPreviewCommand())
	rootCmd.AddCommand(NewHistoryCommand())

	return rootCmd
}

func addGlobalFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: .styler.yaml in home or cwd)")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "TOML rules file; replaces rules from the config")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "output directory (default: next to each input)")
	rootCmd.PersistentFlags().StringVar(&suffix, "suffix", "", "output file suffix (default: _styled)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "show what would change without writing any output")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "do not record this batch in the history file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "log to the console in a human-readable format")
	rootCmd.PersistentFlags().BoolVar(&listFormats, "list-formats", false, "list supported document formats")
	rootCmd.PersistentFlags().BoolVar(&listRules, "list-rules", false, "list the configured style rules")
}

// loadConfig loads the main config, then lets --rules replace the rule list.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if rulesFile != "" {
		rules, err := config.LoadRulesFile(rulesFile)
		if err != nil {
			return nil, err
		}
		cfg.Rules = rules
	}
	return cfg, nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = outputDir
	}
	if cmd.Flags().Changed("suffix") {
		cfg.Suffix = suffix
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = debugMode
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verboseMode
	}
}

func configHint() string {
	if cfgFile != "" {
		return cfgFile
	}
	return ".styler.yaml"
}

func printFormats() {
	fmt.Println("Supported document formats:")
	for _, f := range document.RegisteredFormats() {
		fmt.Printf("  - %s\n", f)
	}
}

func printRules(rules []engine.Rule) {
	if len(rules) == 0 {
		fmt.Println("No style rules configured.")
		return
	}
	title := color.New(color.FgCyan, color.Bold)
	title.Println("Configured style rules (first match per class wins):")
	for i, r := range rules {
		fmt.Printf("  %d. %s\n", i+1, r.Describe())
	}
}
