package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"go.uber.org/zap"

	"github.com/inkstone-dev/go-doc-styler/internal/config"
	"github.com/inkstone-dev/go-doc-styler/internal/document"
	"github.com/inkstone-dev/go-doc-styler/internal/engine"
	"github.com/inkstone-dev/go-doc-styler/internal/tagger"
)

// runDryRun styles each file into a scratch directory and reports what
// would change, without touching any real output path. Text-based formats
// get a colored diff; binary formats report operation counts only.
func runDryRun(ctx context.Context, cfg *config.Config, rules []engine.Rule, files []string, log *zap.Logger) error {
	title := color.New(color.FgCyan, color.Bold)
	title.Println("Dry run: no output files will be written")

	fmt.Println("\nRules:")
	for i, r := range rules {
		fmt.Printf("  %d. %s\n", i+1, r.Describe())
	}

	scratch, err := os.MkdirTemp("", "styler-dry-run-*")
	if err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	eng := engine.New(tagger.NewMemoized(tagger.NewLexiconTagger()), log)
	opts := document.Options{HeadingMaxLength: cfg.HeadingMaxLength, Logger: log}

	for _, file := range files {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Printf("\n%s\n", color.New(color.Bold).Sprint(file))

		if err := dryRunFile(eng, opts, rules, file, scratch); err != nil {
			color.Red("  error: %v", err)
		}
	}
	return nil
}

func dryRunFile(eng *engine.Engine, opts document.Options, rules []engine.Rule, file, scratch string) error {
	codec, err := document.CodecForPath(file, opts)
	if err != nil {
		return err
	}
	doc, err := codec.Load(file)
	if err != nil {
		return err
	}

	ops, err := eng.Match(doc, rules)
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		fmt.Println("  no rule matches; file would be copied unchanged")
		return nil
	}
	if err := engine.Apply(doc, ops); err != nil {
		return err
	}

	fmt.Printf("  %d style operation(s) across %d paragraph(s)\n", len(ops), countParagraphs(ops))

	if doc.Format == document.FormatDOCX {
		return nil
	}

	// text formats: serialize to scratch and diff against the original
	out := filepath.Join(scratch, filepath.Base(file))
	if err := codec.Save(doc, out); err != nil {
		return err
	}
	before, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	after, err := os.ReadFile(out)
	if err != nil {
		return err
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(before), string(after), false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	fmt.Println(dmp.DiffPrettyText(diffs))
	return nil
}

func countParagraphs(ops []engine.StyleOp) int {
	seen := make(map[int]struct{})
	for _, op := range ops {
		seen[op.Para] = struct{}{}
	}
	return len(seen)
}
