package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/inkstone-dev/go-doc-styler/internal/document"
	"github.com/inkstone-dev/go-doc-styler/internal/engine"
	"github.com/inkstone-dev/go-doc-styler/internal/logger"
	"github.com/inkstone-dev/go-doc-styler/internal/tagger"
)

var previewStdout bool

// NewPreviewCommand creates the preview subcommand: style one markdown or
// text file and render the result as HTML so the effect of the rules can
// be inspected in a browser before running a batch.
func NewPreviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [flags] file",
		Short: "render a styled markdown or text file as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewLogger(debugMode, verboseMode)
			defer func() {
				_ = log.Sync()
			}()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd, cfg)

			rules, err := cfg.ToRules()
			if err != nil {
				return err
			}
			if len(rules) == 0 {
				return fmt.Errorf("no style rules configured; define rules in %s or pass --rules", configHint())
			}

			htmlOut, err := RenderPreview(args[0], rules, document.Options{
				HeadingMaxLength: cfg.HeadingMaxLength,
				Logger:           log,
			})
			if err != nil {
				return err
			}

			if previewStdout {
				fmt.Println(htmlOut)
				return nil
			}

			out := previewPath(args[0], cfg.OutputDir)
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(out, []byte(htmlOut), 0o644); err != nil {
				return err
			}
			fmt.Printf("preview written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&previewStdout, "stdout", false, "print the HTML to stdout instead of a file")
	return cmd
}

// RenderPreview styles a single text-based file and returns an HTML page.
func RenderPreview(file string, rules []engine.Rule, opts document.Options) (string, error) {
	codec, err := document.CodecForPath(file, opts)
	if err != nil {
		return "", err
	}
	if codec.Format() == document.FormatDOCX {
		return "", fmt.Errorf("preview supports markdown and text files only")
	}

	doc, err := codec.Load(file)
	if err != nil {
		return "", err
	}

	eng := engine.New(tagger.NewMemoized(tagger.NewLexiconTagger()), opts.Logger)
	ops, err := eng.Match(doc, rules)
	if err != nil {
		return "", err
	}
	if err := engine.Apply(doc, ops); err != nil {
		return "", err
	}

	// round-trip through the codec so the preview shows exactly what a
	// real batch would write
	scratch, err := os.MkdirTemp("", "styler-preview-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(scratch)

	styled := filepath.Join(scratch, filepath.Base(file))
	if err := codec.Save(doc, styled); err != nil {
		return "", err
	}
	source, err := os.ReadFile(styled)
	if err != nil {
		return "", err
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, meta.Meta),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	var body bytes.Buffer
	if err := md.Convert(source, &body); err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}

	return wrapHTMLPage(filepath.Base(file), body.String()), nil
}

func wrapHTMLPage(title, body string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", title)
	b.WriteString("<style>body { font-family: sans-serif; max-width: 48em; margin: 2em auto; line-height: 1.5; }</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func previewPath(input, outputDir string) string {
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(filepath.Base(input), ext)
	return filepath.Join(dir, stem+"_preview.html")
}
