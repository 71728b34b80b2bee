package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/inkstone-dev/go-doc-styler/internal/pipeline"
)

// printSummary renders the per-file outcome table and an overall verdict.
func printSummary(results []pipeline.FileResult) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"#", "File", "State", "Ops", "Duration", "Output / Error"})

	var done, failed int
	var total time.Duration
	for _, r := range results {
		detail := r.Output
		if r.Err != nil {
			detail = fmt.Sprintf("[%s] %v", r.Err.Kind, r.Err.Err)
		}
		tw.AppendRow(table.Row{
			r.Index + 1,
			r.File,
			renderState(r.State),
			r.Ops,
			r.Duration.Round(time.Millisecond),
			detail,
		})
		total += r.Duration
		if r.State == pipeline.StateDone {
			done++
		} else {
			failed++
		}
	}
	tw.Render()

	if failed == 0 {
		okColor := color.New(color.FgGreen, color.Bold)
		okColor.Printf("✓ %d file(s) styled in %s\n", done, total.Round(time.Millisecond))
	} else {
		failColor := color.New(color.FgRed, color.Bold)
		failColor.Printf("✗ %d of %d file(s) failed\n", failed, len(results))
	}
}

func renderState(s pipeline.FileState) string {
	switch s {
	case pipeline.StateDone:
		return color.GreenString(string(s))
	case pipeline.StateFailed:
		return color.RedString(string(s))
	default:
		return string(s)
	}
}
