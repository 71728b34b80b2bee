package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/schollz/progressbar/v3"

	"github.com/inkstone-dev/go-doc-styler/internal/pipeline"
)

const progressNameWidth = 24

// renderProgress consumes the batch event stream and drives a terminal
// progress bar, one tick per finished file. Blocks until the stream closes.
func renderProgress(batch *pipeline.Batch, total int) {
	bar := progressbar.NewOptions(
		total,
		progressbar.OptionSetDescription("styling"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	for ev := range batch.Events() {
		switch {
		case ev.State.Terminal():
			_ = bar.Add(1)
		case ev.State == pipeline.StateLoading:
			bar.Describe(fmt.Sprintf("styling %s", truncateName(filepath.Base(ev.File))))
		}
	}
	_ = bar.Finish()
	fmt.Println()
}

// truncateName fits a file name into the description column, measured in
// display cells so wide characters don't break the bar.
func truncateName(name string) string {
	return runewidth.Truncate(name, progressNameWidth, "…")
}
