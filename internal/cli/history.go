package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/inkstone-dev/go-doc-styler/internal/logger"
	"github.com/inkstone-dev/go-doc-styler/internal/pipeline"
)

var historyLimit int

// NewHistoryCommand creates the history subcommand, listing recent batch
// runs from the history file.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "show recent batch runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewLogger(debugMode, verboseMode)
			defer func() {
				_ = log.Sync()
			}()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.HistoryPath == "" {
				return fmt.Errorf("no history_path configured in %s", configHint())
			}

			hist, err := pipeline.NewHistory(cfg.HistoryPath, log)
			if err != nil {
				return err
			}

			records := hist.Recent(historyLimit)
			if len(records) == 0 {
				fmt.Println("No batch runs recorded yet.")
				return nil
			}

			title := color.New(color.FgCyan, color.Bold)
			title.Printf("Recent batch runs (%d)\n", len(records))

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Batch", "Started", "Duration", "Rules", "Files", "Done", "Failed"})
			for _, rec := range records {
				tw.AppendRow(table.Row{
					shortBatchID(rec.BatchID),
					rec.StartedAt.Format(time.RFC3339),
					rec.Duration.Round(time.Millisecond),
					rec.Rules,
					rec.Files,
					rec.Done,
					rec.Failed,
				})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of batches to show")
	return cmd
}

func shortBatchID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
