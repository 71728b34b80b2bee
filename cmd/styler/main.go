package main

import (
	"os"

	"github.com/inkstone-dev/go-doc-styler/internal/cli"
	"github.com/inkstone-dev/go-doc-styler/internal/logger"
	"go.uber.org/zap"
)

// Version information, set at build time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	log := logger.NewLogger(false, false)
	defer func() {
		_ = log.Sync()
	}()

	rootCmd := cli.NewRootCommand(Version, Commit, BuildDate)

	if err := rootCmd.Execute(); err != nil {
		log.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
