package cmd

import (
	"fmt"
	"os"

	"snapshot-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "snapshot-sync",
	Short: "Snapshot reconciliation service",
	Long: `snapshot-sync diffs an incoming snapshot of keyed entities against an existing one
and classifies every entity as insert, update, delete or unchanged.
It runs as an HTTP server (start) or a one-shot CLI (reconcile), and ships readiness
checks (check) and a policy demo (demo).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with the development config for readable CLI errors
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
