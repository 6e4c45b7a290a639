package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-jobsift/internal/config"
	"go-jobsift/internal/logging"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run one batch and export new postings",
	Long: `Runs every term against every configured search, filters each batch, drops LinkedIn
postings seen by earlier runs and writes the survivors to jobs_<timestamp>.csv.

Any collector failure aborts the run before anything is exported.`,
	RunE: runBatchCmd,
}

var (
	runConfigPath string
	runDryRun     bool
	runVerbose    bool
)

func init() {
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.yaml")
	runCommand.Flags().BoolVar(&runDryRun, "dry-run", false, "Collect and filter but do not export or record seen ids")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Enable debug logging")
	_ = runCommand.MarkFlagRequired("config")

	rootCmd.AddCommand(runCommand)
}

func runBatchCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogFile, runVerbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, err := newApp(ctx, cfg, logger, runDryRun)
	if err != nil {
		logger.Error("❌ Setup failed", zap.Error(err))
		return err
	}
	defer a.Close()

	res, err := a.runner.Run(ctx, uuid.NewString())
	if err != nil {
		logger.Error("❌ Run failed", zap.Error(err))
		return err
	}

	if res.OutputPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%d new postings written to %s\n", len(res.Postings), res.OutputPath)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%d new postings (dry run, nothing written)\n", len(res.Postings))
	}
	return nil
}
