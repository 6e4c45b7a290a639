package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-jobsift/internal/config"
	"go-jobsift/internal/logging"
	"go-jobsift/internal/scheduler"
	"go-jobsift/internal/server"
)

var watchCommand = &cobra.Command{
	Use:   "watch",
	Short: "Run the batch on the configured cron schedule",
	Long: `Keeps running and triggers a batch on every tick of the configured schedule. A tick
that fires while a batch is still running is skipped. With --listen a health endpoint
reports the outcome of the latest batch.`,
	RunE: watchCmd,
}

var (
	watchConfigPath string
	watchListen     string
	watchNow        bool
	watchVerbose    bool
)

func init() {
	watchCommand.Flags().StringVar(&watchConfigPath, "config", "", "Path to config.yaml")
	watchCommand.Flags().StringVar(&watchListen, "listen", "", "Health endpoint address, e.g. :8080 (defaults to config listen)")
	watchCommand.Flags().BoolVar(&watchNow, "now", false, "Run once immediately instead of waiting for the first tick")
	watchCommand.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Enable debug logging")
	_ = watchCommand.MarkFlagRequired("config")

	rootCmd.AddCommand(watchCommand)
}

func watchCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(watchConfigPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogFile, watchVerbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, err := newApp(ctx, cfg, logger, false)
	if err != nil {
		logger.Error("❌ Setup failed", zap.Error(err))
		return err
	}
	defer a.Close()

	sched := scheduler.New(cfg.Schedule, func(ctx context.Context) (int, error) {
		res, err := a.runner.Run(ctx, uuid.NewString())
		if err != nil {
			if a.bot != nil {
				if sendErr := a.bot.SendError(err); sendErr != nil {
					logger.Warn("⚠️ Failed to report error to Telegram", zap.Error(sendErr))
				}
			}
			return 0, err
		}
		return len(res.Postings), nil
	}, logger)

	if err := sched.Start(ctx, watchNow); err != nil {
		return err
	}
	defer sched.Stop()

	listen := watchListen
	if listen == "" {
		listen = cfg.Listen
	}
	if listen != "" {
		go func() {
			if err := server.Serve(ctx, listen, sched, logger); err != nil {
				logger.Error("❌ Health server stopped", zap.Error(err))
			}
		}()
	}

	<-ctx.Done()
	logger.Info("👋 Shutting down")
	return nil
}
