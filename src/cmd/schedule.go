package cmd

import (
	"fmt"

	"QuestionnaireAnalysis/src/storage"

	"github.com/robfig/cron"
	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Analyze, then re-analyze on the configured cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := storage.NewLogger(cfg.LogName, cfg.LogMaxSize)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logger.Close()

		ctx, cancel := signalContext(logger)
		defer cancel()

		analyze := func() {
			run, err := runAnalysis(cfg, logger)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "analysis failed:", err)
				return
			}
			printRun(cmd, run)
		}
		analyze()

		// 任务串行执行，cron在上一次任务未结束时仍会触发，因此用通道排队
		jobs := make(chan struct{}, 1)
		c := cron.New()
		if err := c.AddFunc(cfg.Schedule, func() {
			select {
			case jobs <- struct{}{}:
			default:
				logger.Warning("previous scheduled analysis still running, skipped")
			}
		}); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
		}
		c.Start()
		defer c.Stop()

		logger.Info(fmt.Sprintf("scheduled analysis (%s), press Ctrl+C to exit", cfg.Schedule))
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-jobs:
				analyze()
			}
		}
	},
}
