package cmd

import (
	"fmt"
	"time"

	"QuestionnaireAnalysis/src/datasource/file"
	"QuestionnaireAnalysis/src/storage"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Analyze, then re-analyze every time the results file is written",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := storage.NewLogger(cfg.LogName, cfg.LogMaxSize)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logger.Close()

		ctx, cancel := signalContext(logger)
		defer cancel()

		if run, err := runAnalysis(cfg, logger); err != nil {
			logger.Error(err.Error())
		} else {
			printRun(cmd, run)
		}

		monitor, err := file.NewFileMonitor(cfg.DataFile)
		if err != nil {
			return err
		}
		defer monitor.Close()

		logger.Info(fmt.Sprintf("watching %s", cfg.DataFile))
		var last time.Time
		return monitor.Watch(ctx, func(path string) {
			if time.Since(last) < cfg.WatchInterval {
				logger.Debug("change ignored, within watch interval: " + path)
				return
			}
			last = time.Now()

			run, err := runAnalysis(cfg, logger)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "analysis failed:", err)
				return
			}
			printRun(cmd, run)
		})
	},
}
