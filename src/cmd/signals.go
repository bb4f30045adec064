package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"QuestionnaireAnalysis/src/storage"
)

// signalContext SIGINT/SIGTERM时取消ctx，SIGHUP时重新打开日志文件
func signalContext(logger *storage.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-ctx.Done():
				signal.Stop(sigChan)
				return
			case sig := <-sigChan:
				switch sig {
				case syscall.SIGHUP:
					if err := logger.Reopen(); err != nil {
						logger.Error("failed to reopen log: " + err.Error())
					} else {
						logger.Info("log reopened")
					}
				default:
					logger.Info("Received signal: " + sig.String() + ", shutting down...")
					cancel()
				}
			}
		}
	}()

	return ctx, cancel
}
