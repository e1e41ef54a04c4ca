package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	a.logger.Info("application-shutting-down")

	a.healthChecker.SetReady(false)

	// Cancel context to stop the scanner and feed loops
	a.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	err := a.httpServer.Shutdown(shutdownCtx)
	if err != nil {
		a.logger.Error("http-server-shutdown-error", zap.Error(err))
	}

	if a.feed != nil {
		err = a.feed.Close()
		if err != nil {
			a.logger.Error("feed-close-error", zap.Error(err))
		}
	}

	err = a.recorder.Close()
	if err != nil {
		a.logger.Error("recorder-close-error", zap.Error(err))
	}

	a.cache.Close()

	a.wg.Wait()

	a.logger.Info("application-shutdown-complete")

	return nil
}
