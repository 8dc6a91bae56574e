package util

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// interruptExitCode is used when a second signal forces the process down
const interruptExitCode = 130

// SetupSignalHandler derives a context from parent that is cancelled on
// SIGINT or SIGTERM. Cancelling the context stops shards that have not
// started yet; running shards stop at their next context check.
// A second signal exits immediately. The returned stop function releases
// the signal handler.
func SetupSignalHandler(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	log := func() *slog.Logger {
		if logger != nil {
			return logger
		}
		// The default logger may be replaced after setup
		return slog.Default()
	}

	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			log().Info("received shutdown signal", "signal", sig.String())
			cancel()
		case <-done:
			return
		}

		select {
		case sig := <-sigCh:
			log().Warn("received second shutdown signal, forcing exit", "signal", sig.String())
			os.Exit(interruptExitCode)
		case <-done:
		}
	}()

	stop := func() {
		signal.Stop(sigCh)
		cancel()
		select {
		case <-done:
		default:
			close(done)
		}
	}

	return ctx, stop
}
