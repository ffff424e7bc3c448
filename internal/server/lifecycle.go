// Package server ties the scrawl process to its one long-running service:
// it runs the HTTP front end and shuts it down cleanly on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running component. Start blocks until the service exits;
// Stop asks it to exit.
type Service interface {
	Start() error
	Stop()
}

// Run starts svc and blocks until it fails, the context is cancelled, or the
// process receives SIGINT or SIGTERM. On shutdown it calls Stop and waits
// for Start to return, so in-flight work drains before the process exits.
//
// Postcondition: Start has returned when Run returns; a Start error is
// wrapped with the service name.
func Run(ctx context.Context, name string, svc Service, logger *zap.Logger) error {
	start := time.Now()

	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Start()
	}()

	logger.Info("service running", zap.String("service", name))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down",
			zap.String("signal", sig.String()),
		)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Error("service failed",
				zap.String("service", name),
				zap.Error(err),
				zap.Duration("uptime", time.Since(start)),
			)
			return fmt.Errorf("service %s: %w", name, err)
		}
		logger.Info("service exited", zap.String("service", name))
		return nil
	}

	svc.Stop()
	err := <-errCh
	logger.Info("shutdown complete",
		zap.Duration("uptime", time.Since(start)),
	)
	if err != nil {
		return fmt.Errorf("service %s: %w", name, err)
	}
	return nil
}
