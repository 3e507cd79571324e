package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/blogchat/server/internal/config"
	"codeberg.org/blogchat/server/internal/logger"
)

const (
	shutdownTimeout    = 10 * time.Second
	recorderDrainLimit = 10 * time.Second
)

func main() {
	logger.Info("starting blogchat server")

	// load configuration from environment
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	srv, err := NewServer(startupCtx, cfg)
	cancelStartup()

	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           srv.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout,
		IdleTimeout:       60 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// let in-flight interaction writes land before the pool goes away
	if !waitTimeout(srv.services.Recorder.Wait, recorderDrainLimit) {
		logger.Warn("gave up waiting for interaction writes", "timeout", recorderDrainLimit)
	}

	srv.limiter.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown

	// close database connection
	srv.store.Close()

	logger.Info("server stopped")
}

// runs wait in the background and reports whether it returned in time
func waitTimeout(wait func(), timeout time.Duration) bool {
	done := make(chan struct{})

	go func() {
		wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
