package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	"turnovers/internal/app"
	"turnovers/internal/server"

	logger "github.com/Bparsons0904/goLogger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	log := logger.New("main")

	if err := run(log); err != nil {
		log.Er("turnovers server stopped with error", err)
		os.Exit(1)
	}

	log.Info("Graceful shutdown complete")
}

// run serves until SIGINT or SIGTERM, then drains requests before the
// scheduler and connections are closed.
func run(log logger.Logger) error {
	log = log.Function("run")

	application, err := app.New()
	if err != nil {
		return log.Err("failed to initialize app", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Er("failed to close app", err)
		}
	}()

	appServer, err := server.New(application)
	if err != nil {
		return err
	}

	if err := application.StartScheduler(); err != nil {
		return log.Err("failed to start scheduler", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- appServer.Listen(application.Config.ServerPort)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down, press Ctrl+C again to force")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := appServer.Shutdown(shutdownCtx); err != nil {
		return log.Err("server forced to shutdown", err)
	}

	return nil
}
