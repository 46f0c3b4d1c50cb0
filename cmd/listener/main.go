package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"stockwatch-backend/pkg/config"
	"stockwatch-backend/pkg/listener"
	"stockwatch-backend/pkg/logger"
)

func main() {
	// Load application configuration
	cfg := config.LoadDefaultConfig()

	// Initialize logger specifically for the listener
	log := logger.NewLogger(os.Stderr, "Listener", cfg.LogLevel, "System")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	agent := listener.NewAgent(cfg, log, listener.NewConsoleRenderer(os.Stdout))

	log.PrintfInfo("Subscribing to stock notifications on %s:%s", cfg.NotifyHost, cfg.NotifyPort)
	agent.Run(ctx)

	log.PrintfInfo("Listener stopped")
}
