package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/FACorreiaa/techblog/internal/app/services"
	"github.com/FACorreiaa/techblog/internal/cli"
	"github.com/FACorreiaa/techblog/internal/pkg/config"
	"github.com/FACorreiaa/techblog/internal/pkg/session"
	"github.com/FACorreiaa/techblog/internal/server"
	"github.com/FACorreiaa/techblog/pkg/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, cli.ErrUsage) {
			fmt.Fprintln(os.Stderr, "techblog:", cli.Describe(err))
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	// Load environment variables; a missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(logger.ParseLevel(cfg.LogLevel), zap.String("service", cfg.Observability.ServiceName)); err != nil {
		return err
	}
	log := logger.Log
	defer func() { _ = log.Sync() }()

	gin.SetMode(gin.ReleaseMode)

	otelShutdown, err := server.InitObservability(cfg.Observability, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			log.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var c *services.Container
	if len(args) > 0 && (args[0] == "--ephemeral" || args[0] == "-ephemeral") {
		args = args[1:]
		c = services.NewWithStore(cfg, session.NewMemoryStore(), log)
	} else {
		c = services.New(cfg, log)
	}
	defer c.Close()

	return cli.New(c, os.Stdout, os.Stderr, log).Run(ctx, args)
}
