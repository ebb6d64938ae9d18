package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/config"
	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/logging"
	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/pipeline"
	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	p, err := pipeline.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create pipeline", zap.Error(err))
	}
	defer p.Close()

	result, err := p.Run(ctx)
	if err != nil {
		logger.Fatal("Pipeline error", zap.Error(err))
	}

	srv := web.NewServer(logger, result.Records, result.RFM)
	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
