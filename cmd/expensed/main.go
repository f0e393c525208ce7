package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/expenselens/expense-tracker/internal/assistant"
	"github.com/expenselens/expense-tracker/internal/auth"
	"github.com/expenselens/expense-tracker/internal/common"
	"github.com/expenselens/expense-tracker/internal/export"
	"github.com/expenselens/expense-tracker/internal/ocr"
	"github.com/expenselens/expense-tracker/internal/pipeline"
	"github.com/expenselens/expense-tracker/internal/repository"
	"github.com/expenselens/expense-tracker/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("database open failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}
	if err := repository.InitSchema(ctx, pool); err != nil {
		logger.Error("schema init failed", "error", err)
		os.Exit(1)
	}

	users := repository.NewUserRepository(pool, logger)
	txs := repository.NewTransactionRepository(pool, logger)

	extractor := ocr.NewExtractor(ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		Language:    cfg.OCR.Language,
		TessdataDir: cfg.OCR.TessdataDir,
		PSM:         cfg.OCR.PSM,
	}, nil, logger)

	generator := assistant.NewClient(assistant.Config{
		Binary:  cfg.Assistant.Binary,
		Model:   cfg.Assistant.Model,
		Timeout: cfg.Assistant.Timeout,
	}, nil, logger)

	srv := &server.Server{
		Users:     users,
		Txs:       txs,
		Tokens:    auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		OCR:       extractor,
		Extractor: pipeline.New(generator, logger),
		Export:    export.NewService(txs, logger),
		Logger:    logger,
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.NewRouter(cfg.Server.CORSOrigin),
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("stopped")
}
