package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/expenselens/expense-tracker/internal/assistant"
	"github.com/expenselens/expense-tracker/internal/common"
	"github.com/expenselens/expense-tracker/internal/ocr"
	"github.com/expenselens/expense-tracker/internal/pipeline"
)

// One-shot extraction: OCR a receipt image, run the record pipeline, and
// print the result as JSON. No database involved; useful for tuning tesseract
// and model settings.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "extract <image-path>")
		os.Exit(2)
	}
	path := os.Args[1]
	if _, err := os.Stat(path); err != nil {
		logger.Error("cannot read input", "path", path, "error", err)
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := common.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

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

	start := time.Now()
	text, err := extractor.Extract(ctx, path)
	if err != nil {
		logger.Error("text extraction failed", "error", err)
		os.Exit(1)
	}

	record := pipeline.New(generator, logger).Run(ctx, text)
	logger.Info("extraction OK",
		"bytes", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		logger.Error("encode record", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
