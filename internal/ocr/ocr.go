// Package ocr turns a receipt image into raw text by shelling out to
// tesseract. The engine is a black box: it may return empty or noisy text,
// and downstream resolvers are expected to cope.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/expenselens/expense-tracker/constants"
	"github.com/expenselens/expense-tracker/internal/runner"
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Language    string // default "eng"
	TessdataDir string
	PSM         int // e.g., 6 is good for a uniform block of text
}

// TextExtractor is the interface the HTTP layer depends on.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

type Extractor struct {
	cfg    Config
	runner runner.Runner
	logger *slog.Logger
}

// NewExtractor builds a tesseract-backed extractor. A nil Runner selects the
// real subprocess implementation.
func NewExtractor(cfg Config, r runner.Runner, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if r == nil {
		r = runner.Exec{Logger: logger}
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &Extractor{cfg: cfg, runner: r, logger: logger}
}

// Extract runs tesseract over an image file and returns its raw text output.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if !constants.IsAllowedExt(ext) {
		e.logger.Error("unsupported ocr extension", "extension", ext)
		return "", fmt.Errorf("unsupported extension: %q", ext)
	}

	// tesseract <file> stdout -l <lang>
	args := []string{path, "stdout", "-l", e.cfg.Language}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	e.logger.Debug("starting ocr extraction", "path", path, "lang", e.cfg.Language)
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (stderr: %s)", err, string(errb))
	}
	return string(out), nil
}
