package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/expenselens/expense-tracker/internal/runner"
)

type Config struct {
	Binary string // binary name or absolute path; if empty -> "ollama"
	Model  string // if empty -> "llama3"

	// Timeout is the hard wall-clock cap on a single invocation. There is no
	// retry: one timeout is a definitive failure for the attempt.
	Timeout time.Duration
}

// Client invokes a local ollama model as a bounded external process.
type Client struct {
	cfg    Config
	runner runner.Runner
	logger *slog.Logger
}

// NewClient builds an ollama-backed Generator. A nil Runner selects the real
// subprocess implementation.
func NewClient(cfg Config, r runner.Runner, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if r == nil {
		r = runner.Exec{Logger: logger}
	}
	if cfg.Binary == "" {
		cfg.Binary = "ollama"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{cfg: cfg, runner: r, logger: logger}
}

// Extract sends the receipt text to the model and parses the structured
// reply. Binary-not-found, timeout, and malformed output are all reported
// the same way: an error the caller treats as "no result".
func (c *Client) Extract(ctx context.Context, text string) (Fields, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	c.logger.Info("assistant.extract.start",
		"model", c.cfg.Model,
		"text_len", len(text),
		"timeout", c.cfg.Timeout,
	)

	out, _, err := c.runner.Run(ctx, c.cfg.Binary, "run", c.cfg.Model, BuildPrompt(text))
	if err != nil {
		c.logger.Warn("assistant.extract.exec_failed",
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Fields{}, fmt.Errorf("assistant exec: %w", err)
	}

	fields, err := ParseReply(out, c.logger)
	if err != nil {
		c.logger.Warn("assistant.extract.bad_reply",
			"error", err,
			"raw_bytes", len(out),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Fields{}, err
	}

	c.logger.Info("assistant.extract.ok",
		"elapsed_ms", time.Since(start).Milliseconds(),
		"has_amount", fields.Amount != nil,
		"has_date", fields.Date != nil,
	)
	return fields, nil
}
