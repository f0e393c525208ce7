// Package runner wraps external command execution so the OCR engine and the
// extraction assistant can be stubbed in tests.
package runner

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// stderrCap bounds how much subprocess stderr ends up in a log line.
const stderrCap = 8 << 10

// Exec is the production Runner backed by os/exec. The context bounds the
// subprocess: when it expires the process is killed and Run returns an error.
// A nil Logger falls back to slog.Default.
type Exec struct {
	Logger *slog.Logger
}

func (e Exec) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	log := e.Logger
	if log == nil {
		log = slog.Default()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		msg := stderr.String()
		if len(msg) > stderrCap {
			msg = msg[:stderrCap] + "...(truncated)"
		}
		log.Error("exec failed",
			"cmd", name,
			"args", strings.Join(args, " "),
			"elapsed_ms", elapsed,
			"error", err,
			"stderr", msg,
		)
		return stdout.Bytes(), stderr.Bytes(), err
	}

	log.Debug("exec ok",
		"cmd", name,
		"elapsed_ms", elapsed,
		"stdout_bytes", stdout.Len(),
		"stderr_bytes", stderr.Len(),
	)
	return stdout.Bytes(), stderr.Bytes(), nil
}
