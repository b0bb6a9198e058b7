// Package tesseract adapts the tesseract OCR binary as a scan.TextExtractor.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"billwise/internal/core"
	"billwise/internal/scan"
)

type Engine struct {
	cmd     string
	timeout time.Duration
}

var _ scan.TextExtractor = (*Engine)(nil)

// New returns an engine invoking the given tesseract command. timeout bounds
// a single OCR run; zero means no bound.
func New(cmd string, timeout time.Duration) *Engine {
	if cmd == "" {
		cmd = "tesseract"
	}
	return &Engine{cmd: cmd, timeout: timeout}
}

// ExtractText feeds the image to tesseract over stdin and returns the
// recognized text. Unreadable or unsupported images surface as
// *core.ExtractionError; the caller must not proceed to categorization.
func (e *Engine) ExtractText(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &core.ExtractionError{Err: core.ErrNoFileSelected}
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, e.cmd, "stdin", "stdout")
	cmd.Stdin = bytes.NewReader(data)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", &core.ExtractionError{Err: fmt.Errorf("%s: %v: %s", e.cmd, err, detail)}
		}
		return "", &core.ExtractionError{Err: fmt.Errorf("%s: %w", e.cmd, err)}
	}

	return stdout.String(), nil
}
