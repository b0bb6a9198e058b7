// Package pdftext extracts plain text from PDF bills without going through
// the OCR engine.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"billwise/internal/core"
	"billwise/internal/scan"
)

type Extractor struct{}

var _ scan.TextExtractor = (*Extractor)(nil)

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &core.ExtractionError{Err: err}
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &core.ExtractionError{Err: fmt.Errorf("open pdf: %w", err)}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &core.ExtractionError{Err: fmt.Errorf("read pdf text: %w", err)}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", &core.ExtractionError{Err: fmt.Errorf("copy pdf text: %w", err)}
	}

	return buf.String(), nil
}
