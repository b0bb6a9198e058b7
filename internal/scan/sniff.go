package scan

import (
	"bytes"
	"context"

	"billwise/internal/core"
)

var pdfMagic = []byte("%PDF-")

// DocumentExtractor routes an upload to the right extractor by content:
// PDF bills go through plain text extraction, everything else through the
// OCR engine.
type DocumentExtractor struct {
	Image TextExtractor
	PDF   TextExtractor
}

var _ TextExtractor = (*DocumentExtractor)(nil)

func (d *DocumentExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &core.ExtractionError{Err: core.ErrNoFileSelected}
	}
	if bytes.HasPrefix(data, pdfMagic) && d.PDF != nil {
		return d.PDF.ExtractText(ctx, data)
	}
	return d.Image.ExtractText(ctx, data)
}
