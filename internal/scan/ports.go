// Package scan defines the ports of the receipt pipeline's external
// collaborators: text extraction from an uploaded document and
// categorization through a generative-language service.
package scan

import "context"

type (
	// TextExtractor turns uploaded document bytes into raw text.
	// Failures are reported as *core.ExtractionError.
	TextExtractor interface {
		ExtractText(ctx context.Context, data []byte) (string, error)
	}

	// Categorizer sends raw text to the language service and returns its
	// free-form response verbatim. No schema is enforced on the output;
	// it feeds the line-oriented aggregator as-is. Failures are reported
	// as *core.CategorizationError.
	Categorizer interface {
		Categorize(ctx context.Context, text string) (string, error)
	}
)
