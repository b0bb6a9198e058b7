// Package gemini adapts Google's generative-language service as a
// scan.Categorizer.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genlang "google.golang.org/api/generativelanguage/v1beta"
	goption "google.golang.org/api/option"

	"billwise/internal/core"
	"billwise/internal/scan"
)

// promptTemplate embeds the fixed category vocabulary. The response is not
// parsed here; the aggregator scans it line by line.
const promptTemplate = "Categorize expenses into: Fees, Food, Transport, Stationary, Other. Text: %s"

type Client struct {
	svc   *genlang.Service
	model string
}

var _ scan.Categorizer = (*Client)(nil)

// New creates a Gemini client. A missing API key does not fail here: the
// client is created without a service and every Categorize call reports a
// *core.CategorizationError instead.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if model == "" {
		model = "models/gemini-1.5-flash-latest"
	}
	c := &Client{model: model}
	if apiKey == "" {
		return c, nil
	}

	svc, err := genlang.NewService(ctx, goption.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create generative language service: %w", err)
	}
	c.svc = svc
	return c, nil
}

// Categorize submits the extracted text with the fixed instruction template
// and returns the service's raw textual response verbatim.
func (c *Client) Categorize(ctx context.Context, text string) (string, error) {
	if c.svc == nil {
		return "", &core.CategorizationError{Err: errors.New("generative language service not configured (missing GEMINI_API_KEY)")}
	}

	req := &genlang.GenerateContentRequest{
		Contents: []*genlang.Content{
			{Parts: []*genlang.Part{{Text: Prompt(text)}}},
		},
	}

	resp, err := c.svc.Models.GenerateContent(c.model, req).Context(ctx).Do()
	if err != nil {
		return "", &core.CategorizationError{Err: fmt.Errorf("generate content: %w", err)}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &core.CategorizationError{Err: errors.New("empty response from model")}
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}

// Prompt builds the instruction sent to the model for the given text.
func Prompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}
