// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"

	"github.com/pdiddy/markbatch/internal/datalab"
)

// DatalabConverter adapts the Datalab API client to the Converter
// interface with the fixed option set every batch uses: Markdown output
// in balanced mode. The tradeoff is deliberately not user-configurable.
type DatalabConverter struct {
	client *datalab.Client
}

// NewDatalabConverter wraps an API client for batch use. The client is
// shared across all jobs of a run.
func NewDatalabConverter(client *datalab.Client) *DatalabConverter {
	return &DatalabConverter{client: client}
}

// Convert submits the document at path and returns its Markdown text.
func (d *DatalabConverter) Convert(ctx context.Context, path string) (string, error) {
	result, err := d.client.Convert(ctx, path, datalab.ConvertOptions{
		OutputFormat: "markdown",
		Mode:         "balanced",
	})
	if err != nil {
		return "", err
	}
	return result.Markdown, nil
}
