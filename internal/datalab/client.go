// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package datalab implements a client for the Datalab.to document
// conversion API. A conversion is a multipart upload followed by
// polling a check URL until the service reports completion.
package datalab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/markbatch/internal/httputil"
	"github.com/pdiddy/markbatch/pkg/types"
)

const (
	// DefaultBaseURL is the production Datalab API endpoint.
	DefaultBaseURL = "https://www.datalab.to"

	// markerPath is the conversion endpoint under the base URL.
	markerPath = "/api/v1/marker"

	// defaultPollInterval is the delay between status checks for a
	// submitted conversion.
	defaultPollInterval = 2 * time.Second
)

// ConvertOptions selects the output the service produces. The batch
// tool always requests Markdown in balanced mode; the struct exists so
// the client stays usable outside that fixed configuration.
type ConvertOptions struct {
	// OutputFormat is the requested output, e.g. "markdown".
	OutputFormat string

	// Mode is the quality/speed tradeoff, e.g. "balanced".
	Mode string
}

// Result holds the completed conversion returned by the service.
type Result struct {
	// Markdown is the converted document text.
	Markdown string
}

// Client talks to the Datalab conversion API. All fields are set at
// construction and never mutated, so a single Client is safe for
// concurrent use by many in-flight jobs.
type Client struct {
	apiKey       string
	baseURL      string
	userAgent    string
	httpClient   *http.Client
	pollInterval time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Tests point this at an
// httptest server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithPollInterval overrides the delay between status checks.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

// NewClient creates a Datalab client authenticated with apiKey. The
// key is passed explicitly; the client never reads the environment.
func NewClient(apiKey string, cfg types.HTTPConfig, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("datalab: API key is required")
	}
	c := &Client{
		apiKey:       apiKey,
		baseURL:      DefaultBaseURL,
		userAgent:    cfg.UserAgent,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases idle connections held by the underlying HTTP client.
// The batch runner creates one Client per run and closes it once after
// all jobs finish.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// submitResponse is the service's answer to a conversion upload.
type submitResponse struct {
	Success         bool   `json:"success"`
	Error           string `json:"error"`
	RequestID       string `json:"request_id"`
	RequestCheckURL string `json:"request_check_url"`
}

// checkResponse is the service's answer to a status poll.
type checkResponse struct {
	Status   string `json:"status"`
	Success  bool   `json:"success"`
	Error    string `json:"error"`
	Markdown string `json:"markdown"`
}

// Convert uploads the document at path and polls until the service
// finishes, returning the Markdown text. An empty result from the
// service is reported as an error, never as an empty success.
func (c *Client) Convert(ctx context.Context, path string, opts ConvertOptions) (*Result, error) {
	checkURL, err := c.submit(ctx, path, opts)
	if err != nil {
		return nil, err
	}

	check, err := c.await(ctx, checkURL)
	if err != nil {
		return nil, fmt.Errorf("checking conversion of %s: %w", filepath.Base(path), err)
	}

	if !check.Success {
		msg := check.Error
		if msg == "" {
			msg = "conversion failed without detail"
		}
		return nil, fmt.Errorf("converting %s: %s", filepath.Base(path), msg)
	}
	if check.Markdown == "" {
		return nil, fmt.Errorf("no markdown content returned for %s", filepath.Base(path))
	}

	return &Result{Markdown: check.Markdown}, nil
}

// submit uploads the document and returns the URL to poll for results.
func (c *Client) submit(ctx context.Context, path string, opts ConvertOptions) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	body, contentType, err := buildUpload(f, filepath.Base(path), opts)
	if err != nil {
		return "", fmt.Errorf("building upload for %s: %w", filepath.Base(path), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+markerPath, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("submitting %s: %w", filepath.Base(path), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("submitting %s: HTTP %d", filepath.Base(path), resp.StatusCode)
	}

	var sub submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		return "", fmt.Errorf("parsing submit response: %w", err)
	}
	if !sub.Success {
		msg := sub.Error
		if msg == "" {
			msg = "request rejected without detail"
		}
		return "", fmt.Errorf("submitting %s: %s", filepath.Base(path), msg)
	}
	if sub.RequestCheckURL == "" {
		return "", fmt.Errorf("submitting %s: no check URL in response", filepath.Base(path))
	}
	return sub.RequestCheckURL, nil
}

// await polls checkURL until the conversion leaves the processing state.
func (c *Client) await(ctx context.Context, checkURL string) (*checkResponse, error) {
	var check checkResponse
	err := httputil.Poll(ctx, c.pollInterval, func() (bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, checkURL, nil)
		if err != nil {
			return false, fmt.Errorf("creating poll request: %w", err)
		}
		c.setHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return false, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			return false, fmt.Errorf("HTTP %d from check URL", resp.StatusCode)
		}

		check = checkResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&check); err != nil {
			return false, fmt.Errorf("parsing poll response: %w", err)
		}
		return check.Status == "complete", nil
	})
	if err != nil {
		return nil, err
	}
	return &check, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-Api-Key", c.apiKey)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

// buildUpload assembles the multipart form body for a submission. The
// whole document is buffered; conversion inputs are small enough that
// streaming is not worth the plumbing.
func buildUpload(f io.Reader, filename string, opts ConvertOptions) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}

	fields := map[string]string{
		"output_format": opts.OutputFormat,
		"mode":          opts.Mode,
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
