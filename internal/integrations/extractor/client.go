package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resume-critic/internal/document"
)

const defaultContentType = "application/pdf"

// HTTPStatusError captures non-2xx responses from the extraction engine.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("extractor: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client posts raw document bytes to the text-extraction engine and decodes
// the page/text/run tree it returns.
type Client struct {
	endpoint    string
	contentType string
	httpClient  *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithContentType(contentType string) Option {
	return func(c *Client) {
		c.contentType = strings.TrimSpace(contentType)
	}
}

func NewClient(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("extractor: endpoint must not be empty")
	}
	c := &Client{
		endpoint:    endpoint,
		contentType: defaultContentType,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return c, nil
}

// Extract returns the structured document for data. Documents the engine
// rejects (4xx) or answers with an unusable body are reported as
// *document.ExtractionError; transport failures and 5xx are returned as-is.
func (c *Client) Extract(ctx context.Context, data []byte) (document.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return document.Document{}, &document.ExtractionError{Reason: document.ReasonEmptyText}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return document.Document{}, fmt.Errorf("extractor: create request: %w", err)
	}
	req.Header.Set("Content-Type", c.contentType)
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return document.Document{}, fmt.Errorf("extractor: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		statusErr := &HTTPStatusError{StatusCode: res.StatusCode, URL: c.endpoint, Body: string(buf)}
		if res.StatusCode >= 400 && res.StatusCode < 500 && res.StatusCode != http.StatusTooManyRequests {
			return document.Document{}, &document.ExtractionError{Reason: document.ReasonUnreadable, Err: statusErr}
		}
		return document.Document{}, statusErr
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return document.Document{}, fmt.Errorf("extractor: read response body: %w", err)
	}

	var doc document.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return document.Document{}, &document.ExtractionError{
			Reason: document.ReasonNoStructure,
			Err:    fmt.Errorf("extractor: decode response: %w", err),
		}
	}
	return doc, nil
}

// ExtractText extracts and flattens data in one step.
func (c *Client) ExtractText(ctx context.Context, data []byte) (string, error) {
	doc, err := c.Extract(ctx, data)
	if err != nil {
		return "", err
	}
	return document.Flatten(doc)
}
