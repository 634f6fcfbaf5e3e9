package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"sensei/pkg/interfaces"
	"sensei/pkg/models"

	"github.com/go-resty/resty/v2"
)

// DefaultRoot is the API root used when none is configured.
const DefaultRoot = "http://127.0.0.1:8000/datasets/"

// Client calls the storage API. The HTTP client handed to NewClient is
// expected to carry authentication (see internal/auth).
type Client struct {
	root   string
	rest   *resty.Client
	logger *slog.Logger
}

// NewClient creates an API client rooted at apiRoot.
func NewClient(httpClient *http.Client, apiRoot string) *Client {
	if apiRoot == "" {
		apiRoot = DefaultRoot
	}

	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		root:   apiRoot,
		rest:   resty.NewWithClient(httpClient).SetBaseURL(apiRoot),
		logger: slog.Default(),
	}
}

// WithLogger sets the logger used for request tracing.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}

	return c
}

// Root returns the API root the client resolves relative URLs against.
func (c *Client) Root() string {
	return c.root
}

// Request issues an authenticated GET for relativeURL and decodes the JSON
// body into out. Absolute URLs are used as-is.
func (c *Client) Request(ctx context.Context, relativeURL string, out any) error {
	c.logger.Debug("API request", "url", relativeURL)

	resp, err := c.rest.R().SetContext(ctx).Get(relativeURL)
	if err != nil {
		return fmt.Errorf("failed to request %s: %w", relativeURL, err)
	}

	if err := checkStatus(resp.StatusCode(), resp.Request.URL, resp.Body()); err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", relativeURL, err)
	}

	return nil
}

// FindFiles returns the first page of files under parent named filename.
func (c *Client) FindFiles(ctx context.Context, parent, filename string) (*models.Page[models.File], error) {
	query := url.Values{}
	query.Set("parent", parent)
	query.Set("filename", filename)

	var page models.Page[models.File]
	if err := c.Request(ctx, "files/?"+query.Encode(), &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// Open starts streaming the content at rawURL. The caller must close Body.
func (c *Client) Open(ctx context.Context, rawURL string) (*models.Content, error) {
	c.logger.Debug("content request", "url", rawURL)

	resp, err := c.rest.R().SetContext(ctx).SetDoNotParseResponse(true).Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", rawURL, err)
	}

	body := resp.RawBody()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		defer body.Close()

		excerpt, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))

		return nil, checkStatus(resp.StatusCode(), rawURL, excerpt)
	}

	return &models.Content{
		Body:   body,
		Length: resp.RawResponse.ContentLength,
	}, nil
}

func checkStatus(status int, requestURL string, body []byte) error {
	switch {
	case status == http.StatusForbidden:
		return fmt.Errorf("%w (GET %s)", ErrAuthentication, requestURL)
	case status < 200 || status > 299:
		return &StatusError{StatusCode: status, URL: requestURL, Body: truncateBody(body)}
	}

	return nil
}

// Ensure Client implements Lister.
var _ interfaces.Lister = (*Client)(nil)
