// Package contentful implements content.Source against the Contentful Content
// Delivery API.
package contentful

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/recipebook/internal/config"
	"git.home.luguber.info/inful/recipebook/internal/content"
	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
	"git.home.luguber.info/inful/recipebook/internal/logfields"
)

const (
	maxResponseBytes = 20 * 1024 * 1024
	includeDepth     = 2
)

// Client queries entries from one space and environment. It holds no mutable
// state and is safe for concurrent use.
type Client struct {
	baseURL     string
	spaceID     string
	environment string
	token       string
	pageSize    int
	http        *http.Client
	logger      *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL overrides the API origin (scheme and host), e.g. for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient builds a client from content configuration.
func NewClient(cfg config.ContentConfig, opts ...Option) (*Client, error) {
	if cfg.SpaceID == "" || cfg.AccessToken == "" {
		return nil, derrors.ConfigError("content space id and access token are required").Build()
	}
	c := &Client{
		baseURL:     "https://" + cfg.Host,
		spaceID:     cfg.SpaceID,
		environment: cfg.Environment,
		token:       cfg.AccessToken,
		pageSize:    cfg.PageSize,
		http:        &http.Client{Timeout: cfg.Timeout},
		logger:      slog.Default(),
	}
	if c.environment == "" {
		c.environment = config.DefaultEnvironment
	}
	if c.pageSize <= 0 {
		c.pageSize = config.DefaultPageSize
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Query implements content.Source. It pages through every matching entry.
func (c *Client) Query(ctx context.Context, q content.Query) ([]content.Record, error) {
	var records []content.Record
	for skip := 0; ; {
		page, err := c.fetchPage(ctx, q, skip)
		if err != nil {
			return nil, err
		}
		records = append(records, page.records()...)
		skip += len(page.Items)
		if len(page.Items) == 0 || skip >= page.Total {
			break
		}
	}
	c.logger.Debug("Queried entries",
		logfields.ContentType(q.ContentType),
		logfields.Count(len(records)))
	return records, nil
}

func (c *Client) entriesURL(q content.Query, skip int) string {
	params := url.Values{}
	if q.ContentType != "" {
		params.Set("content_type", q.ContentType)
	}
	for name, value := range q.Fields {
		params.Set("fields."+name, value)
	}
	params.Set("include", strconv.Itoa(includeDepth))
	params.Set("skip", strconv.Itoa(skip))
	params.Set("limit", strconv.Itoa(c.pageSize))
	return fmt.Sprintf("%s/spaces/%s/environments/%s/entries?%s",
		c.baseURL, url.PathEscape(c.spaceID), url.PathEscape(c.environment), params.Encode())
}

func (c *Client) fetchPage(ctx context.Context, q content.Query, skip int) (*entriesResponse, error) {
	endpoint := c.entriesURL(q, skip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryInternal, "build entries request").Build()
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.contentful.delivery.v1+json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryNetwork, "content service request failed").
			Retryable().
			WithContext("content_type", q.ContentType).
			Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryNetwork, "read content service response").Retryable().Build()
	}
	if len(body) > maxResponseBytes {
		return nil, derrors.ContentSourceError("content service response too large").Build()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(resp.StatusCode, body, q)
	}

	var page entriesResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryContentSource, "decode entries response").Build()
	}
	c.logger.Debug("Fetched entries page",
		logfields.ContentType(q.ContentType),
		slog.Int("skip", skip),
		slog.Int("total", page.Total),
		logfields.Duration(time.Since(start)))
	return &page, nil
}

// apiError is the error body returned by the delivery API.
type apiError struct {
	Sys struct {
		ID string `json:"id"`
	} `json:"sys"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

var errStatus = errors.New("unexpected status")

func classifyStatus(status int, body []byte, q content.Query) error {
	var apiErr apiError
	_ = json.Unmarshal(body, &apiErr)
	message := apiErr.Message
	if message == "" {
		message = http.StatusText(status)
	}
	cause := fmt.Errorf("%w: HTTP %d: %s", errStatus, status, message)

	var b *derrors.ErrorBuilder
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		b = derrors.WrapError(cause, derrors.CategoryAuth, "content service rejected credentials").UserAction()
	case status == http.StatusNotFound:
		b = derrors.WrapError(cause, derrors.CategoryConfig, "content space or environment not found").UserAction()
	case status == http.StatusTooManyRequests:
		b = derrors.WrapError(cause, derrors.CategoryNetwork, "content service rate limit exceeded").RateLimit()
	case status >= 500:
		b = derrors.WrapError(cause, derrors.CategoryNetwork, "content service unavailable").Retryable()
	default:
		b = derrors.WrapError(cause, derrors.CategoryContentSource, "content service query failed")
	}
	b = b.WithContext("status", status).WithContext("content_type", q.ContentType)
	if apiErr.RequestID != "" {
		b = b.WithContext("request_id", apiErr.RequestID)
	}
	return b.Build()
}
