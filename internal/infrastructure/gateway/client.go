// Package gateway is the HTTP boundary to the backend. Every call carries an
// absolute timeout, attaches the session bearer token when one exists, and
// surfaces failures through the four-way error taxonomy in errors.go. The
// gateway performs no retries and holds no domain state; it hands raw wire
// payloads to the mapping layer.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shopsphere/client/internal/infrastructure/metrics"
)

// maxResponseSize caps how much of a response body is read (10MB).
const maxResponseSize = 10 * 1024 * 1024

// TokenSource supplies the current bearer token. The session manager
// implements it; an empty string means no session, and the call goes out
// unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Config holds client construction parameters.
type Config struct {
	BaseURL string
	// Timeout is the absolute per-call deadline.
	Timeout time.Duration
	// RateLimitRPS throttles outgoing calls. Zero disables the limiter.
	RateLimitRPS float64
}

// Validate checks the config and applies defaults
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("gateway: base URL is required")
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	return nil
}

// Client executes timed, abortable calls against the backend.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	tokens     TokenSource
	collector  *metrics.Collector
	logger     *zap.Logger
}

// New creates a gateway client. tokens and collector may be nil.
func New(cfg Config, tokens TokenSource, collector *metrics.Collector, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		// The per-call context deadline is authoritative; the http.Client
		// itself carries no timeout so cancellation has one owner.
		httpClient: &http.Client{},
		limiter:    limiter,
		tokens:     tokens,
		collector:  collector,
		logger:     logger,
	}, nil
}

// doJSON executes a JSON call. body and out may be nil.
func (c *Client) doJSON(ctx context.Context, operation, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: %s encode request: %w", operation, err)
		}
		reader = bytes.NewReader(encoded)
	}
	return c.do(ctx, operation, method, path, "application/json", reader, out)
}

// doMultipart executes a binary upload. The content type is left to the
// multipart writer so the transport picks the boundary; only the bearer
// header is set.
func (c *Client) doMultipart(ctx context.Context, operation, path, fieldName, fileName string, file io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		return fmt.Errorf("gateway: %s build form: %w", operation, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("gateway: %s read upload: %w", operation, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("gateway: %s finish form: %w", operation, err)
	}
	return c.do(ctx, operation, http.MethodPost, path, writer.FormDataContentType(), &buf, out)
}

func (c *Client) do(ctx context.Context, operation, method, path, contentType string, body io.Reader, out any) error {
	started := time.Now()
	err := c.execute(ctx, operation, method, path, contentType, body, out)
	if c.collector != nil {
		c.collector.Observe(operation, outcome(err), time.Since(started))
	}
	if err != nil && c.logger != nil {
		c.logger.Warn("gateway call failed",
			zap.String("operation", operation),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
	}
	return err
}

func (c *Client) execute(ctx context.Context, operation, method, path, contentType string, body io.Reader, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &NetworkError{Operation: operation, Err: err}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("gateway: %s build request: %w", operation, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &TimeoutError{Operation: operation}
		}
		return &NetworkError{Operation: operation, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &TimeoutError{Operation: operation}
		}
		return &NetworkError{Operation: operation, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthError{Operation: operation, Message: strings.TrimSpace(string(raw))}
	}
	if resp.StatusCode >= 400 {
		return &HTTPError{Operation: operation, Status: resp.StatusCode, Body: string(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("gateway: %s decode response: %w", operation, err)
		}
	}
	return nil
}
