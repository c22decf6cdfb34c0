// Package backend reads class sessions from the studio REST backend.
package backend

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/example/studio-scheduler/internal/dates"
	"github.com/example/studio-scheduler/internal/logging"
	"github.com/example/studio-scheduler/internal/studio"
)

const (
	defaultTimeout = 10 * time.Second
	defaultBackoff = 200 * time.Millisecond
	maxBodyBytes   = 4 << 20
	maxErrorBody   = 512
)

// Config controls how the client reaches the backend.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
	Location   *time.Location
	HTTPClient *http.Client
	RequestID  func() string
	Logger     *slog.Logger
}

// Client is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	token      string
	maxRetries int
	backoff    time.Duration
	location   *time.Location
	http       *http.Client
	validate   *validator.Validate
	requestID  func() string
	logger     *slog.Logger
}

// NewClient validates cfg and constructs a Client.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || base.Host == "" || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, fmt.Errorf("backend: base url must be an absolute http or https url: %q", cfg.BaseURL)
	}
	base.Path = strings.TrimRight(base.Path, "/")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	requestID := cfg.RequestID
	if requestID == nil {
		requestID = uuid.NewString
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    base,
		token:      cfg.Token,
		maxRetries: retries,
		backoff:    backoff,
		location:   loc,
		http:       httpClient,
		validate:   newValidator(),
		requestID:  requestID,
		logger:     logger,
	}, nil
}

// ListSessions returns the studio's sessions dated between from and to inclusive.
func (c *Client) ListSessions(ctx context.Context, slug, from, to string) ([]studio.ClassSession, error) {
	if !studio.ValidSlug(slug) {
		return nil, fmt.Errorf("%w: slug %q", ErrInvalidRequest, slug)
	}
	if !dates.IsLocalDate(from) || !dates.IsLocalDate(to) {
		return nil, fmt.Errorf("%w: range %q..%q", ErrInvalidRequest, from, to)
	}

	endpoint := c.baseURL.JoinPath("api", "studios", slug, "sessions")
	query := url.Values{}
	query.Set("from", from)
	query.Set("to", to)
	endpoint.RawQuery = query.Encode()

	requestID := c.requestID()
	logger := c.loggerFor(ctx).With("studio", slug, "backend_request_id", requestID)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff << (attempt - 1)
			logger.WarnContext(ctx, "retrying backend request", "attempt", attempt, "wait", wait, "error", lastErr)
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
		}

		body, status, err := c.get(ctx, endpoint.String(), requestID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		switch {
		case status == http.StatusOK:
			sessions, err := decodeSessions(body, c.validate, c.location)
			if err != nil {
				logger.ErrorContext(ctx, "backend returned invalid payload", "error", err)
				return nil, err
			}
			logger.DebugContext(ctx, "backend sessions loaded", "count", len(sessions))
			return sessions, nil
		case status == http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrStudioNotFound, slug)
		case status >= 500:
			lastErr = &StatusError{StatusCode: status, Body: truncate(body)}
		default:
			return nil, &StatusError{StatusCode: status, Body: truncate(body)}
		}
	}

	logger.ErrorContext(ctx, "backend unavailable", "attempts", c.maxRetries+1, "error", lastErr)
	return nil, fmt.Errorf("%w: %w", ErrUnavailable, lastErr)
}

func (c *Client) get(ctx context.Context, endpoint, requestID string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

func (c *Client) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger.With("component", "backend")
	}
	return c.logger.With("component", "backend")
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return s
}
