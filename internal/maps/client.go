package maps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"buyback-logistics/internal/config"
)

// ErrReferrerRestricted marks the provider rejecting the key for server-side
// use. The distance calculator trips its circuit breaker on this error.
var ErrReferrerRestricted = errors.New("maps: api key is referrer-restricted")

// ErrNoResults is returned when the provider answers successfully but finds
// no route or location for the input.
var ErrNoResults = errors.New("maps: no results")

// Client calls the mapping provider for directions, geocoding and waypoint
// optimization. All calls carry a bounded timeout and retry transient
// failures. Safe for concurrent use.
type Client struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewClient(cfg config.MapsConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("maps api key is empty")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		session: &http.Client{Timeout: timeout},
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("maps: status %d: %s", e.Code, e.Body)
}

func (c *Client) get(ctx context.Context, path string, query map[string]string) (*http.Response, error) {
	makeReq := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		q := req.URL.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		q.Set("key", c.apiKey)
		req.URL.RawQuery = q.Encode()
		return req, nil
	}

	return c.doWithRetry(ctx, makeReq)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429, 5xx) with
// exponential backoff while respecting context cancellation.
func (c *Client) doWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	const maxAttempts = 3
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, err
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

// statusToError maps the provider's body-level status field onto errors.
// REQUEST_DENIED with a referer complaint is the restriction the circuit
// breaker cares about.
func statusToError(status, errorMessage string) error {
	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS":
		return ErrNoResults
	case "REQUEST_DENIED":
		if strings.Contains(strings.ToLower(errorMessage), "referer") ||
			strings.Contains(strings.ToLower(errorMessage), "referrer") {
			return ErrReferrerRestricted
		}
		return fmt.Errorf("maps: request denied: %s", errorMessage)
	default:
		return fmt.Errorf("maps: status %s: %s", status, errorMessage)
	}
}
