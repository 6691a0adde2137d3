// internal/adapters/backoffice/client.go
package backoffice

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"travel_console/internal/adapters/observability"
	"travel_console/internal/domain"
)

const maxBody = 8 << 20

// Client talks to the upstream admin REST API.
type Client struct {
	base  string
	hc    *http.Client
	token string
	rl    *rate.Limiter
	cb    *gobreaker.CircuitBreaker
}

func New(base, token string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("backoffice base URL is required")
	}
	if rps <= 0 {
		rps = 20
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		hc:    &http.Client{Timeout: 20 * time.Second},
		token: token,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
		cb:    newBreaker("backoffice"),
	}, nil
}

// ---- Public API ----

func (c *Client) Cities() *Collection[domain.City] {
	return &Collection[domain.City]{c: c, path: domain.ResourceCities}
}

func (c *Client) Hotels() *Collection[domain.Hotel] {
	return &Collection[domain.Hotel]{c: c, path: domain.ResourceHotels}
}

func (c *Client) Contacts() *Collection[domain.Contact] {
	return &Collection[domain.Contact]{c: c, path: domain.ResourceContacts}
}

func (c *Client) Languages() *Collection[domain.Language] {
	return &Collection[domain.Language]{c: c, path: domain.ResourceLanguages}
}

func (c *Client) CreateUser(ctx context.Context, u domain.NewUser) (domain.User, error) {
	var out domain.User
	_, err := c.do(ctx, http.MethodPost, "auth/users", u, &out)
	return out, err
}

// ---- Internals ----

// do sends one request and decodes the (optionally data-wrapped) body into out.
// It reports whether a body was decoded. GETs are retried on 429 and transient
// 5xx, honoring Retry-After; mutations are sent exactly once.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (bool, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return false, err
	}

	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return false, fmt.Errorf("encode %s body: %w", path, err)
		}
		payload = b
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = 4
	}
	endpoint := strings.SplitN(path, "/", 2)[0]

	var lastErr error
	for i := 0; i < attempts; i++ {
		res, err := c.cb.Execute(func() (interface{}, error) {
			return c.roundTrip(ctx, method, path, endpoint, payload)
		})
		if err == nil {
			body := res.([]byte)
			return decodeEnvelope(body, out)
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return false, fmt.Errorf("%w: %s unavailable (%v)", domain.ErrNetwork, endpoint, err)
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		lastErr = err

		var wait time.Duration
		var re *retryableError
		switch {
		case errors.As(err, &re):
			wait = re.after
			lastErr = re.err
		case errors.Is(err, domain.ErrNetwork):
		default:
			return false, err // 4xx and friends: never retried
		}
		if wait == 0 {
			wait = backoff(i)
		}
		if i < attempts-1 && sleepCtx(ctx, wait) {
			continue
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
	}
	return false, lastErr
}

// retryableError marks 429/5xx answers; after is the server's Retry-After.
type retryableError struct {
	err   error
	after time.Duration
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func (c *Client) roundTrip(ctx context.Context, method, path, endpoint string, payload []byte) ([]byte, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+"/"+path, rd)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "travel-console/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("backoffice", endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("backoffice", endpoint, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrNetwork, path, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil

	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout,
		resp.StatusCode == http.StatusInternalServerError:
		return nil, &retryableError{err: decodeError(resp.StatusCode, body), after: retryAfter(resp)}

	default:
		return nil, decodeError(resp.StatusCode, body)
	}
}

// decodeEnvelope accepts either the resource itself or {"data": resource}.
func decodeEnvelope(body []byte, out any) (bool, error) {
	if len(bytes.TrimSpace(body)) == 0 || out == nil {
		return false, nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		body = env.Data
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return true, nil
}

// decodeError builds an APIError from {"message": "...", "errors": {field: msg|[msg]}}.
func decodeError(status int, body []byte) *domain.APIError {
	ae := &domain.APIError{Status: status}
	var raw struct {
		Message string                     `json:"message"`
		Errors  map[string]json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return ae
	}
	ae.Message = strings.TrimSpace(raw.Message)
	if len(raw.Errors) > 0 {
		ae.Fields = make(map[string]string, len(raw.Errors))
		for k, v := range raw.Errors {
			var s string
			if json.Unmarshal(v, &s) == nil {
				ae.Fields[k] = s
				continue
			}
			var ss []string
			if json.Unmarshal(v, &ss) == nil && len(ss) > 0 {
				ae.Fields[k] = ss[0]
			}
		}
	}
	if status == http.StatusConflict && ae.Message == "" {
		ae.Message = "A record with the same identifier already exists."
	}
	return ae
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
