// Package fetch is the retrying HTTP client used for every upstream page.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/okian/fantasy-cricket/pkg/logger"
	"github.com/okian/fantasy-cricket/pkg/metrics"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	defaultTimeout   = 30 * time.Second
	maxBodyBytes     = 16 << 20
)

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches pages with browser-like headers, spacing requests and
// retrying transient failures.
type Client struct {
	doer        Doer
	timeout     time.Duration
	policy      RetryPolicy
	headers     http.Header
	minInterval time.Duration
	fallbackIPs map[string]string
	logger      logger.Logger
	sleep       func(ctx context.Context, d time.Duration) error
	now         func() time.Time

	mu   sync.Mutex
	next time.Time
}

// New creates a Client. Without options it uses DefaultRetryPolicy and no
// pacing.
func New(opts ...Option) *Client {
	c := &Client{
		timeout:     defaultTimeout,
		policy:      DefaultRetryPolicy(),
		headers:     make(http.Header),
		fallbackIPs: make(map[string]string),
		sleep:       sleepContext,
		now:         time.Now,
	}
	c.headers.Set("User-Agent", defaultUserAgent)
	c.headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	c.headers.Set("Accept-Language", "en-US,en;q=0.5")
	c.headers.Set("Cache-Control", "no-cache")
	c.headers.Set("Connection", "keep-alive")

	for _, opt := range opts {
		opt(c)
	}
	if c.doer == nil {
		c.doer = &http.Client{Timeout: c.timeout}
	}
	if c.logger == nil {
		c.logger = logger.Named("fetch")
	}
	return c
}

// Get returns the body of rawURL. Network errors, non-2xx responses and
// empty bodies are retried per the policy; when every attempt fails the
// error is an *ExhaustedError.
func (c *Client) Get(ctx context.Context, rawURL string) (string, error) {
	var lastErr error
	triedFallback := false

	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			wait := c.policy.Backoff(attempt - 1)
			metrics.RecordFetchRetry()
			c.logger.Warn(ctx, "retrying request",
				logger.String("url", rawURL),
				logger.Int("attempt", attempt),
				logger.Duration("wait", wait),
				logger.Error(lastErr),
			)
			if err := c.sleep(ctx, wait); err != nil {
				return "", err
			}
		}
		if err := c.pace(ctx); err != nil {
			return "", err
		}

		body, err := c.do(ctx, c.doer, rawURL)
		if err == nil {
			metrics.RecordFetch(metrics.OutcomeOK)
			return body, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if !triedFallback && isHostNotFound(err) {
			if d, ip := c.fallbackDoer(rawURL); d != nil {
				triedFallback = true
				c.logger.Warn(ctx, "dns lookup failed, trying fallback address",
					logger.String("url", rawURL), logger.String("ip", ip))
				metrics.RecordFetch(metrics.OutcomeFallback)
				fbody, ferr := c.do(ctx, d, rawURL)
				if ferr == nil {
					return fbody, nil
				}
				if ctx.Err() != nil {
					return "", ctx.Err()
				}
				err = ferr
			}
		}

		metrics.RecordFetch(metrics.OutcomeRetry)
		lastErr = err
	}

	metrics.RecordFetch(metrics.OutcomeExhausted)
	return "", &ExhaustedError{URL: rawURL, Attempts: c.policy.MaxAttempts, Err: lastErr}
}

func (c *Client) do(ctx context.Context, d Doer, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header = c.headers.Clone()

	resp, err := d.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return "", ErrEmptyBody
	}
	return string(raw), nil
}

// pace blocks until at least minInterval has passed since the previous
// request start.
func (c *Client) pace(ctx context.Context) error {
	if c.minInterval <= 0 {
		return nil
	}
	c.mu.Lock()
	now := c.now()
	at := c.next
	if at.Before(now) {
		at = now
	}
	c.next = at.Add(c.minInterval)
	c.mu.Unlock()

	return c.sleep(ctx, at.Sub(now))
}

// fallbackDoer returns a client that dials the configured address for the
// URL's host while keeping the hostname for TLS and the Host header.
func (c *Client) fallbackDoer(rawURL string) (Doer, string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, ""
	}
	ip, ok := c.fallbackIPs[u.Hostname()]
	if !ok || ip == "" {
		return nil, ""
	}
	dialer := &net.Dialer{Timeout: c.timeout}
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			_, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			return dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
		},
	}
	return &http.Client{Timeout: c.timeout, Transport: transport}, ip
}

func isHostNotFound(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}
