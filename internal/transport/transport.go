// Package transport provides http.RoundTripper middleware for upstream API clients.
package transport

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

const DefaultMaxRetries = 3

// RateLimitedTransport retries requests rejected with 429 Too Many Requests, waiting as long as the Retry-After
// header asks. Responses without a usable Retry-After are returned to the caller unchanged.
type RateLimitedTransport struct {
	base       http.RoundTripper
	maxRetries int
}

// WithRateLimiting wraps base, or http.DefaultTransport if base is nil
func WithRateLimiting(base http.RoundTripper, maxRetries int) *RateLimitedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RateLimitedTransport{base: base, maxRetries: maxRetries}
}

func (t *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Preserve the original request body for retries
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		err = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to close request body: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		// RoundTrippers must not modify the caller's request, so each attempt goes out on a copy
		attemptReq := req
		if bodyBytes != nil {
			attemptReq = req.Clone(req.Context())
			attemptReq.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		resp, err := t.base.RoundTrip(attemptReq)
		if err != nil || resp.StatusCode != http.StatusTooManyRequests || attempt >= t.maxRetries {
			return resp, err
		}

		wait := parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
		if wait <= 0 {
			return resp, nil
		}

		err = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to close response body: %w", err)
		}

		log.Printf("Rate limited by %s, retrying in %s (attempt %d of %d)", req.URL.Host, wait, attempt+1, t.maxRetries)
		timer := time.NewTimer(wait)
		select {
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		case <-timer.C:
		}
	}
}

// parseRetryAfter interprets a Retry-After header given either as delta-seconds or as an HTTP date. It returns zero
// for missing or unparsable values.
func parseRetryAfter(value string, now time.Time) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if retryTime, err := http.ParseTime(value); err == nil {
		return retryTime.Sub(now)
	}
	return 0
}
