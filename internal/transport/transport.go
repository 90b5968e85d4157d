// Package transport provides the HTTP round tripper under the Google Cloud
// API clients: it tags requests with the catalogsync user agent and logs
// every call through the logger of the request context.
package transport

import (
	"net/http"
	"time"

	"github.com/agentstation/catalogsync/pkg/logging"
)

// UserAgent is prepended to the User-Agent header of every request.
const UserAgent = "catalogsync"

// RoundTripper decorates a base round tripper.
type RoundTripper struct {
	base      http.RoundTripper
	userAgent string
	now       func() time.Time
}

// New wraps base, http.DefaultTransport when nil.
func New(base http.RoundTripper) *RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &RoundTripper{base: base, userAgent: UserAgent, now: time.Now}
}

// RoundTrip implements http.RoundTripper.
func (t *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	req = req.Clone(req.Context())
	if ua := req.Header.Get("User-Agent"); ua != "" {
		req.Header.Set("User-Agent", t.userAgent+" "+ua)
	} else {
		req.Header.Set("User-Agent", t.userAgent)
	}

	start := t.now()
	resp, err := t.base.RoundTrip(req)
	elapsed := t.now().Sub(start)

	logger := logging.FromContext(req.Context())
	if err != nil {
		logger.Debug().
			Err(err).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Dur("elapsed", elapsed).
			Msg("Google API request failed")
		return nil, err
	}

	event := logger.Trace()
	if resp.StatusCode >= http.StatusBadRequest {
		event = logger.Debug()
	}
	event.
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("Google API request")
	return resp, nil
}
