package services

import (
	"errors"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// userAgentTransport stamps a fixed User-Agent on requests that don't carry one.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}

// NewHTTPClient builds the client used for page fetches: a fixed browser User-Agent and an overall timeout.
//
// A zero timeout falls back to 30s; an empty userAgent to [DefaultUserAgent]. No retries are attempted.
func NewHTTPClient(userAgent string, timeout time.Duration) *http.Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSHandshakeTimeout = 10 * time.Second
	base.ResponseHeaderTimeout = timeout

	return &http.Client{
		Transport: &userAgentTransport{base: base, userAgent: userAgent},
		Timeout:   timeout,
	}
}
