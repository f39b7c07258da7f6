package httputil

import (
	"net/http"
	"strings"
	"time"
)

// NewClientFromConfig builds an outgoing client for the given auth settings.
// Alert and scrape targets are hit on long intervals, so callers usually
// disable keep alives and let idle sockets go.
func NewClientFromConfig(cfg HTTPClientConfig, disableKeepAlives bool) (*http.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var rt http.RoundTripper = &http.Transport{
		MaxIdleConns:          512,
		MaxIdleConnsPerHost:   64,
		DisableKeepAlives:     disableKeepAlives,
		DisableCompression:    true,
		IdleConnTimeout:       5 * time.Minute,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}
	if len(cfg.BearerToken) > 0 {
		rt = &bearerAuthRoundTripper{token: cfg.BearerToken, next: rt}
	}
	if cfg.BasicAuth != nil {
		rt = &basicAuthRoundTripper{
			username: cfg.BasicAuth.Username,
			password: cfg.BasicAuth.Password,
			next:     rt,
		}
	}
	return &http.Client{Transport: rt}, nil
}

type bearerAuthRoundTripper struct {
	token string
	next  http.RoundTripper
}

// RoundTrip sets the bearer token unless the request already carries an
// Authorization header.
func (rt *bearerAuthRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+rt.token)
	}
	return rt.next.RoundTrip(req)
}

type basicAuthRoundTripper struct {
	username string
	password string
	next     http.RoundTripper
}

func (rt *basicAuthRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") == "" {
		req.SetBasicAuth(rt.username, strings.TrimSpace(rt.password))
	}
	return rt.next.RoundTrip(req)
}
