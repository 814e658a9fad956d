package httpclient

import (
	"time"

	"github.com/aleister1102/stocknotifier/internal/config"
)

// HTTPClientConfig holds configuration for the HTTP client
type HTTPClientConfig struct {
	Timeout               time.Duration     // Per-attempt request timeout
	UserAgent             string            // User-Agent header
	InsecureSkipVerify    bool              // Skip TLS verification
	FollowRedirects       bool              // Whether to follow redirects
	MaxRedirects          int               // Maximum number of redirects to follow
	Proxy                 string            // Proxy URL (HTTP/SOCKS)
	CustomHeaders         map[string]string // Extra headers added to every request
	MaxContentSize        int               // Largest accepted body in bytes, 0 for no limit
	MaxIdleConns          int               // Maximum idle connections
	MaxIdleConnsPerHost   int               // Maximum idle connections per host
	IdleConnTimeout       time.Duration     // Idle connection timeout
	TLSHandshakeTimeout   time.Duration     // TLS handshake timeout
	ExpectContinueTimeout time.Duration     // Expect 100-continue timeout
	DialTimeout           time.Duration     // Connection dial timeout
	KeepAlive             time.Duration     // Keep-alive duration
	EnableHTTP2           bool              // Enable HTTP/2 support
}

// DefaultHTTPClientConfig returns the default HTTP client configuration
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:               time.Duration(config.DefaultPollerRequestTimeoutSecs) * time.Second,
		UserAgent:             config.DefaultHTTPUserAgent,
		FollowRedirects:       config.DefaultHTTPFollowRedirects,
		MaxRedirects:          config.DefaultHTTPMaxRedirects,
		CustomHeaders:         map[string]string{},
		MaxContentSize:        config.DefaultHTTPMaxContentSize,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DialTimeout:           10 * time.Second,
		KeepAlive:             30 * time.Second,
		EnableHTTP2:           config.DefaultHTTPEnableHTTP2,
	}
}

// FromAppConfig merges the application's transport and poller settings into a client config
func FromAppConfig(httpCfg config.HTTPClientConfig, pollerCfg config.PollerConfig) HTTPClientConfig {
	cfg := DefaultHTTPClientConfig()
	if httpCfg.UserAgent != "" {
		cfg.UserAgent = httpCfg.UserAgent
	}
	for k, v := range httpCfg.CustomHeaders {
		cfg.CustomHeaders[k] = v
	}
	cfg.Proxy = httpCfg.Proxy
	cfg.InsecureSkipVerify = httpCfg.InsecureSkipVerify
	cfg.FollowRedirects = httpCfg.FollowRedirects
	cfg.MaxRedirects = httpCfg.MaxRedirects
	cfg.MaxContentSize = httpCfg.MaxContentSize
	cfg.EnableHTTP2 = httpCfg.EnableHTTP2
	if timeout := pollerCfg.RequestTimeout(); timeout > 0 {
		cfg.Timeout = timeout
	}
	return cfg
}

// browserHeaders mimic a desktop Chrome navigation so that storefronts serve
// the regular page. Accept-Encoding is set alongside, see decodeBody.
var browserHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"Accept-Encoding":           "gzip, deflate, br",
	"Cache-Control":             "no-cache",
	"Pragma":                    "no-cache",
	"Upgrade-Insecure-Requests": "1",
}
