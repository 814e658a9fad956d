package httpclient

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"syscall"

	"github.com/andybalholm/brotli"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// HTTPClient fetches monitored pages. A single instance is shared by all host
// workers; the underlying transport pools connections per host.
type HTTPClient struct {
	client       *http.Client
	config       HTTPClientConfig
	logger       zerolog.Logger
	retryHandler *RetryHandler
	bufferPool   sync.Pool
}

// NewHTTPClient creates a new HTTP client with the given configuration using net/http
func NewHTTPClient(config HTTPClientConfig, logger zerolog.Logger) (*HTTPClient, error) {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          config.MaxIdleConns,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		IdleConnTimeout:       config.IdleConnTimeout,
		TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
		ExpectContinueTimeout: config.ExpectContinueTimeout,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify,
		},
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		} else {
			logger.Debug().Msg("HTTP/2 support enabled")
		}
	}

	if config.Proxy != "" {
		proxyURL, err := url.Parse(config.Proxy)
		if err != nil {
			return nil, WrapError(err, "failed to parse proxy URL")
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		logger.Info().Str("proxy", config.Proxy).Msg("HTTP client configured with proxy")
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}

	if !config.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	} else if config.MaxRedirects > 0 {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= config.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", config.MaxRedirects)
			}
			return nil
		}
	}

	logger.Debug().
		Dur("timeout", config.Timeout).
		Bool("insecure_skip_verify", config.InsecureSkipVerify).
		Bool("follow_redirects", config.FollowRedirects).
		Int("max_redirects", config.MaxRedirects).
		Bool("http2_enabled", config.EnableHTTP2).
		Msg("HTTP client created")

	return &HTTPClient{
		client: client,
		config: config,
		logger: logger.With().Str("component", "HTTPClient").Logger(),
		bufferPool: sync.Pool{
			New: func() interface{} {
				b := make([]byte, 0, 32*1024)
				return &b
			},
		},
	}, nil
}

// SetRetryHandler installs the retry policy used by Fetch
func (c *HTTPClient) SetRetryHandler(rh *RetryHandler) {
	c.retryHandler = rh
}

// Fetch downloads the page at rawURL and returns its decoded body. Network-class
// failures are retried by the configured RetryHandler; anything else is returned
// on the first attempt.
//
// Each round trip is detached from ctx cancellation so an in-flight request is
// allowed to finish within the client timeout. Backoff waits between attempts
// still stop as soon as ctx is done.
func (c *HTTPClient) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if c.retryHandler == nil {
		return c.get(context.WithoutCancel(ctx), rawURL)
	}
	return c.retryHandler.DoWithRetry(ctx, rawURL, func() ([]byte, error) {
		return c.get(context.WithoutCancel(ctx), rawURL)
	})
}

// get performs exactly one GET attempt
func (c *HTTPClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, WrapError(err, "failed to create HTTP request")
	}

	for key, value := range browserHeaders {
		req.Header.Set(key, value)
	}
	for key, value := range c.config.CustomHeaders {
		req.Header.Set(key, value)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if isNetworkError(err) {
			return nil, NewNetworkError(rawURL, "request failed", err)
		}
		return nil, WrapError(err, "HTTP request failed")
	}
	defer resp.Body.Close()

	body, readErr := c.readBody(rawURL, resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := body
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, NewHTTPErrorWithURL(resp.StatusCode, string(snippet), rawURL)
	}
	if readErr != nil {
		return nil, readErr
	}

	c.logger.Debug().
		Str("url", rawURL).
		Int("status_code", resp.StatusCode).
		Int("content_size", len(body)).
		Msg("Fetched page")

	return body, nil
}

// readBody decodes the response according to Content-Encoding and enforces the
// content size cap. Only a stream that breaks while being read is reported as a
// network error; a malformed encoding or an oversized body is final.
func (c *HTTPClient) readBody(rawURL string, resp *http.Response) ([]byte, error) {
	reader, closeFn, err := decodeBody(resp)
	if err != nil {
		return nil, WrapError(err, "failed to decode response body")
	}
	defer closeFn()

	if c.config.MaxContentSize > 0 {
		reader = io.LimitReader(reader, int64(c.config.MaxContentSize)+1)
	}

	bufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(bufPtr)
	buf := bytes.NewBuffer((*bufPtr)[:0])

	if _, err := io.Copy(buf, reader); err != nil {
		if isNetworkError(err) {
			return nil, NewNetworkError(rawURL, "failed to read response body", err)
		}
		return nil, WrapError(err, "failed to decode response body")
	}

	if c.config.MaxContentSize > 0 && buf.Len() > c.config.MaxContentSize {
		c.logger.Warn().
			Str("url", rawURL).
			Int("max_content_size", c.config.MaxContentSize).
			Msg("Content size exceeds limit")
		return nil, NewContentTooLargeError(rawURL, c.config.MaxContentSize)
	}

	body := make([]byte, buf.Len())
	copy(body, buf.Bytes())
	return body, nil
}

func decodeBody(resp *http.Response) (io.Reader, func(), error) {
	noop := func() {}
	// net/http already stripped gzip when it negotiated it itself.
	if resp.Uncompressed {
		return resp.Body, noop, nil
	}

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "", "identity":
		return resp.Body, noop, nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, noop, err
		}
		return zr, func() { _ = zr.Close() }, nil
	case "deflate":
		fr := flate.NewReader(resp.Body)
		return fr, func() { _ = fr.Close() }, nil
	case "br":
		return brotli.NewReader(resp.Body), noop, nil
	default:
		return nil, noop, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}
}

// isNetworkError reports whether err is a transport-level failure worth retrying:
// timeouts, refused or reset connections, DNS failures, and truncated streams.
func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
