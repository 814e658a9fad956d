package httpclient

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Fetch_BrowserHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Accept"), "text/html")
		assert.NotEmpty(t, r.Header.Get("Accept-Language"))
		assert.Contains(t, r.Header.Get("Accept-Encoding"), "gzip")
		assert.Equal(t, "yes", r.Header.Get("X-Custom"))
		_, _ = w.Write([]byte("<html>Add to cart</html>"))
	}))
	defer server.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.UserAgent = "test-agent"
	cfg.CustomHeaders = map[string]string{"X-Custom": "yes"}
	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithConfig(cfg).Build()
	require.NoError(t, err)

	body, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html>Add to cart</html>", string(body))
}

func TestHTTPClient_Fetch_DecodesGzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write([]byte("in stock"))
		_ = zw.Close()
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)

	body, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "in stock", string(body))
}

func TestHTTPClient_Fetch_DecodesBrotli(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		bw := brotli.NewWriter(&buf)
		_, _ = bw.Write([]byte("only 2 left"))
		_ = bw.Close()
		w.Header().Set("Content-Encoding", "br")
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)

	body, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "only 2 left", string(body))
}

func TestHTTPClient_Fetch_NonSuccessStatusIsNotRetried(t *testing.T) {
	var requestCount int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requestCount, 1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("gone"))
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithRetry(3, time.Millisecond).Build()
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, "gone", httpErr.Body)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
}

func TestHTTPClient_Fetch_MalformedURLIsNotRetried(t *testing.T) {
	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithRetry(3, time.Millisecond).Build()
	require.NoError(t, err)

	var sleeps []time.Duration
	client.retryHandler.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	_, err = client.Fetch(context.Background(), "http://[::1")
	require.Error(t, err)

	var netErr *NetworkError
	assert.False(t, strings.Contains(err.Error(), "network error"))
	assert.NotErrorAs(t, err, &netErr)
	assert.Empty(t, sleeps)
}

func TestHTTPClient_Fetch_OversizedContentIsNotRetried(t *testing.T) {
	var requestCount int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requestCount, 1)
		_, _ = w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).
		WithMaxContentSize(10).
		WithRetry(3, time.Millisecond).
		Build()
	require.NoError(t, err)

	body, err := client.Fetch(context.Background(), server.URL)
	assert.Nil(t, body)

	var tooLarge *ContentTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, 10, tooLarge.Limit)
	var netErr *NetworkError
	assert.False(t, errors.As(err, &netErr))
	assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
}

func TestHTTPClient_Fetch_ContentAtLimitIsAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 10)))
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithMaxContentSize(10).Build()
	require.NoError(t, err)

	body, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Len(t, body, 10)
}

func TestHTTPClient_Fetch_MalformedEncodingIsNotRetried(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{name: "empty gzip body", body: nil},
		{name: "bad gzip header", body: []byte("plain text")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requestCount int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&requestCount, 1)
				w.Header().Set("Content-Encoding", "gzip")
				_, _ = w.Write(tt.body)
			}))
			defer server.Close()

			client, err := NewHTTPClientBuilder(zerolog.Nop()).WithRetry(3, time.Millisecond).Build()
			require.NoError(t, err)

			_, err = client.Fetch(context.Background(), server.URL)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to decode response body")

			var netErr *NetworkError
			assert.False(t, errors.As(err, &netErr))
			assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
		})
	}
}

func TestHTTPClient_Redirects(t *testing.T) {
	var target *httptest.Server
	target = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, target.URL+"/new", http.StatusFound)
			return
		}
		_, _ = w.Write([]byte("new page"))
	}))
	defer target.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)
	body, err := client.Fetch(context.Background(), target.URL+"/old")
	require.NoError(t, err)
	assert.Equal(t, "new page", string(body))

	noFollow, err := NewHTTPClientBuilder(zerolog.Nop()).WithFollowRedirects(false).Build()
	require.NoError(t, err)
	_, err = noFollow.Fetch(context.Background(), target.URL+"/old")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusFound, httpErr.StatusCode)
}

func TestIsNetworkError(t *testing.T) {
	assert.False(t, isNetworkError(nil))
	assert.False(t, isNetworkError(context.Canceled))
	assert.True(t, isNetworkError(context.DeadlineExceeded))
	assert.False(t, isNetworkError(NewError("plain")))
}
