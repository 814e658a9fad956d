package httpclient

import (
	"testing"
	"time"

	"github.com/aleister1102/stocknotifier/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientBuilder(t *testing.T) {
	client, err := NewHTTPClientBuilder(zerolog.Nop()).
		WithTimeout(15 * time.Second).
		WithUserAgent("test-agent").
		WithFollowRedirects(false).
		WithInsecureSkipVerify(true).
		WithMaxRedirects(5).
		WithHTTP2(false).
		WithRetry(4, 10*time.Millisecond).
		Build()

	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, client.config.Timeout)
	assert.Equal(t, "test-agent", client.config.UserAgent)
	assert.False(t, client.config.FollowRedirects)
	assert.True(t, client.config.InsecureSkipVerify)
	assert.Equal(t, 5, client.config.MaxRedirects)
	assert.False(t, client.config.EnableHTTP2)
	require.NotNil(t, client.retryHandler)
	assert.Equal(t, 4, client.retryHandler.MaxAttempts())
}

func TestHTTPClientBuilder_DefaultValues(t *testing.T) {
	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)

	defaults := DefaultHTTPClientConfig()
	assert.Equal(t, defaults.Timeout, client.config.Timeout)
	assert.Equal(t, defaults.UserAgent, client.config.UserAgent)
	assert.Equal(t, defaults.FollowRedirects, client.config.FollowRedirects)
	assert.Nil(t, client.retryHandler)
}

func TestHTTPClientBuilder_InvalidProxy(t *testing.T) {
	cfg := DefaultHTTPClientConfig()
	cfg.Proxy = "://bad"

	_, err := NewHTTPClientBuilder(zerolog.Nop()).WithConfig(cfg).Build()
	assert.Error(t, err)
}

func TestFromAppConfig(t *testing.T) {
	httpCfg := config.NewDefaultHTTPClientConfig()
	httpCfg.UserAgent = "custom"
	httpCfg.CustomHeaders = map[string]string{"X-A": "1"}
	pollerCfg := config.NewDefaultPollerConfig()
	pollerCfg.RequestTimeoutSeconds = 12

	cfg := FromAppConfig(httpCfg, pollerCfg)

	assert.Equal(t, "custom", cfg.UserAgent)
	assert.Equal(t, "1", cfg.CustomHeaders["X-A"])
	assert.Equal(t, 12*time.Second, cfg.Timeout)
	assert.Equal(t, httpCfg.MaxContentSize, cfg.MaxContentSize)
}
