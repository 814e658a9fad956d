package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aleister1102/stocknotifier/internal/config"
	"github.com/aleister1102/stocknotifier/internal/notifier/discord"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNotificationConfig(webhookURL string) config.NotificationConfig {
	cfg := config.NewDefaultNotificationConfig()
	cfg.DiscordWebhookURL = webhookURL
	cfg.RatePerMinute = 6000
	return cfg
}

func TestNewDiscordNotifier_InvalidURL(t *testing.T) {
	_, err := NewDiscordNotifier(testNotificationConfig("::not a url"), nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestDiscordNotifier_DisabledSkips(t *testing.T) {
	dn, err := NewDiscordNotifier(testNotificationConfig(""), nil, zerolog.Nop())
	require.NoError(t, err)

	assert.False(t, dn.Enabled())
	assert.NoError(t, dn.Send(context.Background(), discord.DiscordMessagePayload{Content: "hi"}))
}

func TestDiscordNotifier_SendPostsJSON(t *testing.T) {
	var received discord.DiscordMessagePayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	cfg := testNotificationConfig(server.URL)
	cfg.AvatarURL = "https://cdn.example/avatar.png"
	dn, err := NewDiscordNotifier(cfg, server.Client(), zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, dn.Send(context.Background(), discord.DiscordMessagePayload{Content: "hello"}))
	assert.Equal(t, "hello", received.Content)
	assert.Equal(t, config.DefaultNotificationUsername, received.Username)
	assert.Equal(t, "https://cdn.example/avatar.png", received.AvatarURL)
}

func TestDiscordNotifier_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Invalid Form Body"}`))
	}))
	defer server.Close()

	dn, err := NewDiscordNotifier(testNotificationConfig(server.URL), server.Client(), zerolog.Nop())
	require.NoError(t, err)

	err = dn.Send(context.Background(), discord.DiscordMessagePayload{Content: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "Invalid Form Body")
}

func TestDiscordNotifier_RetriesOnceAfterRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"message":"You are being rate limited.","retry_after":0.05,"global":false}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	dn, err := NewDiscordNotifier(testNotificationConfig(server.URL), server.Client(), zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, dn.Send(context.Background(), discord.DiscordMessagePayload{Content: "x"}))
	assert.Equal(t, int32(2), calls.Load())
}

func TestDiscordNotifier_RateLimitedTwiceFails(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0.01")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	dn, err := NewDiscordNotifier(testNotificationConfig(server.URL), server.Client(), zerolog.Nop())
	require.NoError(t, err)

	err = dn.Send(context.Background(), discord.DiscordMessagePayload{Content: "x"})
	assert.ErrorContains(t, err, "rate limited")
	assert.Equal(t, int32(2), calls.Load())
}

func TestRetryAfterDelay(t *testing.T) {
	h := http.Header{}
	assert.Equal(t, 1500*time.Millisecond, retryAfterDelay(h, []byte(`{"retry_after":1.5}`)))

	h.Set("Retry-After", "2")
	assert.Equal(t, 2*time.Second, retryAfterDelay(h, nil))

	assert.Equal(t, time.Minute, retryAfterDelay(http.Header{}, []byte(`{"retry_after":3600}`)))
	assert.Zero(t, retryAfterDelay(http.Header{}, nil))
}
