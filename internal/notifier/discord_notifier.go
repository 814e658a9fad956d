package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aleister1102/stocknotifier/internal/config"
	"github.com/aleister1102/stocknotifier/internal/notifier/discord"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DiscordNotifier posts message payloads to a Discord webhook. Posts are
// throttled locally and a single 429 response is retried after the delay
// Discord asks for.
type DiscordNotifier struct {
	webhookURL string
	username   string
	avatarURL  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewDiscordNotifier creates a webhook sender. An empty webhook URL yields a
// notifier that only logs.
func NewDiscordNotifier(cfg config.NotificationConfig, httpClient *http.Client, logger zerolog.Logger) (*DiscordNotifier, error) {
	moduleLogger := logger.With().Str("component", "DiscordNotifier").Logger()

	if cfg.DiscordWebhookURL != "" {
		if _, err := url.ParseRequestURI(cfg.DiscordWebhookURL); err != nil {
			return nil, fmt.Errorf("invalid discord webhook URL: %w", err)
		}
	} else {
		moduleLogger.Warn().Msg("Discord webhook URL is not configured, matches will only be logged")
	}

	if httpClient == nil {
		timeout := time.Duration(cfg.TimeoutSecs) * time.Second
		if timeout <= 0 {
			timeout = time.Duration(config.DefaultNotificationTimeoutSecs) * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	perMinute := cfg.RatePerMinute
	if perMinute <= 0 {
		perMinute = config.DefaultNotificationRatePerMinute
	}

	return &DiscordNotifier{
		webhookURL: cfg.DiscordWebhookURL,
		username:   cfg.Username,
		avatarURL:  cfg.AvatarURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		logger:     moduleLogger,
	}, nil
}

// Enabled reports whether a webhook is configured
func (dn *DiscordNotifier) Enabled() bool {
	return dn.webhookURL != ""
}

// Send delivers payload to the webhook. Username and avatar default to the configured ones.
func (dn *DiscordNotifier) Send(ctx context.Context, payload discord.DiscordMessagePayload) error {
	if !dn.Enabled() {
		dn.logger.Info().Str("content", payload.Content).Msg("Webhook URL is empty, skipping Discord notification")
		return nil
	}

	if payload.Username == "" {
		payload.Username = dn.username
	}
	if payload.AvatarURL == "" {
		payload.AvatarURL = dn.avatarURL
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal discord payload: %w", err)
	}

	retryAfter, err := dn.post(ctx, body)
	if err == nil || retryAfter <= 0 {
		return err
	}

	dn.logger.Warn().Dur("retry_after", retryAfter).Msg("Discord rate limited the webhook, retrying once")
	timer := time.NewTimer(retryAfter)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("discord retry aborted: %w", ctx.Err())
	case <-timer.C:
	}

	_, err = dn.post(ctx, body)
	return err
}

// post sends one request. On a 429 it returns the requested back-off with the error.
func (dn *DiscordNotifier) post(ctx context.Context, body []byte) (time.Duration, error) {
	if err := dn.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("waiting for webhook rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dn.webhookURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := dn.httpClient.Do(req)
	if err != nil {
		dn.logger.Error().Err(err).Msg("Failed to send Discord notification")
		return 0, fmt.Errorf("failed to send discord notification: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLength))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		dn.logger.Debug().Int("status_code", resp.StatusCode).Msg("Discord notification sent")
		return 0, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return retryAfterDelay(resp.Header, respBody), fmt.Errorf("discord webhook rate limited: %s", string(respBody))
	default:
		dn.logger.Error().Int("status_code", resp.StatusCode).Str("response_body", string(respBody)).Msg("Discord notification failed")
		return 0, fmt.Errorf("discord notification failed with status %d: %s", resp.StatusCode, string(respBody))
	}
}

// retryAfterDelay reads the back-off from a 429 response, preferring the JSON
// retry_after field over the Retry-After header.
func retryAfterDelay(header http.Header, body []byte) time.Duration {
	var parsed struct {
		RetryAfter float64 `json:"retry_after"`
	}
	delay := time.Duration(0)
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.RetryAfter > 0 {
		delay = time.Duration(parsed.RetryAfter * float64(time.Second))
	} else if secs, err := strconv.ParseFloat(header.Get("Retry-After"), 64); err == nil && secs > 0 {
		delay = time.Duration(secs * float64(time.Second))
	}

	if delay > maxRateLimitBackoff {
		delay = maxRateLimitBackoff
	}
	return delay
}
