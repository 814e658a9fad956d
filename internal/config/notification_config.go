package config

// NotificationConfig defines configuration for in-stock notifications
type NotificationConfig struct {
	DiscordWebhookURL string `json:"discord_webhook_url,omitempty" yaml:"discord_webhook_url,omitempty" validate:"omitempty,url"`
	Username          string `json:"username,omitempty" yaml:"username,omitempty"`
	AvatarURL         string `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty" validate:"omitempty,url"`
	// Upper bound on webhook posts per minute; Discord throttles above roughly 30.
	RatePerMinute int  `json:"rate_per_minute,omitempty" yaml:"rate_per_minute,omitempty" validate:"omitempty,min=1"`
	TimeoutSecs   int  `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"omitempty,min=1"`
	RemoveOnMatch bool `json:"remove_on_match" yaml:"remove_on_match"`
}

// NewDefaultNotificationConfig creates default notification configuration
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		DiscordWebhookURL: "",
		Username:          DefaultNotificationUsername,
		RatePerMinute:     DefaultNotificationRatePerMinute,
		TimeoutSecs:       DefaultNotificationTimeoutSecs,
		RemoveOnMatch:     DefaultNotificationRemoveOnMatch,
	}
}
