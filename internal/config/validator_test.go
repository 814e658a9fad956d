package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *GlobalConfig)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *GlobalConfig) {},
		},
		{
			name:    "hour out of range",
			mutate:  func(cfg *GlobalConfig) { cfg.PollerConfig.ActiveHoursWindow.EndHour = 24 },
			wantErr: "EndHour",
		},
		{
			name:    "unknown timezone",
			mutate:  func(cfg *GlobalConfig) { cfg.PollerConfig.ActiveHoursWindow.Timezone = "Nowhere/City" },
			wantErr: "timezone",
		},
		{
			name:    "negative same host delay",
			mutate:  func(cfg *GlobalConfig) { cfg.PollerConfig.SameHostDelaySeconds = -1 },
			wantErr: "SameHostDelaySeconds",
		},
		{
			name:    "bad log level",
			mutate:  func(cfg *GlobalConfig) { cfg.LogConfig.LogLevel = "verbose" },
			wantErr: "loglevel",
		},
		{
			name:    "bad log format",
			mutate:  func(cfg *GlobalConfig) { cfg.LogConfig.LogFormat = "xml" },
			wantErr: "logformat",
		},
		{
			name:    "webhook must be a url",
			mutate:  func(cfg *GlobalConfig) { cfg.NotificationConfig.DiscordWebhookURL = "not a url" },
			wantErr: "DiscordWebhookURL",
		},
		{
			name:    "too many retries",
			mutate:  func(cfg *GlobalConfig) { cfg.PollerConfig.MaxRetries = 50 },
			wantErr: "MaxRetries",
		},
		{
			name:    "sqlite path cannot be a directory",
			mutate:  func(cfg *GlobalConfig) { cfg.StorageConfig.SQLiteDBPath = "database/" },
			wantErr: "sqlitepath",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultGlobalConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateConfig_Nil(t *testing.T) {
	err := ValidateConfig(nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "config", validationErr.Field)
}
