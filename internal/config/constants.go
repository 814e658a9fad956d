package config

const (
	// Poller Defaults
	DefaultPollerSameHostDelaySecs   = 1.0
	DefaultPollerGlobalCycleSecs     = 30.0
	DefaultPollerGlobalJitterSecs    = 10.0
	DefaultPollerMaxConcurrentHosts  = 10
	DefaultPollerRequestTimeoutSecs  = 20
	DefaultPollerMaxRetries          = 3
	DefaultPollerSnapshotTimeoutSecs = 30
	DefaultActiveHoursStart          = 8
	DefaultActiveHoursEnd            = 16
	DefaultActiveHoursTimezone       = "Europe/Berlin"

	// HTTP Client Defaults
	DefaultHTTPUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultHTTPMaxContentSize  = 5 * 1024 * 1024
	DefaultHTTPMaxRedirects    = 10
	DefaultHTTPFollowRedirects = true
	DefaultHTTPEnableHTTP2     = true

	// Storage Defaults
	DefaultStorageSQLiteDBPath = "database/stocknotifier.db"

	// Notification Defaults
	DefaultNotificationUsername      = "Stock Notifier"
	DefaultNotificationRatePerMinute = 30
	DefaultNotificationTimeoutSecs   = 15
	DefaultNotificationRemoveOnMatch = false

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3
)
