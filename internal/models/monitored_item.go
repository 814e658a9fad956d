package models

import (
	"fmt"
	"time"
)

// MonitoredItem represents one page being watched for an in-stock indicator.
// Items are read once per cycle from the item source and never mutated by the poller.
type MonitoredItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	// Pattern is a regular expression; literal indicators arrive already escaped.
	Pattern string `json:"pattern"`
	// SubscriberIDs carries the Discord user IDs to mention on a match.
	SubscriberIDs []string `json:"subscriber_ids,omitempty"`
}

// String identifies the item in logs
func (i MonitoredItem) String() string {
	return fmt.Sprintf("%s (%s)", i.Name, i.URL)
}

// HostBucket groups the items of one snapshot that share a URL authority.
// Items keep the order in which they appeared in the snapshot.
type HostBucket struct {
	Host  string
	Items []MonitoredItem
}

// Product is a stored monitored page as managed from the CLI.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Indicator string    `json:"indicator"`
	IsRegex   bool      `json:"is_regex"`
	CreatedAt time.Time `json:"created_at"`
}

// User is a notification recipient identified by a Discord user ID.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	DiscordID string `json:"discord_id"`
}
