package monitor

import (
	"github.com/aleister1102/stocknotifier/internal/models"
	"github.com/aleister1102/stocknotifier/internal/urlhandler"
)

// PartitionByHost groups items by URL authority. Every item lands in exactly
// one bucket; buckets are ordered by first appearance of their host and keep
// the snapshot order of their items. URLs without a parsable authority share
// the bucket with an empty host and fail individually when fetched.
func PartitionByHost(items []models.MonitoredItem) []models.HostBucket {
	index := make(map[string]int)
	var buckets []models.HostBucket

	for _, item := range items {
		host := urlhandler.ExtractAuthority(item.URL)
		idx, ok := index[host]
		if !ok {
			idx = len(buckets)
			index[host] = idx
			buckets = append(buckets, models.HostBucket{Host: host})
		}
		buckets[idx].Items = append(buckets[idx].Items, item)
	}

	return buckets
}
