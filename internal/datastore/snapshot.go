package datastore

import (
	"context"

	"github.com/aleister1102/stocknotifier/internal/models"
	"github.com/dlclark/regexp2"
)

// Snapshot returns one item per product that has at least one subscriber,
// ordered by product ID. Literal indicators are escaped so they match verbatim.
func (s *Store) Snapshot(ctx context.Context) ([]models.MonitoredItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.url, p.indicator, p.is_regex, u.discord_id
		FROM products p
		JOIN subscriptions s ON s.product_id = p.id
		JOIN users u ON u.id = s.user_id
		ORDER BY p.id, u.id`)
	if err != nil {
		return nil, WrapError(err, "failed to query snapshot")
	}
	defer rows.Close()

	var items []models.MonitoredItem
	for rows.Next() {
		var (
			id                            int64
			name, url, indicator, discord string
			isRegex                       bool
		)
		if err := rows.Scan(&id, &name, &url, &indicator, &isRegex, &discord); err != nil {
			return nil, WrapError(err, "failed to scan snapshot row")
		}

		if n := len(items); n > 0 && items[n-1].ID == id {
			items[n-1].SubscriberIDs = append(items[n-1].SubscriberIDs, discord)
			continue
		}

		pattern := indicator
		if !isRegex {
			pattern = regexp2.Escape(indicator)
		}
		items = append(items, models.MonitoredItem{
			ID:            id,
			Name:          name,
			URL:           url,
			Pattern:       pattern,
			SubscriberIDs: []string{discord},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, WrapError(err, "failed to iterate snapshot")
	}

	s.logger.Debug().Int("items", len(items)).Msg("Snapshot taken")
	return items, nil
}
