package datastore

import (
	"context"
	"fmt"

	"github.com/aleister1102/stocknotifier/internal/models"
)

// Subscribe adds the user to the product's recipients. It reports false when
// the subscription already existed.
func (s *Store) Subscribe(ctx context.Context, discordID, productName string) (bool, error) {
	userID, err := s.userID(ctx, discordID)
	if err != nil {
		return false, err
	}
	product, err := s.GetProduct(ctx, productName)
	if err != nil {
		return false, err
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO subscriptions (user_id, product_id) VALUES (?, ?)`, userID, product.ID)
	if err != nil {
		return false, WrapError(err, "failed to insert subscription")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, WrapError(err, "failed to read affected rows")
	}

	if n > 0 {
		s.logger.Info().Str("discord_id", discordID).Str("product", productName).Msg("Subscription added")
	}
	return n > 0, nil
}

// Unsubscribe removes the user from the product's recipients.
func (s *Store) Unsubscribe(ctx context.Context, discordID, productName string) error {
	userID, err := s.userID(ctx, discordID)
	if err != nil {
		return err
	}
	product, err := s.GetProduct(ctx, productName)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_id = ? AND product_id = ?`, userID, product.ID)
	if err != nil {
		return WrapError(err, "failed to delete subscription")
	}
	return s.expectAffected(result, fmt.Sprintf("subscription of %s to %q", discordID, productName), "Subscription removed")
}

// SubscribersOf returns the users subscribed to the named product.
func (s *Store) SubscribersOf(ctx context.Context, productName string) ([]models.User, error) {
	product, err := s.GetProduct(ctx, productName)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.discord_id
		FROM users u
		JOIN subscriptions s ON s.user_id = u.id
		WHERE s.product_id = ?
		ORDER BY u.id`, product.ID)
	if err != nil {
		return nil, WrapError(err, "failed to query subscribers")
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.DiscordID); err != nil {
			return nil, WrapError(err, "failed to scan subscriber")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapError(err, "failed to iterate subscribers")
	}
	return users, nil
}
