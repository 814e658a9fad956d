package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aleister1102/stocknotifier/internal/models"
)

// AddUser registers a notification recipient. Discord IDs are unique.
func (s *Store) AddUser(ctx context.Context, name, discordID string) (models.User, error) {
	name = strings.TrimSpace(name)
	discordID = strings.TrimSpace(discordID)
	if name == "" {
		return models.User{}, NewValidationError("name", name, "must not be empty")
	}
	if !isSnowflake(discordID) {
		return models.User{}, NewValidationError("discord_id", discordID, "must be a numeric Discord user ID")
	}

	result, err := s.db.ExecContext(ctx, `INSERT INTO users (name, discord_id) VALUES (?, ?)`, name, discordID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("user with Discord ID %s: %w", discordID, ErrAlreadyExists)
		}
		return models.User{}, WrapError(err, "failed to insert user")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.User{}, WrapError(err, "failed to get last insert ID")
	}

	s.logger.Info().Int64("user_id", id).Str("discord_id", discordID).Msg("User added")
	return models.User{ID: id, Name: name, DiscordID: discordID}, nil
}

// RemoveUser deletes a user by Discord ID together with their subscriptions.
func (s *Store) RemoveUser(ctx context.Context, discordID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE discord_id = ?`, discordID)
	if err != nil {
		return WrapError(err, "failed to delete user")
	}
	return s.expectAffected(result, fmt.Sprintf("user %s", discordID), "User removed")
}

// ListUsers returns all users ordered by ID.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, discord_id FROM users ORDER BY id`)
	if err != nil {
		return nil, WrapError(err, "failed to list users")
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.DiscordID); err != nil {
			return nil, WrapError(err, "failed to scan user")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapError(err, "failed to iterate users")
	}
	return users, nil
}

func (s *Store) userID(ctx context.Context, discordID string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM users WHERE discord_id = ?`, discordID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("user %s: %w", discordID, ErrNotFound)
	}
	if err != nil {
		return 0, WrapError(err, "failed to query user")
	}
	return id, nil
}

func isSnowflake(id string) bool {
	if id == "" || len(id) > 20 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
