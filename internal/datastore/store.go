package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const sqlitePragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Store persists products, users and their subscriptions in SQLite.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewStore opens (creating if needed) the database at path and ensures the schema.
func NewStore(path string, logger zerolog.Logger) (*Store, error) {
	logger = logger.With().Str("component", "Store").Logger()
	logger.Info().Str("db_path", path).Msg("Opening product database")

	dbDir := filepath.Dir(path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error().Err(err).Str("directory", dbDir).Msg("Failed to create database directory")
		return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
	}

	dbInstance, err := sql.Open("sqlite", path+sqlitePragmas)
	if err != nil {
		logger.Error().Err(err).Str("db_path", path).Msg("Failed to open database")
		return nil, fmt.Errorf("sql.Open failed for %s: %w", path, err)
	}
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY churn.
	dbInstance.SetMaxOpenConns(1)

	s := &Store{
		db:     dbInstance,
		logger: logger,
	}

	if err := s.InitSchema(context.Background()); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	logger.Info().Str("path", path).Msg("Database initialized and schema verified")
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		indicator TEXT NOT NULL,
		is_regex INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		discord_id TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, product_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_subscriptions_product ON subscriptions(product_id)`,
}

// InitSchema creates the products, users and subscriptions tables if missing.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.logger.Error().Err(err).Msg("Failed to initialize schema")
			return err
		}
	}
	s.logger.Debug().Msg("Schema initialized (products, users, subscriptions)")
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
