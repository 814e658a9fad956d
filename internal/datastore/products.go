package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aleister1102/stocknotifier/internal/models"
	"github.com/aleister1102/stocknotifier/internal/urlhandler"
	"github.com/dlclark/regexp2"
)

// NewProduct describes a product to be added to the store
type NewProduct struct {
	Name      string
	URL       string
	Indicator string
	IsRegex   bool
}

func (p NewProduct) validate() (NewProduct, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return p, NewValidationError("name", p.Name, "must not be empty")
	}

	normalized, err := urlhandler.NormalizeURL(p.URL)
	if err != nil {
		return p, NewValidationError("url", p.URL, err.Error())
	}
	p.URL = normalized

	if p.Indicator == "" {
		return p, NewValidationError("indicator", p.Indicator, "must not be empty")
	}
	if p.IsRegex {
		if _, err := regexp2.Compile(p.Indicator, regexp2.Singleline); err != nil {
			return p, NewValidationError("indicator", p.Indicator, fmt.Sprintf("invalid pattern: %v", err))
		}
	}
	return p, nil
}

// AddProduct stores a new product. Names are unique.
func (s *Store) AddProduct(ctx context.Context, np NewProduct) (models.Product, error) {
	np, err := np.validate()
	if err != nil {
		return models.Product{}, err
	}

	createdAt := time.Now().UTC()
	query := `INSERT INTO products (name, url, indicator, is_regex, created_at) VALUES (?, ?, ?, ?, ?)`
	result, err := s.db.ExecContext(ctx, query, np.Name, np.URL, np.Indicator, np.IsRegex, createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Product{}, fmt.Errorf("product %q: %w", np.Name, ErrAlreadyExists)
		}
		s.logger.Error().Err(err).Str("product", np.Name).Msg("Failed to insert product")
		return models.Product{}, WrapError(err, "failed to insert product")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Product{}, WrapError(err, "failed to get last insert ID")
	}

	s.logger.Info().Int64("product_id", id).Str("product", np.Name).Str("url", np.URL).Msg("Product added")
	return models.Product{
		ID:        id,
		Name:      np.Name,
		URL:       np.URL,
		Indicator: np.Indicator,
		IsRegex:   np.IsRegex,
		CreatedAt: createdAt,
	}, nil
}

// RemoveProduct deletes a product by name together with its subscriptions.
func (s *Store) RemoveProduct(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE name = ?`, name)
	if err != nil {
		return WrapError(err, "failed to delete product")
	}
	return s.expectAffected(result, fmt.Sprintf("product %q", name), "Product removed")
}

// RemoveProductByID deletes a product by ID together with its subscriptions.
func (s *Store) RemoveProductByID(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return WrapError(err, "failed to delete product")
	}
	return s.expectAffected(result, fmt.Sprintf("product #%d", id), "Product removed")
}

// GetProduct looks a product up by name.
func (s *Store) GetProduct(ctx context.Context, name string) (models.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, url, indicator, is_regex, created_at FROM products WHERE name = ?`, name)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, fmt.Errorf("product %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return models.Product{}, WrapError(err, "failed to query product")
	}
	return p, nil
}

// ListProducts returns all products ordered by ID.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, url, indicator, is_regex, created_at FROM products ORDER BY id`)
	if err != nil {
		return nil, WrapError(err, "failed to list products")
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, WrapError(err, "failed to scan product")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapError(err, "failed to iterate products")
	}
	return products, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.URL, &p.Indicator, &p.IsRegex, &p.CreatedAt)
	return p, err
}

func (s *Store) expectAffected(result sql.Result, what, msg string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return WrapError(err, "failed to read affected rows")
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	s.logger.Info().Str("target", what).Msg(msg)
	return nil
}
