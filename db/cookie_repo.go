package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tfkr-ae/ramjet/domain"
)

var _ domain.CookieRepository = (*Repository)(nil)

var (
	// ErrNoCookiesForKey is returned when the cookies partition has nothing stored under a key.
	ErrNoCookiesForKey = errors.New("key has no cookies stored")
)

// PutCookies creates or replaces the value stored under key.
func (repo *Repository) PutCookies(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO cookies(name, value)
		      VALUES (?, ?)
		      ON CONFLICT(name) DO UPDATE SET value=excluded.value`

	_, err := repo.dbConn.ExecContext(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("storing cookies for %s: %w", key, err)
	}
	return nil
}

// GetCookies returns the value stored under key.
func (repo *Repository) GetCookies(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	query := `SELECT value FROM cookies WHERE name = ?`

	err := repo.dbConn.GetContext(ctx, &value, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoCookiesForKey
		}
		return nil, fmt.Errorf("reading cookies for %s: %w", key, err)
	}
	return value, nil
}

// DeleteCookies removes the value stored under key.
func (repo *Repository) DeleteCookies(ctx context.Context, key string) error {
	query := `DELETE FROM cookies WHERE name = ?`

	result, err := repo.dbConn.ExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("deleting cookies for %s: %w", key, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deletion rows affected for %s: %w", key, err)
	}

	if rowsAffected == 0 {
		return ErrNoCookiesForKey
	}
	return nil
}

// CookieKeys lists every key in the cookies partition.
func (repo *Repository) CookieKeys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0)
	query := `SELECT name FROM cookies ORDER BY name`

	if err := repo.dbConn.SelectContext(ctx, &keys, query); err != nil {
		return nil, fmt.Errorf("listing cookie keys: %w", err)
	}
	return keys, nil
}
