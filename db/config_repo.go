package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tfkr-ae/ramjet/domain"
)

var _ domain.ConfigRepository = (*Repository)(nil)

var (
	// ErrNoConfig is returned when the config partition holds no configuration record.
	ErrNoConfig = errors.New("no configuration has been saved")
)

// SaveConfig implements the domain.ConfigRepository interface.
// It writes the full configuration under domain.ConfigKey inside a read-write transaction.
func (repo *Repository) SaveConfig(ctx context.Context, cfg *domain.Config) error {
	tx, err := repo.dbConn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting config transaction : %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO config(name, value)
		      VALUES (?, ?)
		      ON CONFLICT(name) DO UPDATE SET value=excluded.value`

	_, err = tx.ExecContext(ctx, query, domain.ConfigKey, Document(cfg.Map()))
	if err != nil {
		return fmt.Errorf("writing configuration : %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing configuration : %w", err)
	}
	return nil
}

// LoadConfig implements the domain.ConfigRepository interface.
func (repo *Repository) LoadConfig(ctx context.Context) (*domain.Config, error) {
	var document Document
	query := `SELECT value FROM config WHERE name = ?`

	err := repo.dbConn.QueryRowxContext(ctx, query, domain.ConfigKey).Scan(&document)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoConfig
		}
		return nil, fmt.Errorf("reading configuration : %w", err)
	}

	cfg, err := domain.ConfigFromMap(document)
	if err != nil {
		return nil, fmt.Errorf("decoding stored configuration : %w", err)
	}
	return cfg, nil
}
