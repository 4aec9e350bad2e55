package db

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/tfkr-ae/ramjet/domain"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const (
	// StoreName is the file name of the local store inside a configuration directory.
	StoreName = "ramjet.db"
	// SchemaVersion is the migration version the store is upgraded to on open.
	SchemaVersion = 1
)

// partitions lists every partition the store must contain.
var partitions = []string{domain.PartitionConfig, domain.PartitionCookies}

// goose keeps its base FS and dialect in package state.
var migrateMu sync.Mutex

var _ domain.LocalStore = (*Repository)(nil)

// Repository provides a centralized structure for database operations, embedding the database connection.
// It implements domain.LocalStore on top of sqlite, one table per partition.
type Repository struct {
	dbConn *sqlx.DB // dbConn is the active database connection pool.
}

// NewRepository wraps an already migrated sqlx.DB connection.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		dbConn: db,
	}
}

// Close terminates the database connection.
func (repo *Repository) Close() error {
	err := repo.dbConn.Close()
	if err != nil {
		return fmt.Errorf("closing repo : %w", err)
	}
	return nil
}

// New establishes a new connection to a SQLite database file and upgrades it to SchemaVersion.
// The upgrade path creates the config and cookies partitions; running it against a store that
// is already at SchemaVersion changes nothing.
//
// The `name` parameter should be the file path for the SQLite database.
func New(ctx context.Context, name string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", fmt.Sprintf("%s?_journal=WAL&_timeout=5000&_fk=true", name))
	if err != nil {
		return nil, fmt.Errorf("connecting to db : %w", err)
	}

	db.SetMaxOpenConns(1)

	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting dialect for migrations : %w", err)
	}

	if err := goose.UpToContext(ctx, db.DB, "migrations", SchemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying migration : %w", err)
	}
	return db, nil
}

// Open opens (creating if absent) the store at name, upgrades it and makes sure every partition exists.
func Open(ctx context.Context, name string) (*Repository, error) {
	db, err := New(ctx, name)
	if err != nil {
		return nil, err
	}

	repo := NewRepository(db)
	if err := repo.EnsurePartitions(ctx); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}

// Opener returns a domain.StoreOpener for the store at name.
func Opener(name string) domain.StoreOpener {
	return func(ctx context.Context) (domain.LocalStore, error) {
		return Open(ctx, name)
	}
}

// EnsurePartitions creates any partition that is missing. Existing partitions are left untouched.
func (repo *Repository) EnsurePartitions(ctx context.Context) error {
	for _, partition := range partitions {
		query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			name  TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)`, partition)
		if _, err := repo.dbConn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("creating partition %s : %w", partition, err)
		}
	}
	return nil
}

// Partitions implements domain.LocalStore.
func (repo *Repository) Partitions(ctx context.Context) ([]string, error) {
	var names []string
	query := `SELECT name FROM sqlite_master
		      WHERE type = 'table' AND name IN ('config', 'cookies')
		      ORDER BY name`

	if err := repo.dbConn.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("listing partitions : %w", err)
	}
	return names, nil
}
