package domain

import "context"

const (
	PartitionConfig  = "config"  // Partition holding the active configuration
	PartitionCookies = "cookies" // Partition owned by the cookie collaborator
	ConfigKey        = "config"  // Key of the configuration record inside PartitionConfig
)

// ConfigRepository persists the configuration record.
type ConfigRepository interface {
	// SaveConfig writes the full configuration under ConfigKey, replacing any previous record.
	SaveConfig(ctx context.Context, cfg *Config) error

	// LoadConfig reads back the persisted configuration.
	// It returns an error if nothing has been saved yet.
	LoadConfig(ctx context.Context) (*Config, error)
}

// CookieRepository gives the cookie collaborator a key space inside PartitionCookies.
// Values are opaque to the store; the collaborator owns their shape.
type CookieRepository interface {
	// PutCookies creates or replaces the value stored under key.
	PutCookies(ctx context.Context, key string, value []byte) error

	// GetCookies returns the value stored under key.
	GetCookies(ctx context.Context, key string) ([]byte, error)

	// DeleteCookies removes the value stored under key.
	DeleteCookies(ctx context.Context, key string) error

	// CookieKeys lists every key in the partition in ascending order.
	CookieKeys(ctx context.Context) ([]string, error)
}

// LocalStore is the versioned local key-value store with the config and cookies partitions.
type LocalStore interface {
	ConfigRepository
	CookieRepository

	// Partitions lists the partitions that currently exist, in ascending order.
	Partitions(ctx context.Context) ([]string, error)

	// Close releases the store.
	Close() error
}

// StoreOpener opens (creating if needed) a LocalStore.
type StoreOpener func(ctx context.Context) (LocalStore, error)
