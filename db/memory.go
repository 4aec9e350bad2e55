package db

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/tfkr-ae/ramjet/domain"
)

var _ domain.LocalStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory domain.LocalStore. Values are copied on the way in and out.
type MemoryStore struct {
	mu         sync.RWMutex
	partitions map[string]map[string][]byte
}

// NewMemoryStore returns an empty store with no partitions.
// Partitions are created by EnsurePartitions, which MemoryOpener calls on every open.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{partitions: make(map[string]map[string][]byte)}
}

// MemoryOpener returns a domain.StoreOpener that hands out store after making sure its partitions exist.
// Every open returns the same store, so data survives reopening within the process.
func MemoryOpener(store *MemoryStore) domain.StoreOpener {
	return func(ctx context.Context) (domain.LocalStore, error) {
		store.EnsurePartitions()
		return store, nil
	}
}

// EnsurePartitions creates any partition that is missing.
func (m *MemoryStore) EnsurePartitions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, partition := range partitions {
		if _, ok := m.partitions[partition]; !ok {
			m.partitions[partition] = make(map[string][]byte)
		}
	}
}

func (m *MemoryStore) put(partition, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	records, ok := m.partitions[partition]
	if !ok {
		return fmt.Errorf("partition %s does not exist", partition)
	}
	records[key] = slices.Clone(value)
	return nil
}

func (m *MemoryStore) get(partition, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records, ok := m.partitions[partition]
	if !ok {
		return nil, false, fmt.Errorf("partition %s does not exist", partition)
	}
	value, ok := records[key]
	return slices.Clone(value), ok, nil
}

// SaveConfig implements domain.ConfigRepository.
func (m *MemoryStore) SaveConfig(ctx context.Context, cfg *domain.Config) error {
	value, err := json.Marshal(cfg.Map())
	if err != nil {
		return fmt.Errorf("marshalling configuration : %w", err)
	}
	if err := m.put(domain.PartitionConfig, domain.ConfigKey, value); err != nil {
		return fmt.Errorf("writing configuration : %w", err)
	}
	return nil
}

// LoadConfig implements domain.ConfigRepository.
func (m *MemoryStore) LoadConfig(ctx context.Context) (*domain.Config, error) {
	value, ok, err := m.get(domain.PartitionConfig, domain.ConfigKey)
	if err != nil {
		return nil, fmt.Errorf("reading configuration : %w", err)
	}
	if !ok {
		return nil, ErrNoConfig
	}

	var cfg domain.Config
	if err := json.Unmarshal(value, &cfg); err != nil {
		return nil, fmt.Errorf("decoding stored configuration : %w", err)
	}
	return &cfg, nil
}

// PutCookies implements domain.CookieRepository.
func (m *MemoryStore) PutCookies(ctx context.Context, key string, value []byte) error {
	if err := m.put(domain.PartitionCookies, key, value); err != nil {
		return fmt.Errorf("storing cookies for %s: %w", key, err)
	}
	return nil
}

// GetCookies implements domain.CookieRepository.
func (m *MemoryStore) GetCookies(ctx context.Context, key string) ([]byte, error) {
	value, ok, err := m.get(domain.PartitionCookies, key)
	if err != nil {
		return nil, fmt.Errorf("reading cookies for %s: %w", key, err)
	}
	if !ok {
		return nil, ErrNoCookiesForKey
	}
	return value, nil
}

// DeleteCookies implements domain.CookieRepository.
func (m *MemoryStore) DeleteCookies(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	records, ok := m.partitions[domain.PartitionCookies]
	if !ok {
		return fmt.Errorf("partition %s does not exist", domain.PartitionCookies)
	}
	if _, ok := records[key]; !ok {
		return ErrNoCookiesForKey
	}
	delete(records, key)
	return nil
}

// CookieKeys implements domain.CookieRepository.
func (m *MemoryStore) CookieKeys(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records, ok := m.partitions[domain.PartitionCookies]
	if !ok {
		return nil, fmt.Errorf("partition %s does not exist", domain.PartitionCookies)
	}
	keys := make([]string, 0, len(records))
	for key := range records {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}

// Partitions implements domain.LocalStore.
func (m *MemoryStore) Partitions(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.partitions))
	for name := range m.partitions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Close implements domain.LocalStore. The data is kept so the store can be reopened.
func (m *MemoryStore) Close() error {
	return nil
}
