package ramjet

import (
	"context"

	"github.com/tfkr-ae/ramjet/db"
	"github.com/tfkr-ae/ramjet/domain"
)

type mockRegistrar struct {
	RegisterFunc func(ctx context.Context, scriptURL string) (*domain.Registration, error)
}

func (m *mockRegistrar) Register(ctx context.Context, scriptURL string) (*domain.Registration, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, scriptURL)
	}
	return &domain.Registration{ScriptURL: scriptURL, Scope: "/"}, nil
}

// mockStore is a MemoryStore whose config writes can be intercepted.
type mockStore struct {
	*db.MemoryStore
	SaveConfigFunc func(ctx context.Context, cfg *domain.Config) error
	CloseFunc      func() error
}

func newMockStore() *mockStore {
	store := db.NewMemoryStore()
	store.EnsurePartitions()
	return &mockStore{MemoryStore: store}
}

func (m *mockStore) SaveConfig(ctx context.Context, cfg *domain.Config) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, cfg)
	}
	return m.MemoryStore.SaveConfig(ctx, cfg)
}

func (m *mockStore) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return m.MemoryStore.Close()
}

func openerFor(store domain.LocalStore) domain.StoreOpener {
	return func(ctx context.Context) (domain.LocalStore, error) {
		return store, nil
	}
}
