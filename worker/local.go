package worker

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/ramjet/domain"
)

var _ domain.WorkerRegistrar = (*Local)(nil)

// Local keeps registrations in memory, keyed by script URL.
type Local struct {
	mu            sync.Mutex
	registrations map[string]*domain.Registration
	now           func() time.Time
}

// NewLocal returns an empty in-process registrar.
func NewLocal() *Local {
	return &Local{
		registrations: make(map[string]*domain.Registration),
		now:           time.Now,
	}
}

// Register implements domain.WorkerRegistrar. The scope is the directory holding the script.
// Registering a script that is already registered returns the existing registration.
func (l *Local) Register(ctx context.Context, scriptURL string) (*domain.Registration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scope, err := Scope(scriptURL)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.registrations[scriptURL]; ok {
		return existing, nil
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating registration id : %w", err)
	}

	registration := &domain.Registration{
		ID:           id,
		ScriptURL:    scriptURL,
		Scope:        scope,
		RegisteredAt: l.now(),
	}
	l.registrations[scriptURL] = registration
	return registration, nil
}

// Registrations returns the current registrations in no particular order.
func (l *Local) Registrations() []*domain.Registration {
	l.mu.Lock()
	defer l.mu.Unlock()
	registrations := make([]*domain.Registration, 0, len(l.registrations))
	for _, registration := range l.registrations {
		registrations = append(registrations, registration)
	}
	return registrations
}

// Scope returns the default registration scope of scriptURL: its directory, with a trailing slash.
func Scope(scriptURL string) (string, error) {
	if scriptURL == "" {
		return "", fmt.Errorf("script url cannot be empty")
	}

	parsed, err := url.Parse(scriptURL)
	if err != nil {
		return "", fmt.Errorf("parsing script url %s : %w", scriptURL, err)
	}

	dir := path.Dir(parsed.Path)
	if dir == "." {
		dir = "/"
	}
	if dir != "/" {
		dir += "/"
	}

	scope := url.URL{Scheme: parsed.Scheme, Host: parsed.Host, Path: dir}
	return scope.String(), nil
}
