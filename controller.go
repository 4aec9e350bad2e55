package ramjet

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/tfkr-ae/ramjet/codec"
	"github.com/tfkr-ae/ramjet/core"
	"github.com/tfkr-ae/ramjet/db"
	"github.com/tfkr-ae/ramjet/domain"
	"github.com/tfkr-ae/ramjet/worker"
	"go.uber.org/zap"
)

// Controller owns the active proxy configuration, the compiled codec and the local store handle.
// It runs the startup sequence and mints frames bound to itself.
type Controller struct {
	mu           sync.RWMutex
	config       *domain.Config              // Active configuration, replaced (never mutated) on change
	sites        []siteRule                  // Compiled siteFlags patterns
	codec        *codec.Codec                // Installed codec, nil until loaded
	codecOptions []func(*codec.Loader) error // Options applied to every codec compilation
	store        domain.LocalStore           // Local store, nil until OpenStore succeeds
	opener       domain.StoreOpener          // Opens the local store
	registrar    domain.WorkerRegistrar      // Installs the interception worker
	Logger       *zap.Logger                 // Structured logger, no-op unless set with WithLogger
}

// New creates a controller whose configuration is the built-in defaults deep-merged with partial.
// Options are applied afterwards. New performs no I/O unless an option does.
//
// Without options the controller uses an in-memory store and the in-process worker registrar.
func New(partial domain.Partial, options ...func(*Controller) error) (*Controller, error) {
	cfg, err := domain.ConfigFromMap(core.Merge(domain.Defaults().Map(), partial))
	if err != nil {
		return nil, fmt.Errorf("merging configuration : %w", err)
	}

	sites, err := compileSites(cfg.SiteFlags)
	if err != nil {
		return nil, err
	}

	controller := &Controller{
		config:    cfg,
		sites:     sites,
		opener:    db.MemoryOpener(db.NewMemoryStore()),
		registrar: worker.NewLocal(),
		Logger:    zap.NewNop(),
	}

	err = controller.WithOptions(options...)
	if err != nil {
		return nil, err
	}
	return controller, nil
}

// Init runs the startup sequence: load the codec, open the store (which writes the
// configuration) and register the interception worker at workerPath. Each step finishes
// before the next starts and the first failure aborts the sequence.
func (c *Controller) Init(ctx context.Context, workerPath string) (*domain.Registration, error) {
	if err := c.LoadCodec(); err != nil {
		return nil, err
	}

	if err := c.OpenStore(ctx); err != nil {
		return nil, err
	}

	registration, err := c.registrar.Register(ctx, workerPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistration, err)
	}

	c.Logger.Info("interception worker registered",
		core.WorkerPath(workerPath),
		zap.String("scope", registration.Scope),
		zap.String("registration_id", registration.ID.String()),
	)
	return registration, nil
}

// LoadCodec compiles the codec section of the active configuration and installs it.
func (c *Controller) LoadCodec() error {
	c.mu.RLock()
	cfg := c.config
	c.mu.RUnlock()

	compiled, err := c.compileCodec(cfg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.codec = compiled
	c.mu.Unlock()

	c.Logger.Debug("codec loaded", core.CodecName(compiled.Name))
	return nil
}

func (c *Controller) compileCodec(cfg *domain.Config) (*codec.Codec, error) {
	options := append(slices.Clone(c.codecOptions), codec.WithGlobals(map[string]any{"config": cfg.Map()}))
	loader, err := codec.NewLoader(options...)
	if err != nil {
		return nil, fmt.Errorf("%w: creating loader : %w", ErrCodec, err)
	}
	return loader.Load(cfg.Codec)
}

// installedCodec returns the installed codec and the active prefix, loading the codec first if needed.
func (c *Controller) installedCodec() (*codec.Codec, string, error) {
	c.mu.RLock()
	compiled, prefix := c.codec, c.config.Prefix
	c.mu.RUnlock()
	if compiled != nil {
		return compiled, prefix, nil
	}

	if err := c.LoadCodec(); err != nil {
		return nil, "", err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.codec, c.config.Prefix, nil
}

// OpenStore opens the local store and immediately writes the active configuration to it,
// returning once that write has finished.
func (c *Controller) OpenStore(ctx context.Context) error {
	store, err := c.opener(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreOpen, err)
	}

	c.mu.Lock()
	previous := c.store
	c.store = store
	c.mu.Unlock()

	if previous != nil && previous != store {
		if err := previous.Close(); err != nil {
			c.Logger.Warn("closing previous store", zap.Error(err))
		}
	}

	c.Logger.Debug("local store opened")
	return c.SaveConfig(ctx)
}

// SaveConfig writes the active configuration to the config partition.
// Before the store is open it logs "store not ready" and returns nil without writing.
func (c *Controller) SaveConfig(ctx context.Context) error {
	c.mu.RLock()
	store, cfg := c.store, c.config
	c.mu.RUnlock()

	if store == nil {
		c.Logger.Error(ErrStoreNotReady.Error(), core.Partition(domain.PartitionConfig))
		return nil
	}

	if err := store.SaveConfig(ctx, cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	return nil
}

// ModifyConfig replaces each top-level key of the active configuration present in partial,
// recompiles the codec and saves the result.
//
// Nested records are replaced whole, not merged. Saves are not serialized: when two calls
// overlap, whichever write reaches the store last is the one that persists.
func (c *Controller) ModifyConfig(ctx context.Context, partial domain.Partial) error {
	c.mu.Lock()
	cfg, err := domain.ConfigFromMap(core.Overwrite(c.config.Map(), partial))
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("applying configuration : %w", err)
	}
	sites, err := compileSites(cfg.SiteFlags)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.config = cfg
	c.sites = sites
	c.mu.Unlock()

	if err := c.LoadCodec(); err != nil {
		return err
	}
	return c.SaveConfig(ctx)
}

// Config returns a copy of the active configuration.
func (c *Controller) Config() *domain.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.Clone()
}

// Store returns the open local store, or nil before OpenStore succeeds.
func (c *Controller) Store() domain.LocalStore {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store
}

// EncodeURL returns the proxied address of raw: the prefix followed by the encoded address.
func (c *Controller) EncodeURL(raw string) (string, error) {
	compiled, prefix, err := c.installedCodec()
	if err != nil {
		return "", err
	}

	encoded, err := compiled.Encode(raw)
	if err != nil {
		return "", err
	}
	return prefix + encoded, nil
}

// EncodeParsedURL is EncodeURL for a parsed address. A nil address encodes as the empty string.
func (c *Controller) EncodeParsedURL(u *url.URL) (string, error) {
	if u == nil {
		return c.EncodeURL("")
	}
	return c.EncodeURL(u.String())
}

// DecodeURL reverses EncodeURL. proxied may be a path or an absolute address on the proxy origin.
func (c *Controller) DecodeURL(proxied string) (string, error) {
	compiled, prefix, err := c.installedCodec()
	if err != nil {
		return "", err
	}

	encoded, ok := strings.CutPrefix(proxied, prefix)
	if !ok {
		parsed, err := url.Parse(proxied)
		if err != nil || parsed.Host == "" {
			return "", fmt.Errorf("%w: %s", ErrNotProxied, proxied)
		}
		encoded, ok = strings.CutPrefix(parsed.RequestURI(), prefix)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrNotProxied, proxied)
		}
	}
	return compiled.Decode(encoded)
}

// Close closes the local store if it is open. The controller never calls it itself.
func (c *Controller) Close() error {
	c.mu.Lock()
	store := c.store
	c.store = nil
	c.mu.Unlock()

	if store == nil {
		return nil
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("closing store : %w", err)
	}
	return nil
}
