package ramjet

import (
	"fmt"
	"time"

	"github.com/tfkr-ae/ramjet/codec"
	"github.com/tfkr-ae/ramjet/db"
	"github.com/tfkr-ae/ramjet/domain"
	"go.uber.org/zap"
)

// WithOptions applies a series of configuration functions to the controller.
// It returns the first error encountered.
func (c *Controller) WithOptions(options ...func(*Controller) error) error {
	for _, option := range options {
		err := option(c)
		if err != nil {
			return fmt.Errorf("applying option on controller : %w", err)
		}
	}
	return nil
}

// WithLogger sets the controller logger. A nil logger is replaced with a no-op logger.
func WithLogger(logger *zap.Logger) func(*Controller) error {
	return func(c *Controller) error {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.Logger = logger
		return nil
	}
}

// WithStoreOpener sets the function OpenStore uses to open the local store.
func WithStoreOpener(opener domain.StoreOpener) func(*Controller) error {
	return func(c *Controller) error {
		if opener == nil {
			return fmt.Errorf("store opener cannot be nil")
		}
		c.opener = opener
		return nil
	}
}

// WithDatabase opens the sqlite store at path when the store is opened.
func WithDatabase(path string) func(*Controller) error {
	return func(c *Controller) error {
		if path == "" {
			return fmt.Errorf("database path cannot be empty")
		}
		c.opener = db.Opener(path)
		return nil
	}
}

// WithRegistrar sets the worker registrar used by Init.
func WithRegistrar(registrar domain.WorkerRegistrar) func(*Controller) error {
	return func(c *Controller) error {
		if registrar == nil {
			return fmt.Errorf("registrar cannot be nil")
		}
		c.registrar = registrar
		return nil
	}
}

// WithCodecRegistry sets the registry named codecs are resolved from.
func WithCodecRegistry(registry *codec.Registry) func(*Controller) error {
	return func(c *Controller) error {
		if registry == nil {
			return fmt.Errorf("codec registry cannot be nil")
		}
		c.codecOptions = append(c.codecOptions, codec.WithRegistry(registry))
		return nil
	}
}

// WithCodecTimeout bounds a single call into a JavaScript codec snippet.
func WithCodecTimeout(timeout time.Duration) func(*Controller) error {
	return func(c *Controller) error {
		c.codecOptions = append(c.codecOptions, codec.WithTimeout(timeout))
		return nil
	}
}
