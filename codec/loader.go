package codec

import (
	"fmt"
	"time"

	"github.com/tfkr-ae/ramjet/domain"
)

// Snippet engines.
const (
	EngineJavaScript = "javascript"
	EngineLua        = "lua"
)

// DefaultTimeout bounds a single JavaScript codec call.
const DefaultTimeout = 250 * time.Millisecond

// Loader compiles domain.Codec sections.
type Loader struct {
	registry *Registry
	timeout  time.Duration
	globals  map[string]any
}

// NewLoader creates a loader using the built-in registry and DefaultTimeout, then applies options.
func NewLoader(options ...func(*Loader) error) (*Loader, error) {
	loader := &Loader{
		registry: NewRegistry(),
		timeout:  DefaultTimeout,
	}
	for _, option := range options {
		if err := option(loader); err != nil {
			return nil, err
		}
	}
	return loader, nil
}

// WithRegistry selects the registry named codecs are looked up in.
func WithRegistry(registry *Registry) func(*Loader) error {
	return func(l *Loader) error {
		if registry == nil {
			return fmt.Errorf("registry cannot be nil")
		}
		l.registry = registry
		return nil
	}
}

// WithTimeout sets the per-call JavaScript execution limit.
func WithTimeout(timeout time.Duration) func(*Loader) error {
	return func(l *Loader) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", timeout)
		}
		l.timeout = timeout
		return nil
	}
}

// WithGlobals exposes read-only values to snippets under the given global names.
func WithGlobals(globals map[string]any) func(*Loader) error {
	return func(l *Loader) error {
		l.globals = globals
		return nil
	}
}

// Registry returns the registry used for named codecs.
func (l *Loader) Registry() *Registry {
	return l.registry
}

// Load compiles selection. A non-empty Name selects a registered codec and the snippets are ignored.
func (l *Loader) Load(selection domain.Codec) (*Codec, error) {
	if selection.Name != "" {
		c, err := l.registry.Get(selection.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCodec, err)
		}
		return c, nil
	}

	switch selection.Engine {
	case "", EngineJavaScript:
		return l.loadJavaScript(selection)
	case EngineLua:
		return l.loadLua(selection)
	default:
		return nil, fmt.Errorf("%w: unsupported engine %q", ErrCodec, selection.Engine)
	}
}

func (l *Loader) loadJavaScript(selection domain.Codec) (*Codec, error) {
	sandbox, err := newJavaScriptSandbox(l.globals, l.timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: creating javascript sandbox : %w", ErrCodec, err)
	}
	encode, err := sandbox.compile(selection.Encode)
	if err != nil {
		return nil, fmt.Errorf("%w: compiling encode : %w", ErrCodec, err)
	}
	decode, err := sandbox.compile(selection.Decode)
	if err != nil {
		return nil, fmt.Errorf("%w: compiling decode : %w", ErrCodec, err)
	}
	return New(EngineJavaScript, encode, decode), nil
}

func (l *Loader) loadLua(selection domain.Codec) (*Codec, error) {
	sandbox := newLuaSandbox(l.globals)
	encode, err := sandbox.compile("encode", selection.Encode)
	if err != nil {
		return nil, fmt.Errorf("%w: compiling encode : %w", ErrCodec, err)
	}
	decode, err := sandbox.compile("decode", selection.Decode)
	if err != nil {
		return nil, fmt.Errorf("%w: compiling decode : %w", ErrCodec, err)
	}
	return New(EngineLua, encode, decode), nil
}
