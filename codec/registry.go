package codec

import (
	"encoding/base64"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Names of the codecs every registry starts with.
const (
	URL    = "url"
	Plain  = "plain"
	Base64 = "base64"
	XOR    = "xor"
)

// Registry holds named codecs.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]*Codec
}

// NewRegistry returns a registry holding the built-in codecs.
func NewRegistry() *Registry {
	r := &Registry{codecs: make(map[string]*Codec)}
	r.codecs[URL] = New(URL, EncodeURIComponent, DecodeURIComponent)
	r.codecs[Plain] = New(Plain, identity, identity)
	r.codecs[Base64] = New(Base64, base64Encode, base64Decode)
	r.codecs[XOR] = New(XOR, xorEncode, xorDecode)
	return r
}

// Register adds a codec under its name. Names already taken are rejected.
func (r *Registry) Register(c *Codec) error {
	if c == nil || c.Name == "" {
		return fmt.Errorf("registering codec : codec must have a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.codecs[c.Name]; ok {
		return fmt.Errorf("registering codec %s : name already registered", c.Name)
	}
	r.codecs[c.Name] = c
	return nil
}

// Get returns the codec registered under name.
func (r *Registry) Get(name string) (*Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, name)
	}
	return c, nil
}

// Names lists the registered codec names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.codecs))
	for name := range r.codecs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func identity(s string) (string, error) {
	return s, nil
}

func base64Encode(s string) (string, error) {
	return base64.RawURLEncoding.EncodeToString([]byte(s)), nil
}

func base64Decode(s string) (string, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("decoding base64 : %w", err)
	}
	return string(decoded), nil
}

// xorRunes flips bit 1 of every odd-indexed rune.
func xorRunes(s string) string {
	runes := []rune(s)
	for i := 1; i < len(runes); i += 2 {
		runes[i] ^= 2
	}
	return string(runes)
}

func xorEncode(s string) (string, error) {
	return EncodeURIComponent(xorRunes(s))
}

// xorDecode leaves anything after the first "?" as it is, since pages append their
// own query strings to encoded paths.
func xorDecode(s string) (string, error) {
	input, search, hasSearch := strings.Cut(s, "?")
	decoded, err := DecodeURIComponent(input)
	if err != nil {
		return "", err
	}
	decoded = xorRunes(decoded)
	if hasSearch {
		decoded += "?" + search
	}
	return decoded, nil
}
