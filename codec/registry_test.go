package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Builtins(t *testing.T) {
	registry := NewRegistry()

	assert.Equal(t, []string{Base64, Plain, URL, XOR}, registry.Names())

	inputs := []string{
		"https://example.com/a?b=c",
		"http://localhost:8080/path with spaces",
		"https://例え.jp/",
	}

	for _, name := range registry.Names() {
		c, err := registry.Get(name)
		require.NoError(t, err)

		for _, input := range inputs {
			t.Run(name+" should round trip "+input, func(t *testing.T) {
				encoded, err := c.Encode(input)
				require.NoError(t, err)

				decoded, err := c.Decode(encoded)
				require.NoError(t, err)
				assert.Equal(t, input, decoded)
			})
		}

		t.Run(name+" should pass empty input through", func(t *testing.T) {
			encoded, err := c.Encode("")
			require.NoError(t, err)
			assert.Equal(t, "", encoded)

			decoded, err := c.Decode("")
			require.NoError(t, err)
			assert.Equal(t, "", decoded)
		})
	}
}

func TestRegistry_XOR(t *testing.T) {
	c, err := NewRegistry().Get(XOR)
	require.NoError(t, err)

	t.Run("should flip every second character", func(t *testing.T) {
		got, err := c.Encode("abcd")
		require.NoError(t, err)
		assert.Equal(t, "a%60cf", got)
	})

	t.Run("should keep a trailing query string as it is", func(t *testing.T) {
		encoded, err := c.Encode("https://example.com/")
		require.NoError(t, err)

		got, err := c.Decode(encoded + "?page=2")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/?page=2", got)
	})
}

func TestRegistry_Register(t *testing.T) {
	t.Run("should add a codec", func(t *testing.T) {
		registry := NewRegistry()
		upper := New("upper", identity, identity)

		require.NoError(t, registry.Register(upper))

		got, err := registry.Get("upper")
		require.NoError(t, err)
		assert.Same(t, upper, got)
	})

	t.Run("should reject a taken name", func(t *testing.T) {
		registry := NewRegistry()
		assert.Error(t, registry.Register(New(URL, identity, identity)))
	})

	t.Run("should reject a codec without a name", func(t *testing.T) {
		registry := NewRegistry()
		assert.Error(t, registry.Register(New("", identity, identity)))
	})

	t.Run("should return ErrUnknownCodec for a missing name", func(t *testing.T) {
		_, err := NewRegistry().Get("rot13")
		assert.True(t, errors.Is(err, ErrUnknownCodec))
	})
}
