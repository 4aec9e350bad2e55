package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tfkr-ae/ramjet/domain"
)

func TestHelperLibrary(t *testing.T) {
	tests := []struct {
		name   string
		encode string
		decode string
		input  string
		want   string
	}{
		{
			name:   "base64",
			encode: "return ramjet.base64.encode(url)",
			decode: "return ramjet.base64.decode(url)",
			input:  "https://example.com/?a=b",
			want:   "aHR0cHM6Ly9leGFtcGxlLmNvbS8/YT1i",
		},
		{
			name:   "base64 url alphabet",
			encode: "return ramjet.base64.urlencode(url)",
			decode: "return ramjet.base64.urldecode(url)",
			input:  "https://example.com/?a=b",
			want:   "aHR0cHM6Ly9leGFtcGxlLmNvbS8_YT1i",
		},
		{
			name:   "hex",
			encode: "return ramjet.hex.encode(url)",
			decode: "return ramjet.hex.decode(url)",
			input:  "ab/",
			want:   "61622f",
		},
		{
			name:   "query escaping",
			encode: "return ramjet.url.encode(url)",
			decode: "return ramjet.url.decode(url)",
			input:  "a b&c",
			want:   "a+b%26c",
		},
		{
			name:   "html",
			encode: "return ramjet.html.escape(url)",
			decode: "return ramjet.html.unescape(url)",
			input:  "<a href=\"x\">",
			want:   "&lt;a href=&#34;x&#34;&gt;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newTestLoader(t).Load(domain.Codec{Engine: EngineLua, Encode: tt.encode, Decode: tt.decode})
			require.NoError(t, err)

			encoded, err := c.Encode(tt.input)
			require.NoError(t, err)
			if encoded != tt.want {
				t.Fatalf("\nwanted:\n%v\ngot:\n%v", tt.want, encoded)
			}

			decoded, err := c.Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.input, decoded)
		})
	}

	t.Run("should raise decoding errors", func(t *testing.T) {
		c, err := newTestLoader(t).Load(domain.Codec{
			Engine: EngineLua,
			Encode: "return url",
			Decode: "return ramjet.hex.decode(url)",
		})
		require.NoError(t, err)

		_, err = c.Decode("zz")
		assert.True(t, errors.Is(err, ErrCodec))
	})
}
