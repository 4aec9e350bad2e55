package codec

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const upperhex = "0123456789ABCDEF"

// unescaped reports whether b is left alone by encodeURIComponent.
func unescaped(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	}
	switch b {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// EncodeURIComponent escapes s the way the browser's encodeURIComponent does.
// Every UTF-8 byte outside the unreserved set A-Z a-z 0-9 - _ . ! ~ * ' ( ) becomes %XX.
func EncodeURIComponent(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("malformed utf-8 in %q", s)
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unescaped(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String(), nil
}

// DecodeURIComponent reverses EncodeURIComponent. Every %XX sequence is decoded and the
// result must be valid UTF-8.
func DecodeURIComponent(s string) (string, error) {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return "", fmt.Errorf("unescaping %q : %w", s, err)
	}
	if !utf8.ValidString(decoded) {
		return "", fmt.Errorf("malformed utf-8 after unescaping %q", s)
	}
	return decoded, nil
}
