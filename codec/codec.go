package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrCodec is returned when a codec cannot be compiled or a call into it fails.
	ErrCodec = errors.New("codec failure")
	// ErrUnknownCodec is returned when the configured name is not in the registry.
	ErrUnknownCodec = errors.New("unknown codec")
)

// Func transforms a single address.
type Func func(string) (string, error)

// Codec is a compiled encode/decode pair.
type Codec struct {
	Name   string // Registry name, or the engine that compiled the snippets
	encode Func
	decode Func
}

// New returns a codec built from the two functions.
func New(name string, encode, decode Func) *Codec {
	return &Codec{
		Name:   name,
		encode: encode,
		decode: decode,
	}
}

// Encode applies the encode function. An empty input is returned unchanged.
func (c *Codec) Encode(input string) (string, error) {
	if input == "" {
		return input, nil
	}
	output, err := c.encode(input)
	if err != nil {
		return "", fmt.Errorf("%w: encoding with %s : %w", ErrCodec, c.Name, err)
	}
	return output, nil
}

// Decode applies the decode function. An empty input is returned unchanged.
func (c *Codec) Decode(input string) (string, error) {
	if input == "" {
		return input, nil
	}
	output, err := c.decode(input)
	if err != nil {
		return "", fmt.Errorf("%w: decoding with %s : %w", ErrCodec, c.Name, err)
	}
	return output, nil
}
