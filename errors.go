package ramjet

import (
	"errors"

	"github.com/tfkr-ae/ramjet/codec"
)

var (
	// ErrStoreOpen is returned when the local store cannot be opened.
	ErrStoreOpen = errors.New("opening local store")
	// ErrStoreWrite is returned when a configuration write fails.
	ErrStoreWrite = errors.New("writing to local store")
	// ErrStoreNotReady is logged when a save is requested before the store is open. It is never returned.
	ErrStoreNotReady = errors.New("store not ready")
	// ErrRegistration is returned when the interception worker cannot be registered.
	ErrRegistration = errors.New("registering interception worker")
	// ErrNotProxied is returned when decoding an address that does not start with the prefix.
	ErrNotProxied = errors.New("address is not under the proxy prefix")
	// ErrCodec is returned when the codec cannot be compiled or fails on a call.
	ErrCodec = codec.ErrCodec
)
