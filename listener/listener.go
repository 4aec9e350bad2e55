// Package listener provides the net.Listener the control API is served through.
package listener

import (
	"errors"
	"net"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	minBackoff = 5 * time.Millisecond
	maxBackoff = time.Second
)

// ResilientListener wraps a net.Listener so that failed accepts do not stop the server.
// Only a closed listener ends Accept; every other error is logged and retried with backoff.
type ResilientListener struct {
	net.Listener
	logger   *zap.Logger
	rejected atomic.Uint64
	OnReject func(err error) // Called for every recovered accept error, may be nil
}

// NewResilientListener wraps listenerToWrap. A nil logger disables logging.
func NewResilientListener(listenerToWrap net.Listener, logger *zap.Logger) *ResilientListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResilientListener{
		Listener: listenerToWrap,
		logger:   logger,
	}
}

// Accept waits for the next connection, recovering from errors other than net.ErrClosed.
func (l *ResilientListener) Accept() (net.Conn, error) {
	var backoff time.Duration
	for {
		conn, err := l.Listener.Accept()
		if err == nil {
			return conn, nil
		}

		if errors.Is(err, net.ErrClosed) {
			return nil, err
		}

		l.rejected.Add(1)
		if l.OnReject != nil {
			l.OnReject(err)
		}

		if backoff == 0 {
			backoff = minBackoff
		} else {
			backoff = min(backoff*2, maxBackoff)
		}
		l.logger.Warn("recoverable listener error, connection rejected",
			zap.Error(err),
			zap.Duration("backoff", backoff),
		)
		time.Sleep(backoff)
	}
}

// Rejected returns how many accept errors have been recovered from.
func (l *ResilientListener) Rejected() uint64 {
	return l.rejected.Load()
}
