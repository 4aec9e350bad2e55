package domain

import "sync"

// Element is an embeddable rendering element a frame renders proxied content into.
type Element interface {
	TagName() string
	Src() string
	SetSrc(src string)
}

// IFrame is the default Element created when the caller does not supply one.
type IFrame struct {
	mu  sync.RWMutex
	src string
}

// NewIFrame returns a detached iframe element with no source.
func NewIFrame() *IFrame {
	return &IFrame{}
}

// TagName implements Element. It is always "iframe".
func (f *IFrame) TagName() string {
	return "iframe"
}

// Src implements Element. It is empty until SetSrc is called.
func (f *IFrame) Src() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.src
}

// SetSrc implements Element.
func (f *IFrame) SetSrc(src string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.src = src
}
