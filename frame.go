package ramjet

import (
	"sync"

	"github.com/google/uuid"
	"github.com/tfkr-ae/ramjet/core"
	"github.com/tfkr-ae/ramjet/domain"
	"go.uber.org/zap"
)

// Frame is an isolated rendering context bound to a controller.
// The controller is shared with every other frame it created.
type Frame struct {
	ID         uuid.UUID      // Unique identifier of the frame
	Controller *Controller    // Controller that created the frame
	Element    domain.Element // Element the frame renders into

	mu      sync.Mutex
	history []string // Proxied addresses visited with Go
	cursor  int      // Index of the current entry in history
}

// CreateFrame returns a frame bound to the controller. A nil element is replaced with a new
// detached iframe; any other element is adopted as it is.
func (c *Controller) CreateFrame(element domain.Element) *Frame {
	if element == nil {
		element = domain.NewIFrame()
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	frame := &Frame{
		ID:         id,
		Controller: c,
		Element:    element,
		cursor:     -1,
	}
	c.Logger.Debug("frame created", core.FrameID(id), zap.String("element", element.TagName()))
	return frame
}

// Go navigates the frame to address through the proxy.
// Entries after the current position in the history are discarded.
func (f *Frame) Go(address string) error {
	proxied, err := f.Controller.EncodeURL(address)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.history = append(f.history[:f.cursor+1], proxied)
	f.cursor = len(f.history) - 1
	f.mu.Unlock()

	f.Element.SetSrc(proxied)
	return nil
}

// URL returns the real address the frame is showing, or the empty string before any navigation.
func (f *Frame) URL() (string, error) {
	src := f.Element.Src()
	if src == "" {
		return "", nil
	}
	return f.Controller.DecodeURL(src)
}

// Reload sets the element source to its current value again.
func (f *Frame) Reload() {
	f.Element.SetSrc(f.Element.Src())
}

// Back moves one entry back in the history. It reports false when there is nothing to go back to.
func (f *Frame) Back() bool {
	return f.step(-1)
}

// Forward moves one entry forward in the history. It reports false when there is nothing ahead.
func (f *Frame) Forward() bool {
	return f.step(1)
}

func (f *Frame) step(delta int) bool {
	f.mu.Lock()
	next := f.cursor + delta
	if next < 0 || next >= len(f.history) {
		f.mu.Unlock()
		return false
	}
	f.cursor = next
	src := f.history[next]
	f.mu.Unlock()

	f.Element.SetSrc(src)
	return true
}
