package camera

import (
	"image"
	"sync"
)

// Push is a camera fed by an external producer, typically the viewing
// browser sending webcam frames over a WebSocket. The buffer holds a single
// frame; a producer that outruns the consumer overwrites the pending frame
// rather than queueing, so the consumer always sees the freshest frame.
type Push struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending image.Image
	closed  bool
}

// NewPush creates an open push camera with no pending frame.
func NewPush() *Push {
	p := &Push{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Offer hands a frame to the camera. Frames offered after Release are dropped.
func (p *Push) Offer(frame image.Image) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.pending = frame
	p.cond.Signal()
}

// ReadFrame blocks until a frame is offered or the camera is released.
func (p *Push) ReadFrame() (image.Image, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.pending == nil && !p.closed {
		p.cond.Wait()
	}
	if p.closed {
		return nil, ErrClosed
	}
	frame := p.pending
	p.pending = nil
	return frame, nil
}

// Release closes the camera and wakes any blocked reader.
func (p *Push) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.pending = nil
	p.cond.Broadcast()
}
