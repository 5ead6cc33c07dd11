package camera

import "sync"

// Hub tracks push cameras by session key so the WebSocket ingest handler and
// the frame loop, which arrive on independent connections, meet on the same
// source. Reads and writes are mutually exclusive per key.
type Hub struct {
	mu   sync.Mutex
	cams map[string]*Push
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{cams: make(map[string]*Push)}
}

// Acquire returns the push camera for a key, creating it on first use.
func (h *Hub) Acquire(key string) *Push {
	h.mu.Lock()
	defer h.mu.Unlock()
	cam, ok := h.cams[key]
	if !ok {
		cam = NewPush()
		h.cams[key] = cam
	}
	return cam
}

// Drop releases the camera for a key and forgets it. Subsequent Acquire
// calls create a fresh source.
func (h *Hub) Drop(key string) {
	h.mu.Lock()
	cam, ok := h.cams[key]
	delete(h.cams, key)
	h.mu.Unlock()
	if ok {
		cam.Release()
	}
}
