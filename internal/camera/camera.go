// Package camera provides frame sources for attendance session loops.
//
// A Camera yields a sequential, blocking-read stream of frames. Two sources
// exist: an MJPEG pull source for IP cameras and a push source fed by a
// browser over WebSocket. A session loop owns exactly one Camera and must
// call Release exactly once when it terminates.
package camera

import (
	"errors"
	"image"
)

// ErrClosed is returned by ReadFrame once the source has been released or the
// upstream producer has gone away. It marks end-of-stream, not a fault.
var ErrClosed = errors.New("camera: source closed")

// Camera is a sequential frame source.
type Camera interface {
	// ReadFrame blocks until the next frame is available. It returns
	// ErrClosed at end-of-stream and other errors on device faults.
	ReadFrame() (image.Image, error)

	// Release frees the underlying device or connection. Safe to call more
	// than once; only the first call has an effect.
	Release()
}
