package camera

import (
	"errors"
	"image"
	"testing"
	"time"
)

func frame() image.Image { return image.NewNRGBA(image.Rect(0, 0, 4, 4)) }

func TestPushDeliversOfferedFrame(t *testing.T) {
	p := NewPush()
	want := frame()
	p.Offer(want)

	got, err := p.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if got != want {
		t.Error("ReadFrame() returned a different frame than offered")
	}
}

func TestPushOverwritesPendingFrame(t *testing.T) {
	p := NewPush()
	stale := frame()
	fresh := frame()

	p.Offer(stale)
	p.Offer(fresh)

	got, err := p.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if got != fresh {
		t.Error("consumer got the stale frame, want the freshest one")
	}
}

func TestPushReleaseUnblocksReader(t *testing.T) {
	p := NewPush()

	errCh := make(chan error, 1)
	go func() {
		_, err := p.ReadFrame()
		errCh <- err
	}()

	// Give the reader a moment to block.
	time.Sleep(10 * time.Millisecond)
	p.Release()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("ReadFrame() after release = %v, want ErrClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("reader still blocked after Release")
	}
}

func TestPushOfferAfterReleaseIsDropped(t *testing.T) {
	p := NewPush()
	p.Release()
	p.Offer(frame())

	if _, err := p.ReadFrame(); !errors.Is(err, ErrClosed) {
		t.Errorf("ReadFrame() = %v, want ErrClosed", err)
	}
}

func TestPushReleaseIsIdempotent(t *testing.T) {
	p := NewPush()
	p.Release()
	p.Release()

	if _, err := p.ReadFrame(); !errors.Is(err, ErrClosed) {
		t.Errorf("ReadFrame() = %v, want ErrClosed", err)
	}
}

func TestHubAcquireReturnsSameCamera(t *testing.T) {
	h := NewHub()
	a := h.Acquire("sched-1")
	b := h.Acquire("sched-1")
	if a != b {
		t.Error("Acquire returned different cameras for the same key")
	}

	other := h.Acquire("sched-2")
	if other == a {
		t.Error("Acquire returned the same camera for different keys")
	}
}

func TestHubDropReleasesCamera(t *testing.T) {
	h := NewHub()
	cam := h.Acquire("sched-1")
	h.Drop("sched-1")

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrClosed) {
		t.Errorf("ReadFrame() after Drop = %v, want ErrClosed", err)
	}

	// A fresh acquire after a drop yields a new, open camera.
	if h.Acquire("sched-1") == cam {
		t.Error("Acquire after Drop returned the released camera")
	}
}
