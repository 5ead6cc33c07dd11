package camera

import (
	"fmt"
	"image"
	"image/jpeg"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"
)

// MJPEG pulls frames from an IP camera's multipart/x-mixed-replace endpoint.
type MJPEG struct {
	resp   *http.Response
	reader *multipart.Reader

	releaseOnce sync.Once
}

// OpenMJPEG connects to an MJPEG endpoint and prepares the part reader.
// Opening fails if the endpoint is unreachable or not a multipart stream;
// per the session model this is fatal only to the loop that owns the camera.
func OpenMJPEG(url string) (*MJPEG, error) {
	client := &http.Client{
		// Connect timeout only. The response body itself is an unbounded
		// stream and must not be subject to a total request timeout.
		Transport: &http.Transport{ResponseHeaderTimeout: 10 * time.Second},
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("open camera stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("open camera stream: unexpected status %s", resp.Status)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		resp.Body.Close()
		return nil, fmt.Errorf("open camera stream: not an MJPEG source (content-type %q)", resp.Header.Get("Content-Type"))
	}

	return &MJPEG{
		resp:   resp,
		reader: multipart.NewReader(resp.Body, params["boundary"]),
	}, nil
}

// ReadFrame blocks until the next JPEG part arrives and decodes it.
func (m *MJPEG) ReadFrame() (image.Image, error) {
	part, err := m.reader.NextPart()
	if err != nil {
		// The upstream camera closed the stream or the connection dropped.
		return nil, ErrClosed
	}
	defer part.Close()

	img, err := jpeg.Decode(part)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}

// Release closes the HTTP connection to the camera.
func (m *MJPEG) Release() {
	m.releaseOnce.Do(func() {
		m.resp.Body.Close()
	})
}
