// Package facematch is the HTTP client for the external face-matching
// service. The service owns detection, embeddings and the face corpus; this
// client only ships a frame and reads back candidate identities.
package facematch

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"github.com/presensia/presensia-backend/internal/model"
)

// Match is one candidate identity for a face found in a frame. The corpus is
// organized by role, so the service reports both the name and the role the
// face was enrolled under. Box is in frame pixel coordinates.
type Match struct {
	Name       string     `json:"name"`
	Role       model.Role `json:"role"`
	Box        Box        `json:"box"`
	Confidence float64    `json:"confidence"`
}

// Box is an axis-aligned bounding box.
type Box struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Rect converts the box to an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Client calls the face-matching service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Skip    bool
}

// New creates a client. Skip mode returns a canned match without any network
// call, for local development without the face service.
func New(baseURL string, skip bool) *Client {
	return &Client{
		BaseURL: baseURL,
		Skip:    skip,
		HTTP: &http.Client{
			Timeout: 30 * time.Second, // Face processing can take time
		},
	}
}

// Find submits a JPEG-encoded frame and returns candidate matches ordered by
// confidence, best first. An empty slice means no face was recognized.
// Any transport or service fault is returned as an error; callers in the
// frame loop map faults to "no match this iteration".
func (c *Client) Find(ctx context.Context, frameJPEG []byte) ([]Match, error) {
	if c.Skip {
		return []Match{{
			Name:       "dev",
			Role:       model.RoleStudent,
			Box:        Box{X: 80, Y: 60, W: 160, H: 160},
			Confidence: 0.92,
		}}, nil
	}

	body, _ := json.Marshal(map[string]string{
		"image_b64": base64.StdEncoding.EncodeToString(frameJPEG),
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/find", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("face service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("face service error %s: %s", resp.Status, string(bodyBytes))
	}

	var out struct {
		Matches []Match `json:"matches"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return out.Matches, nil
}
