package facematch

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/presensia/presensia-backend/internal/model"
)

func TestFindDecodesMatches(t *testing.T) {
	var gotPath string
	var gotPayload map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"matches": []Match{
				{Name: "Budi Santoso", Role: model.RoleStudent, Box: Box{X: 10, Y: 20, W: 30, H: 40}, Confidence: 0.97},
				{Name: "Siti Aminah", Role: model.RoleStudent, Box: Box{X: 50, Y: 20, W: 30, H: 40}, Confidence: 0.61},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, false)
	frame := []byte{0xff, 0xd8, 0xff, 0xd9}
	matches, err := c.Find(context.Background(), frame)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	if gotPath != "/find" {
		t.Errorf("request path = %q, want /find", gotPath)
	}
	if gotPayload["image_b64"] != base64.StdEncoding.EncodeToString(frame) {
		t.Error("frame not base64-encoded in request payload")
	}
	if len(matches) != 2 || matches[0].Name != "Budi Santoso" {
		t.Fatalf("matches = %v, want Budi Santoso first", matches)
	}
	if matches[0].Box.Rect() != image.Rect(10, 20, 40, 60) {
		t.Errorf("box rect = %v, want (10,20)-(40,60)", matches[0].Box.Rect())
	}
}

func TestFindServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, false)
	if _, err := c.Find(context.Background(), []byte("frame")); err == nil {
		t.Fatal("Find() error = nil, want service error")
	}
}

func TestFindUnreachableService(t *testing.T) {
	c := New("http://127.0.0.1:1", false)
	if _, err := c.Find(context.Background(), []byte("frame")); err == nil {
		t.Fatal("Find() error = nil, want transport error")
	}
}

func TestFindSkipMode(t *testing.T) {
	c := New("http://unused", true)
	matches, err := c.Find(context.Background(), nil)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("skip mode matches = %d, want 1 canned match", len(matches))
	}
}
