package recognition

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"facepipeline/internal/config"
	"facepipeline/internal/logger"
	"facepipeline/internal/model"
)

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	cfg := &config.Config{
		RecognitionEndpoint: endpoint,
		LogDirectory:        t.TempDir(),
	}
	return NewClient(cfg, logger.NewLogger(cfg))
}

type capturedRequest struct {
	body    []byte
	headers http.Header
}

func TestClient_DispatchPayload(t *testing.T) {
	var mu sync.Mutex
	var captured []capturedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		captured = append(captured, capturedRequest{body: body, headers: r.Header.Clone()})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/recognize-batch")

	stamp := time.UnixMilli(1700000000000)
	client.Dispatch(model.Batch{
		Camera: "cam1",
		Faces: []model.CroppedFace{
			{Image: []byte("face-one"), Timestamp: stamp},
			{Image: []byte("face-two"), Timestamp: stamp.Add(time.Millisecond)},
		},
	})
	client.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(captured) != 1 {
		t.Fatalf("requests received = %d, want 1", len(captured))
	}

	req := captured[0]
	if got := req.headers.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
	if req.headers.Get("X-Batch-ID") == "" {
		t.Error("X-Batch-ID header is missing")
	}

	var payload struct {
		Images []struct {
			Image     string `json:"image"`
			Timestamp int64  `json:"timestamp"`
		} `json:"images"`
	}
	if err := json.Unmarshal(req.body, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}

	if len(payload.Images) != 2 {
		t.Fatalf("payload images = %d, want 2", len(payload.Images))
	}

	first, err := base64.StdEncoding.DecodeString(payload.Images[0].Image)
	if err != nil {
		t.Fatalf("image is not valid base64: %v", err)
	}
	if string(first) != "face-one" {
		t.Errorf("decoded image = %q, want %q", first, "face-one")
	}
	if payload.Images[0].Timestamp != 1700000000000 {
		t.Errorf("timestamp = %d, want 1700000000000", payload.Images[0].Timestamp)
	}
	if payload.Images[1].Timestamp != 1700000000001 {
		t.Errorf("second timestamp = %d, want 1700000000001", payload.Images[1].Timestamp)
	}
}

func TestClient_EmptyBatchNeverSends(t *testing.T) {
	var requests int
	var mu sync.Mutex

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.Dispatch(model.Batch{Camera: "cam1"})
	client.Wait()

	mu.Lock()
	defer mu.Unlock()
	if requests != 0 {
		t.Errorf("requests for empty batch = %d, want 0", requests)
	}
}

func TestClient_FailuresAreSwallowed(t *testing.T) {
	batch := model.Batch{
		Camera: "cam1",
		Faces:  []model.CroppedFace{{Image: []byte("face"), Timestamp: time.Now()}},
	}

	t.Run("non-success status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		client.Dispatch(batch)
		client.Wait() // must return without panicking or retrying
	})

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		endpoint := server.URL
		server.Close()

		client := newTestClient(t, endpoint)
		client.Dispatch(batch)
		client.Wait()
	})
}

func TestClient_DispatchDoesNotBlockCaller(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(t, server.URL)

	done := make(chan struct{})
	go func() {
		client.Dispatch(model.Batch{
			Camera: "cam1",
			Faces:  []model.CroppedFace{{Image: []byte("face"), Timestamp: time.Now()}},
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a slow recognition service")
	}
}
