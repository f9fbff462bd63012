package handlers

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"facepipeline/internal/config"
	"facepipeline/internal/services/pipeline"
)

func dialDetector(t *testing.T, handler http.HandlerFunc) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?id=cam1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForFrames(t *testing.T, controller *pipeline.Controller, want int64) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if seen, _, _ := controller.Stats(); seen >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	seen, _, _ := controller.Stats()
	t.Fatalf("framesSeen = %d, want %d", seen, want)
}

func TestDetectorWebsocketHandler_ProcessesFrames(t *testing.T) {
	controller, log := newTestController(t)
	controller.Start()

	cfg := &config.Config{FrameWidth: 640, FrameHeight: 480}
	conn := dialDetector(t, DetectorWebsocketHandler(controller, cfg, log))

	frame := `{"timestamp": 1700000000000, "image": "` +
		base64.StdEncoding.EncodeToString([]byte("jpeg")) + `", "detections": []}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	waitForFrames(t, controller, 1)

	// A malformed message is skipped without dropping the connection.
	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	next := `{"timestamp": 1700000003000, "image": "` +
		base64.StdEncoding.EncodeToString([]byte("jpeg")) + `", "detections": []}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(next)); err != nil {
		t.Fatalf("write failed after malformed message: %v", err)
	}
	waitForFrames(t, controller, 2)
}
