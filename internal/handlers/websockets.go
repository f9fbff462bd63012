package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"facepipeline/internal/config"
	"facepipeline/internal/dto"
	"facepipeline/internal/logger"
	"facepipeline/internal/services/pipeline"
	monitor "facepipeline/internal/services/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// DetectorWebsocketHandler accepts a detector connection that pushes one
// results message per frame. Messages are handled sequentially, so one cycle
// completes (including dispatch issuance) before the next frame is read.
func DetectorWebsocketHandler(controller *pipeline.Controller, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		camera := r.URL.Query().Get("id")

		connection, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}
		connection.SetReadDeadline(time.Now().Add(60 * time.Second))
		connection.SetPongHandler(func(appData string) error {
			connection.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		defer connection.Close()

		logger.Info("Detector connected: %s", camera)

		for {
			_, msg, err := connection.ReadMessage()
			if err != nil {
				logger.Info("Detector disconnected: %s (%v)", camera, err)
				break
			}
			// A detector keeps the connection alive by sending frames, so
			// every message refreshes the deadline alongside pongs.
			connection.SetReadDeadline(time.Now().Add(60 * time.Second))

			var result dto.FrameResult
			if err := json.Unmarshal(msg, &result); err != nil {
				logger.Warning("Malformed detector message from %s: %v", camera, err)
				continue
			}

			frame, detections, err := dto.ToFrame(camera, result, cfg.FrameWidth, cfg.FrameHeight)
			if err != nil {
				logger.Warning("Unusable frame from %s: %v", camera, err)
				continue
			}

			controller.HandleFrame(frame, detections)
		}
	}
}

// MonitorWebsocketHandler registers a viewer connection with the monitor hub
// and keeps it alive until the client goes away.
func MonitorWebsocketHandler(hub *monitor.HubService, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}
		connection.SetReadLimit(512)
		connection.SetReadDeadline(time.Now().Add(60 * time.Second))
		connection.SetPongHandler(func(appData string) error {
			connection.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		defer connection.Close()

		hub.Register(connection)
		defer hub.Unregister(connection)

		for {
			if _, _, err := connection.ReadMessage(); err != nil {
				break
			}
		}
	}
}
