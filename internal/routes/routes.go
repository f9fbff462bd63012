package routes

import (
	"net/http"

	"facepipeline/internal/config"
	"facepipeline/internal/handlers"
	"facepipeline/internal/logger"
	"facepipeline/internal/middleware"
	"facepipeline/internal/services/pipeline"
	monitor "facepipeline/internal/services/websocket"
)

// SetupRoutes registers the detector intake, monitor, and pipeline control
// endpoints and wraps the mux with request logging.
func SetupRoutes(controller *pipeline.Controller, hub *monitor.HubService, cfg *config.Config, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Frame intake and monitoring
	mux.HandleFunc("/api/detector", handlers.DetectorWebsocketHandler(controller, cfg, logger))
	mux.HandleFunc("/api/monitor", handlers.MonitorWebsocketHandler(hub, logger))

	// Pipeline control surface
	mux.HandleFunc("/api/pipeline/start", handlers.StartPipelineHandler(controller, logger))
	mux.HandleFunc("/api/pipeline/stop", handlers.StopPipelineHandler(controller, logger))
	mux.HandleFunc("/api/pipeline/status", handlers.PipelineStatusHandler(controller))

	return middleware.RequestLogging(logger, mux)
}
