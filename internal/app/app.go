package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"facepipeline/internal/config"
	"facepipeline/internal/logger"
	"facepipeline/internal/recognition"
	"facepipeline/internal/routes"
	"facepipeline/internal/services/pipeline"
	monitor "facepipeline/internal/services/websocket"
)

type App struct {
	config     *config.Config
	logger     *logger.Logger
	controller *pipeline.Controller
	recognizer *recognition.Client
	hub        *monitor.HubService
}

func NewApp() *App {
	cfg := config.Load()
	log := logger.NewLogger(cfg)

	hub := monitor.NewHubService(log)
	recognizer := recognition.NewClient(cfg, log)

	gate := pipeline.NewQualityGate(cfg)
	throttle := pipeline.NewThrottle(time.Duration(cfg.ThrottleIntervalMs) * time.Millisecond)
	cropper := pipeline.NewCropper()

	controller := pipeline.NewController(gate, throttle, cropper, recognizer, hub, log)

	return &App{
		config:     cfg,
		logger:     log,
		controller: controller,
		recognizer: recognizer,
		hub:        hub,
	}
}

func (a *App) Run() error {
	go a.hub.Run()

	// The pipeline starts running; the control API can stop and restart it.
	a.controller.Start()

	router := routes.SetupRoutes(a.controller, a.hub, a.config, a.logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.Port),
		Handler: router,
	}

	a.logger.Info("Face pipeline server listening on port %d", a.config.Port)
	a.logger.Info("Recognition endpoint: %s", a.config.RecognitionEndpoint)
	a.logger.Info("Throttle interval: %dms", a.config.ThrottleIntervalMs)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-stop:
		a.logger.Info("Received %s, shutting down", sig)
	}

	a.shutdown(server)
	return nil
}

// shutdown stops frame intake, closes the HTTP listener, and lets in-flight
// recognition dispatches resolve before returning.
func (a *App) shutdown(server *http.Server) {
	a.controller.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		a.logger.Warning("HTTP shutdown error: %v", err)
	}

	a.recognizer.Wait()
}
