package handlers

import (
	"encoding/json"
	"net/http"

	"facepipeline/internal/logger"
	"facepipeline/internal/services/pipeline"
)

type pipelineStatus struct {
	State          string `json:"state"`
	FramesSeen     int64  `json:"framesSeen"`
	CyclesAdmitted int64  `json:"cyclesAdmitted"`
	BatchesSent    int64  `json:"batchesSent"`
}

// StartPipelineHandler starts the pipeline. Starting an already running
// pipeline is a no-op.
func StartPipelineHandler(controller *pipeline.Controller, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		controller.Start()
		logger.Info("Pipeline start requested by %s", r.RemoteAddr)
		writeStatus(w, controller)
	}
}

// StopPipelineHandler stops frame intake. Dispatches already in flight are
// left to complete. Stopping an already stopped pipeline is a no-op.
func StopPipelineHandler(controller *pipeline.Controller, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		controller.Stop()
		logger.Info("Pipeline stop requested by %s", r.RemoteAddr)
		writeStatus(w, controller)
	}
}

// PipelineStatusHandler reports the current state and intake counters.
func PipelineStatusHandler(controller *pipeline.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		writeStatus(w, controller)
	}
}

func writeStatus(w http.ResponseWriter, controller *pipeline.Controller) {
	framesSeen, cyclesAdmitted, batchesSent := controller.Stats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pipelineStatus{
		State:          controller.State().String(),
		FramesSeen:     framesSeen,
		CyclesAdmitted: cyclesAdmitted,
		BatchesSent:    batchesSent,
	})
}
