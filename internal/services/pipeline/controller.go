package pipeline

import (
	"sync/atomic"
	"time"

	"facepipeline/internal/logger"
	"facepipeline/internal/model"
)

// State of the pipeline. Stopped is the initial state; there is no terminal
// state, the pipeline can be started and stopped for the life of the process.
type State int32

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Dispatcher sends a finished batch to the recognition service. Dispatch
// must not block the caller's cycle.
type Dispatcher interface {
	Dispatch(batch model.Batch)
}

// FaceCropper produces an encoded still for one face region of a frame, or
// (nil, nil) when the region has no usable area.
type FaceCropper interface {
	Crop(frame *model.FrameContext, rect model.Rectangle) (*model.CroppedFace, error)
}

// Notifier receives a summary after each admitted cycle. Implementations
// must not block.
type Notifier interface {
	CycleCompleted(summary CycleSummary)
}

// CycleSummary describes one admitted pipeline cycle for monitoring.
type CycleSummary struct {
	Camera     string    `json:"camera"`
	Detections int       `json:"detections"`
	Accepted   int       `json:"accepted"`
	BatchSize  int       `json:"batchSize"`
	Dispatched bool      `json:"dispatched"`
	Timestamp  time.Time `json:"timestamp"`
}

// Controller owns the start/stop state machine and runs one cycle per
// admitted frame: quality gate, region derivation, crop, dispatch. The cycle
// body is synchronous so frames are processed in arrival order; only the
// dispatch is issued asynchronously by the dispatcher.
type Controller struct {
	gate       *QualityGate
	throttle   *Throttle
	cropper    FaceCropper
	dispatcher Dispatcher
	notifier   Notifier
	logger     *logger.Logger

	state atomic.Int32

	framesSeen     atomic.Int64
	cyclesAdmitted atomic.Int64
	batchesSent    atomic.Int64
}

// NewController wires a controller from its collaborators. notifier may be
// nil when no monitoring surface is attached.
func NewController(gate *QualityGate, throttle *Throttle, cropper FaceCropper, dispatcher Dispatcher, notifier Notifier, logger *logger.Logger) *Controller {
	return &Controller{
		gate:       gate,
		throttle:   throttle,
		cropper:    cropper,
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     logger,
	}
}

// Start moves the pipeline to Running and rearms the throttle so the very
// next frame is admitted. Calling Start while already running is a no-op.
func (c *Controller) Start() {
	if !c.state.CompareAndSwap(int32(Stopped), int32(Running)) {
		return
	}
	c.throttle.Reset()
	c.logger.Info("Pipeline started")
}

// Stop halts intake of new frames. Dispatches already issued are left to
// complete on their own. Calling Stop while already stopped is a no-op.
func (c *Controller) Stop() {
	if !c.state.CompareAndSwap(int32(Running), int32(Stopped)) {
		return
	}
	c.logger.Info("Pipeline stopped")
}

// State returns the current pipeline state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Stats returns intake counters for the status endpoint.
func (c *Controller) Stats() (framesSeen, cyclesAdmitted, batchesSent int64) {
	return c.framesSeen.Load(), c.cyclesAdmitted.Load(), c.batchesSent.Load()
}

// HandleFrame runs one pipeline cycle for a frame's detections. Frames
// arriving while stopped or inside the throttle window are dropped. No
// failure inside a cycle propagates to the caller; the worst case is a
// cycle that produces no batch.
func (c *Controller) HandleFrame(frame *model.FrameContext, detections []model.Detection) {
	if c.State() != Running {
		return
	}
	c.framesSeen.Add(1)

	if !c.throttle.Admit(frame.Timestamp) {
		return
	}
	c.cyclesAdmitted.Add(1)

	// The cropper caches the decoded frame on first use; the batch only
	// carries encoded bytes, so the cache dies with the cycle.
	defer frame.CloseMat()

	batch := model.Batch{Camera: frame.Camera}
	accepted := 0

	for _, det := range detections {
		if !c.gate.Accepts(det) {
			continue
		}
		accepted++

		rect := DeriveRect(det.Box, frame.Width, frame.Height)

		face, err := c.cropper.Crop(frame, rect)
		if err != nil {
			c.logger.Warning("Skipping detection on camera %s: %v", frame.Camera, err)
			continue
		}
		if face == nil {
			// Degenerate or fully out-of-frame region.
			continue
		}

		batch.Faces = append(batch.Faces, *face)
	}

	// An empty batch never reaches the dispatcher.
	dispatched := false
	if len(batch.Faces) > 0 {
		c.dispatcher.Dispatch(batch)
		c.batchesSent.Add(1)
		dispatched = true
	}

	if c.notifier != nil {
		c.notifier.CycleCompleted(CycleSummary{
			Camera:     frame.Camera,
			Detections: len(detections),
			Accepted:   accepted,
			BatchSize:  len(batch.Faces),
			Dispatched: dispatched,
			Timestamp:  frame.Timestamp,
		})
	}
}
