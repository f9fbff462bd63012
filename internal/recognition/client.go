package recognition

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"facepipeline/internal/config"
	"facepipeline/internal/logger"
	"facepipeline/internal/model"
)

// Client posts cropped-face batches to the recognition service. Dispatch is
// fire and forget: failures are logged and dropped, the response body is
// never consumed, and nothing is retried.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *logger.Logger
	wg         sync.WaitGroup
}

type batchPayload struct {
	Images []imagePayload `json:"images"`
}

type imagePayload struct {
	Image     string `json:"image"`     // base64 encoded JPEG
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}

func NewClient(cfg *config.Config, logger *logger.Logger) *Client {
	return &Client{
		endpoint: cfg.RecognitionEndpoint,
		httpClient: &http.Client{
			// Zero keeps the transport default of no timeout.
			Timeout: time.Duration(cfg.DispatchTimeoutMs) * time.Millisecond,
		},
		logger: logger,
	}
}

// Dispatch serializes batch and sends it from a separate goroutine, so the
// caller's cycle is never blocked and never sees a transport error. Empty
// batches are dropped before any network activity.
func (c *Client) Dispatch(batch model.Batch) {
	if len(batch.Faces) == 0 {
		return
	}

	payload := batchPayload{Images: make([]imagePayload, 0, len(batch.Faces))}
	for _, face := range batch.Faces {
		payload.Images = append(payload.Images, imagePayload{
			Image:     base64.StdEncoding.EncodeToString(face.Image),
			Timestamp: face.Timestamp.UnixMilli(),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("Failed to serialize batch from camera %s: %v", batch.Camera, err)
		return
	}

	batchID := uuid.NewString()

	c.wg.Add(1)
	go c.send(batchID, batch.Camera, body, len(batch.Faces))
}

func (c *Client) send(batchID, camera string, body []byte, faces int) {
	defer c.wg.Done()

	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("Failed to build recognition request %s: %v", batchID, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Batch-ID", batchID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Recognition dispatch %s failed: %v", batchID, err)
		return
	}
	defer resp.Body.Close()

	// The response is not consumed; drain it so the connection can be reused.
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warning("Recognition service returned %d for batch %s", resp.StatusCode, batchID)
		return
	}

	c.logger.Info("Dispatched batch %s (%d faces) from camera %s", batchID, faces, camera)
}

// Wait blocks until every in-flight dispatch has resolved. Dispatches are
// never cancelled; stopping the pipeline lets them finish on their own.
func (c *Client) Wait() {
	c.wg.Wait()
}
