package dto

import (
	"encoding/base64"
	"fmt"
	"time"

	"facepipeline/internal/model"
)

// FrameResult is the wire message a detector pushes once per frame.
type FrameResult struct {
	Timestamp  int64       `json:"timestamp"` // epoch milliseconds
	Width      int         `json:"width,omitempty"`
	Height     int         `json:"height,omitempty"`
	Image      string      `json:"image"` // base64 encoded JPEG
	Detections []Detection `json:"detections"`
}

type Detection struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	Landmarks   []Landmark  `json:"landmarks"`
}

type BoundingBox struct {
	XCenter  float64  `json:"x_center"`
	YCenter  float64  `json:"y_center"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Rotation *float64 `json:"rotation_degrees,omitempty"`
}

type Landmark struct {
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Z          float64  `json:"z,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// ToFrame converts a wire frame result into model types. Width and height
// fall back to the configured frame dimensions when the detector omits them.
func ToFrame(camera string, result FrameResult, defaultWidth, defaultHeight int) (*model.FrameContext, []model.Detection, error) {
	imageData, err := base64.StdEncoding.DecodeString(result.Image)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid frame image encoding: %w", err)
	}
	if len(imageData) == 0 {
		return nil, nil, fmt.Errorf("frame carries no image data")
	}

	width := result.Width
	if width <= 0 {
		width = defaultWidth
	}
	height := result.Height
	if height <= 0 {
		height = defaultHeight
	}

	frame := &model.FrameContext{
		Camera:    camera,
		Width:     width,
		Height:    height,
		Timestamp: time.UnixMilli(result.Timestamp),
		Image:     imageData,
	}

	detections := make([]model.Detection, 0, len(result.Detections))
	for _, d := range result.Detections {
		detections = append(detections, d.toModel())
	}

	return frame, detections, nil
}

func (d Detection) toModel() model.Detection {
	landmarks := make([]model.Landmark, 0, len(d.Landmarks))
	for _, lm := range d.Landmarks {
		landmarks = append(landmarks, model.Landmark{
			X:          lm.X,
			Y:          lm.Y,
			Z:          lm.Z,
			Confidence: lm.Confidence,
		})
	}

	return model.Detection{
		Box: model.BoundingBox{
			XCenter:  d.BoundingBox.XCenter,
			YCenter:  d.BoundingBox.YCenter,
			Width:    d.BoundingBox.Width,
			Height:   d.BoundingBox.Height,
			Rotation: d.BoundingBox.Rotation,
		},
		Landmarks: landmarks,
	}
}
