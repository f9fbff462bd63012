package pipeline

import (
	"math"

	"facepipeline/internal/config"
	"facepipeline/internal/model"
)

// QualityGate decides whether a detection is reliable enough to crop and
// forward for recognition. Rules are checked in order and the first failure
// rejects the detection.
type QualityGate struct {
	maxRotationDegrees  float64
	minLandmarks        int
	minEyeDistanceRatio float64
	minConfidence       float64
}

func NewQualityGate(cfg *config.Config) *QualityGate {
	return &QualityGate{
		maxRotationDegrees:  cfg.MaxRotationDegrees,
		minLandmarks:        cfg.MinLandmarks,
		minEyeDistanceRatio: cfg.MinEyeDistanceRatio,
		minConfidence:       cfg.MinConfidence,
	}
}

// Accepts reports whether det passes every quality rule. It is a pure
// function of its input and safe for concurrent use.
func (g *QualityGate) Accepts(det model.Detection) bool {
	// Large head tilt degrades recognition downstream.
	if det.Box.Rotation != nil && math.Abs(*det.Box.Rotation) > g.maxRotationDegrees {
		return false
	}

	// Too few landmarks means there is not enough geometry to judge the face.
	if len(det.Landmarks) < g.minLandmarks {
		return false
	}

	// A small interocular distance relative to the box signals a face that
	// is too small, too oblique, or has misaligned landmarks.
	if len(det.Landmarks) >= 2 && eyeDistance(det.Landmarks) < g.minEyeDistanceRatio*det.Box.Width {
		return false
	}

	// Any single low-confidence point invalidates the whole detection.
	// Points without a confidence value pass.
	for _, lm := range det.Landmarks {
		if lm.Confidence != nil && *lm.Confidence < g.minConfidence {
			return false
		}
	}

	return true
}

// eyeDistance is the Euclidean distance between the first two landmarks,
// treated as the eye points.
func eyeDistance(landmarks []model.Landmark) float64 {
	dx := landmarks[0].X - landmarks[1].X
	dy := landmarks[0].Y - landmarks[1].Y
	return math.Hypot(dx, dy)
}
