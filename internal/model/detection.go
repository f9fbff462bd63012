package model

// BoundingBox is a face box in normalized image coordinates, center based.
// All four values are fractions of the frame size in [0,1]; a box may still
// extend past the frame edges when the detector reports a face at the border.
type BoundingBox struct {
	XCenter float64
	YCenter float64
	Width   float64
	Height  float64

	// Rotation is the in-plane head tilt in degrees. Nil when the detector
	// does not report rotation.
	Rotation *float64
}

// Landmark is a single face keypoint in normalized coordinates.
type Landmark struct {
	X float64
	Y float64
	Z float64

	// Confidence is the per-point detector score. Nil when the detector
	// does not score individual points.
	Confidence *float64
}

// Detection is one candidate face reported for a single frame. It is not
// modified after being decoded from the detector message.
type Detection struct {
	Box       BoundingBox
	Landmarks []Landmark
}
