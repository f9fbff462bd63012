package model

import (
	"time"

	"gocv.io/x/gocv"
)

// FrameContext carries one frame through a single pipeline cycle and is
// discarded when the cycle completes.
type FrameContext struct {
	Camera    string
	Width     int
	Height    int
	Timestamp time.Time

	// Image is the encoded source frame (JPEG) as received from the
	// detector.
	Image []byte

	// mat holds the decoded frame so a cycle with several faces decodes
	// the JPEG once. Owned by the cycle, released through CloseMat.
	mat *gocv.Mat
}

// Mat returns the cached decode of Image, if one has been stored.
func (f *FrameContext) Mat() (*gocv.Mat, bool) {
	if f.mat == nil {
		return nil, false
	}
	return f.mat, true
}

// CacheMat stores the decoded frame for reuse within the cycle. A previously
// cached decode is released first.
func (f *FrameContext) CacheMat(mat gocv.Mat) {
	f.CloseMat()
	f.mat = &mat
}

// CloseMat releases the cached decode. Safe to call when nothing is cached.
func (f *FrameContext) CloseMat() {
	if f.mat != nil {
		f.mat.Close()
		f.mat = nil
	}
}

// Rectangle is an absolute pixel region derived from a normalized bounding
// box. It may be degenerate (non-positive size) or extend past the frame
// bounds; the cropper resolves both cases.
type Rectangle struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// CroppedFace is one encoded face still, alive only until its batch is
// dispatched.
type CroppedFace struct {
	Image     []byte
	Timestamp time.Time
}

// Batch is the set of cropped faces produced by one admitted cycle. It is
// built fresh per cycle and handed to the dispatcher, which does not retain
// it after the send resolves.
type Batch struct {
	Camera string
	Faces  []CroppedFace
}
