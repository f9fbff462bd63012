package pipeline

import "facepipeline/internal/model"

// DeriveRect converts a normalized center+size bounding box into an absolute
// pixel rectangle for a frame of the given dimensions. No clamping happens
// here: a box extending past the frame edges yields a rectangle partially or
// fully outside it, which the cropper resolves.
func DeriveRect(box model.BoundingBox, frameWidth, frameHeight int) model.Rectangle {
	xMin := box.XCenter - box.Width/2
	xMax := box.XCenter + box.Width/2
	yMin := box.YCenter - box.Height/2
	yMax := box.YCenter + box.Height/2

	w := float64(frameWidth)
	h := float64(frameHeight)

	return model.Rectangle{
		X:      xMin * w,
		Y:      yMin * h,
		Width:  (xMax - xMin) * w,
		Height: (yMax - yMin) * h,
	}
}
