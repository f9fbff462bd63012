package pipeline

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"facepipeline/internal/model"
)

// Cropper cuts face regions out of a source frame and encodes them as JPEG
// stills.
//
// Out-of-bounds policy: the source read is clamped to the intersection of
// the rectangle with the frame, while the destination keeps the derived
// size. Pixels the frame does not cover stay black. A rectangle that misses
// the frame entirely is skipped like a degenerate one.
type Cropper struct{}

func NewCropper() *Cropper {
	return &Cropper{}
}

// Crop returns the encoded face for rect, or (nil, nil) when the rectangle
// has no positive area after rounding to whole pixels. Degenerate geometry
// is a normal filtered outcome, not an error.
//
// The first crop of a frame decodes the JPEG and caches the result on the
// frame, so later crops in the same cycle reuse it. The cycle owner releases
// the cache when the cycle completes.
func (c *Cropper) Crop(frame *model.FrameContext, rect model.Rectangle) (*model.CroppedFace, error) {
	dstWidth := int(math.Round(rect.Width))
	dstHeight := int(math.Round(rect.Height))
	if dstWidth <= 0 || dstHeight <= 0 {
		return nil, nil
	}

	src, ok := frame.Mat()
	if !ok {
		decoded, err := gocv.IMDecode(frame.Image, gocv.IMReadColor)
		if err != nil {
			return nil, fmt.Errorf("failed to decode frame: %w", err)
		}
		if decoded.Empty() {
			decoded.Close()
			return nil, fmt.Errorf("decoded frame is empty")
		}
		frame.CacheMat(decoded)
		src, _ = frame.Mat()
	}

	x := int(math.Round(rect.X))
	y := int(math.Round(rect.Y))

	frameBounds := image.Rect(0, 0, src.Cols(), src.Rows())
	read := image.Rect(x, y, x+dstWidth, y+dstHeight).Intersect(frameBounds)
	if read.Empty() {
		return nil, nil
	}

	// NewMatWithSize zero-fills, so pixels outside the frame stay black.
	dst := gocv.NewMatWithSize(dstHeight, dstWidth, src.Type())
	defer dst.Close()

	srcRegion := src.Region(read)
	defer srcRegion.Close()

	dstRegion := dst.Region(image.Rect(read.Min.X-x, read.Min.Y-y, read.Max.X-x, read.Max.Y-y))
	defer dstRegion.Close()

	srcRegion.CopyTo(&dstRegion)

	buf, err := gocv.IMEncode(".jpg", dst)
	if err != nil {
		return nil, fmt.Errorf("failed to encode face crop: %w", err)
	}
	defer buf.Close()

	encoded := make([]byte, len(buf.GetBytes()))
	copy(encoded, buf.GetBytes())

	return &model.CroppedFace{
		Image:     encoded,
		Timestamp: frame.Timestamp,
	}, nil
}
