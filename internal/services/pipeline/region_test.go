package pipeline

import (
	"math"
	"testing"

	"facepipeline/internal/model"
)

func rectNear(a, b model.Rectangle) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps &&
		math.Abs(a.Y-b.Y) < eps &&
		math.Abs(a.Width-b.Width) < eps &&
		math.Abs(a.Height-b.Height) < eps
}

func TestDeriveRect(t *testing.T) {
	tests := []struct {
		name   string
		box    model.BoundingBox
		frameW int
		frameH int
		want   model.Rectangle
	}{
		{
			name:   "centered box",
			box:    model.BoundingBox{XCenter: 0.5, YCenter: 0.5, Width: 0.2, Height: 0.4},
			frameW: 640,
			frameH: 480,
			want:   model.Rectangle{X: 256, Y: 144, Width: 128, Height: 192},
		},
		{
			name:   "full frame box",
			box:    model.BoundingBox{XCenter: 0.5, YCenter: 0.5, Width: 1, Height: 1},
			frameW: 640,
			frameH: 480,
			want:   model.Rectangle{X: 0, Y: 0, Width: 640, Height: 480},
		},
		{
			name:   "box past the left edge is not clamped",
			box:    model.BoundingBox{XCenter: 0.125, YCenter: 0.5, Width: 0.5, Height: 0.25},
			frameW: 640,
			frameH: 480,
			want:   model.Rectangle{X: -80, Y: 180, Width: 320, Height: 120},
		},
		{
			name:   "zero size box yields a degenerate rectangle",
			box:    model.BoundingBox{XCenter: 0.5, YCenter: 0.5, Width: 0, Height: 0},
			frameW: 640,
			frameH: 480,
			want:   model.Rectangle{X: 320, Y: 240, Width: 0, Height: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveRect(tt.box, tt.frameW, tt.frameH)
			if !rectNear(got, tt.want) {
				t.Errorf("DeriveRect() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
