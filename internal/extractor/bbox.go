package extractor

import (
	"image"
	"math"
)

// maxCoord bounds converted components so that far out of range values clamp
// to the image instead of overflowing int.
const maxCoord = math.MaxInt32

// BoundingBox is a region of interest in source image pixel coordinates.
type BoundingBox struct {
	X1, Y1, X2, Y2 int
}

// BoundingBoxFromSlice builds a box from a request's bbox array. Components are
// truncated toward zero and limited to +/-maxCoord. Anything other than
// exactly four components means "use the whole image" and reports false.
func BoundingBoxFromSlice(v []float64) (*BoundingBox, bool) {
	if len(v) != 4 {
		return nil, false
	}
	return &BoundingBox{
		X1: toCoord(v[0]),
		Y1: toCoord(v[1]),
		X2: toCoord(v[2]),
		Y2: toCoord(v[3]),
	}, true
}

func toCoord(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v > maxCoord:
		return maxCoord
	case v < -maxCoord:
		return -maxCoord
	}
	return int(v)
}

// Clamp returns the box limited to a width x height image. The result always
// satisfies 0 <= X1 <= X2 <= width and 0 <= Y1 <= Y2 <= height; a box lying
// outside the image collapses to zero area.
func (b BoundingBox) Clamp(width, height int) BoundingBox {
	out := BoundingBox{
		X1: clamp(b.X1, 0, width),
		Y1: clamp(b.Y1, 0, height),
		X2: clamp(b.X2, 0, width),
		Y2: clamp(b.Y2, 0, height),
	}
	if out.X2 < out.X1 {
		out.X2 = out.X1
	}
	if out.Y2 < out.Y1 {
		out.Y2 = out.Y1
	}
	return out
}

// Empty reports whether the box has zero area.
func (b BoundingBox) Empty() bool {
	return b.X2 <= b.X1 || b.Y2 <= b.Y1
}

// Rect converts the box to an image.Rectangle relative to origin.
func (b BoundingBox) Rect(origin image.Point) image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2).Add(origin)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
