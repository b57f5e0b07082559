package imaging

import (
	"fmt"
	"image"
)

// DefaultDimension is the canonical side length, in pixels, of a normalized raster.
const DefaultDimension = 400

// InkBounds returns the tightest rectangle enclosing every ink pixel of r.
//
// Each edge is found independently by scanning inward from that side and
// stopping at the first row or column that contains an ink pixel. If an edge
// never meets ink it keeps its non-cropping value (0 for top/left, the full
// width/height for right/bottom), so a blank raster yields its own bounds.
//
// Ink follows Threshold.IsInk, so fully transparent pixels never bound the
// crop even when their color channels are dark.
//
// The returned rectangle uses exclusive Max coordinates.
func InkBounds(r Raster, t Threshold) image.Rectangle {
	w, h := r.Width(), r.Height()
	bounds := image.Rect(0, 0, w, h)

	top, found := firstInkRow(r, t, 0, h, 1)
	if !found {
		return bounds
	}
	bottom, _ := firstInkRow(r, t, h-1, -1, -1)
	left, _ := firstInkCol(r, t, 0, w, 1)
	right, _ := firstInkCol(r, t, w-1, -1, -1)

	return image.Rect(left, top, right+1, bottom+1)
}

func firstInkRow(r Raster, t Threshold, from, to, step int) (int, bool) {
	for y := from; y != to; y += step {
		for x := 0; x < r.Width(); x++ {
			if t.IsInk(r.At(x, y)) {
				return y, true
			}
		}
	}
	return 0, false
}

func firstInkCol(r Raster, t Threshold, from, to, step int) (int, bool) {
	for x := from; x != to; x += step {
		for y := 0; y < r.Height(); y++ {
			if t.IsInk(r.At(x, y)) {
				return x, true
			}
		}
	}
	return 0, false
}

// Normalize maps a character raster onto the canonical dim x dim square.
//
// The steps are:
//  1. Resize r to dim x dim, ignoring aspect ratio.
//  2. Crop tightly to the ink bounds of the resized raster.
//  3. Resize the crop back to dim x dim.
//
// The same function is applied to input slots and to stored exemplars, which
// guarantees every mask that is compared has identical dimensions.
//
// Errors:
//   - r is empty
//   - dim is not positive
func Normalize(r Raster, dim int, t Threshold) (Raster, error) {
	if dim <= 0 {
		return Raster{}, fmt.Errorf("invalid canonical dimension %d", dim)
	}
	sized, err := r.Resize(dim, dim)
	if err != nil {
		return Raster{}, fmt.Errorf("failed to normalize: %w", err)
	}
	cropped, err := sized.Crop(InkBounds(sized, t))
	if err != nil {
		return Raster{}, fmt.Errorf("failed to normalize: %w", err)
	}
	return cropped.Resize(dim, dim)
}
