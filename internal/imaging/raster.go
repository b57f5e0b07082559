package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Raster is an immutable grid of 8-bit RGBA pixels.
//
// Every transformation (Resize, Crop, Columns) returns a new Raster and leaves
// the receiver untouched. The zero value is an empty raster with no pixels.
//
// Pixels are stored non-premultiplied so that channel values match what a
// user sees in an image editor: a half-transparent black pixel still reports
// R=G=B=0.
type Raster struct {
	img *image.NRGBA
}

// NewRaster copies img into a new Raster with bounds rebased to (0,0).
//
// The copy guarantees immutability: later writes to img are not visible
// through the returned Raster.
func NewRaster(img image.Image) Raster {
	if img == nil {
		return Raster{}
	}
	return Raster{img: imaging.Clone(img)}
}

// Width returns the raster width in pixels.
func (r Raster) Width() int {
	if r.img == nil {
		return 0
	}
	return r.img.Bounds().Dx()
}

// Height returns the raster height in pixels.
func (r Raster) Height() int {
	if r.img == nil {
		return 0
	}
	return r.img.Bounds().Dy()
}

// Empty reports whether the raster has no pixels.
func (r Raster) Empty() bool {
	return r.Width() == 0 || r.Height() == 0
}

// At returns the non-premultiplied color at (x, y).
//
// Coordinates are 0-based from the top-left corner. Out-of-range coordinates
// return a fully transparent pixel.
func (r Raster) At(x, y int) color.NRGBA {
	if r.img == nil {
		return color.NRGBA{}
	}
	return r.img.NRGBAAt(x, y)
}

// Image returns a copy of the underlying pixels as an image.Image.
func (r Raster) Image() image.Image {
	if r.img == nil {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	return imaging.Clone(r.img)
}

// Resize scales the raster to exactly width x height.
//
// Resizing ignores aspect ratio; the normalizer relies on that to map any
// character slot onto the canonical square.
func (r Raster) Resize(width, height int) (Raster, error) {
	if r.Empty() {
		return Raster{}, fmt.Errorf("cannot resize empty raster")
	}
	if width <= 0 || height <= 0 {
		return Raster{}, fmt.Errorf("invalid resize target %dx%d", width, height)
	}
	if width == r.Width() && height == r.Height() {
		return r, nil
	}
	return Raster{img: imaging.Resize(r.img, width, height, imaging.Linear)}, nil
}

// Crop extracts the rectangle rect, which must lie inside the raster bounds.
//
// The rectangle follows the image.Rectangle convention: Min is inclusive and
// Max is exclusive.
func (r Raster) Crop(rect image.Rectangle) (Raster, error) {
	bounds := image.Rect(0, 0, r.Width(), r.Height())
	if !rect.In(bounds) {
		return Raster{}, fmt.Errorf("crop region %v outside raster bounds %v", rect, bounds)
	}
	if rect.Empty() {
		return Raster{}, fmt.Errorf("invalid crop region %v: empty", rect)
	}
	return Raster{img: imaging.Crop(r.img, rect)}, nil
}

// Columns returns the full-height strip covering columns [x1, x2).
func (r Raster) Columns(x1, x2 int) (Raster, error) {
	return r.Crop(image.Rect(x1, 0, x2, r.Height()))
}
