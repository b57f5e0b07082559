package imaging

import (
	"fmt"
	"image"
	"image/color"
)

// Mask is a boolean ink grid: true where a pixel is considered drawn.
//
// Masks are derived values. They are recomputed from a raster whenever needed
// and never persisted.
type Mask struct {
	width  int
	height int
	bits   []bool
}

// Binarize converts a raster into an ink mask of the same dimensions.
//
// A position is true when the pixel's R, G and B are each strictly below the
// threshold and the pixel is not fully transparent. The conversion is
// deterministic: binarizing the same raster twice yields identical masks.
func Binarize(r Raster, t Threshold) Mask {
	w, h := r.Width(), r.Height()
	m := Mask{width: w, height: h, bits: make([]bool, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.bits[y*w+x] = t.IsInk(r.At(x, y))
		}
	}
	return m
}

// NewMask builds a mask from rows of booleans. All rows must share a length.
func NewMask(rows [][]bool) (Mask, error) {
	if len(rows) == 0 {
		return Mask{}, nil
	}
	w := len(rows[0])
	m := Mask{width: w, height: len(rows), bits: make([]bool, 0, w*len(rows))}
	for y, row := range rows {
		if len(row) != w {
			return Mask{}, fmt.Errorf("row %d has %d columns, want %d", y, len(row), w)
		}
		m.bits = append(m.bits, row...)
	}
	return m, nil
}

// Width returns the mask width.
func (m Mask) Width() int { return m.width }

// Height returns the mask height.
func (m Mask) Height() int { return m.height }

// At reports whether (x, y) is ink. Out-of-range positions are false.
func (m Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return false
	}
	return m.bits[y*m.width+x]
}

// Ink returns the number of ink positions in the mask.
func (m Mask) Ink() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Equal reports whether two masks have the same dimensions and contents.
func (m Mask) Equal(o Mask) bool {
	if m.width != o.width || m.height != o.height {
		return false
	}
	for i := range m.bits {
		if m.bits[i] != o.bits[i] {
			return false
		}
	}
	return true
}

// Agreement counts the positions where both masks hold the same value.
//
// This is a raw equality count: positions where neither mask has ink count
// toward the total just like positions where both do. Because most of a
// canonical raster is background, the count systematically favors sparse
// masks. That bias is a known property of the recognizer's heuristic.
//
// Masks of different dimensions cannot be compared and return an error.
func (m Mask) Agreement(o Mask) (int, error) {
	if m.width != o.width || m.height != o.height {
		return 0, fmt.Errorf("mask size mismatch: %dx%d vs %dx%d", m.width, m.height, o.width, o.height)
	}
	n := 0
	for i := range m.bits {
		if m.bits[i] == o.bits[i] {
			n++
		}
	}
	return n, nil
}

// Similarity returns Agreement as a percentage of all positions (0-100).
func (m Mask) Similarity(o Mask) (float64, error) {
	matches, err := m.Agreement(o)
	if err != nil {
		return 0, err
	}
	total := m.width * m.height
	if total == 0 {
		return 0, fmt.Errorf("cannot compare empty masks")
	}
	return float64(matches) / float64(total) * 100, nil
}

// Render draws the mask as an opaque image using the given ink and paper colors.
func (m Mask) Render(ink, paper color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.width, m.height))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.bits[y*m.width+x] {
				img.Set(x, y, ink)
			} else {
				img.Set(x, y, paper)
			}
		}
	}
	return img
}
