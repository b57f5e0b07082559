package imaging

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultThreshold is the darkness threshold used when none is configured.
const DefaultThreshold Threshold = 50

// Threshold classifies pixels as ink, paper, or neither.
//
// The value is compared against each 8-bit color channel (0-255):
//   - Ink: R, G and B all strictly below the threshold, and not fully transparent.
//   - Paper: fully transparent, or R, G and B all strictly above the threshold.
//
// A pixel can be neither ink nor paper (for example a saturated red stroke
// or a channel exactly equal to the threshold). Such pixels do not count as
// ink in a mask, but they do keep a column from being treated as whitespace
// during segmentation.
type Threshold uint8

// IsInk reports whether c is dark enough to count as a drawn pixel.
func (t Threshold) IsInk(c color.NRGBA) bool {
	if c.A == 0 {
		return false
	}
	v := uint8(t)
	return c.R < v && c.G < v && c.B < v
}

// IsPaper reports whether c is background: transparent or light on all channels.
func (t Threshold) IsPaper(c color.NRGBA) bool {
	if c.A == 0 {
		return true
	}
	v := uint8(t)
	return c.R > v && c.G > v && c.B > v
}

// ParseHexColor parses a hex color string like "#1E1E1E" into an opaque color.
//
// It is used for the ink and paper colors of rendered previews, which are
// configured as CSS-style hex strings.
func ParseHexColor(hex string) (color.NRGBA, error) {
	if hex == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
