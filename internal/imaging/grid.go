package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"
)

// Span is a half-open column range [X1, X2) within a word raster.
type Span struct {
	X1 int `json:"x1"`
	X2 int `json:"x2"`
}

// SpanOverlay draws the segmentation of a word raster for visual review.
//
// Each span is outlined by vertical lines in lineColor at its left and right
// edge. When showIndices is true, the 0-based slot index is printed at the
// top-left of every span so a user can match slots to candidate letters.
func SpanOverlay(r Raster, spans []Span, lineColor color.NRGBA, showIndices bool) *image.NRGBA {
	bounds := image.Rect(0, 0, r.Width(), r.Height())
	result := image.NewNRGBA(bounds)
	if r.Empty() {
		return result
	}
	draw.Draw(result, bounds, r.img, image.Point{}, draw.Src)

	height := bounds.Dy()
	for _, s := range spans {
		for _, x := range []int{s.X1, s.X2 - 1} {
			if x < 0 || x >= bounds.Dx() {
				continue
			}
			for y := 0; y < height; y++ {
				result.Set(x, y, lineColor)
			}
		}
	}

	if showIndices {
		labelColor := color.NRGBA{255, 255, 255, 255}
		bgColor := color.NRGBA{0, 0, 0, 180}
		for i, s := range spans {
			drawLabel(result, s.X1+2, 2, strconv.Itoa(i), labelColor, bgColor)
		}
	}

	return result
}

// drawLabel draws digits with a 3x5 pixel font at the given position.
// Characters other than digits are skipped but still advance the cursor.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if image.Pt(px, py).In(bounds) {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if image.Pt(px, py).In(bounds) {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
