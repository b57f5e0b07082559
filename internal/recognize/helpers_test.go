package recognize

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/zyron/internal/imaging"
	"github.com/ironsheep/zyron/internal/store"
)

// renderWord draws word in the 7x13 basic font, one glyph every 12 pixels, on
// a white background.
func renderWord(word string) imaging.Raster {
	const spacing = 12
	width := 4 + len(word)*spacing + 4
	img := image.NewNRGBA(image.Rect(0, 0, width, 20))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Src: image.Black, Face: basicfont.Face7x13}
	for i, r := range word {
		d.Dot = fixed.P(4+i*spacing, 14)
		d.DrawString(string(r))
	}
	return imaging.NewRaster(img)
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Dimension = 32
	opts.Workers = 4
	return opts
}

// trainedEngine returns an engine whose library holds one exemplar per letter
// of each word, learned from the rendered word itself.
func trainedEngine(repo store.Repository, words ...string) (*Engine, error) {
	e := NewEngine(repo, testOptions())
	for _, w := range words {
		slots, err := e.SegmentAndNormalize(renderWord(w))
		if err != nil {
			return nil, err
		}
		if _, err := e.ConfirmWord(w, rawOf(slots)); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func rawOf(slots []Slot) []imaging.Raster {
	raw := make([]imaging.Raster, len(slots))
	for i, s := range slots {
		raw[i] = s.Raw
	}
	return raw
}
