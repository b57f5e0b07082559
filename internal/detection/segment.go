package detection

import (
	"fmt"

	"github.com/ironsheep/zyron/internal/imaging"
)

// Options controls column segmentation.
type Options struct {
	// Threshold is the darkness threshold used to decide whether a column is blank.
	Threshold imaging.Threshold

	// KeepUnterminated emits the final character even when no blank column
	// follows it before the right edge of the raster.
	KeepUnterminated bool
}

// DefaultOptions returns the default threshold with trailing characters kept.
func DefaultOptions() Options {
	return Options{
		Threshold:        imaging.DefaultThreshold,
		KeepUnterminated: true,
	}
}

// Segment is one character slot cut from a word raster.
type Segment struct {
	// Span is the column range of the slot within the original raster.
	Span imaging.Span `json:"span"`

	// Raster holds the full-height pixels of the slot.
	Raster imaging.Raster `json:"-"`
}

// SegmentColumns splits r into character slots separated by blank columns.
//
// Parameters:
//   - r: The word raster. Any width and height.
//   - opts: Threshold and trailing-character policy.
//
// Returns:
//   - []Segment: Slots in left-to-right order. Empty when r holds no ink.
//   - error: Non-nil only if a slot cannot be extracted from r.
func SegmentColumns(r imaging.Raster, opts Options) ([]Segment, error) {
	segments := make([]Segment, 0)
	if r.Empty() {
		return segments, nil
	}

	emit := func(x1, x2 int) error {
		strip, err := r.Columns(x1, x2)
		if err != nil {
			return fmt.Errorf("failed to extract slot [%d,%d): %w", x1, x2, err)
		}
		segments = append(segments, Segment{
			Span:   imaging.Span{X1: x1, X2: x2},
			Raster: strip,
		})
		return nil
	}

	left := 0
	prevBlank := true
	for x := 0; x < r.Width(); x++ {
		blank := columnBlank(r, x, opts.Threshold)
		if blank && !prevBlank {
			if err := emit(left, x); err != nil {
				return nil, err
			}
			left = x
		}
		prevBlank = blank
	}

	if !prevBlank && opts.KeepUnterminated {
		if err := emit(left, r.Width()); err != nil {
			return nil, err
		}
	}

	return segments, nil
}

// Spans returns the column ranges of segs.
func Spans(segs []Segment) []imaging.Span {
	spans := make([]imaging.Span, len(segs))
	for i, s := range segs {
		spans[i] = s.Span
	}
	return spans
}

func columnBlank(r imaging.Raster, x int, t imaging.Threshold) bool {
	for y := 0; y < r.Height(); y++ {
		if !t.IsPaper(r.At(x, y)) {
			return false
		}
	}
	return true
}
