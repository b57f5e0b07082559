//go:build !tesseract

package ocr

import "github.com/ironsheep/zyron/internal/imaging"

// Available reports whether Tesseract support is compiled in.
func Available() bool { return false }

// SuggestWord always returns ErrUnavailable in builds without the tesseract tag.
func SuggestWord(r imaging.Raster, language string) (*Suggestion, error) {
	return nil, ErrUnavailable
}

// Version returns an empty string in builds without the tesseract tag.
func Version() string { return "" }
