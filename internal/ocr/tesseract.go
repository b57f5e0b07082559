//go:build tesseract

package ocr

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/zyron/internal/imaging"
)

// Available reports whether Tesseract support is compiled in.
func Available() bool { return true }

// SuggestWord runs single-word OCR over r.
//
// Parameters:
//   - r: The word raster as captured, before segmentation.
//   - language: Tesseract language code such as "eng". The language data
//     must be installed on the system.
//
// Returns:
//   - *Suggestion: The cleaned word, raw text and confidence.
//   - error: Non-nil if the raster cannot be encoded or Tesseract fails.
func SuggestWord(r imaging.Raster, language string) (*Suggestion, error) {
	if r.Empty() {
		return nil, fmt.Errorf("cannot run OCR on empty raster")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, r.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode raster: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_WORD); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetWhitelist(Whitelist); err != nil {
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	s := &Suggestion{Word: CleanWord(text), Raw: text}

	// Confidence is best effort; the text alone is still useful.
	if boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD); err == nil {
		for _, box := range boxes {
			if box.Word == "" {
				continue
			}
			if c := box.Confidence / 100.0; c > s.Confidence {
				s.Confidence = c
			}
		}
	}
	return s, nil
}

// Version returns the linked Tesseract version.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}
