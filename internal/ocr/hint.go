package ocr

import (
	"errors"
	"strings"

	"github.com/ironsheep/zyron/internal/store"
)

// ErrUnavailable is returned when the binary was built without Tesseract.
var ErrUnavailable = errors.New("ocr: tesseract support not compiled in (build with -tags tesseract)")

// Whitelist is the character set Tesseract is allowed to emit.
const Whitelist = "abcdefghijklmnopqrstuvwxyz"

// Suggestion is Tesseract's reading of a word raster.
type Suggestion struct {
	// Word is the cleaned reading, lowercase a-z only. May be empty.
	Word string `json:"word"`

	// Raw is the text exactly as Tesseract returned it.
	Raw string `json:"raw"`

	// Confidence is Tesseract's word confidence scaled to 0.0-1.0.
	Confidence float64 `json:"confidence"`
}

// CleanWord normalizes s and drops every character outside a-z.
func CleanWord(s string) string {
	s = store.NormalizeWord(s)
	var b strings.Builder
	for _, r := range s {
		if store.ValidLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
