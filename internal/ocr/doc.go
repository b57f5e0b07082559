// Package ocr suggests a word for a captured raster using Tesseract.
//
// The suggestion only pre-fills the correction field of a front end; the
// exemplar matcher remains the source of truth for recognition, and nothing
// returned here is ever written to the library.
//
// # Build Tags
//
// Tesseract is reached through gosseract/v2 and requires cgo plus the native
// libtesseract and leptonica libraries. The binding is compiled only with the
// "tesseract" build tag:
//
//	go build -tags tesseract ./cmd/zyron
//
// Without the tag, SuggestWord returns ErrUnavailable and Available reports
// false, so the rest of the module builds with CGO_ENABLED=0.
//
// # Prerequisites
//
// Language data must be installed for the configured language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Output
//
// Tesseract runs in single-word page segmentation mode with a lowercase a-z
// whitelist. The raw text is folded through CleanWord before it is returned,
// so a Suggestion's Word is always empty or a valid dictionary word.
package ocr
