// Package detection splits a word raster into per-character slots.
//
// # Column Segmentation
//
// A word is assumed to be written left to right with at least one fully blank
// column between neighboring characters. SegmentColumns scans the raster one
// column at a time and classifies each column as blank or inked:
//
//   - Blank: every pixel is paper, meaning fully transparent or with red,
//     green and blue all above the darkness threshold.
//   - Inked: at least one pixel is not paper.
//
// A cut is made at every blank column whose left neighbor was inked. The
// segment emitted for that cut spans from the previous cut up to, but not
// including, the blank column. Leading blank columns are carried into the
// first segment and trailing blank columns between characters are carried into
// the next one; the normalizer crops them away later.
//
// # Trailing Characters
//
// A character that touches the right edge of the raster has no blank column
// after it. Options.KeepUnterminated controls whether that final segment is
// emitted. The default keeps it.
//
// # Coordinate System
//
// Spans use the standard image convention with the origin at the top-left
// corner. Span.X1 is inclusive and Span.X2 is exclusive, both measured on the
// original raster so overlays can be drawn without further translation.
package detection
