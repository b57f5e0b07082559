// Package imaging provides the raster primitives of the word recognizer.
//
// This package implements the pixel-level stages of the pipeline: loading and
// encoding rasters, classifying pixels against a darkness threshold,
// normalizing a character onto the canonical square, and binarizing it into
// an ink mask. All operations work on the immutable Raster type and use a
// coordinate system where (0,0) is at the top-left corner, X increases
// rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive (top-left) and Max is exclusive (bottom-right)
//
// # Pixel Classification
//
// A Threshold (default 50 on the 0-255 scale) splits pixels into:
//   - Ink: R, G and B all strictly below the threshold and alpha != 0
//   - Paper: alpha == 0, or R, G and B all strictly above the threshold
//
// Pixels that are neither (colored strokes, channels equal to the threshold)
// are not ink for masks and cropping, and are not paper for segmentation.
//
// # Normalization
//
// Normalize resizes a raster to D x D (default 400), crops it tightly to its
// ink, and resizes the crop back to D x D. Binarize then yields a D x D Mask.
// Because both steps are deterministic, Binarize(Normalize(r)) is idempotent.
//
// # Thread Safety
//
// Raster and Mask are immutable values. All functions are stateless and can
// be called concurrently.
package imaging
