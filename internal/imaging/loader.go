package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
)

// Open loads and decodes the raster stored at path.
//
// Parameters:
//   - path: Absolute or relative file path. Supported formats are PNG, JPEG,
//     GIF, BMP and TIFF.
//
// Returns:
//   - Raster: The decoded pixels, rebased to (0,0).
//   - error: Non-nil if the file cannot be opened or decoded.
func Open(path string) (Raster, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return Raster{}, fmt.Errorf("failed to open image %s: %w", filepath.Base(path), err)
	}
	return NewRaster(img), nil
}

// Decode reads a raster from r in any registered format.
func Decode(r io.Reader) (Raster, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return Raster{}, fmt.Errorf("failed to decode image: %w", err)
	}
	return NewRaster(img), nil
}

// EncodeJPEG writes the raster to w as a JPEG at the given quality (1-100).
//
// JPEG has no alpha channel, so transparent pixels are flattened onto white
// before encoding. That keeps "transparent" and "paper" equivalent after a
// round trip, which is what the binarizer already assumes.
func EncodeJPEG(w io.Writer, r Raster, quality int) error {
	if r.Empty() {
		return fmt.Errorf("cannot encode empty raster")
	}
	if quality < 1 || quality > 100 {
		return fmt.Errorf("invalid JPEG quality %d: must be 1-100", quality)
	}
	flat := imaging.New(r.Width(), r.Height(), image.White)
	flat = imaging.Overlay(flat, r.img, image.Pt(0, 0), 1.0)
	if err := imgio.JPEGEncoder(quality)(w, flat); err != nil {
		return fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return nil
}

// PNGBase64 encodes img as a base64 PNG string for transport to clients.
func PNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ImageInfo contains metadata about a word raster file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected image format from the file extension:
	// "png", "jpeg", "gif", "bmp", "tiff" or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo opens path and returns both the raster and its metadata.
func LoadImageInfo(path string) (Raster, *ImageInfo, error) {
	r, err := Open(path)
	if err != nil {
		return Raster{}, nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return Raster{}, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return r, &ImageInfo{
		Width:         r.Width(),
		Height:        r.Height(),
		Format:        formatFromExt(filepath.Ext(path)),
		FileSizeBytes: stat.Size(),
	}, nil
}

func formatFromExt(ext string) string {
	switch ext {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	}
	return "unknown"
}
