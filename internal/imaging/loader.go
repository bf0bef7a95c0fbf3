package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
)

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoder that recognised the file: "png", "jpeg", "gif", "bmp" or "tiff".
	// Detection is based on file contents, not the extension.
	Format string `json:"format"`

	// Channels is 3 for opaque images and 4 when the image carries transparency.
	Channels int `json:"channels"`

	// HasAlpha indicates whether any pixel is not fully opaque.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Load reads and decodes an image file into a raster.
//
// EXIF orientation is applied so that the raster is upright. Images that contain any
// transparency become 4-channel rasters; everything else is 3-channel.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a PNG, JPEG, GIF, BMP or TIFF image
//   - Returns ErrInvalidRaster for zero-sized images
func Load(path string) (*Raster, *ImageInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image: %w", err)
	}
	r, info, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	info.FileSizeBytes = int64(len(data))
	return r, info, nil
}

// Decode decodes an image stream into a raster. FileSizeBytes is left zero.
func Decode(rd io.ReadSeeker) (*Raster, *ImageInfo, error) {
	_, format, err := image.DecodeConfig(rd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if _, err := rd.Seek(0, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("failed to rewind image: %w", err)
	}
	img, err := imaging.Decode(rd, imaging.AutoOrientation(true))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image: %w", err)
	}

	r, err := NewRaster(img)
	if err != nil {
		return nil, nil, err
	}
	return r, &ImageInfo{
		Width:    r.Width(),
		Height:   r.Height(),
		Format:   format,
		Channels: r.Channels(),
		HasAlpha: r.HasAlpha(),
	}, nil
}

// SaveOptions controls how Save encodes a raster.
type SaveOptions struct {
	// Flatten composites a 4-channel raster onto Background when the target format
	// cannot store alpha. When false such a save fails with ErrUnsupportedFormat.
	Flatten bool

	// Background is the matte colour used by Flatten. Its alpha is ignored.
	Background color.NRGBA

	// JPEGQuality is the JPEG quality in [1,100]. Zero selects 95.
	JPEGQuality int
}

// DefaultSaveOptions flattens onto white.
func DefaultSaveOptions() SaveOptions {
	return SaveOptions{
		Flatten:    true,
		Background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Save encodes the raster to path; the format is chosen from the file extension.
//
// PNG, GIF, TIFF and BMP keep the alpha channel. JPEG is opaque only; see SaveOptions.
// Extensions other than .png, .jpg, .jpeg, .gif, .tif, .tiff and .bmp fail with
// ErrUnsupportedFormat.
func Save(r *Raster, path string, opts SaveOptions) error {
	if err := validate(r); err != nil {
		return err
	}
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}

	// A failed encode leaves no file behind.
	var buf bytes.Buffer
	if err := Encode(&buf, r, filepath.Ext(path), opts); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// Encode writes the raster to w in the named format ("png", "jpeg", ...).
func Encode(w io.Writer, r *Raster, format string, opts SaveOptions) error {
	if err := validate(r); err != nil {
		return err
	}
	f, err := imaging.FormatFromExtension(strings.TrimPrefix(format, "."))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	img, err := encodable(r, f, opts)
	if err != nil {
		return err
	}
	quality := opts.JPEGQuality
	if quality == 0 {
		quality = 95
	}
	if err := imaging.Encode(w, img, f, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// EncodePNG encodes any image as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func encodable(r *Raster, format imaging.Format, opts SaveOptions) (image.Image, error) {
	if format != imaging.JPEG || !r.alpha {
		return r.img, nil
	}
	if !opts.Flatten {
		return nil, fmt.Errorf("%w: jpeg cannot store alpha", ErrUnsupportedFormat)
	}
	return Flatten(r, opts.Background).img, nil
}

// Flatten composites a raster over an opaque background and returns the opaque result.
// Opaque rasters are returned unchanged.
func Flatten(r *Raster, bg color.NRGBA) *Raster {
	if !r.alpha {
		return r
	}
	bg.A = 255
	base := imaging.New(r.Width(), r.Height(), bg)
	return wrap(imaging.Overlay(base, r.img, image.Point{}, 1.0), false)
}
