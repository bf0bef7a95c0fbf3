// Package imaging provides the raster type and the raster pipeline of the editor.
//
// A Raster is a fixed-size grid of 8-bit, non-premultiplied pixels with its origin at
// the top-left corner. Every operation in this package is a pure function: it takes a
// raster and returns a new one, never modifying its input.
//
// # Operations
//
// Colour filters:
//   - Negative, Grayscale, Sepia (and the general ColorTransform), Sketch
//   - Brightness (additive, clamped)
//   - Blur (Gaussian; see BlurKernelSize for the slider-to-kernel rule)
//
// Geometry and overlays:
//   - DrawLine and DrawStroke: anti-aliased strokes with round caps
//   - DrawText: Go Regular text anchored at the baseline-left point
//   - Crop: sub-raster between two corners given in any order
//
// Input and output:
//   - Load, Decode: PNG, JPEG, GIF, BMP and TIFF into a raster plus ImageInfo
//   - Save, Encode: by file extension, with SaveOptions controlling how alpha is handled
//     for JPEG
//
// Inspection:
//   - SampleColor: one pixel as hex, RGB, RGBA and HSL
//   - GridOverlay: a labelled coordinate grid for preview images
//
// # Coordinate System
//
// All pixel coordinates in this package are source-space and 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// Mapping from a scaled display surface happens before these functions are called; see
// package viewport.
//
// # Channels
//
// A raster is 3-channel (opaque) or 4-channel (with alpha). Filters and drawing keep the
// channel count of their input and never touch the alpha channel. Only background
// removal produces a 4-channel raster from a 3-channel one.
//
// # Error Handling
//
// Functions return sentinel errors that callers check with errors.Is:
//   - ErrInvalidRaster for nil or zero-sized rasters
//   - ErrEmptyRegion for crops that select nothing
//   - ErrUnsupportedFormat for output formats that cannot hold the raster
//   - ErrInvalidParameter for out-of-range arguments
package imaging
