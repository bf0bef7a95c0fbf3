// Package viewport maps between the display surface and the source raster.
//
// The editor shows the current raster inside a bounded viewport (600×400 by default).
// Rasters larger than the viewport are scaled down by a single fit factor computed with
// ComputeScale; smaller rasters are shown at their natural size. Every action that
// carries coordinates measured on the display (drawing, text placement, cropping,
// colour picking, OCR regions) is converted with ToSource or ToSourceRect before it
// touches the raster.
//
// # Scale
//
// The scale is display pixels per source pixel and lies in (0, 1]:
//
//	scale   = min(maxW/srcW, maxH/srcH)   when the source does not fit
//	        = 1                           otherwise
//	source  = round(display / scale)
//	display = floor(source × scale)
//
// The editor recomputes the scale whenever the current raster changes size and caches
// it; Render uses the cached value rather than deriving a new one.
package viewport
