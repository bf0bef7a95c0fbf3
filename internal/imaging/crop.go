package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Crop returns the sub-raster spanned by two opposite corners.
//
// The corners may be given in any order; the rectangle is normalized so that a
// drag from bottom-right to top-left selects the same pixels as the reverse drag.
// Corners are treated as pixel edges: the result covers [min, max) on each axis.
// The rectangle is clipped to the raster; if nothing remains the call fails with
// ErrEmptyRegion.
func Crop(r *Raster, a, b image.Point) (*Raster, error) {
	if err := validate(r); err != nil {
		return nil, err
	}
	rect := image.Rect(a.X, a.Y, b.X, b.Y).Intersect(r.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("%w: (%d,%d)-(%d,%d) within %dx%d",
			ErrEmptyRegion, a.X, a.Y, b.X, b.Y, r.Width(), r.Height())
	}
	return wrap(imaging.Crop(r.img, rect), r.alpha), nil
}

// CropRegion names a fixed part of the raster for CropNamed.
type CropRegion string

// Named regions accepted by CropNamed.
const (
	RegionTopLeft     CropRegion = "top-left"
	RegionTopRight    CropRegion = "top-right"
	RegionBottomLeft  CropRegion = "bottom-left"
	RegionBottomRight CropRegion = "bottom-right"
	RegionTopHalf     CropRegion = "top-half"
	RegionBottomHalf  CropRegion = "bottom-half"
	RegionLeftHalf    CropRegion = "left-half"
	RegionRightHalf   CropRegion = "right-half"
	RegionCenter      CropRegion = "center"
)

// NamedRect returns the source-space rectangle of a named region.
func NamedRect(r *Raster, region CropRegion) (image.Rectangle, error) {
	if err := validate(r); err != nil {
		return image.Rectangle{}, err
	}
	w, h := r.Width(), r.Height()
	midX, midY := w/2, h/2

	switch region {
	case RegionTopLeft:
		return image.Rect(0, 0, midX, midY), nil
	case RegionTopRight:
		return image.Rect(midX, 0, w, midY), nil
	case RegionBottomLeft:
		return image.Rect(0, midY, midX, h), nil
	case RegionBottomRight:
		return image.Rect(midX, midY, w, h), nil
	case RegionTopHalf:
		return image.Rect(0, 0, w, midY), nil
	case RegionBottomHalf:
		return image.Rect(0, midY, w, h), nil
	case RegionLeftHalf:
		return image.Rect(0, 0, midX, h), nil
	case RegionRightHalf:
		return image.Rect(midX, 0, w, h), nil
	case RegionCenter:
		// Center 50% of the image
		qW, qH := w/4, h/4
		return image.Rect(qW, qH, w-qW, h-qH), nil
	default:
		return image.Rectangle{}, fmt.Errorf("%w: unknown region %q", ErrInvalidParameter, region)
	}
}

// CropNamed crops a named region such as "top-left" or "center".
func CropNamed(r *Raster, region CropRegion) (*Raster, error) {
	rect, err := NamedRect(r, region)
	if err != nil {
		return nil, err
	}
	return Crop(r, rect.Min, rect.Max)
}
