package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// capSegments is the number of polygon edges used to approximate a round line cap.
const capSegments = 16

// DrawLine rasterizes a straight segment between two source-space points.
//
// The segment is anti-aliased, width pixels wide, and has round caps so that
// consecutive segments of a free-hand stroke join without gaps. Widths below 1 are
// drawn as 1. Points may lie outside the raster; the segment is clipped.
func DrawLine(r *Raster, p1, p2 image.Point, c color.NRGBA, width int) (*Raster, error) {
	return DrawStroke(r, []image.Point{p1, p2}, c, width)
}

// DrawStroke rasterizes a polyline through points as a single edit.
//
// A stroke with one point is drawn as a dot of the given width.
func DrawStroke(r *Raster, points []image.Point, c color.NRGBA, width int) (*Raster, error) {
	if err := validate(r); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: stroke has no points", ErrInvalidParameter)
	}
	if width < 1 {
		width = 1
	}
	half := float64(width) / 2

	// Geometry is clipped to the raster plus a margin wider than the pen, so far-away
	// points never reach the float32 rasterizer.
	pad := half + 1
	box := clipBox{-pad, -pad, float64(r.Width()) + pad, float64(r.Height()) + pad}

	z := vector.NewRasterizer(r.Width(), r.Height())
	prev := center(points[0])
	if box.contains(prev) {
		addDisc(z, prev, half)
	}
	for _, p := range points[1:] {
		next := center(p)
		if a, b, ok := box.clip(prev, next); ok {
			addSegment(z, a, b, half)
		}
		if box.contains(next) {
			addDisc(z, next, half)
		}
		prev = next
	}

	dst := r.pixels()
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
	return wrap(dst, r.alpha), nil
}

type vec2 struct{ x, y float64 }

// center maps an integer pixel coordinate to the centre of that pixel.
func center(p image.Point) vec2 {
	return vec2{float64(p.X) + 0.5, float64(p.Y) + 0.5}
}

type clipBox struct{ minX, minY, maxX, maxY float64 }

func (b clipBox) contains(p vec2) bool {
	return p.x >= b.minX && p.x <= b.maxX && p.y >= b.minY && p.y <= b.maxY
}

// clip trims the segment p-q to the box (Liang-Barsky). ok is false when no part of
// the segment lies inside.
func (b clipBox) clip(p, q vec2) (vec2, vec2, bool) {
	dx, dy := q.x-p.x, q.y-p.y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, p.x - b.minX},
		{dx, b.maxX - p.x},
		{-dy, p.y - b.minY},
		{dy, b.maxY - p.y},
	}
	for _, e := range edges {
		num, dist := e[0], e[1]
		if num == 0 {
			if dist < 0 {
				return p, q, false
			}
			continue
		}
		t := dist / num
		if num < 0 {
			if t > t1 {
				return p, q, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return p, q, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	return vec2{p.x + t0*dx, p.y + t0*dy}, vec2{p.x + t1*dx, p.y + t1*dy}, true
}

func addSegment(z *vector.Rasterizer, a, b vec2, half float64) {
	dx, dy := b.x-a.x, b.y-a.y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*half, dx/length*half
	addPolygon(z, []vec2{
		{a.x + nx, a.y + ny},
		{b.x + nx, b.y + ny},
		{b.x - nx, b.y - ny},
		{a.x - nx, a.y - ny},
	})
}

func addDisc(z *vector.Rasterizer, c vec2, radius float64) {
	pts := make([]vec2, capSegments)
	for i := range pts {
		theta := 2 * math.Pi * float64(i) / capSegments
		pts[i] = vec2{c.x + radius*math.Cos(theta), c.y + radius*math.Sin(theta)}
	}
	addPolygon(z, pts)
}

// addPolygon adds a closed path with a fixed winding direction. The rasterizer sums
// signed coverage, so overlapping shapes must share an orientation or they cancel.
func addPolygon(z *vector.Rasterizer, pts []vec2) {
	var area float64
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].x*pts[j].y - pts[j].x*pts[i].y
	}
	if area < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	z.MoveTo(float32(pts[0].x), float32(pts[0].y))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.x), float32(p.y))
	}
	z.ClosePath()
}
