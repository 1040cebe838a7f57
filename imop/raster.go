package imop

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// coverageThreshold is the minimum rasterizer coverage for a pixel to be painted.
// Strokes are painted with the exact colour and never blended, so the
// ink layer stays a clean color-keyed bitmap.
const coverageThreshold = 0x80

type vec struct{ x, y float64 }

// center converts a pixel coordinate to the continuous coordinate of its centre.
func center(p image.Point) vec {
	return vec{float64(p.X) + 0.5, float64(p.Y) + 0.5}
}

// Line draws a straight segment between a and b with round caps.
// The stroke is thickness pixels wide.
func Line(dst draw.Image, a, b image.Point, c color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	fillPaths(dst, c, capsule(center(a), center(b), float64(thickness)/2))
}

// Polyline draws the consecutive segments of pts. A closed polyline also joins
// the last point back to the first one.
func Polyline(dst draw.Image, pts []image.Point, closed bool, c color.Color, thickness int) {
	switch len(pts) {
	case 0:
		return
	case 1:
		Line(dst, pts[0], pts[0], c, thickness)
		return
	}
	for i := 1; i < len(pts); i++ {
		Line(dst, pts[i-1], pts[i], c, thickness)
	}
	if closed {
		Line(dst, pts[len(pts)-1], pts[0], c, thickness)
	}
}

// Circle draws the outline of a circle centred on c with the given radius.
func Circle(dst draw.Image, c image.Point, radius int, col color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	half := float64(thickness) / 2
	outer := float64(radius) + half
	inner := float64(radius) - half
	o := center(c)

	if inner <= 0 {
		fillPaths(dst, col, [][]vec{arc(o, outer, 0, 2*math.Pi)})
		return
	}
	fillPaths(dst, col, [][]vec{
		arc(o, outer, 0, 2*math.Pi),
		arc(o, inner, 2*math.Pi, 0),
	})
}

// Disk fills a circle centred on c.
func Disk(dst draw.Image, c image.Point, radius int, col color.Color) {
	if radius < 1 {
		if c.In(dst.Bounds()) {
			dst.Set(c.X, c.Y, col)
		}
		return
	}
	fillPaths(dst, col, [][]vec{arc(center(c), float64(radius), 0, 2*math.Pi)})
}

// capsule returns the outline of a segment swept by a disk of radius r.
func capsule(a, b vec, r float64) [][]vec {
	dx, dy := b.x-a.x, b.y-a.y
	l := math.Hypot(dx, dy)
	if l < 1e-9 {
		return [][]vec{arc(a, r, 0, 2*math.Pi)}
	}
	// normal pointing to the left of the direction of travel
	theta := math.Atan2(dx/l, -dy/l)

	path := arc(b, r, theta, theta-math.Pi)
	path = append(path, arc(a, r, theta-math.Pi, theta-2*math.Pi)...)
	return [][]vec{path}
}

// arc returns the points of a circular arc from angle a0 to a1 around o.
// The points follow the direction of a0 to a1, which keeps the winding of composed paths consistent.
func arc(o vec, r, a0, a1 float64) []vec {
	n := int(math.Ceil(math.Abs(a1-a0) * r / 2))
	if n < 8 {
		n = 8
	}
	if n > 128 {
		n = 128
	}
	pts := make([]vec, 0, n+1)
	for i := 0; i <= n; i++ {
		t := a0 + (a1-a0)*float64(i)/float64(n)
		pts = append(pts, vec{o.x + r*math.Cos(t), o.y + r*math.Sin(t)})
	}
	return pts
}

// fillPaths rasterizes the closed paths over their bounding box and paints the
// covered pixels of dst with c.
func fillPaths(dst draw.Image, c color.Color, paths [][]vec) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range paths {
		for _, v := range p {
			minX, maxX = math.Min(minX, v.x), math.Max(maxX, v.x)
			minY, maxY = math.Min(minY, v.y), math.Max(maxY, v.y)
		}
	}
	if math.IsInf(minX, 0) {
		return
	}
	box := image.Rect(
		int(math.Floor(minX))-1, int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	)
	clip := box.Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}

	w, h := box.Dx(), box.Dy()
	z := vector.NewRasterizer(w, h)
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	for _, p := range paths {
		if len(p) < 3 {
			continue
		}
		z.MoveTo(float32(p[0].x-ox), float32(p[0].y-oy))
		for _, v := range p[1:] {
			z.LineTo(float32(v.x-ox), float32(v.y-oy))
		}
		z.ClosePath()
	}
	cov := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(cov, cov.Bounds(), image.Opaque, image.Point{})

	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		row := (y - box.Min.Y) * cov.Stride
		for x := clip.Min.X; x < clip.Max.X; x++ {
			if cov.Pix[row+x-box.Min.X] >= coverageThreshold {
				dst.Set(x, y, c)
			}
		}
	}
}
