package shape

import (
	"image"
	"math"
	"math/rand"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// toRing converts pixel coordinates to a closed orb ring.
func toRing(pts []image.Point) orb.Ring {
	ring := make(orb.Ring, 0, len(pts)+1)
	for _, p := range pts {
		ring = append(ring, orb.Point{float64(p.X), float64(p.Y)})
	}
	if len(pts) > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}

func toPoints(ls []orb.Point) []image.Point {
	pts := make([]image.Point, len(ls))
	for i, p := range ls {
		pts[i] = image.Pt(int(math.Round(p[0])), int(math.Round(p[1])))
	}
	return pts
}

// Area returns the area enclosed by the closed polygon pts.
func Area(pts []image.Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	return math.Abs(planar.Area(toRing(pts)))
}

// Perimeter returns the length of the closed polygon pts.
func Perimeter(pts []image.Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	return planar.Length(toRing(pts))
}

// BoundingBox returns the smallest pixel rectangle containing every point.
func BoundingBox(pts []image.Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	// pixel extents are inclusive
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r
}

// ApproxClosed simplifies the closed polygon pts with the Douglas-Peucker
// algorithm. The polygon is split at two mutually distant vertices and each
// half is simplified on its own, so the result does not depend on which
// vertex the contour starts at.
func ApproxClosed(pts []image.Point, epsilon float64) []image.Point {
	if len(pts) < 3 {
		return append([]image.Point(nil), pts...)
	}
	ring := toRing(pts)
	ring = ring[:len(ring)-1]

	a := 0
	b := farthest(ring, a)
	a = farthest(ring, b)
	b = farthest(ring, a)
	if a == b {
		return []image.Point{pts[a]}
	}
	if a > b {
		a, b = b, a
	}

	first := make(orb.LineString, 0, b-a+1)
	first = append(first, ring[a:b+1]...)

	second := make(orb.LineString, 0, len(ring)-b+a+1)
	second = append(second, ring[b:]...)
	second = append(second, ring[:a+1]...)

	dp := simplify.DouglasPeucker(epsilon)
	s1 := dp.LineString(first)
	s2 := dp.LineString(second)

	out := make([]orb.Point, 0, len(s1)+len(s2))
	out = append(out, s1[:len(s1)-1]...)
	out = append(out, s2[:len(s2)-1]...)
	return toPoints(out)
}

func farthest(ring orb.Ring, from int) int {
	best, dist := from, -1.0
	for i, p := range ring {
		if d := planar.DistanceSquared(ring[from], p); d > dist {
			best, dist = i, d
		}
	}
	return best
}

// IsConvex reports whether the closed polygon pts turns in a single direction.
// Collinear vertices are tolerated.
func IsConvex(pts []image.Point) bool {
	n := len(pts)
	if n < 3 {
		return false
	}
	var sign int
	for i := 0; i < n; i++ {
		a, b, c := pts[i], pts[(i+1)%n], pts[(i+2)%n]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		switch {
		case cross > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return sign != 0
}

// MinEnclosingCircle returns the smallest circle containing every point,
// computed with Welzl's algorithm over a deterministically shuffled copy.
func MinEnclosingCircle(pts []image.Point) (orb.Point, float64) {
	if len(pts) == 0 {
		return orb.Point{}, 0
	}
	ps := make([]orb.Point, len(pts))
	for i, p := range pts {
		ps[i] = orb.Point{float64(p.X), float64(p.Y)}
	}
	rnd := rand.New(rand.NewSource(int64(len(ps))))
	rnd.Shuffle(len(ps), func(i, j int) { ps[i], ps[j] = ps[j], ps[i] })

	c, r := ps[0], 0.0
	for i := 1; i < len(ps); i++ {
		if inCircle(c, r, ps[i]) {
			continue
		}
		c, r = ps[i], 0
		for j := 0; j < i; j++ {
			if inCircle(c, r, ps[j]) {
				continue
			}
			c = orb.Point{(ps[i][0] + ps[j][0]) / 2, (ps[i][1] + ps[j][1]) / 2}
			r = planar.Distance(c, ps[i])
			for k := 0; k < j; k++ {
				if inCircle(c, r, ps[k]) {
					continue
				}
				c, r = circumcircle(ps[i], ps[j], ps[k])
			}
		}
	}
	return c, r
}

func inCircle(c orb.Point, r float64, p orb.Point) bool {
	return planar.Distance(c, p) <= r+1e-7
}

func circumcircle(a, b, c orb.Point) (orb.Point, float64) {
	bx, by := b[0]-a[0], b[1]-a[1]
	cx, cy := c[0]-a[0], c[1]-a[1]
	d := 2 * (bx*cy - by*cx)
	if math.Abs(d) < 1e-12 {
		// collinear: the circle spanned by the two farthest points
		pairs := [][2]orb.Point{{a, b}, {a, c}, {b, c}}
		var best [2]orb.Point
		bestDist := -1.0
		for _, p := range pairs {
			if d := planar.Distance(p[0], p[1]); d > bestDist {
				best, bestDist = p, d
			}
		}
		center := orb.Point{(best[0][0] + best[1][0]) / 2, (best[0][1] + best[1][1]) / 2}
		return center, bestDist / 2
	}
	b2 := bx*bx + by*by
	c2 := cx*cx + cy*cy
	ux := (cy*b2 - by*c2) / d
	uy := (bx*c2 - cx*b2) / d
	center := orb.Point{a[0] + ux, a[1] + uy}
	return center, math.Hypot(ux, uy)
}
