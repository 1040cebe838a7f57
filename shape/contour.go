package shape

import (
	"image"

	"github.com/esimov/inkboard/imop"
)

// Moore neighbourhood offsets in clockwise order starting from west.
var neighbours = [8]image.Point{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

func neighbourIndex(d image.Point) int {
	for i, n := range neighbours {
		if n == d {
			return i
		}
	}
	return 0
}

// Contours returns the outer boundary of every 8-connected component of
// the set pixels in mask. Holes are ignored.
func Contours(mask *image.Gray) [][]image.Point {
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	labels := make([]int32, w*h)

	var (
		contours [][]image.Point
		stack    []image.Point
		id       int32
	)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.Pix[y*mask.Stride+x] == imop.MaskOff || labels[y*w+x] != 0 {
				continue
			}
			id++
			labels[y*w+x] = id
			stack = append(stack[:0], image.Pt(x, y))
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				for _, d := range neighbours {
					q := p.Add(d)
					if q.X < 0 || q.Y < 0 || q.X >= w || q.Y >= h {
						continue
					}
					if mask.Pix[q.Y*mask.Stride+q.X] == imop.MaskOff || labels[q.Y*w+q.X] != 0 {
						continue
					}
					labels[q.Y*w+q.X] = id
					stack = append(stack, q)
				}
			}
			// (x, y) is the first pixel of the component in raster order.
			contours = append(contours, trace(labels, w, h, id, image.Pt(x, y)))
		}
	}
	return contours
}

// LargestContour returns the outer boundary enclosing the largest area, or nil
// when the mask is empty.
func LargestContour(mask *image.Gray) []image.Point {
	var (
		best []image.Point
		area = -1.0
	)
	for _, c := range Contours(mask) {
		if a := Area(c); a > area {
			best, area = c, a
		}
	}
	return best
}

// trace walks the boundary of the labelled component clockwise with Moore
// neighbour tracing, starting from its first pixel in raster order.
func trace(labels []int32, w, h int, id int32, start image.Point) []image.Point {
	inside := func(p image.Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h && labels[p.Y*w+p.X] == id
	}

	pts := []image.Point{start}
	cur := start
	back := 0 // the west neighbour of the start pixel is never part of the component

	for limit := 4*w*h + 8; limit > 0; limit-- {
		var (
			next  image.Point
			prev  image.Point
			found bool
		)
		for k := 1; k <= 8; k++ {
			d := (back + k) % 8
			if p := cur.Add(neighbours[d]); inside(p) {
				next = p
				prev = cur.Add(neighbours[(back+k-1)%8])
				found = true
				break
			}
		}
		if !found {
			return pts
		}
		if cur == start && len(pts) > 1 && next == pts[1] {
			break
		}
		pts = append(pts, next)
		back = neighbourIndex(prev.Sub(next))
		cur = next
	}
	if len(pts) > 1 && pts[len(pts)-1] == start {
		pts = pts[:len(pts)-1]
	}
	return pts
}
