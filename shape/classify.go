package shape

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/esimov/inkboard/imop"
)

// Kind is the geometric primitive a freehand stroke was recognised as.
type Kind int

// Recognised primitives. Unknown means the stroke is kept as drawn.
const (
	Unknown Kind = iota
	Triangle
	Rectangle
	Circle
)

func (k Kind) String() string {
	switch k {
	case Triangle:
		return "triangle"
	case Rectangle:
		return "rectangle"
	case Circle:
		return "circle"
	}
	return "unknown"
}

// Shape is the result of a classification. Vertices is set for polygons,
// Center and Radius for circles.
type Shape struct {
	Kind     Kind
	Vertices []image.Point
	Center   image.Point
	Radius   int
}

// Draw paints the outline of the primitive onto dst.
func (s Shape) Draw(dst draw.Image, c color.Color, thickness int) {
	switch s.Kind {
	case Circle:
		imop.Circle(dst, s.Center, s.Radius, c, thickness)
	case Triangle, Rectangle:
		imop.Polyline(dst, s.Vertices, true, c, thickness)
	}
}

func (s Shape) String() string {
	switch s.Kind {
	case Circle:
		return fmt.Sprintf("circle(%v, r=%d)", s.Center, s.Radius)
	case Triangle, Rectangle:
		return fmt.Sprintf("%s%v", s.Kind, s.Vertices)
	}
	return s.Kind.String()
}

// Classify maps a closed contour to a primitive. The contour is approximated
// with a tolerance proportional to its perimeter, then tested in order for
// a triangle, a convex quadrilateral and finally a circle.
func Classify(contour []image.Point, cfg Config) Shape {
	if len(contour) < 3 {
		return Shape{Kind: Unknown}
	}
	approx := ApproxClosed(contour, cfg.Epsilon*Perimeter(contour))

	switch {
	case len(approx) == 3:
		return Shape{Kind: Triangle, Vertices: approx}
	case len(approx) == 4 && IsConvex(approx):
		return Shape{Kind: Rectangle, Vertices: approx}
	}

	box := BoundingBox(contour)
	w, h := box.Dx(), box.Dy()
	if w <= 0 || h <= 0 {
		return Shape{Kind: Unknown}
	}
	areaRatio := Area(contour) / float64(w*h)
	aspect := float64(w) / float64(h)
	if areaRatio < cfg.CircleRatio || aspect < cfg.MinAspect || aspect > cfg.MaxAspect {
		return Shape{Kind: Unknown}
	}
	c, r := MinEnclosingCircle(contour)
	return Shape{
		Kind:   Circle,
		Center: image.Pt(int(c[0]), int(c[1])),
		Radius: int(r),
	}
}
