package shape

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/esimov/inkboard/imop"
)

func TestGeom_Measures(t *testing.T) {
	assert := assert.New(t)
	square := []image.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	assert.InDelta(100, Area(square), 1e-9)
	assert.InDelta(40, Perimeter(square), 1e-9)
	assert.Equal(image.Rect(0, 0, 11, 11), BoundingBox(square))
	assert.True(IsConvex(square))

	// opposite winding gives the same area
	rev := []image.Point{{0, 10}, {10, 10}, {10, 0}, {0, 0}}
	assert.InDelta(100, Area(rev), 1e-9)
	assert.True(IsConvex(rev))

	assert.False(IsConvex([]image.Point{{0, 0}, {100, 50}, {0, 100}, {30, 50}}))
	assert.False(IsConvex([]image.Point{{0, 0}, {5, 5}}))
	assert.Zero(Area([]image.Point{{1, 1}, {2, 2}}))
	assert.Equal(image.Rectangle{}, BoundingBox(nil))
}

func TestGeom_MinEnclosingCircle(t *testing.T) {
	c, r := MinEnclosingCircle([]image.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {5, 5}})
	assert.InDelta(t, 5, c[0], 1e-6)
	assert.InDelta(t, 5, c[1], 1e-6)
	assert.InDelta(t, 7.0711, r, 1e-3)

	c, r = MinEnclosingCircle([]image.Point{{3, 4}})
	assert.Equal(t, 3.0, c[0])
	assert.Zero(t, r)

	// collinear points
	c, r = MinEnclosingCircle([]image.Point{{0, 0}, {4, 0}, {8, 0}})
	assert.InDelta(t, 4, c[0], 1e-6)
	assert.InDelta(t, 4, r, 1e-6)
}

func TestGeom_ApproxClosed(t *testing.T) {
	pts := densify([]image.Point{{0, 0}, {100, 0}, {100, 100}, {0, 100}}, 5, false)
	approx := ApproxClosed(pts, 2)
	assert.ElementsMatch(t, []image.Point{{0, 0}, {100, 0}, {100, 100}, {0, 100}}, approx)

	// the start vertex does not matter
	shifted := append(append([]image.Point{}, pts[7:]...), pts[:7]...)
	assert.Len(t, ApproxClosed(shifted, 2), 4)
}

func TestContour_FilledRect(t *testing.T) {
	assert := assert.New(t)

	m := image.NewGray(image.Rect(0, 0, 20, 10))
	for y := 2; y < 7; y++ {
		for x := 3; x < 13; x++ {
			m.SetGray(x, y, color.Gray{Y: imop.MaskOn})
		}
	}
	c := LargestContour(m)
	assert.Len(c, 26)
	assert.Equal(image.Pt(3, 2), c[0])
	assert.Equal(image.Rect(3, 2, 13, 7), BoundingBox(c))
	assert.InDelta(36, Area(c), 1e-9)
}

func TestContour_LargestAndHoles(t *testing.T) {
	assert := assert.New(t)

	m := image.NewGray(image.Rect(0, 0, 60, 60))
	// small blob
	m.SetGray(2, 2, color.Gray{Y: imop.MaskOn})
	m.SetGray(3, 2, color.Gray{Y: imop.MaskOn})
	// ring with a hole
	for y := 10; y < 50; y++ {
		for x := 10; x < 50; x++ {
			if x > 15 && x < 44 && y > 15 && y < 44 {
				continue
			}
			m.SetGray(x, y, color.Gray{Y: imop.MaskOn})
		}
	}
	assert.Len(Contours(m), 2)

	c := LargestContour(m)
	assert.Equal(image.Rect(10, 10, 50, 50), BoundingBox(c))
	assert.InDelta(39*39, Area(c), 1e-9)

	assert.Nil(LargestContour(image.NewGray(image.Rect(0, 0, 5, 5))))
}

func TestContour_SinglePixel(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 5, 5))
	m.SetGray(2, 3, color.Gray{Y: imop.MaskOn})
	assert.Equal(t, []image.Point{{2, 3}}, LargestContour(m))
}
