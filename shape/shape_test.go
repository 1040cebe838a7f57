package shape

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esimov/inkboard/canvas"
	"github.com/esimov/inkboard/gesture"
	"github.com/esimov/inkboard/imop"
)

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// densify returns the points of the closed polygon corners sampled every step pixels.
func densify(corners []image.Point, step int, closed bool) []image.Point {
	var pts []image.Point
	n := len(corners)
	segs := n - 1
	if closed {
		segs = n
	}
	for i := 0; i < segs; i++ {
		a, b := corners[i], corners[(i+1)%n]
		l := math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
		k := int(math.Max(1, math.Ceil(l/float64(step))))
		for j := 0; j < k; j++ {
			t := float64(j) / float64(k)
			pts = append(pts, image.Pt(
				a.X+int(math.Round(t*float64(b.X-a.X))),
				a.Y+int(math.Round(t*float64(b.Y-a.Y))),
			))
		}
	}
	if closed {
		pts = append(pts, corners[0])
	} else {
		pts = append(pts, corners[n-1])
	}
	return pts
}

func circlePath(c image.Point, r float64, n int) []image.Point {
	pts := make([]image.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := 2 * math.Pi * float64(i) / float64(n)
		pts = append(pts, image.Pt(c.X+int(math.Round(r*math.Cos(t))), c.Y+int(math.Round(r*math.Sin(t)))))
	}
	return pts
}

// stroke draws the path live like the stroke engine does and feeds it to the recognizer.
func stroke(r *Recognizer, ink *image.NRGBA, pts []image.Point) {
	for i, p := range pts {
		if i > 0 {
			imop.Line(ink, pts[i-1], p, white, 8)
		}
		r.AddPoint(p)
		r.Process(gesture.Draw, ink)
	}
}

func inkBounds(ink *image.NRGBA) image.Rectangle {
	var r image.Rectangle
	first := true
	b := ink.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if canvas.IsBackground(ink.NRGBAAt(x, y)) {
				continue
			}
			p := image.Rect(x, y, x+1, y+1)
			if first {
				r, first = p, false
				continue
			}
			r = r.Union(p)
		}
	}
	return r
}

func TestShape_RectangleScenario(t *testing.T) {
	assert := assert.New(t)

	ink := canvas.NewInk(400, 400)
	r := NewRecognizer(DefaultConfig(), white, 8)
	path := densify([]image.Point{{100, 100}, {300, 100}, {300, 300}, {100, 300}}, 20, true)
	require.Greater(t, len(path), DefaultConfig().MinPoints)

	stroke(r, ink, path)
	assert.True(r.Process(gesture.Move, ink))
	assert.Equal(Rectangle, r.Last().Kind)
	assert.Len(r.Last().Vertices, 4)
	assert.Zero(r.Len())

	box := inkBounds(ink)
	assert.InDelta(80, box.Min.X, 15)
	assert.InDelta(80, box.Min.Y, 15)
	assert.InDelta(320, box.Max.X, 15)
	assert.InDelta(320, box.Max.Y, 15)

	// no freehand residue along the original path
	for _, p := range path {
		assert.True(canvas.IsBackground(ink.NRGBAAt(p.X, p.Y)), "residual ink at %v", p)
	}
	assert.True(canvas.IsBackground(ink.NRGBAAt(200, 100)))
}

func TestShape_CircleScenario(t *testing.T) {
	assert := assert.New(t)

	ink := canvas.NewInk(400, 400)
	r := NewRecognizer(DefaultConfig(), white, 8)
	stroke(r, ink, circlePath(image.Pt(200, 200), 80, 72))

	assert.True(r.Process(gesture.None, ink))
	s := r.Last()
	assert.Equal(Circle, s.Kind)
	assert.InDelta(200, s.Center.X, 3)
	assert.InDelta(200, s.Center.Y, 3)
	// the scratch stroke widens the contour by half of its thickness
	assert.InDelta(100, s.Radius, 4)
	assert.True(canvas.IsBackground(ink.NRGBAAt(280, 200)))
	assert.False(canvas.IsBackground(ink.NRGBAAt(200+s.Radius, 200)))
}

func TestShape_RejectBelowMinArea(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinArea = 1e6

	ink := canvas.NewInk(200, 200)
	r := NewRecognizer(cfg, white, 8)
	stroke(r, ink, densify([]image.Point{{50, 50}, {120, 50}, {120, 120}, {50, 120}}, 10, true))
	before := bytes.Clone(ink.Pix)

	assert.False(t, r.Process(gesture.Move, ink))
	assert.Equal(t, before, ink.Pix)
	assert.Zero(t, r.Len())
}

func TestShape_ShortSessionNotEvaluated(t *testing.T) {
	ink := canvas.NewInk(200, 200)
	r := NewRecognizer(DefaultConfig(), white, 8)
	pts := circlePath(image.Pt(100, 100), 50, 9)
	require.Len(t, pts, 10)

	stroke(r, ink, pts)
	before := bytes.Clone(ink.Pix)
	assert.False(t, r.Process(gesture.Erase, ink))
	assert.Equal(t, before, ink.Pix)
	assert.Zero(t, r.Len())
}

func TestShape_SessionEndsOnlyAfterDraw(t *testing.T) {
	ink := canvas.NewInk(400, 400)
	r := NewRecognizer(DefaultConfig(), white, 8)
	for _, p := range circlePath(image.Pt(200, 200), 80, 40) {
		r.AddPoint(p)
	}
	// no preceding draw frame
	assert.False(t, r.Process(gesture.Move, ink))
	assert.Equal(t, 41, r.Len())

	r.Process(gesture.Draw, ink)
	r.Process(gesture.Draw, ink)
	assert.Equal(t, 41, r.Len())
	assert.True(t, r.Process(gesture.Move, ink))
}

func TestShape_BoundedBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HistoryLen = 5
	r := NewRecognizer(cfg, white, 8)

	r.AddPoint(gesture.NoPoint)
	assert.Zero(t, r.Len())
	for i := 0; i < 8; i++ {
		r.AddPoint(image.Pt(i, i))
	}
	assert.Equal(t, []image.Point{{3, 3}, {4, 4}, {5, 5}, {6, 6}, {7, 7}}, r.Points())

	r.Reset()
	assert.Zero(t, r.Len())
}

func TestShape_Classify(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name    string
		contour []image.Point
		want    Kind
	}{
		{
			name:    "triangle",
			contour: densify([]image.Point{{0, 0}, {200, 0}, {100, 170}}, 5, false),
			want:    Triangle,
		},
		{
			name:    "rectangle",
			contour: densify([]image.Point{{50, 50}, {250, 50}, {250, 150}, {50, 150}}, 5, false),
			want:    Rectangle,
		},
		{
			name:    "circle",
			contour: circlePath(image.Pt(150, 150), 100, 360)[:360],
			want:    Circle,
		},
		{
			name:    "concave quadrilateral",
			contour: densify([]image.Point{{0, 0}, {100, 50}, {0, 100}, {30, 50}}, 5, false),
			want:    Unknown,
		},
		{
			name:    "too few points",
			contour: []image.Point{{0, 0}, {5, 5}},
			want:    Unknown,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.contour, cfg).Kind)
		})
	}
}

func TestShape_ClassifyCircleGeometry(t *testing.T) {
	s := Classify(circlePath(image.Pt(150, 150), 100, 360)[:360], DefaultConfig())
	assert.Equal(t, Circle, s.Kind)
	assert.InDelta(t, 150, s.Center.X, 1)
	assert.InDelta(t, 150, s.Center.Y, 1)
	assert.InDelta(t, 100, s.Radius, 1)
}

func TestShape_Draw(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{canvas.BackgroundColor}, image.Point{}, draw.Src)

	Shape{Kind: Unknown}.Draw(dst, white, 4)
	assert.Equal(t, image.Rectangle{}, inkBounds(dst))

	Shape{Kind: Rectangle, Vertices: []image.Point{{10, 10}, {90, 10}, {90, 90}, {10, 90}}}.Draw(dst, white, 4)
	assert.Equal(t, white, dst.NRGBAAt(50, 10))
	assert.Equal(t, white, dst.NRGBAAt(10, 50))
	assert.True(t, canvas.IsBackground(dst.NRGBAAt(50, 50)))
	assert.Equal(t, "unknown", Unknown.String())
}
