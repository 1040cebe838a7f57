package stroke

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/esimov/inkboard/canvas"
	"github.com/esimov/inkboard/gesture"
	"github.com/esimov/inkboard/shape"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	green = color.NRGBA{G: 200, A: 255}
)

func newEngine() *Engine {
	r := shape.NewRecognizer(shape.DefaultConfig(), white, DefaultThickness)
	return NewEngine(r, white, DefaultThickness, 20)
}

func draw(x, y int) gesture.State  { return gesture.NewState(gesture.Draw, image.Pt(x, y)) }
func erase(x, y int) gesture.State { return gesture.NewState(gesture.Erase, image.Pt(x, y)) }
func move(x, y int) gesture.State  { return gesture.NewState(gesture.Move, image.Pt(x, y)) }

func inked(ink *image.NRGBA, x, y int) bool {
	return !canvas.IsBackground(ink.NRGBAAt(x, y))
}

func TestStroke_DrawConnectsAnchors(t *testing.T) {
	assert := assert.New(t)

	e := newEngine()
	ink := canvas.NewInk(100, 100)

	e.Apply(ink, draw(10, 50))
	assert.True(inked(ink, 10, 50))
	assert.False(inked(ink, 50, 50))

	e.Apply(ink, draw(90, 50))
	assert.True(inked(ink, 50, 50))
}

func TestStroke_MoveBreaksContinuity(t *testing.T) {
	assert := assert.New(t)

	e := newEngine()
	ink := canvas.NewInk(100, 100)

	e.Apply(ink, draw(10, 10))
	e.Apply(ink, move(50, 50))
	e.Apply(ink, draw(90, 90))
	assert.False(inked(ink, 50, 50))

	e.Apply(ink, gesture.NewState(gesture.None, image.Pt(1, 1)))
	e.Apply(ink, draw(10, 90))
	assert.False(inked(ink, 50, 90))
}

func TestStroke_Erase(t *testing.T) {
	assert := assert.New(t)

	e := newEngine()
	ink := canvas.NewInk(100, 100)
	e.Apply(ink, draw(10, 50))
	e.Apply(ink, draw(90, 50))
	e.Apply(ink, move(0, 0))

	e.Apply(ink, erase(50, 20))
	e.Apply(ink, erase(50, 80))
	assert.False(inked(ink, 50, 50))
	assert.True(inked(ink, 15, 50))
}

func TestStroke_ColourKeyInvariant(t *testing.T) {
	e := newEngine()
	ink := canvas.NewInk(120, 120)

	seq := []gesture.State{draw(5, 5), draw(60, 70), draw(110, 20)}
	for _, g := range seq {
		e.Apply(ink, g)
	}
	e.SetInkColor(green)
	e.SetThickness(13)
	for _, g := range []gesture.State{move(0, 0), draw(10, 100), draw(100, 100), erase(50, 100), erase(60, 10)} {
		e.Apply(ink, g)
	}

	for i := 0; i < len(ink.Pix); i += 4 {
		px := color.NRGBA{R: ink.Pix[i], G: ink.Pix[i+1], B: ink.Pix[i+2], A: ink.Pix[i+3]}
		if canvas.IsBackground(px) {
			continue
		}
		assert.Contains(t, []color.NRGBA{white, green}, px)
	}
}

func TestStroke_ShapeModeCorrects(t *testing.T) {
	assert := assert.New(t)

	e := newEngine()
	e.SetShapeMode(true)
	ink := canvas.NewInk(400, 400)

	for i := 0; i <= 72; i++ {
		a := 2 * math.Pi * float64(i) / 72
		x := 200 + int(math.Round(80*math.Cos(a)))
		y := 200 + int(math.Round(80*math.Sin(a)))
		assert.False(e.Apply(ink, draw(x, y)))
	}
	// drawn live while buffering
	assert.True(inked(ink, 280, 200))

	assert.True(e.Apply(ink, move(0, 0)))
	assert.Equal(shape.Circle, e.Recognizer().Last().Kind)
	assert.False(inked(ink, 280, 200))

	// the next draw starts a new session
	e.Apply(ink, draw(10, 10))
	assert.Equal(1, e.Recognizer().Len())
}

func TestStroke_ShapeModeSuppressesErase(t *testing.T) {
	e := newEngine()
	ink := canvas.NewInk(100, 100)
	e.Apply(ink, draw(10, 50))
	e.Apply(ink, draw(90, 50))
	e.Apply(ink, move(0, 0))

	e.SetShapeMode(true)
	before := bytes.Clone(ink.Pix)
	e.Apply(ink, erase(50, 40))
	e.Apply(ink, erase(50, 60))
	assert.Equal(t, before, ink.Pix)
}

func TestStroke_ToggleAbandonsSession(t *testing.T) {
	e := newEngine()
	ink := canvas.NewInk(100, 100)
	e.SetShapeMode(true)
	for i := 0; i < 20; i++ {
		e.Apply(ink, draw(10+i*3, 50))
	}
	assert.Equal(t, 20, e.Recognizer().Len())

	assert.False(t, e.ToggleShapeMode())
	assert.Zero(t, e.Recognizer().Len())
	assert.True(t, e.ToggleShapeMode())

	// the abandoned session does not end on the next move
	assert.False(t, e.Apply(ink, move(0, 0)))
}
