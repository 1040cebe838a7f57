// Package stroke turns per frame gesture samples into ink bitmap mutations.
package stroke

import (
	"image"
	"image/color"

	"github.com/esimov/inkboard/canvas"
	"github.com/esimov/inkboard/gesture"
	"github.com/esimov/inkboard/imop"
	"github.com/esimov/inkboard/internal/logger"
	"github.com/esimov/inkboard/shape"
)

// Default pen and eraser widths in pixels.
const (
	DefaultThickness       = 8
	DefaultEraserThickness = 100
)

// Engine draws and erases ink following the gesture stream. When shape mode
// is on, draw sessions are also buffered by the shape recognizer and replaced
// with the recognised primitive once they end.
type Engine struct {
	recognizer *shape.Recognizer

	ink       color.NRGBA
	thickness int
	eraser    int

	shapeMode bool
	prev      image.Point
}

// NewEngine returns an engine using r for shape correction.
func NewEngine(r *shape.Recognizer, ink color.NRGBA, thickness, eraser int) *Engine {
	if canvas.IsBackground(ink) {
		logger.L().Warn("ink colour equals the background key and will erase", "color", ink)
	}
	r.SetInkColor(ink)
	r.SetThickness(thickness)
	return &Engine{
		recognizer: r,
		ink:        ink,
		thickness:  thickness,
		eraser:     eraser,
		prev:       gesture.NoPoint,
	}
}

// InkColor returns the current ink colour.
func (e *Engine) InkColor() color.NRGBA { return e.ink }

// Thickness returns the current ink thickness.
func (e *Engine) Thickness() int { return e.thickness }

// EraserThickness returns the eraser thickness.
func (e *Engine) EraserThickness() int { return e.eraser }

// ShapeMode reports whether shape correction is on.
func (e *Engine) ShapeMode() bool { return e.shapeMode }

// Recognizer returns the shape recognizer driven by the engine.
func (e *Engine) Recognizer() *shape.Recognizer { return e.recognizer }

// SetInkColor changes the ink colour. Painting with the background key is
// allowed but cannot be told apart from erasing.
func (e *Engine) SetInkColor(c color.NRGBA) {
	if canvas.IsBackground(c) {
		logger.L().Warn("ink colour equals the background key and will erase", "color", c)
	}
	e.ink = c
	e.recognizer.SetInkColor(c)
}

// SetThickness changes the ink thickness.
func (e *Engine) SetThickness(t int) {
	e.thickness = t
	e.recognizer.SetThickness(t)
}

// SetEraserThickness changes the eraser thickness.
func (e *Engine) SetEraserThickness(t int) {
	e.eraser = t
}

// SetShapeMode turns shape correction on or off. Any stroke in progress is abandoned.
func (e *Engine) SetShapeMode(on bool) {
	if e.shapeMode != on {
		e.Abandon()
	}
	e.shapeMode = on
}

// ToggleShapeMode flips shape correction and returns the new state.
func (e *Engine) ToggleShapeMode() bool {
	e.SetShapeMode(!e.shapeMode)
	return e.shapeMode
}

// Abandon drops the in-flight stroke session without committing it.
func (e *Engine) Abandon() {
	e.recognizer.Reset()
	e.prev = gesture.NoPoint
}

// Apply mutates ink according to the gesture sample of one frame.
// It reports whether a shape correction replaced the stroke just ended.
func (e *Engine) Apply(ink *image.NRGBA, g gesture.State) bool {
	if e.shapeMode {
		if g.Mode == gesture.Draw {
			e.recognizer.AddPoint(g.Anchor)
		}
		if e.recognizer.Process(g.Mode, ink) {
			e.prev = gesture.NoPoint
			return true
		}
	}

	switch {
	case g.Mode == gesture.Draw && g.HasPoint():
		e.segment(ink, g.Anchor, e.ink, e.thickness)
	case g.Mode == gesture.Erase && g.HasPoint() && !e.shapeMode:
		e.segment(ink, g.Anchor, canvas.BackgroundColor, e.eraser)
	default:
		e.prev = gesture.NoPoint
	}
	return false
}

// segment draws from the previous anchor to p. The first point of a stroke
// only sets the anchor so that no line is drawn from a stale position.
func (e *Engine) segment(ink *image.NRGBA, p image.Point, c color.NRGBA, thickness int) {
	if e.prev == gesture.NoPoint {
		e.prev = p
	}
	imop.Line(ink, e.prev, p, c, thickness)
	e.prev = p
}
