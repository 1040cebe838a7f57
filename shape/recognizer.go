// Package shape turns freehand strokes into idealised geometric primitives.
//
// A Recognizer buffers the points of one stroke session. When the session
// ends the buffered path is rasterised thick into a scratch mask, its outer
// contour is classified, and on success the freehand ink is erased and
// replaced with the primitive on the same ink bitmap.
package shape

import (
	"image"
	"image/color"

	"github.com/google/uuid"

	"github.com/esimov/inkboard/canvas"
	"github.com/esimov/inkboard/gesture"
	"github.com/esimov/inkboard/imop"
	"github.com/esimov/inkboard/internal/logger"
)

// Recognizer buffers stroke sessions and corrects them on session end.
type Recognizer struct {
	cfg       Config
	pts       []image.Point
	prevMode  gesture.Mode
	ink       color.NRGBA
	thickness int
	session   uuid.UUID
	last      Shape
}

// NewRecognizer returns a recognizer drawing corrected primitives with the given ink.
func NewRecognizer(cfg Config, ink color.NRGBA, thickness int) *Recognizer {
	if cfg.HistoryLen <= 0 {
		cfg.HistoryLen = DefaultConfig().HistoryLen
	}
	return &Recognizer{
		cfg:       cfg,
		pts:       make([]image.Point, 0, cfg.HistoryLen),
		prevMode:  gesture.None,
		ink:       ink,
		thickness: thickness,
	}
}

// SetInkColor changes the colour of the corrected primitives.
func (r *Recognizer) SetInkColor(c color.NRGBA) { r.ink = c }

// SetThickness changes the stroke width of the corrected primitives.
func (r *Recognizer) SetThickness(t int) { r.thickness = t }

// Config returns the thresholds in use.
func (r *Recognizer) Config() Config { return r.cfg }

// Len returns the number of buffered points.
func (r *Recognizer) Len() int { return len(r.pts) }

// Points returns a copy of the buffered points, oldest first.
func (r *Recognizer) Points() []image.Point {
	return append([]image.Point(nil), r.pts...)
}

// Last returns the most recently recognised shape.
func (r *Recognizer) Last() Shape { return r.last }

// AddPoint appends p to the session buffer. The NoPoint sentinel is ignored.
// Once the buffer is full the oldest point is discarded.
func (r *Recognizer) AddPoint(p image.Point) {
	if p == gesture.NoPoint {
		return
	}
	if len(r.pts) == 0 {
		r.session = uuid.New()
	}
	if len(r.pts) >= r.cfg.HistoryLen {
		copy(r.pts, r.pts[1:])
		r.pts[len(r.pts)-1] = p
		return
	}
	r.pts = append(r.pts, p)
}

// Process records the gesture mode of the current frame. A transition from
// draw to move, none or erase ends the session: the buffer is evaluated when it
// holds more than the minimum number of points, then discarded either way.
// It reports whether ink was corrected.
func (r *Recognizer) Process(mode gesture.Mode, ink *image.NRGBA) bool {
	defer func() { r.prevMode = mode }()

	if r.prevMode != gesture.Draw || !gesture.EndsStroke(mode) {
		return false
	}
	defer r.clear()

	if len(r.pts) <= r.cfg.MinPoints {
		logger.L().Debug("shape session too short", "session", r.session, "points", len(r.pts))
		return false
	}
	_, ok := r.TryCorrect(ink)
	return ok
}

// TryCorrect classifies the buffered path and, on success, replaces the
// freehand ink with the recognised primitive. The ink is left untouched when
// the path is rejected. The buffer itself is not modified.
func (r *Recognizer) TryCorrect(ink *image.NRGBA) (Shape, bool) {
	log := logger.L().With("session", r.session)
	if len(r.pts) == 0 {
		return Shape{}, false
	}

	scratch := image.NewGray(image.Rect(0, 0, ink.Rect.Dx(), ink.Rect.Dy()))
	imop.Polyline(scratch, r.pts, false, color.Gray{Y: imop.MaskOn}, r.cfg.ScratchThickness)
	scratch = imop.Close(scratch, r.cfg.KernelSize)

	contour := LargestContour(scratch)
	if len(contour) == 0 {
		log.Debug("shape rejected", "reason", "no contour")
		return Shape{}, false
	}
	if area := Area(contour); area < r.cfg.MinArea {
		log.Debug("shape rejected", "reason", "area", "area", area, "min", r.cfg.MinArea)
		return Shape{}, false
	}

	s := Classify(contour, r.cfg)
	if s.Kind == Unknown {
		log.Debug("shape rejected", "reason", "unclassified")
		return s, false
	}

	if len(r.pts) > 1 {
		imop.Polyline(ink, r.pts, false, canvas.BackgroundColor, r.thickness+r.cfg.EraseMargin)
	}
	s.Draw(ink, r.ink, r.thickness)
	r.last = s

	log.Info("shape recognised", "kind", s.Kind.String(), "shape", s.String())
	return s, true
}

// Reset abandons the current session.
func (r *Recognizer) Reset() {
	r.clear()
	r.prevMode = gesture.None
}

func (r *Recognizer) clear() {
	r.pts = r.pts[:0]
	r.session = uuid.Nil
}
