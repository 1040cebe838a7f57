// Package viewport maps a background bitmap to the fixed size output frame
// under a zoom factor and a pixel offset.
package viewport

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/esimov/inkboard/utils"
)

// Zoom limits and the per wheel step factors.
const (
	MinZoom     = 0.3
	MaxZoom     = 5.0
	DefaultZoom = 1.0

	zoomInFactor  = 1.1
	zoomOutFactor = 0.9
)

// EventKind identifies a pointer interaction handled by the viewport.
type EventKind int

// Pointer interactions.
const (
	WheelUp EventKind = iota
	WheelDown
	DragStart
	DragMove
	DragEnd
	DoubleClick
)

// Event is a device independent pointer event in frame coordinates.
type Event struct {
	Kind EventKind
	Pos  image.Point
}

// Viewport holds the zoom and pan state.
type Viewport struct {
	Zoom   float64
	Offset image.Point

	dragging bool
	anchor   image.Point
}

// New returns a viewport with the default zoom and no offset.
func New() *Viewport {
	return &Viewport{Zoom: DefaultZoom}
}

// ZoomIn multiplies the zoom factor by 1.1, up to MaxZoom.
func (v *Viewport) ZoomIn() {
	v.Zoom = math.Min(v.Zoom*zoomInFactor, MaxZoom)
}

// ZoomOut multiplies the zoom factor by 0.9, down to MinZoom.
func (v *Viewport) ZoomOut() {
	v.Zoom = math.Max(v.Zoom*zoomOutFactor, MinZoom)
}

// Reset restores the default zoom and clears the offset.
func (v *Viewport) Reset() {
	v.Zoom = DefaultZoom
	v.Offset = image.Point{}
	v.dragging = false
}

// Dragging reports whether a pan gesture is in progress.
func (v *Viewport) Dragging() bool {
	return v.dragging
}

// Handle applies a pointer event to the viewport state.
func (v *Viewport) Handle(ev Event) {
	switch ev.Kind {
	case WheelUp:
		v.ZoomIn()
	case WheelDown:
		v.ZoomOut()
	case DragStart:
		v.dragging = true
		v.anchor = ev.Pos
	case DragMove:
		if !v.dragging {
			return
		}
		v.Offset = v.Offset.Add(ev.Pos.Sub(v.anchor))
		v.anchor = ev.Pos
	case DragEnd:
		v.dragging = false
	case DoubleClick:
		v.Reset()
	}
}

// Render returns the source bitmap scaled and placed with the current state.
func (v *Viewport) Render(src image.Image, w, h int) *image.NRGBA {
	return Render(src, v.Zoom, v.Offset, w, h)
}

// Render scales src by zoom, centres it in a w x h frame and shifts it by offset.
// Frame pixels not covered by the scaled bitmap are black. A bitmap placed
// completely outside of the frame yields an all black frame.
func Render(src image.Image, zoom float64, offset image.Point, w, h int) *image.NRGBA {
	frame := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(frame.Pix); i += 4 {
		frame.Pix[i] = 0xff
	}
	if src == nil || src.Bounds().Empty() || w <= 0 || h <= 0 {
		return frame
	}
	zoom = utils.Clamp(zoom, MinZoom, MaxZoom)

	b := src.Bounds()
	sw := utils.Max(int(math.Round(float64(b.Dx())*zoom)), 1)
	sh := utils.Max(int(math.Round(float64(b.Dy())*zoom)), 1)

	cx := w/2 - sw/2 + offset.X
	cy := h/2 - sh/2 + offset.Y
	placed := image.Rect(cx, cy, cx+sw, cy+sh)
	overlap := placed.Intersect(frame.Rect)
	if overlap.Empty() {
		return frame
	}

	var scaled *image.NRGBA
	if sw == b.Dx() && sh == b.Dy() {
		scaled = imaging.Clone(src)
	} else {
		scaled = imaging.Resize(src, sw, sh, imaging.Linear)
	}

	sp := overlap.Min.Sub(placed.Min)
	n := overlap.Dx() * 4
	for y := 0; y < overlap.Dy(); y++ {
		si := (sp.Y+y)*scaled.Stride + sp.X*4
		di := (overlap.Min.Y+y)*frame.Stride + overlap.Min.X*4
		copy(frame.Pix[di:di+n], scaled.Pix[si:si+n])
		for i := di + 3; i < di+n; i += 4 {
			frame.Pix[i] = 0xff
		}
	}
	return frame
}
