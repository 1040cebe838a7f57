// Package view turns the composites produced by the board into the frame
// presented to the user: the normal or the picture-in-picture layout, the HUD
// and the pointer cursor.
package view

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/esimov/inkboard/gesture"
	"github.com/esimov/inkboard/imop"
	"github.com/esimov/inkboard/internal/logger"
)

// Mode is the presentation layout.
type Mode int

const (
	// Normal presents the final composite with the user cutout.
	Normal Mode = iota
	// PIP presents the clean board with the camera in a small round window.
	PIP
)

func (m Mode) String() string {
	if m == PIP {
		return "pip"
	}
	return "normal"
}

// CursorRadius is the radius of the pointer cursor disk.
const CursorRadius = 12

// Cursor colours per gesture.
var (
	CursorDraw  = color.NRGBA{R: 0xff, B: 0xff, A: 0xff}
	CursorErase = color.NRGBA{G: 0xff, B: 0xff, A: 0xff}
	CursorMove  = color.NRGBA{R: 0xff, G: 0xff, A: 0xff}
)

// Frame gathers everything needed to present one tick.
type Frame struct {
	Final  *image.NRGBA
	Clean  *image.NRGBA
	Camera *image.NRGBA

	Gesture gesture.State
	Info    Info
}

// Presenter holds the presentation settings.
type Presenter struct {
	mode Mode

	// PIPHeight is the picture-in-picture height as a fraction of the frame height.
	PIPHeight float64
	// PIPMargin is the distance of the picture-in-picture window from the frame edges.
	PIPMargin int

	HUD    bool
	Cursor bool
}

// NewPresenter returns a presenter in the normal layout.
func NewPresenter(pipHeight float64, pipMargin int) *Presenter {
	return &Presenter{
		PIPHeight: pipHeight,
		PIPMargin: pipMargin,
		Cursor:    true,
	}
}

// Mode returns the active layout.
func (p *Presenter) Mode() Mode { return p.mode }

// SetMode selects the layout.
func (p *Presenter) SetMode(m Mode) { p.mode = m }

// Toggle switches between the normal and the picture-in-picture layout.
func (p *Presenter) Toggle() Mode {
	if p.mode == Normal {
		p.mode = PIP
	} else {
		p.mode = Normal
	}
	logger.L().Debug("view mode", "mode", p.mode)
	return p.mode
}

// Present renders the frame. The composites of f are never modified.
func (p *Presenter) Present(f Frame) *image.NRGBA {
	var dst *image.NRGBA
	switch {
	case p.mode == PIP && f.Clean != nil:
		dst = PictureInPicture(f.Clean, f.Camera, p.PIPHeight, p.PIPMargin)
	default:
		dst = imop.Clone(f.Final)
	}

	if p.HUD {
		DrawHUD(dst, f.Info)
	}
	if p.Cursor && f.Info.Tracking {
		DrawCursor(dst, f.Gesture)
	}
	return dst
}

// PictureInPicture places the camera frame, scaled to heightRatio of the base
// height and cropped to a centred circle, in the bottom right corner of a copy of base.
func PictureInPicture(base, camera *image.NRGBA, heightRatio float64, margin int) *image.NRGBA {
	dst := imop.Clone(base)
	if camera == nil || camera.Rect.Empty() {
		return dst
	}
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	ph := int(float64(h) * heightRatio)
	pw := int(float64(camera.Rect.Dx()) * float64(ph) / float64(camera.Rect.Dy()))
	if pw <= 0 || ph <= 0 {
		return dst
	}
	pip := imaging.Resize(camera, pw, ph, imaging.Linear)

	mask := image.NewAlpha(image.Rect(0, 0, pw, ph))
	imop.Disk(mask, image.Pt(pw/2, ph/2), min(pw, ph)/2, color.Alpha{A: 0xff})

	x2, y2 := w-margin, h-margin
	r := image.Rect(x2-pw, y2-ph, x2, y2)
	// the pip pixels are opaque so Over copies them inside the circle only
	draw.DrawMask(dst, r, pip, image.Point{}, mask, image.Point{}, draw.Over)
	return dst
}

// DrawCursor paints a disk at the gesture anchor, coloured by the gesture mode.
func DrawCursor(dst draw.Image, g gesture.State) {
	if !g.HasPoint() {
		return
	}
	c := CursorDraw
	switch g.Mode {
	case gesture.Erase:
		c = CursorErase
	case gesture.Move:
		c = CursorMove
	case gesture.None:
		return
	}
	imop.Disk(dst, g.Anchor, CursorRadius, c)
}
