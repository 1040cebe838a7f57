package view

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Info is the board state shown by the HUD.
type Info struct {
	Mode      string
	Tracking  bool
	UserMask  bool
	Pen       string
	Thickness int
	Zoom      float64
	Page      int
	Pages     int
	Message   string
	Help      []string
	Error     string
}

const (
	hudX      = 20
	hudY      = 20
	hudWidth  = 710
	hudHeight = 110
	hudGap    = 20
	lineStep  = 22
	helpWidth = 530
)

var (
	textColor  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	msgColor   = color.NRGBA{R: 0xff, G: 0xff, A: 0xff}
	errColor   = color.NRGBA{G: 0xff, A: 0xff}
	panelColor = color.NRGBA{A: 0xff}
	helpColor  = color.NRGBA{R: 30, G: 30, B: 30, A: 0xff}
)

// DrawHUD draws the status panel in the top left corner of dst, the help box
// below it when help lines are given and the background error at the bottom.
func DrawHUD(dst *image.NRGBA, info Info) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	panel := image.Rect(hudX, hudY, hudX+min(hudWidth, w-2*hudX), hudY+hudHeight)
	Shade(dst, panel, panelColor, 0.35)

	onOff := func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	}
	x := hudX + 10
	row(dst, x, 50, fmt.Sprintf("Mode: %s", info.Mode),
		fmt.Sprintf("TRK: %s  USR: %s", onOff(info.Tracking), onOff(info.UserMask)))

	pages := max(info.Pages, 1)
	row(dst, x, 80, fmt.Sprintf("Pen: %s   Thick: %d", info.Pen, info.Thickness),
		fmt.Sprintf("Zoom: %.2f   Page: %d/%d", info.Zoom, info.Page+1, pages))

	if info.Message != "" {
		Text(dst, info.Message, image.Pt(x, 108), msgColor)
	}

	if len(info.Help) > 0 {
		y0 := panel.Max.Y + 10
		box := image.Rect(hudX, y0, hudX+min(helpWidth, w-2*hudX), y0+lineStep*(len(info.Help)+1))
		Shade(dst, box, helpColor, 0.70)
		y := y0 + 28
		for _, ln := range info.Help {
			Text(dst, ln, image.Pt(x, y), textColor)
			y += lineStep
		}
	}

	if info.Error != "" {
		Text(dst, info.Error, image.Pt(x, h-30), errColor)
	}
}

func row(dst draw.Image, x, y int, left, right string) {
	adv := Text(dst, left, image.Pt(x, y), textColor)
	Text(dst, right, image.Pt(x+adv+hudGap, y), textColor)
}

// Text draws s with its baseline starting at dot and returns the advance in pixels.
func Text(dst draw.Image, s string, dot image.Point, c color.Color) int {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(dot.X, dot.Y),
	}
	d.DrawString(s)
	return (d.Dot.X - fixed.I(dot.X)).Ceil()
}

// Shade blends c over the r area of dst with the given opacity.
func Shade(dst draw.Image, r image.Rectangle, c color.Color, opacity float64) {
	a := uint8(opacity*0xff + 0.5)
	draw.DrawMask(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{},
		image.NewUniform(color.Alpha{A: a}), image.Point{}, draw.Over)
}
