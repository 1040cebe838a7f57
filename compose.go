package inkboard

import (
	"fmt"
	"image"

	"github.com/esimov/inkboard/canvas"
	"github.com/esimov/inkboard/imop"
	"github.com/esimov/inkboard/internal/logger"
)

// Composite is the output of a compositing pass.
type Composite struct {
	// Final holds the background, the user cutout and the ink.
	Final *image.NRGBA
	// Clean holds the background and the ink without the user layer.
	Clean *image.NRGBA
	// Masks tells which layer each pixel of Final was taken from.
	Masks Partition
}

// Partition holds mutually exclusive source masks which together cover the whole frame.
type Partition struct {
	Ink        *image.Gray
	User       *image.Gray
	Background *image.Gray
}

// Compose layers the ink over the user cutout over the background view.
// Ink is every pixel of ink differing from the background key, the user is
// every non-zero pixel of fg. The layers are never blended: each output pixel
// is copied from exactly one source.
//
// A nil camera or fg, or one not matching the frame size, is treated as
// "no user detected". A size mismatch between ink and bgView is an error.
func Compose(camera, ink *image.NRGBA, fg *image.Gray, bgView *image.NRGBA) (*Composite, error) {
	if ink == nil || bgView == nil {
		return nil, fmt.Errorf("compose: missing ink or background view")
	}
	if !imop.SameSize(ink.Rect, bgView.Rect) {
		return nil, fmt.Errorf("compose: ink size %v does not match background size %v",
			ink.Rect.Size(), bgView.Rect.Size())
	}
	rect := image.Rect(0, 0, ink.Rect.Dx(), ink.Rect.Dy())

	bgKey := imop.InRange(ink, canvas.BackgroundColor, canvas.BackgroundColor)
	inkKey := imop.Not(bgKey)

	var fgMask *image.Gray
	switch {
	case fg == nil || camera == nil:
		fgMask = image.NewGray(rect)
	case !imop.SameSize(fg.Rect, rect) || !imop.SameSize(camera.Rect, rect):
		logger.L().Debug("foreground ignored, size mismatch",
			"mask", fg.Rect.Size(), "camera", camera.Rect.Size(), "frame", rect.Size())
		fgMask = image.NewGray(rect)
	default:
		fgMask = imop.Binarize(fg)
	}
	bgMask := imop.Not(fgMask)

	bgOnly, err := imop.Mask(bgView, bgMask)
	if err != nil {
		return nil, err
	}
	bgWithUser := bgOnly
	if camera != nil && imop.SameSize(camera.Rect, rect) {
		userPart, err := imop.Mask(camera, fgMask)
		if err != nil {
			return nil, err
		}
		if bgWithUser, err = imop.Add(bgOnly, userPart); err != nil {
			return nil, err
		}
	}

	bgPunched, err := imop.Mask(bgWithUser, bgKey)
	if err != nil {
		return nil, err
	}
	inkPart, err := imop.Mask(ink, inkKey)
	if err != nil {
		return nil, err
	}
	final, err := imop.Add(bgPunched, inkPart)
	if err != nil {
		return nil, err
	}

	bgClean, err := imop.Mask(bgView, bgKey)
	if err != nil {
		return nil, err
	}
	clean, err := imop.Add(bgClean, inkPart)
	if err != nil {
		return nil, err
	}

	return &Composite{
		Final: final,
		Clean: clean,
		Masks: Partition{
			Ink:        inkKey,
			User:       intersect(fgMask, bgKey),
			Background: intersect(bgMask, bgKey),
		},
	}, nil
}

func intersect(a, b *image.Gray) *image.Gray {
	dst := image.NewGray(a.Rect)
	for i := range dst.Pix {
		if a.Pix[i] != imop.MaskOff && b.Pix[i] != imop.MaskOff {
			dst.Pix[i] = imop.MaskOn
		}
	}
	return dst
}
