// Package imop implements the pixel mask operations used for layering
// independently produced images into a single frame.
//
// Every operation works on opaque *image.NRGBA frames and single channel
// *image.Gray masks of identical bounds. A mask pixel is "set" when it is non-zero.
// The operations never mix colours: a masked copy either keeps a pixel
// unchanged or zeroes it, which is what makes a color-key based composite exact.
package imop

import (
	"fmt"
	"image"
	"image/color"
)

const (
	// MaskOn is the value written for a set mask pixel.
	MaskOn uint8 = 0xff
	// MaskOff is the value written for a cleared mask pixel.
	MaskOff uint8 = 0x00
)

// SameSize reports whether two rectangles have identical dimensions.
func SameSize(a, b image.Rectangle) bool {
	return a.Dx() == b.Dx() && a.Dy() == b.Dy()
}

// NewFrame returns an opaque frame filled with c.
func NewFrame(rect image.Rectangle, c color.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(rect)
	Fill(dst, c)
	return dst
}

// Fill overwrites every pixel of dst with c.
func Fill(dst *image.NRGBA, c color.NRGBA) {
	if len(dst.Pix) == 0 {
		return
	}
	px := []uint8{c.R, c.G, c.B, c.A}
	dx, dy := dst.Rect.Dx(), dst.Rect.Dy()
	for y := 0; y < dy; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+dx*4]
		for x := 0; x < len(row); x += 4 {
			copy(row[x:x+4], px)
		}
	}
}

// InRange returns a mask which is set where every RGB channel of src lies in [lo, hi].
// The alpha channel is ignored.
func InRange(src *image.NRGBA, lo, hi color.NRGBA) *image.Gray {
	dx, dy := src.Rect.Dx(), src.Rect.Dy()
	mask := image.NewGray(image.Rect(0, 0, dx, dy))

	for y := 0; y < dy; y++ {
		si := y * src.Stride
		mi := y * mask.Stride
		for x := 0; x < dx; x++ {
			r, g, b := src.Pix[si], src.Pix[si+1], src.Pix[si+2]
			if r >= lo.R && r <= hi.R &&
				g >= lo.G && g <= hi.G &&
				b >= lo.B && b <= hi.B {
				mask.Pix[mi] = MaskOn
			}
			si += 4
			mi++
		}
	}
	return mask
}

// Not returns the logical complement of mask: zero pixels become set, set pixels become zero.
func Not(mask *image.Gray) *image.Gray {
	dx, dy := mask.Rect.Dx(), mask.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, dx, dy))

	for y := 0; y < dy; y++ {
		si := y * mask.Stride
		di := y * dst.Stride
		for x := 0; x < dx; x++ {
			if mask.Pix[si+x] == MaskOff {
				dst.Pix[di+x] = MaskOn
			}
		}
	}
	return dst
}

// Binarize maps every non-zero pixel of mask to MaskOn.
func Binarize(mask *image.Gray) *image.Gray {
	dx, dy := mask.Rect.Dx(), mask.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, dx, dy))

	for y := 0; y < dy; y++ {
		si := y * mask.Stride
		di := y * dst.Stride
		for x := 0; x < dx; x++ {
			if mask.Pix[si+x] != MaskOff {
				dst.Pix[di+x] = MaskOn
			}
		}
	}
	return dst
}

// Mask copies the pixels of src where mask is set. All other pixels are black.
// The result is always opaque.
func Mask(src *image.NRGBA, mask *image.Gray) (*image.NRGBA, error) {
	if !SameSize(src.Rect, mask.Rect) {
		return nil, fmt.Errorf("mask size %v does not match image size %v", mask.Rect.Size(), src.Rect.Size())
	}
	dx, dy := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, dx, dy))

	for y := 0; y < dy; y++ {
		si := y * src.Stride
		di := y * dst.Stride
		mi := y * mask.Stride
		for x := 0; x < dx; x++ {
			if mask.Pix[mi+x] != MaskOff {
				copy(dst.Pix[di:di+3], src.Pix[si:si+3])
			}
			dst.Pix[di+3] = 0xff
			si += 4
			di += 4
		}
	}
	return dst, nil
}

// Add returns the per-channel saturating sum of two frames.
func Add(a, b *image.NRGBA) (*image.NRGBA, error) {
	if !SameSize(a.Rect, b.Rect) {
		return nil, fmt.Errorf("cannot add images of size %v and %v", a.Rect.Size(), b.Rect.Size())
	}
	dx, dy := a.Rect.Dx(), a.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, dx, dy))

	for y := 0; y < dy; y++ {
		ai := y * a.Stride
		bi := y * b.Stride
		di := y * dst.Stride
		for x := 0; x < dx; x++ {
			for c := 0; c < 3; c++ {
				sum := uint16(a.Pix[ai+c]) + uint16(b.Pix[bi+c])
				if sum > 0xff {
					sum = 0xff
				}
				dst.Pix[di+c] = uint8(sum)
			}
			dst.Pix[di+3] = 0xff
			ai += 4
			bi += 4
			di += 4
		}
	}
	return dst, nil
}

// Disjoint reports whether no pixel is set in more than one of the masks.
func Disjoint(masks ...*image.Gray) bool {
	if len(masks) == 0 {
		return true
	}
	dx, dy := masks[0].Rect.Dx(), masks[0].Rect.Dy()
	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			var n int
			for _, m := range masks {
				if m.Pix[y*m.Stride+x] != MaskOff {
					n++
				}
			}
			if n > 1 {
				return false
			}
		}
	}
	return true
}

// Count returns the number of set pixels in mask.
func Count(mask *image.Gray) int {
	var n int
	dx, dy := mask.Rect.Dx(), mask.Rect.Dy()
	for y := 0; y < dy; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+dx]
		for _, v := range row {
			if v != MaskOff {
				n++
			}
		}
	}
	return n
}

// Equal reports whether two frames hold the same RGB values.
func Equal(a, b *image.NRGBA) bool {
	if !SameSize(a.Rect, b.Rect) {
		return false
	}
	dx, dy := a.Rect.Dx(), a.Rect.Dy()
	for y := 0; y < dy; y++ {
		ai := y * a.Stride
		bi := y * b.Stride
		for x := 0; x < dx; x++ {
			if a.Pix[ai] != b.Pix[bi] || a.Pix[ai+1] != b.Pix[bi+1] || a.Pix[ai+2] != b.Pix[bi+2] {
				return false
			}
			ai += 4
			bi += 4
		}
	}
	return true
}

// Clone returns a deep copy of src re-based at the origin.
func Clone(src *image.NRGBA) *image.NRGBA {
	dx, dy := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, dx, dy))
	for y := 0; y < dy; y++ {
		si := y * src.Stride
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+dx*4], src.Pix[si:si+dx*4])
	}
	return dst
}
