package imop

import "image"

// Dilate grows the set region of mask with a size x size square structuring element.
// Pixels outside of the image do not contribute.
func Dilate(mask *image.Gray, size int) *image.Gray {
	return morph(mask, size, true)
}

// Erode shrinks the set region of mask with a size x size square structuring element.
// Pixels outside of the image do not contribute.
func Erode(mask *image.Gray, size int) *image.Gray {
	return morph(mask, size, false)
}

// Close applies a dilation followed by an erosion, which fills small gaps
// and holes without changing the overall outline.
func Close(mask *image.Gray, size int) *image.Gray {
	return Erode(Dilate(mask, size), size)
}

// morph runs the square kernel as two separable one dimensional passes.
func morph(mask *image.Gray, size int, dilate bool) *image.Gray {
	src := Binarize(mask)
	if size <= 1 {
		return src
	}
	lo := (size - 1) / 2
	hi := size - 1 - lo
	dx, dy := src.Rect.Dx(), src.Rect.Dy()

	pass := func(dst, src *image.Gray, horizontal bool) {
		for y := 0; y < dy; y++ {
			for x := 0; x < dx; x++ {
				hit := !dilate
				for k := -lo; k <= hi; k++ {
					sx, sy := x, y
					if horizontal {
						sx += k
					} else {
						sy += k
					}
					if sx < 0 || sy < 0 || sx >= dx || sy >= dy {
						continue
					}
					on := src.Pix[sy*src.Stride+sx] != MaskOff
					if dilate && on {
						hit = true
						break
					}
					if !dilate && !on {
						hit = false
						break
					}
				}
				if hit {
					dst.Pix[y*dst.Stride+x] = MaskOn
				}
			}
		}
	}

	tmp := image.NewGray(image.Rect(0, 0, dx, dy))
	pass(tmp, src, true)
	dst := image.NewGray(image.Rect(0, 0, dx, dy))
	pass(dst, tmp, false)
	return dst
}
