package vision

import "image"

// rgbToGrayscale converts the image to a grayscale pixel array using the
// ITU-R 601 luma weights.
func rgbToGrayscale(src *image.NRGBA) []uint8 {
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	gray := make([]uint8, width*height)

	for y := 0; y < height; y++ {
		i := y * src.Stride
		for x := 0; x < width; x++ {
			r, g, b := float64(src.Pix[i]), float64(src.Pix[i+1]), float64(src.Pix[i+2])
			gray[y*width+x] = uint8(0.299*r + 0.587*g + 0.114*b)
			i += 4
		}
	}
	return gray
}
