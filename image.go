package inkboard

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/esimov/inkboard/utils"
)

// decodeImage decodes the image file at src.
func decodeImage(src string) (*image.NRGBA, error) {
	ctype, err := utils.DetectFileContentType(src)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(ctype, "image") {
		return nil, fmt.Errorf("%s is not an image file", src)
	}

	file, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("could not open the image file: %v", err)
	}
	defer file.Close()

	return readImage(file)
}

// readImage decodes an image stream, be it a file or a pipe.
func readImage(r io.Reader) (*image.NRGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("could not decode the image: %v", err)
	}
	return imgToNRGBA(img), nil
}

// encodeImage encodes img in the format named by the ext file extension.
// An empty extension means jpeg.
func encodeImage(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case "", ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return errors.New("unsupported image format")
	}
}

// imgToNRGBA converts any image type to an opaque *image.NRGBA with min-point at (0, 0).
func imgToNRGBA(img image.Image) *image.NRGBA {
	srcBounds := img.Bounds()
	if src, ok := img.(*image.NRGBA); ok && srcBounds.Min == (image.Point{}) && opaque(src) {
		return src
	}
	minX, minY := srcBounds.Min.X, srcBounds.Min.Y
	dst := image.NewNRGBA(srcBounds.Sub(srcBounds.Min))
	dx, dy := dst.Rect.Dx(), dst.Rect.Dy()

	switch src := img.(type) {
	case *image.YCbCr:
		for y := 0; y < dy; y++ {
			di := dst.PixOffset(0, y)
			for x := 0; x < dx; x++ {
				yi := src.YOffset(minX+x, minY+y)
				ci := src.COffset(minX+x, minY+y)
				r, g, b := color.YCbCrToRGB(src.Y[yi], src.Cb[ci], src.Cr[ci])
				dst.Pix[di+0] = r
				dst.Pix[di+1] = g
				dst.Pix[di+2] = b
				dst.Pix[di+3] = 0xff
				di += 4
			}
		}
	default:
		// Translucent pixels are flattened over black, the empty ink colour.
		for y := 0; y < dy; y++ {
			di := dst.PixOffset(0, y)
			for x := 0; x < dx; x++ {
				r, g, b, _ := img.At(minX+x, minY+y).RGBA()
				dst.Pix[di+0] = uint8(r >> 8)
				dst.Pix[di+1] = uint8(g >> 8)
				dst.Pix[di+2] = uint8(b >> 8)
				dst.Pix[di+3] = 0xff
				di += 4
			}
		}
	}
	return dst
}

func opaque(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xff {
			return false
		}
	}
	return true
}
