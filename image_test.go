package inkboard

import (
	"bytes"
	"image"
	"image/color"
	"image/color/palette"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeNRGBAImage(rect image.Rectangle, colors []color.Color) *image.NRGBA {
	img := image.NewNRGBA(rect)
	fillDrawImage(img, colors)
	return img
}

func makeYCbCrImage(rect image.Rectangle, colors []color.Color, sr image.YCbCrSubsampleRatio) *image.YCbCr {
	img := image.NewYCbCr(rect, sr)
	j := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			iy := img.YOffset(x, y)
			ic := img.COffset(x, y)
			c := color.NRGBAModel.Convert(colors[j]).(color.NRGBA)
			img.Y[iy], img.Cb[ic], img.Cr[ic] = color.RGBToYCbCr(c.R, c.G, c.B)
			j++
		}
	}
	return img
}

func fillDrawImage(img *image.NRGBA, colors []color.Color) {
	colorsNRGBA := make([]color.NRGBA, len(colors))
	for i, c := range colors {
		nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
		nrgba.A = 0xff
		colorsNRGBA[i] = nrgba
	}
	r := img.Bounds()
	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, colorsNRGBA[i%len(colorsNRGBA)])
			i++
		}
	}
}

func TestImage_ImgToNRGBA(t *testing.T) {
	rect := image.Rect(-1, -1, 15, 15)
	colors := palette.Plan9
	testCases := []struct {
		name string
		img  image.Image
	}{
		{name: "NRGBA", img: makeNRGBAImage(rect, colors)},
		{name: "YCbCr-444", img: makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio444)},
		{name: "YCbCr-420", img: makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio420)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dst := imgToNRGBA(tc.img)
			assert.Equal(t, image.Rect(0, 0, 16, 16), dst.Bounds())

			r := tc.img.Bounds()
			for y := r.Min.Y; y < r.Max.Y; y++ {
				for x := r.Min.X; x < r.Max.X; x++ {
					want := color.NRGBAModel.Convert(tc.img.At(x, y)).(color.NRGBA)
					got := dst.NRGBAAt(x-r.Min.X, y-r.Min.Y)
					assert.InDelta(t, want.R, got.R, 1)
					assert.InDelta(t, want.G, got.G, 1)
					assert.InDelta(t, want.B, got.B, 1)
					assert.Equal(t, uint8(0xff), got.A)
				}
			}
		})
	}
}

func TestImage_ImgToNRGBAFlattensAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, A: 0xff})
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, A: 0})

	dst := imgToNRGBA(img)
	assert.NotSame(t, img, dst)
	assert.Equal(t, color.NRGBA{R: 200, A: 0xff}, dst.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{A: 0xff}, dst.NRGBAAt(1, 0))

	dst.SetNRGBA(1, 0, color.NRGBA{A: 0xff})
	assert.Same(t, dst, imgToNRGBA(dst))
}

func TestImage_EncodeDecode(t *testing.T) {
	img := makeNRGBAImage(image.Rect(0, 0, 8, 8), palette.WebSafe)
	dir := t.TempDir()

	for _, ext := range []string{".png", ".bmp"} {
		path := filepath.Join(dir, "out"+ext)
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, encodeImage(f, img, ext))
		require.NoError(t, f.Close())

		got, err := decodeImage(path)
		require.NoError(t, err, ext)
		assert.Equal(t, img.Pix, got.Pix, ext)
	}

	var buf bytes.Buffer
	require.NoError(t, encodeImage(&buf, img, ""))
	got, err := readImage(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), got.Bounds())

	assert.Error(t, encodeImage(&buf, img, ".tiff"))
}

func TestImage_DecodeRejectsText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not an image"), 0644))
	_, err := decodeImage(path)
	assert.Error(t, err)
}
