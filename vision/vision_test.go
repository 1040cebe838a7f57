package vision

import (
	"image"
	"image/color"
	"testing"

	pigo "github.com/esimov/pigo/core"
	"github.com/stretchr/testify/assert"

	"github.com/esimov/inkboard/imop"
)

func TestVision_Grayscale(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, color.NRGBA{177, 177, 177, 255})
		}
	}
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})

	gray := rgbToGrayscale(img)
	assert.Len(t, gray, 100)
	assert.InDelta(t, 177, gray[55], 1)
	assert.InDelta(t, 76, gray[0], 1)
}

func TestVision_MaskFromDetections(t *testing.T) {
	assert := assert.New(t)

	dets := []pigo.Detection{
		{Row: 50, Col: 100, Scale: 40, Q: 9},
		{Row: 20, Col: 20, Scale: 30, Q: 1}, // below the score threshold
	}
	mask := maskFromDetections(dets, 200, 150, 5, 2.4)

	assert.Equal(imop.MaskOn, mask.GrayAt(100, 50).Y)
	// torso block below the face reaching the bottom edge
	assert.Equal(imop.MaskOn, mask.GrayAt(100, 149).Y)
	assert.Equal(imop.MaskOn, mask.GrayAt(60, 120).Y)
	assert.Equal(imop.MaskOff, mask.GrayAt(20, 20).Y)
	assert.Equal(imop.MaskOff, mask.GrayAt(100, 5).Y)
	assert.Equal(imop.MaskOff, mask.GrayAt(180, 120).Y)

	empty := maskFromDetections(nil, 20, 20, 5, 2.4)
	assert.Zero(imop.Count(empty))
}

func TestVision_Threshold(t *testing.T) {
	prob := image.NewGray(image.Rect(0, 0, 3, 1))
	prob.Pix = []uint8{100, 158, 159}
	assert.Equal(t, []uint8{0, 0, 255}, Threshold(prob, 158).Pix)
}

func TestVision_Resize(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 2, 2))
	m.SetGray(1, 1, color.Gray{Y: imop.MaskOn})

	up := Resize(m, 8, 8)
	assert.Equal(t, image.Rect(0, 0, 8, 8), up.Bounds())
	assert.Equal(t, 16, imop.Count(up))
	assert.Equal(t, imop.MaskOn, up.GrayAt(7, 7).Y)
	assert.Equal(t, imop.MaskOff, up.GrayAt(0, 0).Y)
	assert.Same(t, m, Resize(m, 2, 2))
}

func TestVision_BadCascade(t *testing.T) {
	_, err := LoadFaceMasker("testdata/missing")
	assert.Error(t, err)
}
