package capture

import (
	"image"
	"image/color"
	"io"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapture_DirSource(t *testing.T) {
	dir := t.TempDir()
	for i, c := range []color.NRGBA{{R: 255, A: 255}, {G: 255, A: 255}} {
		img := imaging.New(4, 2, c)
		img.SetNRGBA(0, 0, color.NRGBA{B: 255, A: 255})
		require.NoError(t, imaging.Save(img, filepath.Join(dir, string(rune('a'+i))+".png")))
	}

	src, err := NewDirSource(dir, 0, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 2, src.Len())

	f, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, f.NRGBAAt(0, 0))
	// mirrored horizontally
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, f.NRGBAAt(3, 0))

	f, err = src.Next()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, f.NRGBAAt(1, 1))

	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
	assert.NoError(t, src.Close())
}

func TestCapture_DirSourceResize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, imaging.Save(imaging.New(4, 4, color.NRGBA{R: 9, A: 255}), filepath.Join(dir, "f.png")))

	src, err := NewDirSource(dir, 8, 6, false)
	require.NoError(t, err)
	f, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, 8, f.Bounds().Dx())
	assert.Equal(t, 6, f.Bounds().Dy())
}

func TestCapture_MaskDir(t *testing.T) {
	dir := t.TempDir()
	img := imaging.New(4, 4, color.NRGBA{A: 255})
	img.SetNRGBA(2, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	require.NoError(t, imaging.Save(img, filepath.Join(dir, "m0.png")))

	masks, err := NewMaskDir(dir, 0, 0, false)
	require.NoError(t, err)

	m, err := masks.Next()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xff), m.GrayAt(2, 1).Y)
	assert.Equal(t, uint8(0), m.GrayAt(0, 0).Y)

	_, err = masks.Next()
	assert.Equal(t, io.EOF, err)
}

func TestCapture_MaskDirResizedMirrored(t *testing.T) {
	dir := t.TempDir()
	img := imaging.New(2, 2, color.NRGBA{A: 255})
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	require.NoError(t, imaging.Save(img, filepath.Join(dir, "m0.png")))

	masks, err := NewMaskDir(dir, 4, 4, true)
	require.NoError(t, err)
	m, err := masks.Next()
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 4, 4), m.Rect)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := uint8(0)
			if x >= 2 && y < 2 {
				want = 0xff
			}
			assert.Equal(t, want, m.GrayAt(x, y).Y, "(%d,%d)", x, y)
		}
	}
}

func TestCapture_EmptyDir(t *testing.T) {
	_, err := NewDirSource(t.TempDir(), 0, 0, false)
	assert.Error(t, err)
	_, err = NewMaskDir(filepath.Join(t.TempDir(), "missing"), 0, 0, false)
	assert.Error(t, err)
}
