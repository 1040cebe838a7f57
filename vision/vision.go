// Package vision produces the binary foreground masks consumed by the compositor.
//
// The masks are an approximation of a body segmentation: every detected face
// is covered by a head disk and a torso block reaching the bottom of the frame.
package vision

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/disintegration/imaging"
	pigo "github.com/esimov/pigo/core"

	"github.com/esimov/inkboard/imop"
	"github.com/esimov/inkboard/internal/logger"
)

// procWidth is the frame width the detector runs at.
const procWidth = 640

// FaceMasker builds foreground masks from pigo face detections.
type FaceMasker struct {
	classifier *pigo.Pigo

	MinSize     int
	ShiftFactor float64
	ScaleFactor float64
	Angle       float64
	// MinScore is the minimum detection quality kept.
	MinScore float32
	// IoU is the intersection over union threshold used for clustering.
	IoU float64
	// TorsoWidth is the torso width as a multiple of the face size.
	TorsoWidth float64
}

// NewFaceMasker unpacks the cascade classifier.
func NewFaceMasker(cascade []byte) (*FaceMasker, error) {
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("error unpacking the cascade file: %v", err)
	}
	return &FaceMasker{
		classifier:  classifier,
		MinSize:     40,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		MinScore:    5.0,
		IoU:         0.2,
		TorsoWidth:  2.4,
	}, nil
}

// LoadFaceMasker reads the cascade classifier from path.
func LoadFaceMasker(path string) (*FaceMasker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read the cascade file: %v", err)
	}
	return NewFaceMasker(data)
}

// Detect returns the clustered face detections of img in img coordinates.
func (f *FaceMasker) Detect(img *image.NRGBA) []pigo.Detection {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil
	}
	scale := 1.0
	src := img
	if w > procWidth {
		src = imaging.Resize(img, procWidth, 0, imaging.Linear)
		scale = float64(w) / float64(src.Bounds().Dx())
	}
	dx, dy := src.Bounds().Dx(), src.Bounds().Dy()

	cParams := pigo.CascadeParams{
		MinSize:     f.MinSize,
		MaxSize:     max(dx, dy),
		ShiftFactor: f.ShiftFactor,
		ScaleFactor: f.ScaleFactor,

		ImageParams: pigo.ImageParams{
			Pixels: rgbToGrayscale(src),
			Rows:   dy,
			Cols:   dx,
			Dim:    dx,
		},
	}
	dets := f.classifier.RunCascade(cParams, f.Angle)
	dets = f.classifier.ClusterDetections(dets, f.IoU)

	for i := range dets {
		dets[i].Row = int(float64(dets[i].Row) * scale)
		dets[i].Col = int(float64(dets[i].Col) * scale)
		dets[i].Scale = int(float64(dets[i].Scale) * scale)
	}
	return dets
}

// Mask returns the foreground mask of img. An empty mask means nobody was detected.
func (f *FaceMasker) Mask(img *image.NRGBA) *image.Gray {
	dets := f.Detect(img)
	logger.L().Debug("faces detected", "count", len(dets))
	return maskFromDetections(dets, img.Bounds().Dx(), img.Bounds().Dy(), f.MinScore, f.TorsoWidth)
}

// maskFromDetections paints a head disk and a torso block for every
// detection scoring at least minScore.
func maskFromDetections(dets []pigo.Detection, w, h int, minScore float32, torso float64) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, w, h))
	on := color.Gray{Y: imop.MaskOn}

	for _, d := range dets {
		if d.Q < minScore || d.Scale <= 0 {
			continue
		}
		r := int(float64(d.Scale) * 0.6)
		imop.Disk(mask, image.Pt(d.Col, d.Row), r, on)

		half := int(float64(d.Scale) * torso / 2)
		body := image.Rect(d.Col-half, d.Row+d.Scale/2, d.Col+half, h)
		draw.Draw(mask, body.Intersect(mask.Rect), &image.Uniform{on}, image.Point{}, draw.Src)
	}
	return mask
}

// Threshold converts a probability map to a binary mask: values above level are set.
func Threshold(prob *image.Gray, level uint8) *image.Gray {
	dx, dy := prob.Rect.Dx(), prob.Rect.Dy()
	mask := image.NewGray(image.Rect(0, 0, dx, dy))
	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			if prob.Pix[y*prob.Stride+x] > level {
				mask.Pix[y*mask.Stride+x] = imop.MaskOn
			}
		}
	}
	return mask
}

// Resize scales a mask to w x h with nearest neighbour sampling, keeping it binary.
func Resize(mask *image.Gray, w, h int) *image.Gray {
	if mask.Rect.Dx() == w && mask.Rect.Dy() == h {
		return mask
	}
	scaled := imaging.Resize(mask, w, h, imaging.NearestNeighbor)
	out := image.NewGray(image.Rect(0, 0, w, h))
	for i := range out.Pix {
		if scaled.Pix[i*4] > 0x7f {
			out.Pix[i] = imop.MaskOn
		}
	}
	return out
}
