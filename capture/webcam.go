//go:build gocv

package capture

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Webcam reads frames from a video capture device.
type Webcam struct {
	dev    *gocv.VideoCapture
	mat    gocv.Mat
	width  int
	height int
	mirror bool
}

// OpenWebcam opens the capture device id and requests a w x h resolution.
func OpenWebcam(id, w, h int, mirror bool) (*Webcam, error) {
	dev, err := gocv.OpenVideoCapture(id)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open the camera %d", id)
	}
	dev.Set(gocv.VideoCaptureFrameWidth, float64(w))
	dev.Set(gocv.VideoCaptureFrameHeight, float64(h))

	return &Webcam{
		dev:    dev,
		mat:    gocv.NewMat(),
		width:  w,
		height: h,
		mirror: mirror,
	}, nil
}

// Next grabs the following frame.
func (c *Webcam) Next() (*image.NRGBA, error) {
	if ok := c.dev.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, errors.New("could not read a frame from the camera")
	}
	img, err := c.mat.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "could not convert the camera frame")
	}
	return normalize(img, c.width, c.height, c.mirror), nil
}

// Close releases the device.
func (c *Webcam) Close() error {
	c.mat.Close()
	return c.dev.Close()
}
