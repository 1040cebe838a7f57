// Package capture provides the frame sources feeding the board: image
// sequences on disk and, with the gocv build tag, a webcam.
package capture

import (
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/esimov/inkboard/utils"
	"github.com/esimov/inkboard/vision"
)

// Source yields camera frames. Next returns io.EOF once the source is exhausted.
type Source interface {
	Next() (*image.NRGBA, error)
	Close() error
}

// DirSource reads the images of a directory in file name order.
type DirSource struct {
	paths  []string
	pos    int
	width  int
	height int
	mirror bool
}

// NewDirSource lists the supported images of dir. Frames are resized to
// w x h when both are positive and flipped horizontally when mirror is set.
func NewDirSource(dir string, w, h int, mirror bool) (*DirSource, error) {
	paths, err := listImages(dir)
	if err != nil {
		return nil, err
	}
	return &DirSource{paths: paths, width: w, height: h, mirror: mirror}, nil
}

// Len returns the number of frames.
func (s *DirSource) Len() int { return len(s.paths) }

// Next decodes the following frame.
func (s *DirSource) Next() (*image.NRGBA, error) {
	if s.pos >= len(s.paths) {
		return nil, io.EOF
	}
	path := s.paths[s.pos]
	s.pos++

	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode the frame %q", path)
	}
	return normalize(img, s.width, s.height, s.mirror), nil
}

// Close releases the source.
func (s *DirSource) Close() error {
	s.pos = len(s.paths)
	return nil
}

// MaskDir reads foreground masks stored as images, one per frame.
type MaskDir struct {
	paths  []string
	pos    int
	width  int
	height int
	mirror bool
}

// NewMaskDir lists the mask images of dir.
func NewMaskDir(dir string, w, h int, mirror bool) (*MaskDir, error) {
	paths, err := listImages(dir)
	if err != nil {
		return nil, err
	}
	return &MaskDir{paths: paths, width: w, height: h, mirror: mirror}, nil
}

// Next returns the following mask. Pixels brighter than mid gray are foreground.
// Once every mask is consumed it returns nil and io.EOF.
func (m *MaskDir) Next() (*image.Gray, error) {
	if m.pos >= len(m.paths) {
		return nil, io.EOF
	}
	path := m.paths[m.pos]
	m.pos++

	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode the mask %q", path)
	}
	// threshold at the source resolution, then scale keeping the mask binary
	src := normalize(img, 0, 0, m.mirror)
	gray := image.NewGray(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
	for i := range gray.Pix {
		px := src.Pix[i*4 : i*4+3]
		gray.Pix[i] = uint8((299*int(px[0]) + 587*int(px[1]) + 114*int(px[2])) / 1000)
	}
	mask := vision.Threshold(gray, 0x7f)
	if m.width > 0 && m.height > 0 {
		mask = vision.Resize(mask, m.width, m.height)
	}
	return mask, nil
}

func normalize(img image.Image, w, h int, mirror bool) *image.NRGBA {
	var dst *image.NRGBA
	b := img.Bounds()
	if w > 0 && h > 0 && (b.Dx() != w || b.Dy() != h) {
		dst = imaging.Resize(img, w, h, imaging.Linear)
	} else {
		dst = imaging.Clone(img)
	}
	if mirror {
		dst = imaging.FlipH(dst)
	}
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read the directory %q", dir)
	}
	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && utils.IsImageFile(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("no images found in %q", dir)
	}
	sort.Strings(paths)
	return paths, nil
}
