package background

import (
	"image"
	"image/draw"
	"image/gif"
	"os"
	"path/filepath"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/esimov/inkboard/utils"
)

// Document is a paginated background source.
type Document interface {
	PageCount() int
	Page(i int) (image.Image, error)
	Close() error
}

// DirDocument exposes the images of a directory as pages, sorted by file name.
type DirDocument struct {
	paths []string
}

// OpenDir lists the supported image files of dir.
func OpenDir(dir string) (*DirDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read the document directory %q", dir)
	}
	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && utils.IsImageFile(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("no pages found in %q", dir)
	}
	sort.Strings(paths)
	return &DirDocument{paths: paths}, nil
}

// PageCount returns the number of pages.
func (d *DirDocument) PageCount() int { return len(d.paths) }

// Page decodes page i.
func (d *DirDocument) Page(i int) (image.Image, error) {
	if i < 0 || i >= len(d.paths) {
		return nil, errors.Errorf("page %d out of range [0, %d)", i, len(d.paths))
	}
	img, err := imaging.Open(d.paths[i])
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode page %d", i)
	}
	return img, nil
}

// Close releases the document.
func (d *DirDocument) Close() error { return nil }

// GIFDocument exposes the frames of an animated GIF as pages.
// Frames are accumulated according to their disposal method, so each
// page shows the full picture.
type GIFDocument struct {
	pages []*image.NRGBA
}

// OpenGIF decodes every frame of the GIF file at path.
func OpenGIF(path string) (*GIFDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open the document")
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode the document")
	}
	if len(g.Image) == 0 {
		return nil, errors.Errorf("document %q has no frames", path)
	}

	rect := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if rect.Empty() {
		rect = g.Image[0].Bounds()
	}
	canvas := image.NewNRGBA(rect)
	pages := make([]*image.NRGBA, 0, len(g.Image))
	for i, frame := range g.Image {
		var prev *image.NRGBA
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			prev = imaging.Clone(canvas)
		}
		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		pages = append(pages, imaging.Clone(canvas))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = prev
		}
	}
	return &GIFDocument{pages: pages}, nil
}

// PageCount returns the number of frames.
func (d *GIFDocument) PageCount() int { return len(d.pages) }

// Page returns frame i.
func (d *GIFDocument) Page(i int) (image.Image, error) {
	if i < 0 || i >= len(d.pages) {
		return nil, errors.Errorf("page %d out of range [0, %d)", i, len(d.pages))
	}
	return d.pages[i], nil
}

// Close releases the decoded frames.
func (d *GIFDocument) Close() error {
	d.pages = nil
	return nil
}
