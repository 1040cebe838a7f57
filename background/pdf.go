//go:build fitz

package background

import (
	"image"

	"github.com/gen2brain/go-fitz"
	"github.com/pkg/errors"
)

// PDFDPI is the resolution PDF pages are rasterised at before being fitted to the frame.
const PDFDPI = 150

// PDFDocument renders the pages of a PDF file through MuPDF.
type PDFDocument struct {
	doc *fitz.Document
	dpi float64
}

// OpenPDF opens the PDF file at path.
func OpenPDF(path string) (Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open the PDF %q", path)
	}
	if doc.NumPage() == 0 {
		doc.Close()
		return nil, errors.Errorf("PDF %q has no pages", path)
	}
	return &PDFDocument{doc: doc, dpi: PDFDPI}, nil
}

// PageCount returns the number of pages.
func (d *PDFDocument) PageCount() int { return d.doc.NumPage() }

// Page rasterises page i.
func (d *PDFDocument) Page(i int) (image.Image, error) {
	if i < 0 || i >= d.doc.NumPage() {
		return nil, errors.Errorf("page %d out of range [0, %d)", i, d.doc.NumPage())
	}
	img, err := d.doc.ImageDPI(i, d.dpi)
	if err != nil {
		return nil, errors.Wrapf(err, "could not render page %d", i)
	}
	return img, nil
}

// Close releases the MuPDF document.
func (d *PDFDocument) Close() error {
	return d.doc.Close()
}
