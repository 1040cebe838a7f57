// Package background provides the logical background bitmap of the board:
// a solid colour, a single image or one page of a paginated document.
// Every source is fitted to the frame size.
package background

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/esimov/inkboard/imop"
	"github.com/esimov/inkboard/internal/logger"
)

// Kind identifies the active background source.
type Kind int

// Background source kinds.
const (
	Solid Kind = iota
	Image
	Paged
)

func (k Kind) String() string {
	switch k {
	case Image:
		return "image"
	case Paged:
		return "document"
	}
	return "solid"
}

// Manager holds the active background source and its current page.
// Failures never leave the manager without a usable bitmap: they are
// recorded in LastError and the previous state is kept.
type Manager struct {
	width, height int

	kind   Kind
	solid  color.NRGBA
	base   *image.NRGBA
	doc    Document
	page   int
	source string

	lastErr error
}

// NewManager returns a manager with a solid black background of w x h pixels.
func NewManager(w, h int) *Manager {
	m := &Manager{width: w, height: h}
	m.SetSolid(color.NRGBA{A: 0xff})
	return m
}

// Kind returns the active source kind.
func (m *Manager) Kind() Kind { return m.kind }

// Source returns the path of the active source, empty for a solid background.
func (m *Manager) Source() string { return m.source }

// Base returns the fitted bitmap of the current page.
func (m *Manager) Base() *image.NRGBA { return m.base }

// PageIndex returns the current page, always 0 unless a document is active.
func (m *Manager) PageIndex() int { return m.page }

// PageCount returns the number of pages of the active document, 1 otherwise.
func (m *Manager) PageCount() int {
	if m.doc == nil {
		return 1
	}
	return m.doc.PageCount()
}

// LastError returns the error of the last failed operation, cleared by the next source change.
func (m *Manager) LastError() error { return m.lastErr }

// SetSolid switches to a solid colour background.
func (m *Manager) SetSolid(c color.NRGBA) {
	m.closeDoc()
	c.A = 0xff
	m.kind = Solid
	m.solid = c
	m.source = ""
	m.page = 0
	m.lastErr = nil
	m.base = imop.NewFrame(image.Rect(0, 0, m.width, m.height), c)
}

// SetSource selects the background from path. An empty path or "none" reverts
// to the solid colour. Directories, GIF and PDF files are opened as documents,
// other image files as a single image. On failure the error is returned and
// also kept as LastError.
func (m *Manager) SetSource(path string) error {
	if path == "" || strings.EqualFold(path, "none") {
		m.SetSolid(m.solid)
		logger.L().Info("background reverted to solid colour")
		return nil
	}

	fi, err := os.Stat(path)
	if err != nil {
		return m.fail(errors.Wrapf(err, "could not open the background %q", path), true)
	}

	var doc Document
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case fi.IsDir():
		doc, err = OpenDir(path)
	case ext == ".gif":
		doc, err = OpenGIF(path)
	case ext == ".pdf":
		doc, err = OpenPDF(path)
	case ext == ".png" || ext == ".jpg" || ext == ".jpeg" || ext == ".bmp":
		img, err := imaging.Open(path)
		if err != nil {
			return m.fail(errors.Wrapf(err, "failed to load the image %q", path), true)
		}
		m.closeDoc()
		m.kind = Image
		m.source = path
		m.page = 0
		m.lastErr = nil
		m.base = m.fit(img)
		logger.L().Info("background image loaded", "path", path)
		return nil
	default:
		return m.fail(fmt.Errorf("unsupported background format %q", ext), false)
	}
	if err != nil {
		return m.fail(err, true)
	}

	first, err := doc.Page(0)
	if err != nil {
		doc.Close()
		return m.fail(err, true)
	}
	m.closeDoc()
	m.kind = Paged
	m.doc = doc
	m.source = path
	m.page = 0
	m.lastErr = nil
	m.base = m.fit(first)
	logger.L().Info("background document loaded", "path", path, "pages", doc.PageCount())
	return nil
}

// SetPage renders page i of the active document. Out of range or unreadable
// pages keep the current bitmap and page index. It reports whether the page changed.
func (m *Manager) SetPage(i int) bool {
	if m.doc == nil || i == m.page {
		return false
	}
	if i < 0 || i >= m.doc.PageCount() {
		m.lastErr = fmt.Errorf("page %d does not exist", i+1)
		logger.L().Debug("page request ignored", "page", i, "pages", m.doc.PageCount())
		return false
	}
	img, err := m.doc.Page(i)
	if err != nil {
		m.lastErr = err
		logger.L().Warn("page could not be rendered", "page", i, "error", err)
		return false
	}
	m.page = i
	m.lastErr = nil
	m.base = m.fit(img)
	return true
}

// Next moves to the following page, if any.
func (m *Manager) Next() bool {
	if m.doc == nil || m.page >= m.doc.PageCount()-1 {
		return false
	}
	return m.SetPage(m.page + 1)
}

// Prev moves to the preceding page, if any.
func (m *Manager) Prev() bool {
	if m.doc == nil || m.page <= 0 {
		return false
	}
	return m.SetPage(m.page - 1)
}

// Close releases the active document.
func (m *Manager) Close() error {
	return m.closeDoc()
}

func (m *Manager) closeDoc() error {
	if m.doc == nil {
		return nil
	}
	err := m.doc.Close()
	m.doc = nil
	return err
}

// fail records err. With fallback set the manager reverts to the solid colour,
// otherwise the current source is kept.
func (m *Manager) fail(err error, fallback bool) error {
	logger.L().Warn("background source failed", "error", err)
	if fallback {
		m.SetSolid(m.solid)
	}
	m.lastErr = err
	return err
}

// fit stretches img to the frame size and flattens it over black.
func (m *Manager) fit(img image.Image) *image.NRGBA {
	dst := imop.NewFrame(image.Rect(0, 0, m.width, m.height), color.NRGBA{A: 0xff})
	b := img.Bounds()
	var src image.Image = img
	if b.Dx() != m.width || b.Dy() != m.height {
		src = imaging.Resize(img, m.width, m.height, imaging.Lanczos)
	}
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
	return dst
}
