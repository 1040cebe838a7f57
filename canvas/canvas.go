// Package canvas owns the per page ink bitmaps.
//
// An ink bitmap is an opaque RGB image of the output frame size. The reserved
// BackgroundColor marks a pixel with no ink. Any other colour is ink, so callers
// must never paint ink with BackgroundColor: doing so is indistinguishable from erasing.
package canvas

import (
	"image"
	"image/color"
	"sort"

	"github.com/esimov/inkboard/imop"
	"github.com/esimov/inkboard/internal/logger"
)

// BackgroundColor is the colour key which denotes an empty ink pixel.
var BackgroundColor = color.NRGBA{R: 0, G: 0, B: 0, A: 0xff}

// NewInk returns a blank ink bitmap of the given size.
func NewInk(w, h int) *image.NRGBA {
	return imop.NewFrame(image.Rect(0, 0, w, h), BackgroundColor)
}

// IsBackground reports whether c is the empty colour key. Alpha is ignored.
func IsBackground(c color.NRGBA) bool {
	return c.R == BackgroundColor.R && c.G == BackgroundColor.G && c.B == BackgroundColor.B
}

// Store maps page indices to their ink bitmaps. It is the only owner of the
// bitmaps: the pointer returned by Active is valid for mutation until the
// next page switch or ResetAll.
type Store struct {
	width, height int
	pages         map[int]*image.NRGBA
	active        int
}

// NewStore returns a store producing bitmaps of w x h pixels with page 0 active.
func NewStore(w, h int) *Store {
	s := &Store{width: w, height: h}
	s.ResetAll()
	return s
}

// Size returns the bitmap dimensions.
func (s *Store) Size() (int, int) {
	return s.width, s.height
}

// Active makes page the active one and returns its bitmap, allocating a blank
// bitmap on the first visit. The bitmaps of the other pages are preserved.
func (s *Store) Active(page int) *image.NRGBA {
	if page < 0 {
		page = s.active
	}
	ink, ok := s.pages[page]
	if !ok {
		ink = NewInk(s.width, s.height)
		s.pages[page] = ink
		logger.L().Debug("canvas page created", "page", page)
	}
	if page != s.active {
		logger.L().Debug("canvas page switched", "from", s.active, "to", page)
	}
	s.active = page
	return ink
}

// Current returns the bitmap of the active page.
func (s *Store) Current() *image.NRGBA {
	return s.Active(s.active)
}

// ActivePage returns the index of the active page.
func (s *Store) ActivePage() int {
	return s.active
}

// Page returns the bitmap stored for page without changing the active page.
func (s *Store) Page(page int) (*image.NRGBA, bool) {
	ink, ok := s.pages[page]
	return ink, ok
}

// Pages returns the sorted indices of the allocated pages.
func (s *Store) Pages() []int {
	idx := make([]int, 0, len(s.pages))
	for p := range s.pages {
		idx = append(idx, p)
	}
	sort.Ints(idx)
	return idx
}

// ClearActive fills the active bitmap with the background colour in place.
func (s *Store) ClearActive() {
	imop.Fill(s.Current(), BackgroundColor)
}

// ResetAll discards every bitmap and starts over on a blank page 0.
func (s *Store) ResetAll() {
	s.pages = make(map[int]*image.NRGBA)
	s.active = 0
	s.pages[0] = NewInk(s.width, s.height)
}
