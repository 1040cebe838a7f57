package inkboard

import (
	"fmt"
	"image/color"

	"github.com/esimov/inkboard/utils"
)

// Pen colours selectable by name.
var (
	White  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Red    = color.NRGBA{R: 0xff, A: 0xff}
	Green  = color.NRGBA{G: 0xff, A: 0xff}
	Blue   = color.NRGBA{B: 0xff, A: 0xff}
	Yellow = color.NRGBA{R: 0xff, G: 0xff, A: 0xff}
)

var penPalette = []struct {
	name string
	c    color.NRGBA
}{
	{"white", White},
	{"red", Red},
	{"green", Green},
	{"blue", Blue},
	{"yellow", Yellow},
}

// Preset is a named pen colour and thickness pair.
type Preset struct {
	Name      string
	Color     color.NRGBA
	Thickness int
}

// Presets are addressed from 1.
var Presets = []Preset{
	{"chalk", White, 6},
	{"red marker", Red, 10},
	{"green marker", Green, 12},
	{"blue marker", Blue, 12},
	{"highlighter", Yellow, 18},
}

// HelpLines lists the interactive shortcuts.
var HelpLines = []string{
	"Shortcuts:",
	"  w/r/g/b/y  : pen color (white/red/green/blue/yellow)",
	"  +/-        : pen thickness up/down",
	"  1..5       : presets",
	"  p          : snapshot (PNG)",
	"  h          : toggle help",
	"  s          : toggle shape mode",
	"  c          : clear canvas",
	"  a/d <-/->  : prev/next page",
	"  up/down    : zoom in/out",
	"  x          : solid background",
	"  z          : toggle picture in picture",
	"  t / u      : toggle tracking / user mask",
	"  esc        : quit",
}

// ColorByName returns the palette colour called name or, failing that, parses name as a hex colour.
func ColorByName(name string) (color.NRGBA, error) {
	for _, p := range penPalette {
		if p.name == name {
			return p.c, nil
		}
	}
	return utils.ParseHexColor(name)
}

// PenName returns the palette name of c or its hex notation.
func PenName(c color.NRGBA) string {
	for _, p := range penPalette {
		if p.c == c {
			return p.name
		}
	}
	return utils.HexColor(c)
}

// PresetAt returns the preset numbered n, starting from 1.
func PresetAt(n int) (Preset, error) {
	if n < 1 || n > len(Presets) {
		return Preset{}, fmt.Errorf("preset %d does not exist", n)
	}
	return Presets[n-1], nil
}
