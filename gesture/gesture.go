// Package gesture defines the per-frame gesture classification consumed by the board.
// The classification itself is produced by an external hand tracker.
package gesture

import (
	"fmt"
	"image"
)

// Mode is the gesture classification reported for a frame.
type Mode string

// Gesture modes reported by the hand tracker.
const (
	None  Mode = "none"
	Move  Mode = "move"
	Draw  Mode = "draw"
	Erase Mode = "erase"
)

// NoPoint is the sentinel anchor reported when no hand is detected.
var NoPoint = image.Point{X: -1, Y: -1}

// State is one gesture sample: the classification plus its anchor in frame coordinates.
type State struct {
	Mode   Mode
	Anchor image.Point
}

// NewState returns a gesture sample. The anchor is replaced with NoPoint for the None mode.
func NewState(m Mode, anchor image.Point) State {
	if m == None {
		anchor = NoPoint
	}
	return State{Mode: m, Anchor: anchor}
}

// HasPoint reports whether the sample carries a usable anchor.
func (s State) HasPoint() bool {
	return s.Anchor != NoPoint
}

// ParseMode converts a textual classification to a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case None, Move, Draw, Erase:
		return m, nil
	}
	return None, fmt.Errorf("unknown gesture mode %q", s)
}

// EndsStroke reports whether switching from draw to m terminates a stroke session.
func EndsStroke(m Mode) bool {
	return m == Move || m == None || m == Erase
}
