package inkboard

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/esimov/inkboard/shape"
	"github.com/esimov/inkboard/utils"
)

// Thickness limits accepted by the set thickness command.
const (
	MinThickness = 1
	MaxThickness = 60
)

// Options holds the board configuration. Every field maps to a TOML key.
type Options struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`

	InkColor        string `toml:"ink_color"`
	InkThickness    int    `toml:"ink_thickness"`
	EraserThickness int    `toml:"eraser_thickness"`
	ShapeMode       bool   `toml:"shape_mode"`

	// Background is an image file, an image directory or a GIF document.
	// Empty means a solid black background.
	Background string `toml:"background"`

	PIP       bool    `toml:"pip"`
	PIPHeight float64 `toml:"pip_height"`
	PIPMargin int     `toml:"pip_margin"`
	HUD       bool    `toml:"hud"`
	Help      bool    `toml:"help"`

	Shape shape.Config `toml:"shape"`
}

// DefaultOptions returns the default board configuration.
func DefaultOptions() Options {
	return Options{
		Width:           1280,
		Height:          720,
		InkColor:        "#ffffff",
		InkThickness:    8,
		EraserThickness: 100,
		PIPHeight:       0.25,
		PIPMargin:       20,
		Shape:           shape.DefaultConfig(),
	}
}

// LoadOptions decodes the TOML file at path over the default options.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return opts, fmt.Errorf("could not decode the config file: %w", err)
	}
	return opts, opts.Validate()
}

// SaveOptions writes the options as TOML to path.
func SaveOptions(path string, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create the config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(opts); err != nil {
		return fmt.Errorf("could not encode the config file: %w", err)
	}
	return f.Close()
}

// Validate reports the first invalid setting.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", o.Width, o.Height)
	}
	if _, err := utils.ParseHexColor(o.InkColor); err != nil {
		return err
	}
	if o.InkThickness < MinThickness || o.InkThickness > MaxThickness {
		return fmt.Errorf("ink thickness %d out of range [%d, %d]", o.InkThickness, MinThickness, MaxThickness)
	}
	if o.EraserThickness < 1 {
		return fmt.Errorf("invalid eraser thickness %d", o.EraserThickness)
	}
	if o.PIPHeight <= 0 || o.PIPHeight > 1 {
		return fmt.Errorf("pip height ratio %v out of range (0, 1]", o.PIPHeight)
	}
	if o.Shape.HistoryLen <= 0 || o.Shape.Epsilon <= 0 || o.Shape.MinAspect > o.Shape.MaxAspect {
		return fmt.Errorf("invalid shape settings %+v", o.Shape)
	}
	return nil
}
