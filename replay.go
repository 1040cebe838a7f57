package inkboard

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/esimov/inkboard/gesture"
	"github.com/esimov/inkboard/view"
	"github.com/esimov/inkboard/viewport"
)

// Command is a board command issued by a script line or by the preview window.
type Command struct {
	Name string
	Args []string
	// Line is the script line the command was read from, 0 for interactive commands.
	Line int
	// Pointer is the event carried by the "pointer" command.
	Pointer viewport.Event
}

// Commands handled by the caller rather than by Apply.
const (
	CmdSnapshot = "snapshot"
	CmdQuit     = "quit"
)

// Tick is one frame of a script: the commands to run first, then the gesture sample.
type Tick struct {
	Commands []Command
	Gesture  gesture.State
}

// Script is a parsed gesture replay.
//
// Every gesture line is one tick:
//
//	draw X Y | erase X Y | move X Y | move | none
//
// Lines starting with ! are commands applied before the next tick, # starts a comment.
type Script struct {
	Ticks []Tick
	// Tail holds the commands following the last gesture line.
	Tail []Command
}

// LoadScript parses the script file at path.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open the script: %w", err)
	}
	defer f.Close()

	return ParseScript(f)
}

// ParseScript parses a replay script.
func ParseScript(r io.Reader) (*Script, error) {
	var (
		s       Script
		pending []Command
		line    int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "!") {
			cmd, err := ParseCommand(text[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			cmd.Line = line
			pending = append(pending, cmd)
			continue
		}

		g, err := parseGesture(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		s.Ticks = append(s.Ticks, Tick{Commands: pending, Gesture: g})
		pending = nil
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("could not read the script: %w", err)
	}
	s.Tail = pending
	return &s, nil
}

// Len returns the number of ticks.
func (s *Script) Len() int { return len(s.Ticks) }

// Tick returns tick i. Past the end of the script every tick is an idle one.
func (s *Script) Tick(i int) Tick {
	if i < 0 || i >= len(s.Ticks) {
		return Tick{Gesture: gesture.NewState(gesture.None, gesture.NoPoint)}
	}
	return s.Ticks[i]
}

func parseGesture(text string) (gesture.State, error) {
	f := strings.Fields(text)
	mode, err := gesture.ParseMode(f[0])
	if err != nil {
		return gesture.State{}, err
	}
	switch {
	case mode == gesture.None || (mode == gesture.Move && len(f) == 1):
		return gesture.NewState(mode, gesture.NoPoint), nil
	case len(f) != 3:
		return gesture.State{}, fmt.Errorf("%s expects X Y coordinates", mode)
	}
	x, err := strconv.Atoi(f[1])
	if err != nil {
		return gesture.State{}, fmt.Errorf("invalid x coordinate %q", f[1])
	}
	y, err := strconv.Atoi(f[2])
	if err != nil {
		return gesture.State{}, fmt.Errorf("invalid y coordinate %q", f[2])
	}
	return gesture.NewState(mode, image.Pt(x, y)), nil
}

// arity lists the accepted argument counts of each command.
var arity = map[string][2]int{
	"clear":     {0, 0},
	"page":      {1, 1},
	"next":      {0, 0},
	"prev":      {0, 0},
	"shape":     {0, 1},
	"color":     {1, 1},
	"thickness": {1, 1},
	"preset":    {1, 1},
	"bg":        {1, 1},
	"zoom":      {1, 1},
	"reset":     {0, 0},
	"pip":       {0, 1},
	"hud":       {0, 1},
	"help":      {0, 0},
	"draw":      {0, 1},
	"mask":      {0, 1},
	"pointer":   {0, 0},
	CmdSnapshot: {0, 0},
	CmdQuit:     {0, 0},
}

// ParseCommand parses a command line without its leading "!".
func ParseCommand(text string) (Command, error) {
	f := strings.Fields(text)
	if len(f) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	cmd := Command{Name: strings.ToLower(f[0]), Args: f[1:]}
	n, ok := arity[cmd.Name]
	if !ok {
		return Command{}, fmt.Errorf("unknown command %q", cmd.Name)
	}
	if len(cmd.Args) < n[0] || len(cmd.Args) > n[1] {
		return Command{}, fmt.Errorf("%s: unexpected number of arguments %d", cmd.Name, len(cmd.Args))
	}
	return cmd, nil
}

func (c Command) String() string {
	return strings.TrimSpace("!" + c.Name + " " + strings.Join(c.Args, " "))
}

func (c Command) arg() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// Apply runs the command on the board and the presenter. Snapshot and quit
// are left to the caller. Page numbers are counted from 1.
func (c Command) Apply(b *Board, p *view.Presenter) error {
	switch c.Name {
	case "clear":
		b.Clear()
	case "page":
		n, err := strconv.Atoi(c.arg())
		if err != nil {
			return fmt.Errorf("page: invalid page %q", c.arg())
		}
		b.SwitchPage(n - 1)
	case "next":
		b.NextPage()
	case "prev":
		b.PrevPage()
	case "shape":
		if len(c.Args) == 0 {
			b.ToggleShapeMode()
			return nil
		}
		on, err := parseSwitch(c.arg())
		if err != nil {
			return err
		}
		b.SetShapeMode(on)
	case "color":
		col, err := ColorByName(strings.ToLower(c.arg()))
		if err != nil {
			return err
		}
		b.SetInkColor(col)
	case "thickness":
		arg := c.arg()
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("thickness: invalid value %q", arg)
		}
		if strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-") {
			b.AdjustThickness(n)
			return nil
		}
		b.SetInkThickness(n)
	case "preset":
		n, err := strconv.Atoi(c.arg())
		if err != nil {
			return fmt.Errorf("preset: invalid preset %q", c.arg())
		}
		return b.ApplyPreset(n)
	case "bg":
		// failures are kept as the background error shown by the HUD
		if err := b.SetBackgroundSource(c.arg()); err != nil {
			b.SetMessage("Background: failed")
		}
	case "zoom":
		switch c.arg() {
		case "in":
			b.ZoomIn()
		case "out":
			b.ZoomOut()
		default:
			return fmt.Errorf("zoom: expected in or out, got %q", c.arg())
		}
	case "reset":
		b.ResetViewport()
	case "pip":
		if len(c.Args) == 0 {
			p.Toggle()
			return nil
		}
		on, err := parseSwitch(c.arg())
		if err != nil {
			return err
		}
		if on {
			p.SetMode(view.PIP)
		} else {
			p.SetMode(view.Normal)
		}
	case "hud":
		on, err := toggle(p.HUD, c.Args)
		if err != nil {
			return err
		}
		p.HUD = on
	case "help":
		b.ToggleHelp()
	case "draw":
		on, err := toggle(b.DrawingEnabled(), c.Args)
		if err != nil {
			return err
		}
		b.SetDrawingEnabled(on)
	case "mask":
		on, err := toggle(b.UserMaskEnabled(), c.Args)
		if err != nil {
			return err
		}
		b.SetUserMaskEnabled(on)
	case "pointer":
		b.Pointer(c.Pointer)
	case CmdSnapshot, CmdQuit:
	default:
		return fmt.Errorf("unknown command %q", c.Name)
	}
	return nil
}

// toggle flips cur without arguments, otherwise parses the on/off argument.
func toggle(cur bool, args []string) (bool, error) {
	if len(args) == 0 {
		return !cur, nil
	}
	return parseSwitch(args[0])
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}
