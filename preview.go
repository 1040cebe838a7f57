package inkboard

import (
	"image"
	"image/color"
	"math"
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"

	"github.com/esimov/inkboard/viewport"
)

const (
	maxScreenX = 1366
	maxScreenY = 768

	// doubleClick is the longest delay between two presses of a double click.
	doubleClick = 300 * time.Millisecond
)

// keyCommands maps the keyboard shortcuts to board commands.
var keyCommands = map[key.Name]Command{
	"C":                {Name: "clear"},
	"S":                {Name: "shape"},
	"Z":                {Name: "pip"},
	"H":                {Name: "help"},
	"P":                {Name: CmdSnapshot},
	"X":                {Name: "bg", Args: []string{"none"}},
	"T":                {Name: "draw"},
	"U":                {Name: "mask"},
	"W":                {Name: "color", Args: []string{"white"}},
	"R":                {Name: "color", Args: []string{"red"}},
	"G":                {Name: "color", Args: []string{"green"}},
	"B":                {Name: "color", Args: []string{"blue"}},
	"Y":                {Name: "color", Args: []string{"yellow"}},
	"+":                {Name: "thickness", Args: []string{"+2"}},
	"=":                {Name: "thickness", Args: []string{"+2"}},
	"-":                {Name: "thickness", Args: []string{"-2"}},
	"1":                {Name: "preset", Args: []string{"1"}},
	"2":                {Name: "preset", Args: []string{"2"}},
	"3":                {Name: "preset", Args: []string{"3"}},
	"4":                {Name: "preset", Args: []string{"4"}},
	"5":                {Name: "preset", Args: []string{"5"}},
	"A":                {Name: "prev"},
	"D":                {Name: "next"},
	key.NameLeftArrow:  {Name: "prev"},
	key.NameRightArrow: {Name: "next"},
	key.NameUpArrow:    {Name: "zoom", Args: []string{"in"}},
	key.NameDownArrow:  {Name: "zoom", Args: []string{"out"}},
	"Q":                {Name: CmdQuit},
	key.NameEscape:     {Name: CmdQuit},
}

// Preview is a Gio window showing the presented frames. Keyboard and pointer
// input is turned into commands for the session loop.
type Preview struct {
	width, height int

	frames   <-chan *image.NRGBA
	commands chan<- Command

	mu  sync.Mutex
	img *image.NRGBA

	// placement of the frame inside the window
	scale  float32
	origin f32.Point

	lastPress time.Duration
}

// NewPreview returns a preview for frames of w x h pixels.
func NewPreview(w, h int, frames <-chan *image.NRGBA, commands chan<- Command) *Preview {
	return &Preview{
		width:    w,
		height:   h,
		frames:   frames,
		commands: commands,
		scale:    1,
	}
}

// windowSize returns the window size, keeping the frame aspect ratio in case
// the frame is larger than the predefined screen.
func (p *Preview) windowSize() (float64, float64) {
	w, h := float64(p.width), float64(p.height)
	if w > maxScreenX || h > maxScreenY {
		ratio := math.Min(maxScreenX/w, maxScreenY/h)
		w, h = w*ratio, h*ratio
	}
	return w, h
}

// Run opens the window and processes its events until it is closed.
// It must not run on the goroutine calling app.Main.
func (p *Preview) Run() error {
	w, h := p.windowSize()
	win := new(app.Window)
	win.Option(
		app.Title("Inkboard"),
		app.Size(unit.Dp(w), unit.Dp(h)),
	)

	go func() {
		for img := range p.frames {
			p.mu.Lock()
			p.img = img
			p.mu.Unlock()
			win.Invalidate()
		}
	}()

	var ops op.Ops
	for {
		switch e := win.Event().(type) {
		case app.DestroyEvent:
			p.send(Command{Name: CmdQuit})
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			p.handleKeys(gtx)
			p.handlePointer(gtx)
			p.draw(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func (p *Preview) handleKeys(gtx layout.Context) {
	filters := make([]event.Filter, 0, len(keyCommands))
	for name := range keyCommands {
		filters = append(filters, key.Filter{Name: name})
	}
	for {
		ev, ok := gtx.Event(filters...)
		if !ok {
			return
		}
		if e, ok := ev.(key.Event); ok && e.State == key.Press {
			if cmd, ok := keyCommands[e.Name]; ok {
				p.send(cmd)
			}
		}
	}
}

func (p *Preview) handlePointer(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  p,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -100, Max: 100},
		})
		if !ok {
			return
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		if vev, ok := p.viewportEvent(e); ok {
			p.send(Command{Name: "pointer", Pointer: vev})
		}
	}
}

// viewportEvent translates a window pointer event to frame coordinates.
func (p *Preview) viewportEvent(e pointer.Event) (viewport.Event, bool) {
	pos := p.toFrame(e.Position)
	switch e.Kind {
	case pointer.Scroll:
		if e.Scroll.Y < 0 {
			return viewport.Event{Kind: viewport.WheelUp, Pos: pos}, true
		}
		if e.Scroll.Y > 0 {
			return viewport.Event{Kind: viewport.WheelDown, Pos: pos}, true
		}
	case pointer.Press:
		prev := p.lastPress
		p.lastPress = e.Time
		if prev > 0 && e.Time-prev < doubleClick {
			p.lastPress = 0
			return viewport.Event{Kind: viewport.DoubleClick, Pos: pos}, true
		}
		return viewport.Event{Kind: viewport.DragStart, Pos: pos}, true
	case pointer.Drag:
		return viewport.Event{Kind: viewport.DragMove, Pos: pos}, true
	case pointer.Release:
		return viewport.Event{Kind: viewport.DragEnd, Pos: pos}, true
	}
	return viewport.Event{}, false
}

func (p *Preview) toFrame(pt f32.Point) image.Point {
	x := (pt.X - p.origin.X) / p.scale
	y := (pt.Y - p.origin.Y) / p.scale
	return image.Pt(int(x), int(y))
}

// draw paints the last frame scaled to fit the window.
func (p *Preview) draw(gtx layout.Context) {
	size := gtx.Constraints.Max
	paint.Fill(gtx.Ops, color.NRGBA{A: 0xff})

	area := clip.Rect{Max: size}.Push(gtx.Ops)
	event.Op(gtx.Ops, p)
	area.Pop()

	p.mu.Lock()
	img := p.img
	p.mu.Unlock()
	if img == nil {
		return
	}

	fw, fh := float32(img.Rect.Dx()), float32(img.Rect.Dy())
	p.scale = min(float32(size.X)/fw, float32(size.Y)/fh)
	p.origin = f32.Pt((float32(size.X)-fw*p.scale)/2, (float32(size.Y)-fh*p.scale)/2)

	tr := f32.Affine2D{}.Scale(f32.Point{}, f32.Pt(p.scale, p.scale)).Offset(p.origin)
	defer op.Affine(tr).Push(gtx.Ops).Pop()
	defer clip.Rect{Max: img.Rect.Size()}.Push(gtx.Ops).Pop()

	src := paint.NewImageOp(img)
	src.Filter = paint.FilterLinear
	src.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
}

// send forwards cmd without blocking the window; commands are dropped while
// the session loop lags behind.
func (p *Preview) send(cmd Command) {
	select {
	case p.commands <- cmd:
	default:
	}
}
