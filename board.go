package inkboard

import (
	"fmt"
	"image"
	"image/color"

	"github.com/esimov/inkboard/background"
	"github.com/esimov/inkboard/canvas"
	"github.com/esimov/inkboard/gesture"
	"github.com/esimov/inkboard/internal/logger"
	"github.com/esimov/inkboard/shape"
	"github.com/esimov/inkboard/stroke"
	"github.com/esimov/inkboard/utils"
	"github.com/esimov/inkboard/view"
	"github.com/esimov/inkboard/viewport"
)

// Board ties the per page ink, the stroke engine, the background and the
// viewport together. It is driven by a single goroutine: Update and the
// commands must not be called concurrently.
type Board struct {
	width, height int

	store    *canvas.Store
	engine   *stroke.Engine
	viewport *viewport.Viewport
	bg       *background.Manager

	drawing  bool
	userMask bool
	help     bool
	message  string
	gesture  gesture.State
}

// Status is a read-only snapshot of the board state.
type Status struct {
	Zoom      float64
	Offset    image.Point
	Page      int
	PageCount int

	Background     string
	BackgroundKind background.Kind
	// BackgroundError is the last background failure, nil once a source loads fine.
	BackgroundError error

	ShapeMode       bool
	InkColor        color.NRGBA
	Thickness       int
	EraserThickness int
	LastShape       shape.Shape

	Drawing  bool
	UserMask bool
	Help     bool
	Message  string
	Gesture  gesture.State
}

// New builds a board from opts. A background that fails to load is reported
// through Status().BackgroundError, the board starts on a solid background.
func New(opts Options) (*Board, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	ink, err := utils.ParseHexColor(opts.InkColor)
	if err != nil {
		return nil, err
	}

	rec := shape.NewRecognizer(opts.Shape, ink, opts.InkThickness)
	b := &Board{
		width:    opts.Width,
		height:   opts.Height,
		store:    canvas.NewStore(opts.Width, opts.Height),
		engine:   stroke.NewEngine(rec, ink, opts.InkThickness, opts.EraserThickness),
		viewport: viewport.New(),
		bg:       background.NewManager(opts.Width, opts.Height),
		drawing:  true,
		userMask: true,
		help:     opts.Help,
		gesture:  gesture.NewState(gesture.None, gesture.NoPoint),
	}
	b.engine.SetShapeMode(opts.ShapeMode)

	if opts.Background != "" {
		if err := b.bg.SetSource(opts.Background); err != nil {
			logger.L().Warn("starting with a solid background", "error", err)
		}
	}
	return b, nil
}

// Size returns the frame size.
func (b *Board) Size() (int, int) { return b.width, b.height }

// Update runs one tick: the gesture mutates the ink of the page shown by the
// background, then the frame is composited. camera and mask may be nil.
func (b *Board) Update(camera *image.NRGBA, g gesture.State, mask *image.Gray) (*Composite, error) {
	page := b.bg.PageIndex()
	if page != b.store.ActivePage() {
		b.engine.Abandon()
	}
	ink := b.store.Active(page)

	if !b.drawing {
		g = gesture.NewState(gesture.Move, gesture.NoPoint)
	}
	if b.engine.Apply(ink, g) {
		s := b.engine.Recognizer().Last()
		b.message = fmt.Sprintf("Shape: %s", s.Kind)
	}
	b.gesture = g

	bgView := b.viewport.Render(b.bg.Base(), b.width, b.height)
	if !b.userMask {
		mask = nil
	}
	return Compose(camera, ink, mask, bgView)
}

// Ink returns the bitmap of the active page.
func (b *Board) Ink() *image.NRGBA { return b.store.Current() }

// Store returns the per page ink store.
func (b *Board) Store() *canvas.Store { return b.store }

// Clear wipes the ink of the active page.
func (b *Board) Clear() {
	b.engine.Abandon()
	b.store.ClearActive()
	b.message = "Canvas cleared"
}

// SwitchPage shows page i of the background document. It reports whether the page changed.
func (b *Board) SwitchPage(i int) bool {
	return b.pageChanged(b.bg.SetPage(i))
}

// NextPage moves to the following background page.
func (b *Board) NextPage() bool {
	return b.pageChanged(b.bg.Next())
}

// PrevPage moves to the preceding background page.
func (b *Board) PrevPage() bool {
	return b.pageChanged(b.bg.Prev())
}

func (b *Board) pageChanged(ok bool) bool {
	if ok {
		b.engine.Abandon()
		b.store.Active(b.bg.PageIndex())
		b.message = fmt.Sprintf("Page %d/%d", b.bg.PageIndex()+1, b.bg.PageCount())
	}
	return ok
}

// ToggleShapeMode flips shape correction and returns the new state.
func (b *Board) ToggleShapeMode() bool {
	on := b.engine.ToggleShapeMode()
	b.message = shapeModeMessage(on)
	return on
}

// SetShapeMode turns shape correction on or off.
func (b *Board) SetShapeMode(on bool) {
	b.engine.SetShapeMode(on)
	b.message = shapeModeMessage(on)
}

func shapeModeMessage(on bool) string {
	if on {
		return "Shape Mode ON"
	}
	return "Normal Mode ON"
}

// ResetViewport restores the default zoom and offset.
func (b *Board) ResetViewport() { b.viewport.Reset() }

// ZoomIn zooms the background in.
func (b *Board) ZoomIn() { b.viewport.ZoomIn() }

// ZoomOut zooms the background out.
func (b *Board) ZoomOut() { b.viewport.ZoomOut() }

// Pointer forwards a pointer event to the viewport.
func (b *Board) Pointer(ev viewport.Event) { b.viewport.Handle(ev) }

// SetInkColor changes the pen colour.
func (b *Board) SetInkColor(c color.NRGBA) {
	c.A = 0xff
	b.engine.SetInkColor(c)
	b.message = "Pen: " + PenName(c)
}

// SetInkThickness changes the pen thickness, clamped to [MinThickness, MaxThickness].
// It returns the thickness in effect.
func (b *Board) SetInkThickness(t int) int {
	t = utils.Clamp(t, MinThickness, MaxThickness)
	b.engine.SetThickness(t)
	b.message = fmt.Sprintf("Thickness: %d", t)
	return t
}

// AdjustThickness changes the pen thickness by delta pixels, clamped like SetInkThickness.
func (b *Board) AdjustThickness(delta int) int {
	return b.SetInkThickness(b.engine.Thickness() + delta)
}

// ApplyPreset selects the preset numbered n, starting from 1.
func (b *Board) ApplyPreset(n int) error {
	p, err := PresetAt(n)
	if err != nil {
		return err
	}
	b.engine.SetInkColor(p.Color)
	b.engine.SetThickness(p.Thickness)
	b.message = fmt.Sprintf("Preset%d: %s", n, p.Name)
	return nil
}

// SetBackgroundSource switches the background to src: "" or "none" for the
// solid colour, an image file, an image directory or a GIF document. The ink
// of every page is discarded whenever the source changes.
func (b *Board) SetBackgroundSource(src string) error {
	prev, prevKind := b.bg.Source(), b.bg.Kind()
	err := b.bg.SetSource(src)
	if err == nil || b.bg.Source() != prev || b.bg.Kind() != prevKind {
		b.engine.Abandon()
		b.store.ResetAll()
	}
	if err != nil {
		return err
	}
	if b.bg.Kind() == background.Solid {
		b.message = "Background: solid"
	} else {
		b.message = fmt.Sprintf("Background: %s (%d pages)", b.bg.Kind(), b.bg.PageCount())
	}
	return nil
}

// Background returns the background manager.
func (b *Board) Background() *background.Manager { return b.bg }

// SetDrawingEnabled turns gesture tracking on or off. While off every tick
// behaves as a move without anchor.
func (b *Board) SetDrawingEnabled(on bool) {
	b.drawing = on
	if !on {
		b.engine.Abandon()
	}
}

// SetUserMaskEnabled turns the user cutout on or off.
func (b *Board) SetUserMaskEnabled(on bool) { b.userMask = on }

// DrawingEnabled reports whether gestures are applied.
func (b *Board) DrawingEnabled() bool { return b.drawing }

// UserMaskEnabled reports whether the user cutout is composited.
func (b *Board) UserMaskEnabled() bool { return b.userMask }

// ToggleHelp flips the help box shown by the HUD.
func (b *Board) ToggleHelp() bool {
	b.help = !b.help
	if b.help {
		b.message = "Help ON"
	} else {
		b.message = "Help OFF"
	}
	return b.help
}

// SetMessage replaces the last action message.
func (b *Board) SetMessage(msg string) { b.message = msg }

// Status returns a snapshot of the board state.
func (b *Board) Status() Status {
	return Status{
		Zoom:            b.viewport.Zoom,
		Offset:          b.viewport.Offset,
		Page:            b.bg.PageIndex(),
		PageCount:       b.bg.PageCount(),
		Background:      b.bg.Source(),
		BackgroundKind:  b.bg.Kind(),
		BackgroundError: b.bg.LastError(),
		ShapeMode:       b.engine.ShapeMode(),
		InkColor:        b.engine.InkColor(),
		Thickness:       b.engine.Thickness(),
		EraserThickness: b.engine.EraserThickness(),
		LastShape:       b.engine.Recognizer().Last(),
		Drawing:         b.drawing,
		UserMask:        b.userMask,
		Help:            b.help,
		Message:         b.message,
		Gesture:         b.gesture,
	}
}

// Info converts the snapshot to the HUD contents.
func (s Status) Info() view.Info {
	mode := "normal"
	if s.ShapeMode {
		mode = "shape"
	}
	info := view.Info{
		Mode:      mode,
		Tracking:  s.Drawing,
		UserMask:  s.UserMask,
		Pen:       PenName(s.InkColor),
		Thickness: s.Thickness,
		Zoom:      s.Zoom,
		Page:      s.Page,
		Pages:     s.PageCount,
		Message:   s.Message,
	}
	if s.Help {
		info.Help = HelpLines
	}
	if s.BackgroundError != nil {
		info.Error = s.BackgroundError.Error()
	}
	return info
}
