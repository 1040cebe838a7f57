package inkboard

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/esimov/inkboard/capture"
	"github.com/esimov/inkboard/gesture"
	"github.com/esimov/inkboard/internal/logger"
	"github.com/esimov/inkboard/utils"
	"github.com/esimov/inkboard/view"
)

// maxWorkers sets the maximum number of concurrently running encoders.
const maxWorkers = 20

// Ops holds the settings of a replay run.
type Ops struct {
	// Out is the output directory, the pipe name for stdout, or empty to
	// write nothing.
	Out      string
	Ext      string
	PipeName string
	Workers  int
	// Limit stops the run after that many ticks when positive.
	Limit int
	// Rate caps the ticks per second when positive.
	Rate float64
}

// Masker produces the foreground mask of a camera frame.
type Masker interface {
	Mask(frame *image.NRGBA) *image.Gray
}

// Session drives a board tick by tick from a frame source, a mask source and
// a gesture script. Only the goroutine running Execute touches the board.
type Session struct {
	Board     *Board
	Presenter *view.Presenter
	Spinner   *utils.Spinner

	Source capture.Source
	Masks  *capture.MaskDir
	Masker Masker
	Script *Script

	// Frames receives the presented frames. Frames are dropped while the receiver is busy.
	Frames chan<- *image.NRGBA
	// Commands are applied before the next tick.
	Commands <-chan Command

	last *image.NRGBA
	snap int
}

// job is an output frame waiting to be encoded.
type job struct {
	path string
	img  *image.NRGBA
}

// result holds the outcome of encoding one frame.
type result struct {
	path string
	err  error
}

// NewSession returns a session over b presenting with p.
func NewSession(b *Board, p *view.Presenter) *Session {
	return &Session{Board: b, Presenter: p, Script: &Script{}}
}

// Tick runs one board update and returns the presented frame.
func (s *Session) Tick(camera *image.NRGBA, g gesture.State, mask *image.Gray) (*image.NRGBA, error) {
	comp, err := s.Board.Update(camera, g, mask)
	if err != nil {
		return nil, err
	}
	st := s.Board.Status()
	out := s.Presenter.Present(view.Frame{
		Final:   comp.Final,
		Clean:   comp.Clean,
		Camera:  camera,
		Gesture: st.Gesture,
		Info:    st.Info(),
	})
	s.last = out
	return out, nil
}

// Last returns the most recently presented frame.
func (s *Session) Last() *image.NRGBA { return s.last }

// Execute runs the session until the script and the frame source are both
// exhausted, a quit command arrives or ctx is cancelled. Presented frames are
// written to op.Out by a pool of workers.
func (s *Session) Execute(ctx context.Context, op *Ops) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	now := time.Now()

	toPipe := op.Out != "" && op.Out == op.PipeName
	if toPipe && term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("`-` should be used with a pipe for stdout")
	}
	if op.Out != "" && !toPipe {
		if err := os.MkdirAll(op.Out, 0755); err != nil {
			return fmt.Errorf("unable to create the output directory: %v", err)
		}
	}
	// stopped by printOpStatus
	if s.Spinner != nil {
		s.Spinner.Start()
		defer s.Spinner.RestoreCursor()
	}
	if op.Workers <= 0 || op.Workers > maxWorkers {
		op.Workers = runtime.NumCPU()
	}

	var (
		wg   sync.WaitGroup
		jobs = make(chan job)
		res  = make(chan result)
		errc = make(chan error, 1)
	)
	wg.Add(op.Workers)
	for i := 0; i < op.Workers; i++ {
		go func() {
			defer wg.Done()
			consumer(op.Ext, jobs, res)
		}()
	}
	go func() {
		defer close(res)
		wg.Wait()
	}()

	var written int
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range res {
			if r.err != nil {
				select {
				case errc <- fmt.Errorf("could not write %s: %v", r.path, r.err):
				default:
				}
				continue
			}
			written++
		}
	}()

	ticks, err := s.loop(ctx, op, toPipe, jobs)
	close(jobs)
	<-done

	if err == nil {
		select {
		case err = <-errc:
		default:
		}
	}
	op.printOpStatus(ticks, written, time.Since(now), err, s.Spinner)
	return err
}

func (s *Session) loop(ctx context.Context, op *Ops, toPipe bool, jobs chan<- job) (int, error) {
	var (
		ticker *time.Ticker
		camera *image.NRGBA
		srcEOF = s.Source == nil
		script = s.Script
	)
	if script == nil {
		script = &Script{}
	}
	if op.Rate > 0 {
		ticker = time.NewTicker(time.Duration(float64(time.Second) / op.Rate))
		defer ticker.Stop()
	}

	tick := 0
	for ; op.Limit <= 0 || tick < op.Limit; tick++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return tick, nil
			case <-ticker.C:
			}
		}
		if ctx.Err() != nil {
			return tick, nil
		}
		if quit, err := s.drainCommands(op); quit || err != nil {
			return tick, err
		}

		if !srcEOF {
			frame, err := s.Source.Next()
			switch {
			case errors.Is(err, io.EOF):
				srcEOF = true
			case err != nil:
				return tick, err
			default:
				camera = frame
			}
		}
		if srcEOF && tick >= script.Len() && !s.interactive() {
			break
		}

		t := script.Tick(tick)
		for _, cmd := range t.Commands {
			if quit, err := s.run(op, cmd); quit || err != nil {
				return tick, err
			}
		}

		out, err := s.Tick(camera, t.Gesture, s.mask(camera))
		if err != nil {
			return tick, err
		}
		s.publish(out)

		if op.Out == "" {
			continue
		}
		if toPipe {
			if err := encodeImage(os.Stdout, out, op.Ext); err != nil {
				return tick, err
			}
			continue
		}
		path := filepath.Join(op.Out, fmt.Sprintf("frame_%05d%s", tick, frameExt(op.Ext)))
		select {
		case jobs <- job{path: path, img: out}:
		case <-ctx.Done():
			return tick, nil
		}
		if s.Spinner != nil {
			s.Spinner.SetMessage(fmt.Sprintf("%s %s",
				utils.DecorateText("⚡ INKBOARD", utils.StatusMessage),
				utils.DecorateText(fmt.Sprintf("⇢ rendering frame %d...", tick), utils.DefaultMessage),
			))
		}
	}

	for _, cmd := range script.Tail {
		if quit, err := s.run(op, cmd); quit || err != nil {
			return tick, err
		}
	}
	return tick, nil
}

// interactive reports whether the run keeps going on interactive commands alone.
func (s *Session) interactive() bool {
	return s.Commands != nil
}

func (s *Session) drainCommands(op *Ops) (bool, error) {
	for {
		select {
		case cmd, ok := <-s.Commands:
			if !ok {
				s.Commands = nil
				return false, nil
			}
			if quit, err := s.run(op, cmd); quit || err != nil {
				return quit, err
			}
		default:
			return false, nil
		}
	}
}

// run applies cmd. Interactive command failures are reported on the HUD,
// script failures stop the run.
func (s *Session) run(op *Ops, cmd Command) (bool, error) {
	switch cmd.Name {
	case CmdQuit:
		return true, nil
	case CmdSnapshot:
		path, err := s.snapshot(op)
		if err != nil {
			s.Board.SetMessage("[SNAP] failed")
			logger.L().Warn("snapshot failed", "error", err)
			return false, nil
		}
		s.Board.SetMessage("[SNAP] saved to " + path)
		return false, nil
	}
	if err := cmd.Apply(s.Board, s.Presenter); err != nil {
		if cmd.Line == 0 {
			s.Board.SetMessage(err.Error())
			return false, nil
		}
		return false, fmt.Errorf("line %d: %w", cmd.Line, err)
	}
	return false, nil
}

// snapshot writes the last presented frame as PNG.
func (s *Session) snapshot(op *Ops) (string, error) {
	if s.last == nil {
		return "", errors.New("nothing presented yet")
	}
	dir := op.Out
	if dir == "" || dir == op.PipeName {
		dir = "."
	}
	s.snap++
	path := filepath.Join(dir, fmt.Sprintf("snapshot_%03d.png", s.snap))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := encodeImage(f, s.last, ".png"); err != nil {
		return "", err
	}
	return path, f.Close()
}

func (s *Session) mask(camera *image.NRGBA) *image.Gray {
	switch {
	case s.Masks != nil:
		m, err := s.Masks.Next()
		if err != nil {
			// the last mask is not repeated; once exhausted nobody is cut out
			return nil
		}
		return m
	case s.Masker != nil && camera != nil:
		return s.Masker.Mask(camera)
	}
	return nil
}

func (s *Session) publish(out *image.NRGBA) {
	if s.Frames == nil {
		return
	}
	select {
	case s.Frames <- out:
	default:
	}
}

// consumer encodes the frames received on jobs.
func consumer(ext string, jobs <-chan job, res chan<- result) {
	for j := range jobs {
		res <- result{path: j.path, err: writeFrame(j.path, j.img, ext)}
	}
}

func writeFrame(path string, img *image.NRGBA, ext string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create the destination file: %v", err)
	}
	if err := encodeImage(f, img, ext); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func frameExt(ext string) string {
	if ext == "" {
		return ".jpg"
	}
	return ext
}

// printOpStatus displays the relevant information about the replay.
func (op *Ops) printOpStatus(ticks, written int, d time.Duration, err error, sp *utils.Spinner) {
	if err != nil {
		msg := fmt.Sprintf("%s %s %s",
			utils.DecorateText("⚡ INKBOARD", utils.StatusMessage),
			utils.DecorateText("replay failed...", utils.DefaultMessage),
			utils.DecorateText("✘", utils.ErrorMessage),
		)
		if sp != nil {
			sp.StopMsg = msg + "\n"
			sp.Stop()
		}
		return
	}
	msg := fmt.Sprintf("%s %s %s",
		utils.DecorateText("⚡ INKBOARD", utils.StatusMessage),
		utils.DecorateText("⇢", utils.DefaultMessage),
		utils.DecorateText(fmt.Sprintf("%d ticks replayed ✔", ticks), utils.SuccessMessage),
	)
	if sp != nil {
		sp.StopMsg = msg + "\n"
		sp.Stop()
	}
	if op.Out != "" && op.Out != op.PipeName {
		fmt.Fprintf(os.Stderr, "\n%d frames saved in: %s %s\n",
			written,
			utils.DecorateText(op.Out, utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
	fmt.Fprintf(os.Stderr, "Execution time: %s (%s)\n",
		utils.DecorateText(utils.FormatTime(d), utils.SuccessMessage),
		utils.FormatRate(ticks, d),
	)
}
