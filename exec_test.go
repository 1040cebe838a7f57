package inkboard

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esimov/inkboard/capture"
	"github.com/esimov/inkboard/gesture"
	"github.com/esimov/inkboard/utils"
	"github.com/esimov/inkboard/view"
)

func newSession(t *testing.T, w, h int, script string) *Session {
	t.Helper()
	s := NewSession(newBoard(t, w, h), view.NewPresenter(0.25, 20))
	sc, err := ParseScript(strings.NewReader(script))
	require.NoError(t, err)
	s.Script = sc
	return s
}

func writeFrames(t *testing.T, n, w, h int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		img := imaging.New(w, h, color.NRGBA{R: 30, G: uint8(60 + i), B: 90, A: 255})
		require.NoError(t, imaging.Save(img, filepath.Join(dir, string(rune('a'+i))+".png")))
	}
	return dir
}

func listDir(t *testing.T, dir, prefix string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), prefix) {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestExec_Replay(t *testing.T) {
	assert := assert.New(t)

	src, err := capture.NewDirSource(writeFrames(t, 3, 32, 24), 32, 24, false)
	require.NoError(t, err)

	s := newSession(t, 32, 24, `
!color green
draw 4 12
draw 28 12
move
none
none
!snapshot
`)
	s.Source = src
	out := filepath.Join(t.TempDir(), "out")

	require.NoError(t, s.Execute(context.Background(), &Ops{Out: out, Ext: ".png", Workers: 2}))

	frames := listDir(t, out, "frame_")
	assert.Equal([]string{
		"frame_00000.png", "frame_00001.png", "frame_00002.png", "frame_00003.png", "frame_00004.png",
	}, frames)
	assert.Equal([]string{"snapshot_001.png"}, listDir(t, out, "snapshot_"))

	last, err := decodeImage(filepath.Join(out, "frame_00004.png"))
	require.NoError(t, err)
	assert.Equal(Green, last.NRGBAAt(16, 12))
	assert.Equal(color.NRGBA{A: 255}, last.NRGBAAt(16, 2))
	assert.Equal(s.Last().Pix, last.Pix)
}

func TestExec_FramesOutlastScript(t *testing.T) {
	src, err := capture.NewDirSource(writeFrames(t, 4, 16, 16), 16, 16, false)
	require.NoError(t, err)

	s := newSession(t, 16, 16, "draw 8 8\n")
	s.Source = src
	out := t.TempDir()
	require.NoError(t, s.Execute(context.Background(), &Ops{Out: out, Ext: ".bmp"}))
	assert.Len(t, listDir(t, out, "frame_"), 4)
}

func TestExec_Limit(t *testing.T) {
	s := newSession(t, 16, 16, "none\nnone\nnone\nnone\n")
	out := t.TempDir()
	require.NoError(t, s.Execute(context.Background(), &Ops{Out: out, Limit: 2}))
	assert.Equal(t, []string{"frame_00000.jpg", "frame_00001.jpg"}, listDir(t, out, "frame_"))
}

func TestExec_ScriptCommandError(t *testing.T) {
	s := newSession(t, 16, 16, "none\n!preset 9\nnone\n")
	err := s.Execute(context.Background(), &Ops{})
	assert.ErrorContains(t, err, "line 2")
}

func TestExec_InteractiveCommands(t *testing.T) {
	s := newSession(t, 16, 16, "")
	cmds := make(chan Command, 4)
	frames := make(chan *image.NRGBA, 1)
	s.Commands = cmds
	s.Frames = frames

	cmds <- Command{Name: "shape"}
	cmds <- Command{Name: "preset", Args: []string{"7"}}
	cmds <- Command{Name: CmdQuit}

	require.NoError(t, s.Execute(context.Background(), &Ops{}))
	assert.True(t, s.Board.Status().ShapeMode)
	assert.Contains(t, s.Board.Status().Message, "preset 7")
}

func TestExec_Tick(t *testing.T) {
	s := newSession(t, 40, 40, "")
	s.Presenter.HUD = false

	out, err := s.Tick(nil, gesture.NewState(gesture.Draw, image.Pt(20, 20)), nil)
	require.NoError(t, err)
	assert.Equal(t, view.CursorDraw, out.NRGBAAt(20, 20), "cursor over the ink")
	assert.Equal(t, White, s.Board.Ink().NRGBAAt(20, 20))
	assert.Same(t, out, s.Last())
}

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestExec_SpinnerIdleOnSetupError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "taken")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	var out syncBuffer
	s := newSession(t, 16, 16, "none\n")
	s.Spinner = utils.NewSpinner(&out, "replaying", time.Millisecond, true)

	err := s.Execute(context.Background(), &Ops{Out: filepath.Join(file, "frames")})
	assert.ErrorContains(t, err, "output directory")

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, out.String(), "the spinner never starts")
}

func TestExec_SpinnerStopped(t *testing.T) {
	var out syncBuffer
	s := newSession(t, 16, 16, "none\nnone\n")
	s.Spinner = utils.NewSpinner(&out, "replaying", time.Millisecond, false)

	require.NoError(t, s.Execute(context.Background(), &Ops{}))
	assert.Contains(t, out.String(), "2 ticks replayed")
}
