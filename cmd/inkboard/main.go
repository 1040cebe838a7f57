package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"runtime"
	"time"

	"gioui.org/app"

	"github.com/esimov/inkboard"
	"github.com/esimov/inkboard/capture"
	"github.com/esimov/inkboard/utils"
	"github.com/esimov/inkboard/view"
	"github.com/esimov/inkboard/vision"
)

const HelpBanner = `
┬┌┐┌┬┌─┌┐ ┌─┐┌─┐┬─┐┌┬┐
││││├┴┐├┴┐│ │├─┤├┬┘ ││
┴┘└┘┴ ┴└─┘└─┘┴ ┴┴└──┴┘

Gesture driven virtual blackboard.
    Version: %s

`

// pipeName is the output name that indicates stdout is being used.
const pipeName = "-"

// previewRate is the tick rate used by the preview window when none is given.
const previewRate = 30

// Version indicates the current build version.
var Version string

var (
	// Flags
	frames     = flag.String("frames", "", "Directory of camera frames")
	masks      = flag.String("masks", "", "Directory of foreground masks")
	script     = flag.String("script", "", "Gesture script")
	background = flag.String("bg", "", "Background image, image directory, GIF or PDF document")
	outDir     = flag.String("out", "", "Output directory, - for stdout")
	config     = flag.String("config", "", "TOML configuration file")
	width      = flag.Int("width", 0, "Frame width")
	height     = flag.Int("height", 0, "Frame height")
	shapeMode  = flag.Bool("shape", false, "Start in shape mode")
	pip        = flag.Bool("pip", false, "Start in picture in picture mode")
	hud        = flag.Bool("hud", false, "Draw the status panel")
	faceDetect = flag.Bool("face", false, "Build the foreground masks from face detection")
	cascade    = flag.String("cc", "", "Cascade classifier")
	mirror     = flag.Bool("mirror", true, "Mirror the camera frames")
	workers    = flag.Int("conc", runtime.NumCPU(), "Number of frames encoded concurrently")
	preview    = flag.Bool("preview", false, "Show the preview window")
	verbose    = flag.Bool("v", false, "Verbose logging")
	ext        = flag.String("ext", ".jpg", "Output frame format: .jpg, .png or .bmp")
	limit      = flag.Int("limit", 0, "Stop after that many ticks")
	rate       = flag.Float64("rate", 0, "Ticks per second")
	camera     = flag.Int("cam", -1, "Camera device id")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verbose {
		inkboard.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	opts, err := options()
	if err != nil {
		log.Fatalf(utils.DecorateText("Invalid configuration: %v", utils.ErrorMessage), err)
	}
	board, err := inkboard.New(opts)
	if err != nil {
		log.Fatalf(utils.DecorateText("Unable to create the board: %v", utils.ErrorMessage), err)
	}

	presenter := view.NewPresenter(opts.PIPHeight, opts.PIPMargin)
	presenter.HUD = opts.HUD
	if opts.PIP {
		presenter.SetMode(view.PIP)
	}

	session := inkboard.NewSession(board, presenter)
	if err := sources(session, opts); err != nil {
		log.Fatalf(utils.DecorateText("%v", utils.ErrorMessage), err)
	}
	if session.Source != nil {
		defer session.Source.Close()
	}

	op := &inkboard.Ops{
		Out:      *outDir,
		Ext:      *ext,
		PipeName: pipeName,
		Workers:  *workers,
		Limit:    *limit,
		Rate:     *rate,
	}

	if !*preview {
		if *outDir != pipeName {
			spinnerText := fmt.Sprintf("%s %s",
				utils.DecorateText("⚡ INKBOARD", utils.StatusMessage),
				utils.DecorateText("is replaying the gestures...", utils.DefaultMessage))
			session.Spinner = utils.NewSpinner(os.Stderr, spinnerText, time.Millisecond*200, true)
		}
		if err := session.Execute(context.Background(), op); err != nil {
			log.Fatalf(utils.DecorateText("Replay failed: %v", utils.ErrorMessage), err)
		}
		return
	}

	if op.Rate <= 0 {
		op.Rate = previewRate
	}
	frameCh := make(chan *image.NRGBA, 1)
	commands := make(chan inkboard.Command, 64)
	session.Frames = frameCh
	session.Commands = commands

	w, h := board.Size()
	gui := inkboard.NewPreview(w, h, frameCh, commands)

	go func() {
		err := session.Execute(context.Background(), op)
		close(frameCh)
		if err != nil {
			log.Fatalf(utils.DecorateText("Replay failed: %v", utils.ErrorMessage), err)
		}
		os.Exit(0)
	}()
	go func() {
		if err := gui.Run(); err != nil {
			log.Fatalf(utils.DecorateText("Preview failed: %v", utils.ErrorMessage), err)
		}
	}()
	app.Main()
}

// options loads the configuration file and applies the flags set on the
// command line over it.
func options() (inkboard.Options, error) {
	opts := inkboard.DefaultOptions()
	if *config != "" {
		var err error
		if opts, err = inkboard.LoadOptions(*config); err != nil {
			return opts, err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			opts.Width = *width
		case "height":
			opts.Height = *height
		case "bg":
			opts.Background = *background
		case "shape":
			opts.ShapeMode = *shapeMode
		case "pip":
			opts.PIP = *pip
		case "hud":
			opts.HUD = *hud
		}
	})
	return opts, opts.Validate()
}

// sources wires the frame, mask and script inputs of the session.
func sources(s *inkboard.Session, opts inkboard.Options) error {
	var err error
	switch {
	case *frames != "" && *camera >= 0:
		return fmt.Errorf("-frames and -cam are mutually exclusive")
	case *frames != "":
		if s.Source, err = capture.NewDirSource(*frames, opts.Width, opts.Height, *mirror); err != nil {
			return err
		}
	case *camera >= 0:
		if s.Source, err = openCamera(*camera, opts.Width, opts.Height, *mirror); err != nil {
			return err
		}
	}

	switch {
	case *masks != "":
		if s.Masks, err = capture.NewMaskDir(*masks, opts.Width, opts.Height, *mirror); err != nil {
			return err
		}
	case *faceDetect:
		if len(*cascade) == 0 {
			return fmt.Errorf("please specify a face classifier in case you are using the -face flag")
		}
		fm, err := vision.LoadFaceMasker(*cascade)
		if err != nil {
			return err
		}
		s.Masker = fm
	}

	if *script != "" {
		if s.Script, err = inkboard.LoadScript(*script); err != nil {
			return err
		}
	}
	return nil
}
