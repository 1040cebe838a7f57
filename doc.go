/*
Package inkboard is a gesture driven virtual blackboard. A presenter draws, erases
and moves the board with hand gestures while standing between the camera and
the board: every frame is composited from the ink, the user cut out of the camera
frame and the background, in this order of precedence.

The package provides a command line interface replaying recorded camera frames
and gesture scripts, with an optional preview window. To check the supported
commands type:

	$ inkboard --help

In case you wish to drive a board from your own capture loop here is a simple example:

	package main

	import (
		"log"

		"github.com/esimov/inkboard"
		"github.com/esimov/inkboard/gesture"
	)

	func main() {
		b, err := inkboard.New(inkboard.DefaultOptions())
		if err != nil {
			log.Fatal(err)
		}
		for frame := range frames {
			comp, err := b.Update(frame.Camera, gesture.NewState(gesture.Draw, frame.Fingertip), frame.Mask)
			if err != nil {
				log.Fatal(err)
			}
			show(comp.Final)
		}
	}
*/
package inkboard
