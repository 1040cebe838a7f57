//go:build !gocv

package main

import (
	"errors"

	"github.com/esimov/inkboard/capture"
)

// openCamera is only available in builds tagged with gocv.
func openCamera(id, w, h int, mirror bool) (capture.Source, error) {
	return nil, errors.New("camera capture needs a build with the gocv tag")
}
