//go:build gocv

package main

import "github.com/esimov/inkboard/capture"

func openCamera(id, w, h int, mirror bool) (capture.Source, error) {
	cam, err := capture.OpenWebcam(id, w, h, mirror)
	if err != nil {
		return nil, err
	}
	return cam, nil
}
