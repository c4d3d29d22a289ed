package main

import (
	"image"

	"qwop-bot/internal/runner"
	"qwop-bot/internal/storage"
)

// runRecord converts an outcome to its stored form
func runRecord(o runner.Outcome, snapshot string) storage.Run {
	status := storage.StatusFailed
	switch {
	case o.Aborted:
		status = storage.StatusAborted
	case o.Success:
		status = storage.StatusSuccess
	}
	return storage.Run{
		ControlString: o.ControlString,
		Status:        status,
		Distance:      o.Distance,
		RawScore:      o.RawScore,
		Duration:      o.Duration,
		Snapshot:      snapshot,
	}
}

// captureImage returns the raw score capture, or nil when there is none
func captureImage(o runner.Outcome) image.Image {
	if o.Score.Capture.Image == nil {
		return nil
	}
	return o.Score.Capture.Image
}

// annotatedImage returns the boxed diagnostic image, or nil when there is none
func annotatedImage(o runner.Outcome) image.Image {
	if o.Score.Annotated == nil {
		return nil
	}
	return o.Score.Annotated
}
