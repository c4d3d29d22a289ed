// Package snapshot writes diagnostic images of the score region after a
// run: the raw capture and the thresholded image with glyph boxes.
//
// Consecutive near-identical captures are skipped. Each capture is reduced
// to an average hash and compared with the last written one; a Hamming
// distance at or below MaxDistance counts as a duplicate.
package snapshot

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/corona10/goimagehash"
	"github.com/vcaesar/imgo"

	"qwop-bot/internal/logging"
)

// Writer saves snapshots to a directory. Safe for concurrent use.
type Writer struct {
	dir         string
	maxDistance int
	mu          sync.Mutex
	lastHash    *goimagehash.ImageHash
}

// NewWriter creates dir if needed
func NewWriter(dir string, maxDistance int) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: create %s: %w", dir, err)
	}
	return &Writer{dir: dir, maxDistance: maxDistance}, nil
}

// Dir returns the output directory
func (w *Writer) Dir() string {
	return w.dir
}

// Write saves capture as <name>.png and, when annotated is not nil,
// annotated as <name>-boxes.png. It returns the capture path, or "" when the
// capture duplicates the previous one.
func (w *Writer) Write(name string, capture, annotated image.Image) (string, error) {
	if capture == nil {
		return "", fmt.Errorf("snapshot: %s: no capture", name)
	}

	hash, err := goimagehash.AverageHash(capture)
	if err != nil {
		return "", fmt.Errorf("snapshot: hash %s: %w", name, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.lastHash != nil {
		if dist, err := w.lastHash.Distance(hash); err == nil && dist <= w.maxDistance {
			logging.Debugf("Skipping snapshot %s, distance %d to previous", name, dist)
			return "", nil
		}
	}

	path := filepath.Join(w.dir, name+".png")
	if err := imgo.Save(path, capture); err != nil {
		return "", fmt.Errorf("snapshot: save %s: %w", path, err)
	}
	if annotated != nil {
		boxes := filepath.Join(w.dir, name+"-boxes.png")
		if err := imgo.Save(boxes, annotated); err != nil {
			return "", fmt.Errorf("snapshot: save %s: %w", boxes, err)
		}
	}

	w.lastHash = hash
	logging.Debugf("Snapshot written to %s", path)
	return path, nil
}
