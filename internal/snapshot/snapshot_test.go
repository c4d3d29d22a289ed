package snapshot

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"
)

func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Rect, &image.Uniform{C: color.RGBA{A: 255}}, image.Point{}, draw.Src)
	return img
}

func halfWhite(w, h int) *image.RGBA {
	img := blank(w, h)
	draw.Draw(img, image.Rect(0, 0, w/2, h), &image.Uniform{C: color.RGBA{R: 255, G: 255, B: 255, A: 255}}, image.Point{}, draw.Src)
	return img
}

func TestWriteCreatesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snaps")
	w, err := NewWriter(dir, 2)
	if err != nil {
		t.Fatalf("NewWriter() failed: %v", err)
	}

	path, err := w.Write("run-1", halfWhite(200, 30), blank(200, 30))
	if err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if path != filepath.Join(dir, "run-1.png") {
		t.Errorf("path = %q", path)
	}
	for _, name := range []string{"run-1.png", "run-1-boxes.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestWriteSkipsDuplicates(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, 2)
	if err != nil {
		t.Fatalf("NewWriter() failed: %v", err)
	}

	if path, err := w.Write("run-1", halfWhite(200, 30), nil); err != nil || path == "" {
		t.Fatalf("first Write() = %q, %v", path, err)
	}

	path, err := w.Write("run-2", halfWhite(200, 30), nil)
	if err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if path != "" {
		t.Errorf("duplicate written to %q", path)
	}
	if _, err := os.Stat(filepath.Join(dir, "run-2.png")); !os.IsNotExist(err) {
		t.Error("duplicate file exists")
	}

	// A different image is written again
	path, err = w.Write("run-3", blank(200, 30), nil)
	if err != nil || path == "" {
		t.Errorf("Write(different) = %q, %v", path, err)
	}
}

func TestWriteRejectsNilCapture(t *testing.T) {
	w, err := NewWriter(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewWriter() failed: %v", err)
	}
	if _, err := w.Write("run", nil, nil); err == nil {
		t.Error("expected error for nil capture")
	}
}
