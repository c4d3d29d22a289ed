package ocr

import (
	"image"
	"image/color"
	"testing"
)

func bitmapFrom(rows ...string) *Bitmap {
	b := NewBitmap(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, ch := range row {
			b.Set(x, y, ch == '#')
		}
	}
	return b
}

func TestSegmentEightConnected(t *testing.T) {
	b := bitmapFrom(
		"#.....#",
		".#...#.",
		"..#....",
		".......",
		"...##..",
	)

	glyphs := Segment(b, 1)
	if len(glyphs) != 3 {
		t.Fatalf("glyphs = %d, want 3", len(glyphs))
	}

	// Ordered by x: the diagonal at x=0, the pair at x=3, the diagonal at x=5
	if glyphs[0].Bounds.X != 0 || glyphs[0].W != 3 || glyphs[0].H != 3 {
		t.Errorf("glyph 0 = %+v, want x=0 3x3", glyphs[0].Bounds)
	}
	if glyphs[1].X != 3 || glyphs[1].Y != 4 || len(glyphs[1].Points) != 2 {
		t.Errorf("glyph 1 = %+v", glyphs[1].Bounds)
	}
	if glyphs[2].X != 5 || glyphs[2].W != 2 {
		t.Errorf("glyph 2 = %+v, want x=5 w=2", glyphs[2].Bounds)
	}
}

func TestSegmentDropsSpecks(t *testing.T) {
	b := bitmapFrom(
		"#...##",
		"....##",
	)
	if got := len(Segment(b, 2)); got != 1 {
		t.Errorf("glyphs = %d, want 1 with minPixels 2", got)
	}
	if got := len(Segment(b, 1)); got != 2 {
		t.Errorf("glyphs = %d, want 2 with minPixels 1", got)
	}
}

func TestMaskExcludesNeighbours(t *testing.T) {
	b := bitmapFrom(
		"#..",
		"#.#",
		"##.",
	)
	glyphs := Segment(b, 1)
	if len(glyphs) != 1 {
		t.Fatalf("glyphs = %d, want 1", len(glyphs))
	}
	m := glyphs[0].Mask()
	if m.GrayAt(1, 0).Y != 0 {
		t.Error("background inside the box should stay empty")
	}
	if m.GrayAt(2, 1).Y != 255 {
		t.Error("diagonal neighbour should be part of the component")
	}
}

func TestThresholdPolarity(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.White)
	img.Set(1, 0, color.Black)

	light := Threshold(img, 128, LightInk)
	if !light.Ink(0, 0) || light.Ink(1, 0) {
		t.Error("LightInk should mark the white pixel only")
	}
	dark := Threshold(img, 128, DarkInk)
	if dark.Ink(0, 0) || !dark.Ink(1, 0) {
		t.Error("DarkInk should mark the black pixel only")
	}
	if light.Count() != 1 {
		t.Errorf("Count() = %d, want 1", light.Count())
	}
}

func TestPolarityText(t *testing.T) {
	var p Polarity
	if err := p.UnmarshalText([]byte("dark")); err != nil || p != DarkInk {
		t.Errorf("UnmarshalText(dark) = %v, %v", p, err)
	}
	if err := p.UnmarshalText([]byte("purple")); err == nil {
		t.Error("UnmarshalText should reject unknown values")
	}
}

func TestAnnotateDrawsBoxes(t *testing.T) {
	b := NewBitmap(10, 10)
	b.Set(4, 4, true)
	b.Set(5, 5, true)
	out := Annotate(b, Segment(b, 1))

	if out.RGBAAt(3, 3) != boxColor {
		t.Error("box corner should be drawn just outside the glyph")
	}
	if out.RGBAAt(4, 4).R != 0 || out.RGBAAt(4, 4).G != 0 {
		t.Error("ink should render black")
	}
	if out.RGBAAt(0, 0).G != 255 {
		t.Error("background should render white")
	}
}

func TestThresholdCutoffBoundary(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.SetGray(0, 0, color.Gray{Y: 128})

	tests := []struct {
		name     string
		cutoff   uint8
		polarity Polarity
		wantInk  bool
	}{
		{"light at cutoff", 128, LightInk, true},
		{"light below cutoff", 129, LightInk, false},
		{"dark at cutoff", 128, DarkInk, false},
		{"dark below cutoff", 129, DarkInk, true},
		{"light zero cutoff", 0, LightInk, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Threshold(img, tt.cutoff, tt.polarity).Ink(0, 0); got != tt.wantInk {
				t.Errorf("Ink = %v, want %v", got, tt.wantInk)
			}
		})
	}
}

func TestThresholdSubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	img.Set(4, 3, color.White)

	sub := img.SubImage(image.Rect(3, 2, 6, 4))
	b := Threshold(sub, 128, LightInk)
	if b.W != 3 || b.H != 2 {
		t.Fatalf("bitmap = %dx%d, want 3x2", b.W, b.H)
	}
	if !b.Ink(1, 1) || b.Count() != 1 {
		t.Errorf("ink should sit at (1,1) only, count %d", b.Count())
	}
}

func TestThresholdEmptyImage(t *testing.T) {
	b := Threshold(image.NewRGBA(image.Rect(0, 0, 0, 0)), 128, LightInk)
	if b.W != 0 || b.H != 0 || len(Segment(b, 1)) != 0 {
		t.Errorf("empty image gave %dx%d bitmap", b.W, b.H)
	}
}

func TestBitmapMat(t *testing.T) {
	b := bitmapFrom(
		"#..",
		"..#",
	)
	m, err := b.Mat()
	if err != nil {
		t.Fatalf("Mat() failed: %v", err)
	}
	defer m.Close()

	if m.Rows() != 2 || m.Cols() != 3 {
		t.Fatalf("mat = %dx%d, want 2 rows 3 cols", m.Rows(), m.Cols())
	}
	if m.GetUCharAt(0, 0) != 255 || m.GetUCharAt(1, 2) != 255 || m.GetUCharAt(0, 1) != 0 {
		t.Error("mask values do not follow the bitmap")
	}
	if back := bitmapFromMat(m); back.Count() != 2 || !back.Ink(2, 1) {
		t.Errorf("bitmapFromMat lost ink: count %d", back.Count())
	}
}

func TestSegmentAreaMatchesPoints(t *testing.T) {
	b := bitmapFrom(
		"##..#",
		"#...#",
		"....#",
	)
	for _, g := range Segment(b, 1) {
		for _, p := range g.Points {
			if !g.Contains(p) {
				t.Errorf("point %v outside glyph %+v", p, g.Bounds)
			}
		}
	}
	glyphs := Segment(b, 1)
	if len(glyphs) != 2 || len(glyphs[0].Points) != 3 || len(glyphs[1].Points) != 3 {
		t.Errorf("glyphs = %+v", glyphs)
	}
}
