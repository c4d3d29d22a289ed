package finish

import (
	"errors"
	"testing"

	"qwop-bot/internal/pixel"
	"qwop-bot/internal/session"
)

type fakeScreen struct {
	colors map[pixel.Point]pixel.Color
	reads  []pixel.Point
	err    error
}

func (f *fakeScreen) PixelColor(p pixel.Point) (pixel.Color, error) {
	f.reads = append(f.reads, p)
	if f.err != nil {
		return pixel.Color{}, f.err
	}
	return f.colors[p], nil
}

func TestIsFinishedAt(t *testing.T) {
	origin := pixel.NewPoint(100, 50)
	left := pixel.NewPoint(257, 176)
	right := pixel.NewPoint(582, 176)
	gold := pixel.Hex(0xffff00)

	tests := []struct {
		name      string
		colors    map[pixel.Point]pixel.Color
		want      bool
		wantReads int
	}{
		{"both gold", map[pixel.Point]pixel.Color{left: gold, right: gold}, true, 2},
		{"near gold", map[pixel.Point]pixel.Color{left: pixel.Hex(0xfeff01), right: pixel.Hex(0xffff01)}, true, 2},
		{"left only", map[pixel.Point]pixel.Color{left: gold}, false, 2},
		{"right only", map[pixel.Point]pixel.Color{right: gold}, false, 1},
		{"none", nil, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := &fakeScreen{colors: tt.colors}
			d := NewDetector(screen, DefaultParams())

			if got := d.IsFinishedAt(origin); got != tt.want {
				t.Errorf("IsFinishedAt() = %v, want %v", got, tt.want)
			}
			if len(screen.reads) != tt.wantReads {
				t.Errorf("pixel reads = %d, want %d", len(screen.reads), tt.wantReads)
			}
		})
	}
}

func TestCheckRecordsInSession(t *testing.T) {
	gold := pixel.Hex(0xffff00)
	screen := &fakeScreen{colors: map[pixel.Point]pixel.Color{
		{X: 157, Y: 126}: gold,
		{X: 482, Y: 126}: gold,
	}}
	d := NewDetector(screen, DefaultParams())
	sess := session.New(pixel.Point{})

	if !d.Check(sess) {
		t.Fatal("Check() = false, want true")
	}
	if !sess.Finished() || sess.IsRunning() {
		t.Error("session should record the finished state")
	}

	screen.colors = nil
	if d.Check(sess) {
		t.Fatal("Check() = true, want false")
	}
	if sess.Finished() {
		t.Error("session should record the cleared state")
	}
}

func TestReadErrorIsNotFinished(t *testing.T) {
	d := NewDetector(&fakeScreen{err: errors.New("no display")}, DefaultParams())
	if d.IsFinishedAt(pixel.Point{}) {
		t.Error("a read error should count as not finished")
	}
}
