package session

import (
	"sync"
	"testing"

	"qwop-bot/internal/pixel"
)

func TestSessionFlags(t *testing.T) {
	s := New(pixel.NewPoint(40, 60))

	if !s.IsRunning() {
		t.Fatal("new session should be running")
	}
	if got := s.At(pixel.NewPoint(157, 126)); got != pixel.NewPoint(197, 186) {
		t.Errorf("At() = %v, want (197,186)", got)
	}

	s.SetFinished(true)
	if s.IsRunning() {
		t.Error("finished session should not be running")
	}
	s.SetFinished(false)

	s.Stop()
	s.Stop()
	if !s.Stopped() || s.IsRunning() {
		t.Error("stopped session should not be running")
	}

	s.Rearm()
	if s.Stopped() {
		t.Error("Rearm should clear the stop request")
	}
}

func TestStopFromManyGoroutines(t *testing.T) {
	s := New(pixel.Point{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Stop()
			_ = s.IsRunning()
		}()
	}
	wg.Wait()

	if !s.Stopped() {
		t.Error("stop should be set")
	}
}
