package main

import (
	"testing"
	"time"

	"qwop-bot/internal/control"
	"qwop-bot/internal/ocr"
	"qwop-bot/internal/pixel"
	"qwop-bot/internal/platform/platformtest"
	"qwop-bot/internal/runner"
)

// gatedEnv holds full-screen captures until the test opens the gate
type gatedEnv struct {
	*platformtest.Env
	entered chan struct{}
	gate    chan struct{}
}

func (g *gatedEnv) CaptureScreen() (pixel.Region, error) {
	g.entered <- struct{}{}
	<-g.gate
	return g.Env.CaptureScreen()
}

func newTrayForTest(t *testing.T) (*TrayApp, *gatedEnv) {
	t.Helper()
	env := &gatedEnv{
		Env:     platformtest.NewEnv(800, 600),
		entered: make(chan struct{}, 1),
		gate:    make(chan struct{}),
	}
	templates, err := ocr.DefaultTemplates()
	if err != nil {
		t.Fatalf("DefaultTemplates() failed: %v", err)
	}
	r := runner.New(env, ocr.NewReader(env, templates, ocr.DefaultParams()), runner.DefaultOptions())
	return NewTrayApp(&app{runner: r}, runner.FixedSource(control.Parse("Q+q+"))), env
}

func TestTrayStopWhileLocating(t *testing.T) {
	tray, env := newTrayForTest(t)

	tray.start()
	select {
	case <-env.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("batch goroutine never started locating")
	}

	// A second Start while locating is ignored
	tray.start()

	stopped := make(chan struct{})
	go func() {
		tray.stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("stop blocked while the game was being located")
	}

	close(env.gate)
	tray.wait()

	tray.mu.Lock()
	defer tray.mu.Unlock()
	if tray.done != nil || tray.sess != nil || tray.cancel != nil {
		t.Error("batch state not cleared after the goroutine returned")
	}
	if games, _, _, _ := tray.stats.Counts(); games != 0 {
		t.Errorf("played %d games, want none", games)
	}
}

func TestTrayStartAfterFailedLocate(t *testing.T) {
	tray, env := newTrayForTest(t)
	close(env.gate)

	for i := 0; i < 2; i++ {
		tray.start()
		<-env.entered
		tray.wait()

		tray.mu.Lock()
		running := tray.done != nil
		tray.mu.Unlock()
		if running {
			t.Fatalf("attempt %d: batch still marked running after locate failed", i)
		}
	}
}
