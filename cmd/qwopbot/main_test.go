package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"qwop-bot/internal/config"
	"qwop-bot/internal/control"
	"qwop-bot/internal/ocr"
	"qwop-bot/internal/pixel"
	"qwop-bot/internal/platform"
	"qwop-bot/internal/platform/platformtest"
	"qwop-bot/internal/runner"
	"qwop-bot/internal/sequence"
	"qwop-bot/internal/snapshot"
	"qwop-bot/internal/storage"
)

// resetFlags restores the package-level flag state after a test
func resetFlags(t *testing.T) {
	t.Helper()
	saved := struct {
		backend, db, level, str string
		duration                int
		seed                    int64
		c                       config.Config
	}{flagBackend, flagDBPath, flagLogLevel, flagString, flagDuration, flagSeed, cfg}
	t.Cleanup(func() {
		flagBackend, flagDBPath, flagLogLevel, flagString = saved.backend, saved.db, saved.level, saved.str
		flagDuration, flagSeed, cfg = saved.duration, saved.seed, saved.c
	})
}

func TestApplyOverrides(t *testing.T) {
	resetFlags(t)

	c := config.DefaultConfig()
	flagBackend = " Browser "
	flagDBPath = "/tmp/runs.db"
	flagLogLevel = "debug"

	if err := applyOverrides(&c); err != nil {
		t.Fatalf("applyOverrides() failed: %v", err)
	}
	if c.Game.Backend != "browser" {
		t.Errorf("Backend = %q, want browser", c.Game.Backend)
	}
	if c.Storage.Path != "/tmp/runs.db" {
		t.Errorf("Storage.Path = %q", c.Storage.Path)
	}
	if c.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", c.Log.Level)
	}
}

func TestApplyOverridesKeepsConfigWithoutFlags(t *testing.T) {
	resetFlags(t)
	flagBackend, flagDBPath, flagLogLevel = "", "", ""

	c := config.DefaultConfig()
	want := c
	if err := applyOverrides(&c); err != nil {
		t.Fatalf("applyOverrides() failed: %v", err)
	}
	if c.Game != want.Game || c.Storage != want.Storage || c.Log != want.Log {
		t.Errorf("config changed without flags: %+v", c)
	}
}

func TestApplyOverridesRejectsUnknownBackend(t *testing.T) {
	resetFlags(t)
	flagBackend = "vnc"

	c := config.DefaultConfig()
	if err := applyOverrides(&c); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestControlSource(t *testing.T) {
	tests := []struct {
		name     string
		str      string
		duration int
		cfgTicks int
		wantErr  bool
		wantText string
	}{
		{name: "fixed string", str: "QW+qw+", wantText: "QW+qw+"},
		{name: "pressed twice", str: "Q+Q+", wantErr: true},
		{name: "release before press", str: "q+", wantErr: true},
		{name: "unknown symbol", str: "Qx+q", wantErr: true},
		{name: "generated from flag", duration: 7, cfgTicks: 20},
		{name: "generated from config", cfgTicks: 5},
		{name: "no duration", cfgTicks: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			cfg = config.DefaultConfig()
			cfg.Generator.DurationTicks = tt.cfgTicks
			cfg.Generator.Seed = 42
			flagString, flagDuration, flagSeed = tt.str, tt.duration, 0

			next, err := controlSource()
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("controlSource() failed: %v", err)
			}

			s := next()
			if tt.wantText != "" {
				if s.String() != tt.wantText {
					t.Errorf("source = %q, want %q", s, tt.wantText)
				}
				return
			}

			ticks := tt.duration
			if ticks <= 0 {
				ticks = tt.cfgTicks
			}
			if s.Waits() != ticks {
				t.Errorf("generated %q has %d waits, want %d", s, s.Waits(), ticks)
			}
			if err := s.Validate(); err != nil {
				t.Errorf("generated %q is malformed: %v", s, err)
			}
		})
	}
}

func TestWriteGenerated(t *testing.T) {
	var buf bytes.Buffer
	if err := writeGenerated(&buf, sequence.NewSeeded(3), 4, 12); err != nil {
		t.Fatalf("writeGenerated() failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	for _, line := range lines {
		s := control.Parse(line)
		if err := s.Validate(); err != nil {
			t.Errorf("line %q: %v", line, err)
		}
		if len(s.Held()) != 0 {
			t.Errorf("line %q leaves keys held", line)
		}
		if s.Waits() != 12 {
			t.Errorf("line %q has %d waits, want 12", line, s.Waits())
		}
	}

	// Same seed, same output
	var again bytes.Buffer
	writeGenerated(&again, sequence.NewSeeded(3), 4, 12)
	if again.String() != buf.String() {
		t.Error("seeded output is not reproducible")
	}
}

func TestRunRecord(t *testing.T) {
	tests := []struct {
		name    string
		outcome runner.Outcome
		want    string
	}{
		{name: "success", outcome: runner.Outcome{Success: true, Distance: 120.5}, want: storage.StatusSuccess},
		{name: "failed", outcome: runner.Outcome{Distance: 12}, want: storage.StatusFailed},
		{name: "aborted", outcome: runner.Outcome{Aborted: true}, want: storage.StatusAborted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.outcome.ControlString = "QW+qw+"
			tt.outcome.RawScore = "12.0 metres"
			tt.outcome.Duration = 3 * time.Second

			run := runRecord(tt.outcome, "snap.png")
			if run.Status != tt.want {
				t.Errorf("Status = %q, want %q", run.Status, tt.want)
			}
			if run.ControlString != "QW+qw+" || run.RawScore != "12.0 metres" || run.Snapshot != "snap.png" {
				t.Errorf("run = %+v", run)
			}
			if run.Distance != tt.outcome.Distance || run.Duration != 3*time.Second {
				t.Errorf("run = %+v", run)
			}
		})
	}
}

func TestOutcomeImagesNilWhenEmpty(t *testing.T) {
	var o runner.Outcome
	if captureImage(o) != nil {
		t.Error("captureImage() of empty outcome is not nil")
	}
	if annotatedImage(o) != nil {
		t.Error("annotatedImage() of empty outcome is not nil")
	}

	o.Score = ocr.Result{
		Capture:   pixel.NewRegion(pixel.NewBounds(0, 0, 4, 4), image.NewRGBA(image.Rect(0, 0, 4, 4))),
		Annotated: image.NewRGBA(image.Rect(0, 0, 4, 4)),
	}
	if captureImage(o) == nil || annotatedImage(o) == nil {
		t.Error("images of a read outcome are nil")
	}
}

func TestAppRecord(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	snaps, err := snapshot.NewWriter(t.TempDir(), 2)
	if err != nil {
		t.Fatalf("snapshot.NewWriter() failed: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 20; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.White)
		}
	}
	o := runner.Outcome{
		ControlString: "Q+q+",
		Success:       true,
		Distance:      150,
		RawScore:      "150.0 metres",
		Score:         ocr.Result{Capture: pixel.NewRegion(pixel.NewBounds(233, 120, 40, 20), img)},
	}

	a := &app{store: store, snaps: snaps}
	a.record(1, o)

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	got := runs[0]
	if got.Status != storage.StatusSuccess || got.Distance != 150 || got.ControlString != "Q+q+" {
		t.Errorf("stored run = %+v", got)
	}
	if got.Snapshot == "" {
		t.Fatal("stored run has no snapshot path")
	}
	if _, err := os.Stat(got.Snapshot); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}
}

func TestAppRecordWithoutStore(t *testing.T) {
	a := &app{}
	// Nothing to record into; must not panic
	a.record(1, runner.Outcome{Aborted: true})
}

func TestAppCloseReverseOrder(t *testing.T) {
	var order []int
	a := &app{closer: []func(){
		func() { order = append(order, 1) },
		func() { order = append(order, 2) },
		func() { order = append(order, 3) },
	}}
	a.close()
	a.close()

	if len(order) != 3 || order[0] != 3 || order[1] != 2 || order[2] != 1 {
		t.Errorf("close order = %v, want [3 2 1]", order)
	}
}

func TestPrintRunsEmpty(t *testing.T) {
	var buf bytes.Buffer
	printRuns(&buf, "Recent runs", nil, storage.Stats{})

	out := buf.String()
	if !strings.Contains(out, "Recent runs") || !strings.Contains(out, "No runs recorded yet.") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestPrintRuns(t *testing.T) {
	runs := []storage.Run{
		{ID: 2, ControlString: "QW+qw+", Status: storage.StatusSuccess, Distance: 123.4, Duration: 2345 * time.Millisecond, CreatedAt: time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC)},
		{ID: 1, ControlString: "OP+op+", Status: storage.StatusFailed, Distance: -2.5},
	}
	stats := storage.Stats{Total: 2, Successes: 1, Failures: 1, BestDistance: 123.4, MeanDistance: 60.45}

	var buf bytes.Buffer
	printRuns(&buf, "Best runs", runs, stats)
	out := buf.String()

	for _, want := range []string{
		"Best runs",
		"123.4m",
		"-2.5m",
		"QW+qw+",
		"2024-01-02 15:04",
		"2.3s",
		"Total: 2 runs (1 success, 1 failed, 0 aborted)",
		"Best:  123.4m",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigCommandPrintsYAML(t *testing.T) {
	resetFlags(t)
	cfg = config.DefaultConfig()
	flagWrite = ""

	var buf bytes.Buffer
	configCmd.SetOut(&buf)
	t.Cleanup(func() { configCmd.SetOut(nil) })

	if err := configCmd.RunE(configCmd, nil); err != nil {
		t.Fatalf("config command failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "# source: embedded\n") {
		t.Errorf("missing source line:\n%s", out)
	}

	parsed, err := config.Parse([]byte(strings.SplitN(out, "\n", 2)[1]))
	if err != nil {
		t.Fatalf("printed config does not parse: %v", err)
	}
	if parsed.Policy != cfg.Policy || parsed.Playback.Tick != cfg.Playback.Tick {
		t.Errorf("printed config differs: %+v", parsed)
	}
}

func TestConfigCommandWrite(t *testing.T) {
	resetFlags(t)
	cfg = config.DefaultConfig()
	path := filepath.Join(t.TempDir(), "sub", "qwopbot.yaml")
	flagWrite = path
	t.Cleanup(func() { flagWrite = "" })

	var buf bytes.Buffer
	configCmd.SetOut(&buf)
	t.Cleanup(func() { configCmd.SetOut(nil) })

	if err := configCmd.RunE(configCmd, nil); err != nil {
		t.Fatalf("config --write failed: %v", err)
	}
	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(%s) failed: %v", path, err)
	}
	if loaded.Generator != cfg.Generator {
		t.Errorf("written config differs: %+v", loaded.Generator)
	}
}

func TestOpenStoreExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := openStore("~/history/runs.db")
	if err != nil {
		t.Fatalf("openStore() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, "history", "runs.db")); err != nil {
		t.Errorf("database not created under home: %v", err)
	}
}

func TestNewAppEnvironmentOutlivesContext(t *testing.T) {
	var envCtx context.Context
	closed := false
	saved := openEnvironment
	openEnvironment = func(ctx context.Context, opts platform.Options) (platform.Env, func(), error) {
		envCtx = ctx
		return platformtest.NewEnv(800, 600), func() { closed = true }, nil
	}
	t.Cleanup(func() { openEnvironment = saved })

	ctx, cancel := context.WithCancel(context.Background())
	a, err := newApp(ctx, config.DefaultConfig(), false)
	if err != nil {
		t.Fatalf("newApp() failed: %v", err)
	}

	cancel()
	if envCtx.Err() != nil {
		t.Errorf("environment context cancelled with the run context: %v", envCtx.Err())
	}

	a.close()
	if !closed {
		t.Error("close() did not shut the environment down")
	}
}
