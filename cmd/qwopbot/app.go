package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"qwop-bot/internal/config"
	"qwop-bot/internal/logging"
	"qwop-bot/internal/ocr"
	"qwop-bot/internal/ocr/tesseract"
	"qwop-bot/internal/platform"
	"qwop-bot/internal/runner"
	"qwop-bot/internal/snapshot"
	"qwop-bot/internal/storage"
)

var openEnvironment = platform.Open

// app is everything a playing command needs, wired from the config
type app struct {
	cfg    config.Config
	env    platform.Env
	runner *runner.Runner
	store  *storage.Store    // nil when recording is off
	snaps  *snapshot.Writer  // nil when snapshots are off
	closer []func()
}

// newApp opens the environment, the score reader and, when record is set,
// the run store and snapshot writer
func newApp(ctx context.Context, c config.Config, record bool) (*app, error) {
	a := &app{cfg: c}

	backend, err := platform.ParseBackend(c.Game.Backend)
	if err != nil {
		return nil, err
	}
	// The environment outlives ctx so that a cancelled run can still
	// release its keys and read the score; close() shuts it down.
	env, closeEnv, err := openEnvironment(context.WithoutCancel(ctx), platform.Options{
		Backend: backend,
		Display: c.Game.Display,
		Browser: platform.BrowserOptions{
			URL:      c.Game.URL,
			Width:    c.Game.Width,
			Height:   c.Game.Height,
			Headless: c.Game.Headless,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s environment: %w", backend, err)
	}
	a.env = env
	a.closer = append(a.closer, closeEnv)

	reader, closeReader, err := newScoreReader(c, env)
	if err != nil {
		a.close()
		return nil, err
	}
	a.closer = append(a.closer, closeReader)
	a.runner = runner.New(env, reader, c.RunnerOptions())

	if !record {
		return a, nil
	}

	store, err := openStore(c.Storage.Path)
	if err != nil {
		a.close()
		return nil, err
	}
	a.store = store
	a.closer = append(a.closer, func() { store.Close() })

	if c.Snapshots.Enabled {
		snaps, err := snapshot.NewWriter(config.ExpandHome(c.Snapshots.Dir), c.Snapshots.MaxDistance)
		if err != nil {
			a.close()
			return nil, err
		}
		a.snaps = snaps
	}
	return a, nil
}

// openStore opens the run history, expanding a leading ~/
func openStore(path string) (*storage.Store, error) {
	return storage.Open(config.ExpandHome(path))
}

// newScoreReader builds the configured OCR engine
func newScoreReader(c config.Config, capturer ocr.RectCapturer) (ocr.ScoreReader, func(), error) {
	switch strings.ToLower(c.OCR.Engine) {
	case "tesseract":
		r, err := tesseract.NewReader(capturer, c.OCRParams())
		if err != nil {
			return nil, nil, fmt.Errorf("start tesseract: %w", err)
		}
		return r, func() { r.Close() }, nil

	default:
		templates, err := c.Templates()
		if err != nil {
			return nil, nil, fmt.Errorf("load glyph templates: %w", err)
		}
		logging.Debugf("Loaded %d glyph templates (%s)", len(templates.Templates), templates.Symbols())
		return ocr.NewReader(capturer, templates, c.OCRParams()), func() {}, nil
	}
}

// close releases resources in reverse order of acquisition
func (a *app) close() {
	for i := len(a.closer) - 1; i >= 0; i-- {
		a.closer[i]()
	}
	a.closer = nil
}

// record stores an outcome and writes its snapshot. Failures are logged;
// a run is never lost because its diagnostics could not be written.
func (a *app) record(game int, o runner.Outcome) {
	var snapPath string
	if a.snaps != nil {
		name := fmt.Sprintf("%s-game%03d-%s", time.Now().Format("20060102-150405"), game, o.Status())
		path, err := a.snaps.Write(name, captureImage(o), annotatedImage(o))
		if err != nil {
			logging.Warnf("Snapshot failed: %v", err)
		}
		snapPath = path
	}

	if a.store == nil {
		return
	}
	id, err := a.store.SaveRun(runRecord(o, snapPath))
	if err != nil {
		logging.Errorf("Failed to save run: %v", err)
		return
	}
	logging.Debugf("Run %d saved", id)
}
