// Package config provides YAML-based configuration for the bot: game
// window, pixel calibration, OCR tuning, playback timing, run policy,
// storage, logging and diagnostic snapshots.
//
// Every calibration constant the bot depends on lives here rather than in
// code, so a different game layout or screen scale is a config change.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"qwop-bot/internal/ocr"
	"qwop-bot/internal/pixel"
)

// Config contains the whole bot configuration
type Config struct {
	Game        GameConfig        `yaml:"game"`
	Calibration CalibrationConfig `yaml:"calibration"`
	OCR         OCRConfig         `yaml:"ocr"`
	Playback    PlaybackConfig    `yaml:"playback"`
	Generator   GeneratorConfig   `yaml:"generator"`
	Policy      PolicyConfig      `yaml:"policy"`
	Storage     StorageConfig     `yaml:"storage"`
	Log         LogConfig         `yaml:"log"`
	Snapshots   SnapshotConfig    `yaml:"snapshots"`

	// Source is the file the config was read from, or "embedded"
	Source string `yaml:"-"`
}

// GameConfig selects the environment backend and the game page
type GameConfig struct {
	Backend  string `yaml:"backend"` // native or browser
	URL      string `yaml:"url"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Headless bool   `yaml:"headless"`
	Display  int    `yaml:"display"`
}

// CalibrationConfig holds the pixel layout of the game
type CalibrationConfig struct {
	Tolerance     int           `yaml:"tolerance"`
	Border        pixel.Color   `yaml:"border"`
	Step          int           `yaml:"step"`
	OriginOffset  pixel.Point   `yaml:"origin_offset"`
	FinishedShift pixel.Point   `yaml:"finished_shift"`
	Medal         pixel.Color   `yaml:"medal"`
	MedalProbes   []pixel.Point `yaml:"medal_probes"`
	ScoreRegion   pixel.Bounds  `yaml:"score_region"`
}

// OCRConfig tunes score recognition
type OCRConfig struct {
	Engine        string       `yaml:"engine"` // template or tesseract
	Polarity      ocr.Polarity `yaml:"polarity"`
	Cutoff        uint8        `yaml:"cutoff"`
	MinSimilarity float64      `yaml:"min_similarity"`
	MinPixels     int          `yaml:"min_pixels"`
	WordGap       int          `yaml:"word_gap"`
	TemplateStrip string       `yaml:"template_strip"` // empty uses the built-in font
	Alphabet      string       `yaml:"alphabet"`
}

// PlaybackConfig holds the input timing
type PlaybackConfig struct {
	Tick   time.Duration `yaml:"tick"`
	Settle time.Duration `yaml:"settle"`
	Keys   []string      `yaml:"keys"` // Q W O P channel keys, in order
}

// GeneratorConfig configures random control strings
type GeneratorConfig struct {
	DurationTicks int   `yaml:"duration_ticks"`
	Seed          int64 `yaml:"seed"` // 0 seeds from the clock
}

// PolicyConfig holds the run success policy
type PolicyConfig struct {
	FailBelow float64 `yaml:"fail_below"`
}

// StorageConfig locates the run history database
type StorageConfig struct {
	Path string `yaml:"path"`
}

// LogConfig configures the log file
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// SnapshotConfig controls diagnostic score captures
type SnapshotConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Dir         string `yaml:"dir"`
	MaxDistance int    `yaml:"max_distance"` // perceptual hash distance treated as a duplicate
}

// Validate rejects values the bot cannot work with. All problems are
// reported together.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("config: "+format, args...))
	}

	switch strings.ToLower(c.Game.Backend) {
	case "native", "browser":
	default:
		add("game.backend %q: want native or browser", c.Game.Backend)
	}
	if c.Game.Width <= 0 || c.Game.Height <= 0 {
		add("game window %dx%d must be positive", c.Game.Width, c.Game.Height)
	}

	cal := c.Calibration
	if cal.Tolerance < 1 {
		add("calibration.tolerance %d: must be at least 1", cal.Tolerance)
	}
	if cal.Step < 1 {
		add("calibration.step %d: must be at least 1", cal.Step)
	}
	if len(cal.MedalProbes) != 2 {
		add("calibration.medal_probes: want 2 points, got %d", len(cal.MedalProbes))
	}
	if cal.ScoreRegion.Empty() {
		add("calibration.score_region %v is empty", cal.ScoreRegion)
	}

	switch strings.ToLower(c.OCR.Engine) {
	case "template", "tesseract":
	default:
		add("ocr.engine %q: want template or tesseract", c.OCR.Engine)
	}
	if c.OCR.MinSimilarity <= 0 || c.OCR.MinSimilarity > 1 {
		add("ocr.min_similarity %v: want (0, 1]", c.OCR.MinSimilarity)
	}
	if c.OCR.TemplateStrip != "" && c.OCR.Alphabet == "" {
		add("ocr.alphabet is required with a template strip")
	}

	if c.Playback.Tick <= 0 {
		add("playback.tick %v must be positive", c.Playback.Tick)
	}
	if c.Playback.Settle < 0 {
		add("playback.settle %v must not be negative", c.Playback.Settle)
	}
	if len(c.Playback.Keys) != 4 {
		add("playback.keys: want 4 keys, got %d", len(c.Playback.Keys))
	}
	for i, k := range c.Playback.Keys {
		if strings.TrimSpace(k) == "" {
			add("playback.keys[%d] is empty", i)
		}
	}

	if c.Generator.DurationTicks < 0 {
		add("generator.duration_ticks %d must not be negative", c.Generator.DurationTicks)
	}
	if c.Snapshots.Enabled && c.Snapshots.Dir == "" {
		add("snapshots.dir is required when snapshots are enabled")
	}
	if c.Snapshots.MaxDistance < 0 {
		add("snapshots.max_distance %d must not be negative", c.Snapshots.MaxDistance)
	}

	return errors.Join(errs...)
}
