package config

import (
	_ "embed"
	"time"

	"qwop-bot/internal/ocr"
	"qwop-bot/internal/pixel"
)

//go:embed defaults/qwopbot.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file
func DefaultYAML() []byte {
	out := make([]byte, len(defaultYAML))
	copy(out, defaultYAML)
	return out
}

// DefaultConfig returns the hardcoded default configuration. It matches the
// embedded YAML and is the base every loaded file is merged onto.
func DefaultConfig() Config {
	return Config{
		Game: GameConfig{
			Backend: "native",
			URL:     "http://www.foddy.net/Athletics.html",
			Width:   800,
			Height:  600,
		},
		Calibration: CalibrationConfig{
			Tolerance:     pixel.DefaultTolerance,
			Border:        pixel.Hex(0x9dbcd0),
			Step:          4,
			OriginOffset:  pixel.NewPoint(-124, -103),
			FinishedShift: pixel.NewPoint(-5, 4),
			Medal:         pixel.Hex(0xffff00),
			MedalProbes:   []pixel.Point{{X: 157, Y: 126}, {X: 482, Y: 126}},
			ScoreRegion:   pixel.NewBounds(200, 20, 200, 30),
		},
		OCR: OCRConfig{
			Engine:        "template",
			Polarity:      ocr.LightInk,
			Cutoff:        128,
			MinSimilarity: 0.75,
			MinPixels:     2,
			WordGap:       6,
			Alphabet:      ocr.DefaultAlphabet,
		},
		Playback: PlaybackConfig{
			Tick:   100 * time.Millisecond,
			Settle: 500 * time.Millisecond,
			Keys:   []string{"q", "w", "o", "p"},
		},
		Generator: GeneratorConfig{
			DurationTicks: 20,
		},
		Policy: PolicyConfig{
			FailBelow: 100,
		},
		Storage: StorageConfig{
			Path: "~/.qwopbot/runs.db",
		},
		Log: LogConfig{
			File:  "Debug.log",
			Level: "info",
		},
		Snapshots: SnapshotConfig{
			Dir:         "~/.qwopbot/snapshots",
			MaxDistance: 2,
		},
		Source: "embedded",
	}
}
