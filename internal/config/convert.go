package config

import (
	"qwop-bot/internal/finish"
	"qwop-bot/internal/locate"
	"qwop-bot/internal/ocr"
	"qwop-bot/internal/playback"
	"qwop-bot/internal/runner"
)

// LocateParams returns the border scan calibration
func (c Config) LocateParams() locate.Params {
	return locate.Params{
		Border:    c.Calibration.Border,
		Tolerance: c.Calibration.Tolerance,
		Step:      c.Calibration.Step,
		Offset:    c.Calibration.OriginOffset,
	}
}

// FinishParams returns the medal probe calibration
func (c Config) FinishParams() finish.Params {
	p := finish.Params{
		Medal:     c.Calibration.Medal,
		Tolerance: c.Calibration.Tolerance,
		Shift:     c.Calibration.FinishedShift,
	}
	copy(p.Probes[:], c.Calibration.MedalProbes)
	return p
}

// OCRParams returns the score recognition calibration
func (c Config) OCRParams() ocr.Params {
	return ocr.Params{
		Region:        c.Calibration.ScoreRegion,
		Cutoff:        c.OCR.Cutoff,
		Polarity:      c.OCR.Polarity,
		MinSimilarity: c.OCR.MinSimilarity,
		MinPixels:     c.OCR.MinPixels,
		WordGap:       c.OCR.WordGap,
	}
}

// Templates loads the configured glyph templates: the strip file when set,
// else the built-in font
func (c Config) Templates() (*ocr.TemplateSet, error) {
	if c.OCR.TemplateStrip == "" {
		return ocr.DefaultTemplates()
	}
	return ocr.LoadTemplateStrip(ExpandHome(c.OCR.TemplateStrip), c.OCR.Alphabet, c.OCR.Cutoff, c.OCR.Polarity)
}

// PlaybackParams returns the tick and channel keys
func (c Config) PlaybackParams() playback.Params {
	p := playback.Params{Tick: c.Playback.Tick}
	copy(p.Keys[:], c.Playback.Keys)
	return p
}

// RunnerOptions assembles everything the game driver needs
func (c Config) RunnerOptions() runner.Options {
	return runner.Options{
		Locate:   c.LocateParams(),
		Finish:   c.FinishParams(),
		Playback: c.PlaybackParams(),
		Policy: runner.Policy{
			FailBelow: c.Policy.FailBelow,
			Settle:    c.Playback.Settle,
		},
	}
}
