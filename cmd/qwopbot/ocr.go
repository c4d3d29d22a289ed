package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vcaesar/imgo"

	"qwop-bot/internal/ocr"
	"qwop-bot/internal/ocr/tesseract"
	"qwop-bot/internal/pixel"
)

var (
	flagEngine string
	flagOut    string
)

var ocrCmd = &cobra.Command{
	Use:   "ocr <image.png>",
	Short: "Recognise a saved score capture",
	Long: `Run score recognition on an image of the score region, such as a
snapshot written after a run, and print the recognised text, the parsed
distance and one line per glyph.

The thresholded image with glyph boxes is written next to the input
(or to --out) for inspection.

Examples:
  qwopbot ocr ~/.qwopbot/snapshots/20240101-120000-game001-failed.png
  qwopbot ocr score.png --engine tesseract --out boxes.png`,
	Args: cobra.ExactArgs(1),
	RunE: runOCR,
}

func init() {
	ocrCmd.Flags().StringVar(&flagEngine, "engine", "", "OCR engine: template or tesseract (default from config)")
	ocrCmd.Flags().StringVar(&flagOut, "out", "", "Annotated output path (default <input>-boxes.png)")
}

func runOCR(cmd *cobra.Command, args []string) error {
	path := args[0]
	img, err := imgo.Read(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	engine := flagEngine
	if engine == "" {
		engine = cfg.OCR.Engine
	}
	params := cfg.OCRParams()

	var res ocr.Result
	switch strings.ToLower(engine) {
	case "template":
		templates, err := cfg.Templates()
		if err != nil {
			return fmt.Errorf("load glyph templates: %w", err)
		}
		res = ocr.Recognize(img, templates, params)

	case "tesseract":
		r, err := tesseract.NewReader(nil, params)
		if err != nil {
			return fmt.Errorf("start tesseract: %w", err)
		}
		defer r.Close()
		res, err = r.Recognize(pixel.NewRegion(pixel.BoundsFromRect(img.Bounds()), img))
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown engine %q: want template or tesseract", engine)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Text:     %q\n", res.Text)
	if d, err := ocr.ParseDistance(res.Text); err == nil {
		fmt.Fprintf(out, "Distance: %.1f\n", d)
	} else {
		fmt.Fprintf(out, "Distance: unreadable (%v)\n", err)
	}
	for i, g := range res.Glyphs {
		line := fmt.Sprintf("  glyph %-2d at (%d,%d) %dx%d", i, g.X, g.Y, g.W, g.H)
		if i < len(res.Matches) {
			line += fmt.Sprintf("  %q score %.2f", res.Matches[i].Symbol, res.Matches[i].Score)
		}
		fmt.Fprintln(out, line)
	}

	if res.Annotated != nil {
		annotatedPath := flagOut
		if annotatedPath == "" {
			annotatedPath = strings.TrimSuffix(path, filepath.Ext(path)) + "-boxes.png"
		}
		if err := imgo.Save(annotatedPath, res.Annotated); err != nil {
			return fmt.Errorf("save %s: %w", annotatedPath, err)
		}
		fmt.Fprintf(out, "Annotated: %s\n", annotatedPath)
	}
	return nil
}
