package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"qwop-bot/internal/sequence"
)

var flagCount int

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print random control strings",
	Long: `Print generated control strings, one per line. Every string is
playable: keys are released before the end and no key is pressed and
released within one tick.

Examples:
  qwopbot generate --count 5 --duration 30
  qwopbot generate --seed 42`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		duration := flagDuration
		if duration <= 0 {
			duration = cfg.Generator.DurationTicks
		}
		seed := flagSeed
		if seed == 0 {
			seed = cfg.Generator.Seed
		}
		return writeGenerated(cmd.OutOrStdout(), sequence.NewSeeded(seed), flagCount, duration)
	},
}

func init() {
	generateCmd.Flags().IntVar(&flagCount, "count", 10, "Number of strings")
	generateCmd.Flags().IntVar(&flagDuration, "duration", 0, "Length in ticks (0 = config)")
	generateCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Generator seed (0 = config, then clock)")
}

func writeGenerated(w io.Writer, g *sequence.Generator, count, duration int) error {
	for i := 0; i < count; i++ {
		if _, err := fmt.Fprintln(w, g.Generate(duration)); err != nil {
			return err
		}
	}
	return nil
}
