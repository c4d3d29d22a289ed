package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Print the detected game origin",
	Long: `Scan the screen for the game's message box border and print the
game origin, the score region and whether the end screen is showing.

Use this to check calibration before playing.`,
	Args: cobra.NoArgs,
	RunE: runLocate,
}

func runLocate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}
	defer a.close()

	sess, err := a.runner.Locate()
	if err != nil {
		return err
	}

	origin := sess.Origin()
	score := cfg.Calibration.ScoreRegion.Offset(origin)
	fmt.Printf("Origin:       (%d, %d)\n", origin.X, origin.Y)
	fmt.Printf("Score region: (%d, %d) %dx%d\n", score.X, score.Y, score.W, score.H)
	fmt.Printf("Finished:     %v\n", sess.Finished())
	return nil
}
