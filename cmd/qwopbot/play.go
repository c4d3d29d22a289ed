package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"qwop-bot/internal/control"
	"qwop-bot/internal/logging"
	"qwop-bot/internal/runner"
	"qwop-bot/internal/sequence"
)

var (
	flagGames    int
	flagDuration int
	flagString   string
	flagSeed     int64
	flagNoStore  bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Locate the game and play a batch of runs",
	Long: `Locate the game on screen, then start and play games back to back.

Each game uses a freshly generated control string of --duration ticks, or
the fixed --string. The string is repeated until the game ends. Every
outcome is logged and stored in the run history.

Ctrl+C stops the current run at the next key event; the run is recorded
as aborted and all keys are released.

Examples:
  qwopbot play
  qwopbot play --games 50 --duration 40 --seed 7
  qwopbot play --string "QP+++qp+WO+++wo+"`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagGames, "games", 10, "Games to play (0 = until stopped)")
	playCmd.Flags().IntVar(&flagDuration, "duration", 0, "Generated string length in ticks (0 = config)")
	playCmd.Flags().StringVar(&flagString, "string", "", "Play this control string instead of generating")
	playCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Generator seed (0 = config, then clock)")
	playCmd.Flags().BoolVar(&flagNoStore, "no-store", false, "Do not record runs")
}

func runPlay(cmd *cobra.Command, args []string) error {
	next, err := controlSource()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, !flagNoStore)
	if err != nil {
		return err
	}
	defer a.close()

	sess, err := a.runner.Locate()
	if err != nil {
		return err
	}

	stats, err := a.runner.RunBatch(ctx, sess, runner.Batch{
		Games: flagGames,
		Next:  next,
		OnOutcome: func(game int, o runner.Outcome) {
			a.record(game, o)
			fmt.Printf("  %-4d  %-8s  %8.1fm  %s\n", game, o.Status(), o.Distance, o.ControlString)
		},
	}, nil)

	fmt.Println()
	fmt.Println(stats.Summary())
	if _, best := stats.Best(); best != "" {
		fmt.Printf("Best string: %s\n", best)
	}
	logging.Infof("Batch finished: %s", stats.Summary())
	return err
}

// controlSource builds the string source from the play flags
func controlSource() (runner.Source, error) {
	if flagString != "" {
		s := control.Parse(flagString)
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("--string %q: %w", flagString, err)
		}
		return runner.FixedSource(s), nil
	}

	duration := flagDuration
	if duration <= 0 {
		duration = cfg.Generator.DurationTicks
	}
	if duration <= 0 {
		return nil, fmt.Errorf("generated strings need a positive duration")
	}
	seed := flagSeed
	if seed == 0 {
		seed = cfg.Generator.Seed
	}
	return runner.GeneratedSource(sequence.NewSeeded(seed), duration), nil
}
