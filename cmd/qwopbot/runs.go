package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"qwop-bot/internal/storage"
)

var (
	flagBest  bool
	flagLimit int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recorded runs",
	Long: `Display recent runs, or the furthest ones with --best, followed by
totals over the whole history.

Examples:
  qwopbot runs
  qwopbot runs --best --limit 5`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().BoolVar(&flagBest, "best", false, "Show the furthest runs instead of the latest")
	runsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
}

func runRuns(cmd *cobra.Command, args []string) error {
	store, err := openStore(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	var runs []storage.Run
	title := "Recent runs"
	if flagBest {
		title = "Best runs"
		runs, err = store.BestRuns(flagLimit)
	} else {
		runs, err = store.RecentRuns(flagLimit)
	}
	if err != nil {
		return err
	}

	stats, err := store.Stats()
	if err != nil {
		return err
	}

	printRuns(cmd.OutOrStdout(), title, runs, stats)
	return nil
}

func printRuns(w io.Writer, title string, runs []storage.Run, stats storage.Stats) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w)

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Run 'qwopbot play' to record the first one!")
		return
	}

	fmt.Fprintf(w, "  %-5s  %-8s  %9s  %8s  %-16s  %s\n", "ID", "Status", "Distance", "Time", "Date", "String")
	fmt.Fprintf(w, "  %-5s  %-8s  %9s  %8s  %-16s  %s\n", "--", "------", "--------", "----", "----", "------")
	for _, r := range runs {
		fmt.Fprintf(w, "  %-5d  %-8s  %8.1fm  %8s  %-16s  %s\n",
			r.ID, r.Status, r.Distance, r.Duration.Round(100*time.Millisecond), r.CreatedAt.Format("2006-01-02 15:04"), r.ControlString)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total: %d runs (%d success, %d failed, %d aborted)\n", stats.Total, stats.Successes, stats.Failures, stats.Aborts)
	fmt.Fprintf(w, "Best:  %.1fm   Mean: %.1fm\n", stats.BestDistance, stats.MeanDistance)
}
