package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/cs-logstats/internal/log"
	"github.com/pable/cs-logstats/internal/report"
)

var (
	showRound int
	showFinal bool
)

var showCmd = &cobra.Command{
	Use:   "show <hash-prefix>",
	Short: "Recompute and show stats for a stored log",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().IntVar(&showRound, "round", 0, "print only this round (1-based)")
	showCmd.Flags().BoolVar(&showFinal, "final", false, "print only the final round")
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := openLibrary()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	summary, res, err := storedLog(db, prefix)
	if err != nil {
		return err
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "No log found with hash prefix %q\n", prefix)
		return nil
	}

	stats, err := selectRounds(res.RoundStats, showRound, showFinal)
	if err != nil {
		return err
	}

	report.PrintLogSummary(os.Stdout, *summary)
	report.PrintRounds(os.Stdout, stats, res.Teams)
	return nil
}
