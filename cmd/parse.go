package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/cs-logstats/internal/report"
)

var (
	parseRound int
	parseFinal bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <log | url | ->",
	Short: "Parse a server log and print per-round stats",
	Long: `Parse a Counter-Strike server log and print one scoreboard per round.
The source may be a file path, an http(s) URL, or "-" for stdin. gzip, bzip2
and zstd compressed logs are detected automatically. Nothing is stored; use
'import' to keep a log in the library.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().IntVar(&parseRound, "round", 0, "print only this round (1-based)")
	parseCmd.Flags().BoolVar(&parseFinal, "final", false, "print only the final round")
}

func runParse(cmd *cobra.Command, args []string) error {
	source := args[0]

	res, raw, err := loadAndRun(cmd.Context(), source)
	if err != nil {
		return err
	}

	stats, err := selectRounds(res.RoundStats, parseRound, parseFinal)
	if err != nil {
		return err
	}

	report.PrintLogSummary(os.Stdout, summarize(source, raw, res))
	if len(stats) == 0 {
		fmt.Fprintln(os.Stdout, "\nNo completed rounds found.")
		return nil
	}
	report.PrintRounds(os.Stdout, stats, res.Teams)
	return nil
}
