package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pable/cs-logstats/internal/aggregator"
	"github.com/pable/cs-logstats/internal/log"
	"github.com/pable/cs-logstats/internal/report"
)

var summaryTop int

// summaryCmd is the cobra command for displaying a high-level library overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the log library",
	Long: `Display aggregate statistics about all stored logs: log count, import range,
map breakdown and the most active players (recomputed from the raw logs).`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().IntVar(&summaryTop, "top", 10, "number of players to list")
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openLibrary()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	ov, err := db.GetLibraryOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalLogs == 0 {
		fmt.Fprintln(os.Stdout, "No logs stored yet. Run 'cslogstats import <server.log>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Library Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Logs stored   : %d (%s)\n", ov.TotalLogs, humanize.Bytes(uint64(ov.TotalSize)))
	fmt.Fprintf(os.Stdout, "  Imported      : %s → %s\n",
		ov.EarliestImport.Format("2006-01-02"), ov.LatestImport.Format("2006-01-02"))
	fmt.Fprintf(os.Stdout, "  Unique maps   : %d\n", ov.UniqueMaps)
	fmt.Fprintf(os.Stdout, "  Total rounds  : %s\n", humanize.Comma(int64(ov.TotalRounds)))

	maps, err := db.GetMapCounts()
	if err != nil {
		return fmt.Errorf("get map counts: %w", err)
	}
	if len(maps) > 0 {
		fmt.Fprintf(os.Stdout, "\n--- Maps ---\n\n")
		report.PrintMapCounts(os.Stdout, maps)
	}

	_, all, err := recomputeAll(cmd.Context(), db)
	if err != nil {
		return err
	}
	careers := aggregator.Careers(all)
	if len(careers) > summaryTop && summaryTop > 0 {
		careers = careers[:summaryTop]
	}
	if len(careers) > 0 {
		fmt.Fprintf(os.Stdout, "\n--- Most Active Players ---\n\n")
		report.PrintCareerTable(os.Stdout, careers)
	}
	return nil
}
