package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/cs-logstats/internal/loader"
	"github.com/pable/cs-logstats/internal/log"
	"github.com/pable/cs-logstats/internal/report"
)

var importForce bool

var importCmd = &cobra.Command{
	Use:   "import <log | url | -> [...]",
	Short: "Store server logs in the library",
	Long: `Validate each log by computing its stats, then store the raw text keyed by
its sha256. Computed stats are never stored; 'show' recomputes them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importForce, "force", "f", false, "re-import logs that are already stored")
}

func runImport(cmd *cobra.Command, args []string) error {
	db, err := openLibrary()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	for _, source := range args {
		res, raw, err := loadAndRun(cmd.Context(), source)
		if err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}

		name := source
		if source != loader.Stdin && !loader.IsRemote(source) {
			if abs, err := filepath.Abs(source); err == nil {
				name = abs
			}
		}
		summary := summarize(name, raw, res)

		exists, err := db.LogExists(summary.Hash)
		if err != nil {
			return fmt.Errorf("check log: %w", err)
		}
		if exists && !importForce {
			fmt.Fprintf(os.Stdout, "Log %s already stored, skipping.\n", shortHash(summary.Hash))
			continue
		}

		summary.ImportedAt = time.Now()
		if err := db.InsertLog(summary, raw); err != nil {
			return fmt.Errorf("insert log: %w", err)
		}
		report.PrintLogSummary(os.Stdout, summary)
	}
	return nil
}
