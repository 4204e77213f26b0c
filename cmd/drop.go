package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/cs-logstats/internal/log"
)

var dropForce bool

// dropCmd deletes the log library database file.
var dropCmd = &cobra.Command{
	Use:   "drop [hash-prefix]",
	Short: "Delete one stored log or the whole library",
	Long: `With a hash prefix, remove that log from the library. Without one, permanently
delete the SQLite library database; every imported log is lost. Both need --force.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return dropOne(args[0])
	}

	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", cfg.DB)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(cfg.DB); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(cfg.DB + suffix)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", cfg.DB)
	return nil
}

func dropOne(prefix string) error {
	db, err := openLibrary()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	summary, _, err := db.GetLogByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query log: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "No log found with hash prefix %q\n", prefix)
		return nil
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will delete log %s (%s).\n", shortHash(summary.Hash), summary.Source)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	if _, err := db.DeleteLog(summary.Hash); err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted log %s\n", shortHash(summary.Hash))
	return nil
}
