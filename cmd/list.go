package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/cs-logstats/internal/log"
	"github.com/pable/cs-logstats/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored logs",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openLibrary()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	logs, err := db.ListLogs()
	if err != nil {
		return fmt.Errorf("list logs: %w", err)
	}
	if len(logs) == 0 {
		fmt.Fprintln(os.Stdout, "No logs stored yet. Run 'cslogstats import <server.log>' to add one.")
		return nil
	}

	report.PrintLogList(os.Stdout, logs, time.Now())
	return nil
}
