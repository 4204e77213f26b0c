package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/cs-logstats/internal/log"
	"github.com/pable/cs-logstats/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the log library",
	Long: `Run an arbitrary SQL query against the log library and print results as a table.

Schema:
  logs(hash TEXT, source TEXT, map_name TEXT, rounds INTEGER, score TEXT,
       size INTEGER, imported_at INTEGER, raw TEXT)

imported_at is a unix timestamp. Example:
  cslogstats sql "SELECT map_name, COUNT(*) FROM logs GROUP BY map_name"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openLibrary()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	report.PrintQueryResult(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
