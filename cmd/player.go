package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/cs-logstats/internal/aggregator"
	"github.com/pable/cs-logstats/internal/log"
	"github.com/pable/cs-logstats/internal/model"
	"github.com/pable/cs-logstats/internal/parser"
	"github.com/pable/cs-logstats/internal/report"
)

// playerCmd is the cobra command for cross-log totals of one or more players.
var playerCmd = &cobra.Command{
	Use:   "player <steam-id> [<steam-id>...]",
	Short: "Cross-log totals for one or more players",
	Long: `Recompute every stored log and sum the final-round stats of the given
players. IDs may be given as STEAM_X:Y:Z or as SteamID64.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlayer,
}

func runPlayer(cmd *cobra.Command, args []string) error {
	db, err := openLibrary()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	_, all, err := recomputeAll(cmd.Context(), db)
	if err != nil {
		return err
	}

	careers := aggregator.Careers(all)
	var found []model.PlayerCareer
	for _, arg := range args {
		c, ok := findCareer(careers, arg)
		if !ok {
			fmt.Fprintf(os.Stderr, "No data found for %s\n", arg)
			continue
		}
		found = append(found, c)
	}
	if len(found) == 0 {
		return nil
	}

	fmt.Fprintln(os.Stdout)
	report.PrintCareerTable(os.Stdout, found)
	return nil
}

// findCareer matches id against either the raw log ID or its SteamID64.
func findCareer(careers []model.PlayerCareer, id string) (model.PlayerCareer, bool) {
	id = strings.TrimSpace(id)
	for _, c := range careers {
		if c.Player.ID == id {
			return c, true
		}
		if id64, ok := parser.SteamID64(c.Player.ID); ok && id64 == id {
			return c, true
		}
	}
	return model.PlayerCareer{}, false
}
