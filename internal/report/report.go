package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/cs-logstats/internal/model"
	"github.com/pable/cs-logstats/internal/parser"
)

var (
	cRound = color.New(color.FgCyan, color.Bold)
	cMuted = color.New(color.Faint)
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// ScoreLine renders score as "A 1 - 0 B" in team order. Without two teams
// it falls back to the score map's keys sorted by name.
func ScoreLine(score map[string]int, teams []model.Team) string {
	var a, b string
	if len(teams) >= 2 {
		a, b = teams[0].Name, teams[1].Name
	} else {
		names := make([]string, 0, len(score))
		for name := range score {
			names = append(names, name)
		}
		sort.Strings(names)
		if len(names) < 2 {
			return ""
		}
		a, b = names[0], names[1]
	}
	return fmt.Sprintf("%s %d - %d %s", a, score[a], score[b], b)
}

// PrintRoundHeader prints the one-line banner above a round's table.
func PrintRoundHeader(w io.Writer, rs model.RoundStats, teams []model.Team) {
	cRound.Fprintf(w, "\nRound %d", rs.RoundNumber)
	fmt.Fprintf(w, "  |  Duration: %s  |  Score: %s\n\n", rs.RoundDuration, ScoreLine(rs.Score, teams))
}

// PrintRoundTable prints one scoreboard for the snapshot, players sorted by
// kills. Rates are shown with two decimals.
func PrintRoundTable(w io.Writer, rs model.RoundStats) {
	table := newTable(w)
	table.Header("NAME", "STEAM64", "K", "D", "A", "KPR", "DPR", "ADR", "ATDR")

	for _, ps := range rs.SortedPlayers() {
		id64, ok := parser.SteamID64(ps.Player.ID)
		if !ok {
			id64 = "—"
		}
		name := ps.Player.Alias
		if name == "" {
			name = ps.Player.ID
		}
		table.Append(
			name,
			id64,
			strconv.Itoa(ps.Kills),
			strconv.Itoa(ps.Deaths),
			strconv.Itoa(ps.Assists),
			fmt.Sprintf("%.2f", ps.KPR),
			fmt.Sprintf("%.2f", ps.DPR),
			fmt.Sprintf("%.2f", ps.ADR),
			fmt.Sprintf("%.2f", ps.ATDR),
		)
	}
	table.Render()
}

// PrintRounds prints a header and scoreboard for every snapshot.
func PrintRounds(w io.Writer, stats []model.RoundStats, teams []model.Team) {
	for _, rs := range stats {
		PrintRoundHeader(w, rs, teams)
		PrintRoundTable(w, rs)
	}
}

// PrintLogSummary prints a one-line summary header for a stored or parsed log.
func PrintLogSummary(w io.Writer, s model.LogSummary) {
	hash := s.Hash
	if len(hash) > 12 {
		hash = hash[:12]
	}
	mapName := s.MapName
	if mapName == "" {
		mapName = "unknown"
	}
	fmt.Fprintf(w, "\nMap: %s  |  Rounds: %d  |  Score: %s  |  Hash: %s\n",
		mapName, s.Rounds, s.Score, hash)
	cMuted.Fprintf(w, "Source: %s (%s)\n", s.Source, humanize.Bytes(uint64(s.Size)))
}

// PrintLogList prints the library listing. now anchors the relative ages.
func PrintLogList(w io.Writer, logs []model.LogSummary, now time.Time) {
	table := newTable(w)
	table.Header("HASH", "MAP", "ROUNDS", "SCORE", "SIZE", "IMPORTED", "SOURCE")

	for _, l := range logs {
		hash := l.Hash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		table.Append(
			hash,
			l.MapName,
			strconv.Itoa(l.Rounds),
			l.Score,
			humanize.Bytes(uint64(l.Size)),
			humanize.RelTime(l.ImportedAt, now, "ago", "from now"),
			l.Source,
		)
	}
	table.Render()
}

// PrintQueryResult prints an ad-hoc query result with its column names as the header.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)

	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
}

// PrintCareerTable prints cross-log player totals.
func PrintCareerTable(w io.Writer, careers []model.PlayerCareer) {
	table := newTable(w)
	table.Header("NAME", "STEAM64", "LOGS", "ROUNDS", "K", "D", "A", "K/D", "KPR", "DPR", "ADR", "TEAM_DMG")

	for _, c := range careers {
		id64, ok := parser.SteamID64(c.Player.ID)
		if !ok {
			id64 = "—"
		}
		table.Append(
			c.Player.Alias,
			id64,
			strconv.Itoa(c.Logs),
			strconv.Itoa(c.Rounds),
			strconv.Itoa(c.Kills),
			strconv.Itoa(c.Deaths),
			strconv.Itoa(c.Assists),
			fmt.Sprintf("%.2f", c.KDRatio()),
			fmt.Sprintf("%.2f", c.KPR()),
			fmt.Sprintf("%.2f", c.DPR()),
			fmt.Sprintf("%.2f", c.ADR()),
			fmt.Sprintf("%.0f", c.TeamDamage),
		)
	}
	table.Render()
}

// PrintMapCounts prints the per-map breakdown of the library.
func PrintMapCounts(w io.Writer, maps []model.MapCount) {
	table := newTable(w)
	table.Header("MAP", "LOGS", "ROUNDS")
	for _, m := range maps {
		table.Append(m.MapName, strconv.Itoa(m.Logs), strconv.Itoa(m.Rounds))
	}
	table.Render()
}
