// Package pipeline wires the parser and aggregator into the single entry
// point used by the CLI: classify, segment, extract roster, aggregate.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/pable/cs-logstats/internal/aggregator"
	"github.com/pable/cs-logstats/internal/model"
	"github.com/pable/cs-logstats/internal/parser"
)

// Result holds every intermediate artefact of one run.
type Result struct {
	Events     []model.MatchEvent
	Rounds     []model.Round
	Players    []model.Player
	Teams      []model.Team
	MapName    string
	RoundStats []model.RoundStats
}

// Run executes the whole pipeline over raw. It either returns a complete
// result or an error; partial round stats are never returned.
func Run(raw string) (*Result, error) {
	events, rounds := parser.Parse(raw)
	players, teams := parser.ExtractRoster(events)

	slog.Debug("Roster extracted", slog.Int("players", len(players)), slog.Int("teams", len(teams)))

	stats, err := aggregator.Aggregate(rounds, events, players, teams)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	return &Result{
		Events:     events,
		Rounds:     rounds,
		Players:    players,
		Teams:      teams,
		MapName:    parser.MapName(events),
		RoundStats: stats,
	}, nil
}

// ComputeRoundStats returns one snapshot per round, ordered by round number.
func ComputeRoundStats(raw string) ([]model.RoundStats, error) {
	res, err := Run(raw)
	if err != nil {
		return nil, err
	}
	return res.RoundStats, nil
}

// FinalScore renders the last snapshot's score as "A 16 - 11 B" in team order.
func (r *Result) FinalScore() string {
	if len(r.RoundStats) == 0 || len(r.Teams) < 2 {
		return ""
	}
	last := r.RoundStats[len(r.RoundStats)-1]
	a, b := r.Teams[0].Name, r.Teams[1].Name
	return fmt.Sprintf("%s %d - %d %s", a, last.Score[a], last.Score[b], b)
}
