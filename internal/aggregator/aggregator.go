package aggregator

import (
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/pable/cs-logstats/internal/model"
	"github.com/pable/cs-logstats/internal/parser"
)

// accumulator carries the cumulative state folded across rounds. Nothing in
// it is reset between rounds.
type accumulator struct {
	teams   [2]string
	score   map[string]int
	players map[string]*model.PlayerStats

	// Last resolved side binding, used when a round logs no team lines.
	ct, t string
}

func newAccumulator(players []model.Player, teams []model.Team) *accumulator {
	acc := &accumulator{
		teams:   [2]string{teams[0].Name, teams[1].Name},
		score:   map[string]int{teams[0].Name: 0, teams[1].Name: 0},
		players: make(map[string]*model.PlayerStats, len(players)),
	}
	for _, p := range players {
		acc.players[p.ID] = &model.PlayerStats{Player: p}
	}
	return acc
}

// Aggregate folds the rounds into one RoundStats snapshot per round, in round order.
func Aggregate(rounds []model.Round, events []model.MatchEvent, players []model.Player, teams []model.Team) ([]model.RoundStats, error) {
	if len(teams) < 2 {
		return nil, &model.MalformedLogError{
			Reason: fmt.Sprintf("need two teams to compute a score, found %d", len(teams)),
		}
	}
	if len(teams) > 2 {
		slog.Warn("More than two team names found, scoring the first two",
			slog.String("team1", teams[0].Name), slog.String("team2", teams[1].Name), slog.Int("found", len(teams)))
	}

	// Group events by round once; events keep log order within a round.
	byRound := make(map[int][]model.MatchEvent, len(rounds))
	for _, ev := range events {
		if ev.IsWarmup {
			continue
		}
		byRound[ev.RoundNumber] = append(byRound[ev.RoundNumber], ev)
	}

	acc := newAccumulator(players, teams)
	// Victims who never act still appear in every snapshot.
	for _, evs := range byRound {
		for _, ev := range evs {
			if ev.Interaction != nil && ev.Interaction.IsKill && ev.Interaction.VictimID != "" && ev.RoundNumber <= len(rounds) {
				acc.player(ev.Interaction.VictimID)
			}
		}
	}
	out := make([]model.RoundStats, 0, len(rounds))
	for _, round := range rounds {
		snap, err := acc.applyRound(round, byRound[round.Number])
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}

	return out, nil
}

// applyRound applies one round's events and returns an independent snapshot.
func (a *accumulator) applyRound(round model.Round, events []model.MatchEvent) (model.RoundStats, error) {
	a.resolveSides(events)

	duration, err := roundDuration(round, events)
	if err != nil {
		return model.RoundStats{}, err
	}

	for _, ev := range events {
		switch ev.Kind {
		case model.KindRoundWinT:
			if err := a.win(round, ev, a.t); err != nil {
				return model.RoundStats{}, err
			}
		case model.KindRoundWinCT:
			if err := a.win(round, ev, a.ct); err != nil {
				return model.RoundStats{}, err
			}
		case model.KindInteraction:
			a.interaction(ev)
		}
	}

	n := float64(round.Number)
	for _, ps := range a.players {
		ps.KPR = float64(ps.Kills) / n
		ps.DPR = float64(ps.Deaths) / n
		ps.ADR = ps.Damage / n
		ps.ATDR = ps.TeamDamage / n
	}

	return a.snapshot(round, duration), nil
}

// resolveSides re-reads the CT/T binding from the round's team lines, since
// teams swap sides at half time.
func (a *accumulator) resolveSides(events []model.MatchEvent) {
	for _, ev := range events {
		if ev.Kind != model.KindTeamDetermination {
			continue
		}
		ct, t := parser.SideBinding(ev.Raw)
		if ct != "" {
			a.ct = ct
		}
		if t != "" {
			a.t = t
		}
	}
}

func (a *accumulator) win(round model.Round, ev model.MatchEvent, team string) error {
	if team != a.teams[0] && team != a.teams[1] {
		return &model.MalformedLogError{
			Round:  round.Number,
			Line:   ev.Line + 1,
			Reason: fmt.Sprintf("round win for %s side, which is bound to unknown team %q", sideName(ev.Kind), team),
		}
	}
	a.score[team]++
	return nil
}

func (a *accumulator) interaction(ev model.MatchEvent) {
	if ev.ActorID == "" || ev.Interaction == nil {
		return
	}
	actor := a.player(ev.ActorID)
	in := ev.Interaction

	if in.IsKill {
		actor.Kills++
		if in.VictimID != "" {
			a.player(in.VictimID).Deaths++
		}
	}
	if in.IsAssist {
		actor.Assists++
	}
	actor.Damage += in.Damage
	if in.IsTeamDamage {
		actor.TeamDamage += in.Damage
	}
}

// player returns the stats for id, registering ids missing from the roster.
func (a *accumulator) player(id string) *model.PlayerStats {
	ps, ok := a.players[id]
	if !ok {
		ps = &model.PlayerStats{Player: model.Player{ID: id}}
		a.players[id] = ps
	}
	return ps
}

func (a *accumulator) snapshot(round model.Round, duration string) model.RoundStats {
	players := make(map[string]model.PlayerStats, len(a.players))
	for id, ps := range a.players {
		players[id] = *ps
	}
	return model.RoundStats{
		RoundNumber:   round.Number,
		Score:         maps.Clone(a.score),
		PlayerStats:   players,
		RoundDuration: duration,
	}
}

// roundDuration measures from the round's first Round_Start to its first Round_End.
func roundDuration(round model.Round, events []model.MatchEvent) (string, error) {
	var start, end *model.MatchEvent
	for i := range events {
		switch {
		case events[i].Kind == model.KindRoundStart && start == nil:
			start = &events[i]
		case events[i].Kind == model.KindRoundEnd && end == nil:
			end = &events[i]
		}
	}
	if start == nil {
		return "", &model.MalformedLogError{Round: round.Number, Reason: "no Round_Start found"}
	}
	if end == nil {
		return "", &model.MalformedLogError{Round: round.Number, Reason: "no Round_End found"}
	}

	startTS, ok := parser.Timestamp(start.Raw)
	if !ok {
		return "", &model.MalformedLogError{Round: round.Number, Line: start.Line + 1, Reason: "unreadable Round_Start timestamp"}
	}
	endTS, ok := parser.Timestamp(end.Raw)
	if !ok {
		return "", &model.MalformedLogError{Round: round.Number, Line: end.Line + 1, Reason: "unreadable Round_End timestamp"}
	}

	return formatDuration(endTS.Sub(startTS)), nil
}

// formatDuration renders d as mm:ss; minutes wrap at the hour.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", (secs/60)%60, secs%60)
}

func sideName(k model.EventKind) string {
	if k == model.KindRoundWinCT {
		return "CT"
	}
	return "T"
}
