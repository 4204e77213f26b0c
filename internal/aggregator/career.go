package aggregator

import (
	"sort"

	"github.com/pable/cs-logstats/internal/model"
)

// Careers folds the final snapshot of each log into per-player totals.
// Logs without rounds are skipped. The result is ordered by logs played,
// then kills, then ID.
func Careers(logs [][]model.RoundStats) []model.PlayerCareer {
	byID := make(map[string]*model.PlayerCareer)

	for _, stats := range logs {
		if len(stats) == 0 {
			continue
		}
		last := stats[len(stats)-1]
		for id, ps := range last.PlayerStats {
			c, ok := byID[id]
			if !ok {
				c = &model.PlayerCareer{Player: ps.Player}
				byID[id] = c
			}
			if c.Player.Alias == "" {
				c.Player.Alias = ps.Player.Alias
			}
			c.Logs++
			c.Rounds += last.RoundNumber
			c.Kills += ps.Kills
			c.Deaths += ps.Deaths
			c.Assists += ps.Assists
			c.Damage += ps.Damage
			c.TeamDamage += ps.TeamDamage
		}
	}

	out := make([]model.PlayerCareer, 0, len(byID))
	for _, c := range byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Logs != out[j].Logs {
			return out[i].Logs > out[j].Logs
		}
		if out[i].Kills != out[j].Kills {
			return out[i].Kills > out[j].Kills
		}
		return out[i].Player.ID < out[j].Player.ID
	})
	return out
}
