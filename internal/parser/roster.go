package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/pable/cs-logstats/internal/model"
)

// timestampLayout matches "10/30/2021 - 19:56:37".
const timestampLayout = "01/02/2006 - 15:04:05"

var (
	rxAlias     = regexp.MustCompile(`"(?P<alias>[^<]*)`)
	rxTeamName  = regexp.MustCompile(`(?P<name>[^:]*)$`)
	rxCTName    = regexp.MustCompile(`"CT": (?P<name>[^:]*)$`)
	rxTName     = regexp.MustCompile(`"TERRORIST": (?P<name>[^:]*)$`)
	rxTimestamp = regexp.MustCompile(`^\D{0,4}(?P<ts>\d{2}/\d{2}/\d{4} - \d{2}:\d{2}:\d{2})`)
	rxMapName   = regexp.MustCompile(`(?:Loading map|Match_Start" on) "(?P<map>[^"]+)"`)
)

// ExtractRoster derives players from live interactions and teams from
// team-determination lines, both in first-seen order.
func ExtractRoster(events []model.MatchEvent) ([]model.Player, []model.Team) {
	var (
		players    []model.Player
		teams      []model.Team
		seenPlayer = make(map[string]bool)
		seenTeam   = make(map[string]bool)
	)

	for _, ev := range events {
		switch {
		case ev.Kind == model.KindInteraction && ev.IsPlayer && !ev.IsWarmup:
			if seenPlayer[ev.ActorID] {
				continue
			}
			seenPlayer[ev.ActorID] = true
			players = append(players, model.Player{ID: ev.ActorID, Alias: Alias(ev.Raw)})
		case ev.Kind == model.KindTeamDetermination:
			name := TeamName(ev.Raw)
			if name == "" || seenTeam[name] {
				continue
			}
			seenTeam[name] = true
			teams = append(teams, model.Team{Name: name})
		}
	}

	return players, teams
}

// Alias returns the text between the first quote and the next '<'.
func Alias(raw string) string {
	m := rxAlias.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return m[rxAlias.SubexpIndex("alias")]
}

// TeamName returns the trimmed text after the last ':' of a team-determination line.
func TeamName(raw string) string {
	m := rxTeamName.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[rxTeamName.SubexpIndex("name")])
}

// SideBinding extracts which team currently plays CT and which plays T from
// a team-determination line. Either value is empty when the line does not
// name that side.
func SideBinding(raw string) (ct, t string) {
	if m := rxCTName.FindStringSubmatch(raw); m != nil {
		ct = strings.TrimSpace(m[rxCTName.SubexpIndex("name")])
	}
	if m := rxTName.FindStringSubmatch(raw); m != nil {
		t = strings.TrimSpace(m[rxTName.SubexpIndex("name")])
	}
	return ct, t
}

// Timestamp parses the wall-clock time at the start of a raw line.
func Timestamp(raw string) (time.Time, bool) {
	m := rxTimestamp.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, false
	}
	ts, err := time.Parse(timestampLayout, m[rxTimestamp.SubexpIndex("ts")])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// MapName returns the map of the live match, preferring the name on the last
// Match_Start line over earlier "Loading map" lines.
func MapName(events []model.MatchEvent) string {
	name := ""
	for _, ev := range events {
		if m := rxMapName.FindStringSubmatch(ev.Raw); m != nil {
			name = m[rxMapName.SubexpIndex("map")]
		}
	}
	return name
}
