package model

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Side is the in-game side a log line is attributed to.
type Side int

const (
	SideUnknown Side = 0
	SideT       Side = 2
	SideCT      Side = 3
)

func (s Side) String() string {
	switch s {
	case SideT:
		return "T"
	case SideCT:
		return "CT"
	default:
		return "?"
	}
}

// EventKind classifies a single log line.
type EventKind int

const (
	KindMeta EventKind = iota
	KindInteraction
	KindRoundStart
	KindRoundEnd
	KindRoundWinT
	KindRoundWinCT
	KindTeamDetermination
)

func (k EventKind) String() string {
	switch k {
	case KindInteraction:
		return "interaction"
	case KindRoundStart:
		return "round_start"
	case KindRoundEnd:
		return "round_end"
	case KindRoundWinT:
		return "round_win_t"
	case KindRoundWinCT:
		return "round_win_ct"
	case KindTeamDetermination:
		return "team_determination"
	default:
		return "meta"
	}
}

// ---- Events emitted by the parser ----

// Interaction is the payload of a kill, damage or assist line.
type Interaction struct {
	Damage       float64
	IsTeamDamage bool
	IsKill       bool
	IsAssist     bool
	VictimID     string // set on kills only
}

// MatchEvent is one classified log line.
type MatchEvent struct {
	Line        int
	Kind        EventKind
	ActorID     string // "" when the line names no player
	IsPlayer    bool
	Side        Side
	IsWarmup    bool
	RoundNumber int // 0 during warmup
	Interaction *Interaction
	Raw         string
}

type Round struct {
	Number int
}

type Player struct {
	ID    string `json:"id" yaml:"id"`
	Alias string `json:"alias" yaml:"alias"`
}

type Team struct {
	Name string
}

// ---- Aggregated stats ----

// PlayerStats holds cumulative counters for one player. It contains no
// reference types, so assigning it copies the whole record.
type PlayerStats struct {
	Player     Player  `json:"player" yaml:"player"`
	Kills      int     `json:"kills" yaml:"kills"`
	Deaths     int     `json:"deaths" yaml:"deaths"`
	Assists    int     `json:"assists" yaml:"assists"`
	Damage     float64 `json:"damage" yaml:"damage"`
	TeamDamage float64 `json:"team_damage" yaml:"team_damage"`

	// Rates divide by the current round number, not by rounds the player took part in.
	KPR  float64 `json:"kpr" yaml:"kpr"`
	DPR  float64 `json:"dpr" yaml:"dpr"`
	ADR  float64 `json:"adr" yaml:"adr"`
	ATDR float64 `json:"atdr" yaml:"atdr"`
}

// RoundStats is the snapshot emitted after a round has been applied.
type RoundStats struct {
	RoundNumber   int                    `json:"round_number" yaml:"round_number"`
	Score         map[string]int         `json:"score" yaml:"score"`
	PlayerStats   map[string]PlayerStats `json:"player_stats" yaml:"player_stats"`
	RoundDuration string                 `json:"round_duration" yaml:"round_duration"`
}

// SortedPlayers returns the snapshot's players ordered by kills (desc), then alias.
func (r RoundStats) SortedPlayers() []PlayerStats {
	out := make([]PlayerStats, 0, len(r.PlayerStats))
	for _, ps := range r.PlayerStats {
		out = append(out, ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kills != out[j].Kills {
			return out[i].Kills > out[j].Kills
		}
		if out[i].Player.Alias != out[j].Player.Alias {
			return out[i].Player.Alias < out[j].Player.Alias
		}
		return out[i].Player.ID < out[j].Player.ID
	})
	return out
}

// ---- Errors ----

// ErrMalformedLog is matched by every *MalformedLogError.
var ErrMalformedLog = errors.New("malformed log")

// MalformedLogError reports a structural problem that prevents scoring.
// Round and Line are 0 when not applicable; Line is 1-based otherwise.
type MalformedLogError struct {
	Round  int
	Line   int
	Reason string
}

func (e *MalformedLogError) Error() string {
	switch {
	case e.Round > 0 && e.Line > 0:
		return fmt.Sprintf("malformed log: round %d, line %d: %s", e.Round, e.Line, e.Reason)
	case e.Round > 0:
		return fmt.Sprintf("malformed log: round %d: %s", e.Round, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("malformed log: line %d: %s", e.Line, e.Reason)
	default:
		return "malformed log: " + e.Reason
	}
}

func (e *MalformedLogError) Unwrap() error {
	return ErrMalformedLog
}

// LogSummary is a lightweight record for the list/show commands.
type LogSummary struct {
	Hash       string
	Source     string
	MapName    string
	Rounds     int
	Score      string // e.g. "Natus Vincere 16 - 11 Team Vitality"; empty when not computable
	Size       int64
	ImportedAt time.Time
}

// LibraryOverview holds totals across every stored log.
type LibraryOverview struct {
	TotalLogs      int
	TotalRounds    int
	TotalSize      int64
	UniqueMaps     int
	EarliestImport time.Time
	LatestImport   time.Time
}

// MapCount is one row of the per-map breakdown.
type MapCount struct {
	MapName string
	Logs    int
	Rounds  int
}

// PlayerCareer sums one player's final-round totals across several logs.
type PlayerCareer struct {
	Player     Player
	Logs       int
	Rounds     int // rounds played in those logs
	Kills      int
	Deaths     int
	Assists    int
	Damage     float64
	TeamDamage float64
}

func (c PlayerCareer) KPR() float64 { return perRound(float64(c.Kills), c.Rounds) }
func (c PlayerCareer) DPR() float64 { return perRound(float64(c.Deaths), c.Rounds) }
func (c PlayerCareer) ADR() float64 { return perRound(c.Damage, c.Rounds) }

// KDRatio returns kills/deaths, or kills when the player never died.
func (c PlayerCareer) KDRatio() float64 {
	if c.Deaths == 0 {
		return float64(c.Kills)
	}
	return float64(c.Kills) / float64(c.Deaths)
}

func perRound(v float64, rounds int) float64 {
	if rounds == 0 {
		return 0
	}
	return v / float64(rounds)
}
