// Package parser turns a CS:GO/CS2 server log into classified events and
// rounds. Every line is matched against a small, ordered rule table; fields
// that cannot be found fall back to zero values instead of failing.
package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pable/cs-logstats/internal/model"
)

// prefixLen is the width of the timestamp region that precedes every event body.
const prefixLen = 24

const (
	tagCT        = "<CT>"
	tagTerrorist = "<TERRORIST>"
)

type lineRule struct {
	Rx   *regexp.Regexp
	Kind model.EventKind
}

var (
	rxInteraction = regexp.MustCompile(`killed|attacked|assisted killing`)
	rxRoundEnd    = regexp.MustCompile(`Round_End`)
	rxRoundStart  = regexp.MustCompile(`Round_Start`)
	rxWinT        = regexp.MustCompile(`SFUI_Notice_Terrorists_Win|SFUI_Notice_Target_Bombed`)
	rxWinCT       = regexp.MustCompile(`SFUI_Notice_CTs_Win|SFUI_Notice_Bomb_Defused`)
	rxTeamPlaying = regexp.MustCompile(`Team playing`)

	// First match wins; anything else is meta.
	lineRules = []lineRule{
		{rxInteraction, model.KindInteraction},
		{rxRoundEnd, model.KindRoundEnd},
		{rxRoundStart, model.KindRoundStart},
		{rxWinT, model.KindRoundWinT},
		{rxWinCT, model.KindRoundWinCT},
		{rxTeamPlaying, model.KindTeamDetermination},
	}

	rxSteamID = regexp.MustCompile(`STEAM_[^>]*`)
	rxSideTag = regexp.MustCompile(`<CT>|<TERRORIST>`)

	// Interaction fields.
	rxDamage = regexp.MustCompile(`\(damage "(?P<damage>[^"]*)"`)
)

// Classify converts one raw log line into a MatchEvent. RoundNumber is left
// at zero; it is assigned by Segment.
func Classify(raw string, line int, isWarmup bool) model.MatchEvent {
	b := body(raw)
	actor := actorID(b)
	side := sideOf(b)
	kind := kindOf(b)

	ev := model.MatchEvent{
		Line:     line,
		Kind:     kind,
		ActorID:  actor,
		IsPlayer: actor != "",
		Side:     side,
		IsWarmup: isWarmup,
		Raw:      raw,
	}
	if kind == model.KindInteraction {
		ev.Interaction = interactionOf(b, side)
	}
	return ev
}

// body strips the timestamp region from a raw line.
func body(raw string) string {
	if len(raw) <= prefixLen {
		return ""
	}
	return raw[prefixLen:]
}

func kindOf(b string) model.EventKind {
	for _, rule := range lineRules {
		if rule.Rx.MatchString(b) {
			return rule.Kind
		}
	}
	return model.KindMeta
}

func actorID(b string) string {
	return rxSteamID.FindString(b)
}

// sideOf reports CT whenever a <CT> tag is present anywhere in the line, even
// if it belongs to the victim.
func sideOf(b string) model.Side {
	if !rxSideTag.MatchString(b) {
		return model.SideUnknown
	}
	if strings.Contains(b, tagCT) {
		return model.SideCT
	}
	return model.SideT
}

func interactionOf(b string, side model.Side) *model.Interaction {
	in := &model.Interaction{
		Damage:       damageOf(b),
		IsTeamDamage: isTeamDamage(b, side),
		IsAssist:     strings.Contains(b, "assisted killing") && !strings.Contains(b, "flash-"),
	}
	// "killed other" lines name entities, not players.
	if strings.Contains(b, "killed") && !strings.Contains(b, "other") {
		in.IsKill = true
		if ids := rxSteamID.FindAllString(b, -1); len(ids) > 0 {
			in.VictimID = ids[len(ids)-1]
		}
	}
	return in
}

func damageOf(b string) float64 {
	m := rxDamage.FindStringSubmatch(b)
	if m == nil {
		return 0
	}
	dmg, err := strconv.ParseFloat(m[rxDamage.SubexpIndex("damage")], 64)
	if err != nil || dmg < 0 || math.IsNaN(dmg) || math.IsInf(dmg, 0) {
		return 0
	}
	return dmg
}

// isTeamDamage is a heuristic: the actor's side tag appearing twice means
// both actor and victim carry it.
func isTeamDamage(b string, side model.Side) bool {
	switch side {
	case model.SideCT:
		return strings.Count(b, tagCT) >= 2
	case model.SideT:
		return strings.Count(b, tagTerrorist) >= 2
	default:
		return false
	}
}
