package parser

import (
	"strconv"

	"github.com/leighmacdonald/steamid/v4/steamid"
)

// SteamID64 converts a Steam2 actor ID (STEAM_1:1:36968273) to its 64-bit
// form. ok is false for bots and anything else steamid cannot resolve.
func SteamID64(actorID string) (string, bool) {
	if actorID == "" {
		return "", false
	}
	sid := steamid.New(actorID)
	if !sid.Valid() {
		return "", false
	}
	return strconv.FormatInt(sid.Int64(), 10), true
}
