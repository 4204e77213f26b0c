package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pable/cs-logstats/internal/model"
	"github.com/pable/cs-logstats/internal/parser"
)

const (
	alpha = "STEAM_1:0:1"
	beta  = "STEAM_1:0:2"
)

const oneRound = `L 10/30/2021 - 19:41:00: Loading map "de_dust2"
L 10/30/2021 - 19:42:00: World triggered "Match_Start" on "de_dust2"
L 10/30/2021 - 19:42:00: Team playing "CT": Alpha
L 10/30/2021 - 19:42:00: Team playing "TERRORIST": Beta
L 10/30/2021 - 19:42:00: World triggered "Round_Start"
L 10/30/2021 - 19:42:30: "one<2><STEAM_1:0:1><CT>" [0 0 0] killed "two<3><STEAM_1:0:2><TERRORIST>" [1 1 1] with "awp" (damage "100")
L 10/30/2021 - 19:43:00: Team "CT" triggered "SFUI_Notice_CTs_Win" (CT "1") (T "0")
L 10/30/2021 - 19:43:00: World triggered "Round_End"
`

func TestComputeRoundStatsSingleKill(t *testing.T) {
	stats, err := ComputeRoundStats(oneRound)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	rs := stats[0]
	require.Equal(t, 1, rs.RoundNumber)
	require.Equal(t, map[string]int{"Alpha": 1, "Beta": 0}, rs.Score)
	require.Equal(t, "01:00", rs.RoundDuration)

	require.Equal(t, 1, rs.PlayerStats[alpha].Kills)
	require.Equal(t, 100.0, rs.PlayerStats[alpha].Damage)
	require.Equal(t, 100.0, rs.PlayerStats[alpha].ADR)
	require.Equal(t, 1, rs.PlayerStats[beta].Deaths)
}

func TestRunResult(t *testing.T) {
	res, err := Run(oneRound)
	require.NoError(t, err)

	require.Equal(t, "de_dust2", res.MapName)
	require.Equal(t, []model.Team{{Name: "Alpha"}, {Name: "Beta"}}, res.Teams)
	require.Equal(t, []model.Player{{ID: alpha, Alias: "one"}}, res.Players)
	require.Len(t, res.Events, len(parser.SplitLines(oneRound)))
	require.Equal(t, "Alpha 1 - 0 Beta", res.FinalScore())
}

func TestComputeRoundStatsMissingDamage(t *testing.T) {
	raw := strings.Replace(oneRound, ` (damage "100")`, "", 1)
	stats, err := ComputeRoundStats(raw)
	require.NoError(t, err)
	require.Zero(t, stats[0].PlayerStats[alpha].Damage)
	require.Equal(t, 1, stats[0].PlayerStats[alpha].Kills)
}

func TestComputeRoundStatsOneTeam(t *testing.T) {
	raw := strings.Replace(oneRound, "L 10/30/2021 - 19:42:00: Team playing \"TERRORIST\": Beta\n", "", 1)
	stats, err := ComputeRoundStats(raw)
	require.Nil(t, stats)
	require.ErrorIs(t, err, model.ErrMalformedLog)
}

func TestComputeRoundStatsRoundCount(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(oneRound)
	for i := 1; i < 5; i++ {
		fmt.Fprintf(&sb, "L 10/30/2021 - 19:%d:00: World triggered \"Round_Start\"\n", 43+i)
		fmt.Fprintf(&sb, "L 10/30/2021 - 19:%d:40: Team \"TERRORIST\" triggered \"SFUI_Notice_Terrorists_Win\"\n", 43+i)
		fmt.Fprintf(&sb, "L 10/30/2021 - 19:%d:40: World triggered \"Round_End\"\n", 43+i)
	}

	stats, err := ComputeRoundStats(sb.String())
	require.NoError(t, err)
	require.Len(t, stats, 5)
	for i, rs := range stats {
		require.Equal(t, i+1, rs.RoundNumber)
		require.Equal(t, i+1, rs.Score["Alpha"]+rs.Score["Beta"])
	}
	require.Equal(t, 4, stats[4].Score["Beta"])
	require.Equal(t, "00:40", stats[4].RoundDuration)
	require.InDelta(t, 20.0, stats[4].PlayerStats[alpha].ADR, 1e-9)
}

func TestComputeRoundStatsIdempotent(t *testing.T) {
	a, err := ComputeRoundStats(oneRound)
	require.NoError(t, err)
	b, err := ComputeRoundStats(oneRound)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestFinalScoreEmpty(t *testing.T) {
	require.Empty(t, (&Result{}).FinalScore())
}

func TestComputeRoundStatsWithoutMatchStart(t *testing.T) {
	raw := strings.Replace(oneRound, "L 10/30/2021 - 19:42:00: World triggered \"Match_Start\" on \"de_dust2\"\n", "", 1)
	stats, err := ComputeRoundStats(raw)
	require.NoError(t, err)
	require.Empty(t, stats)
}

func TestComputeRoundStatsEmptyTeamName(t *testing.T) {
	raw := strings.Replace(oneRound, `"TERRORIST": Beta`, `"TERRORIST": `, 1)
	stats, err := ComputeRoundStats(raw)
	require.Nil(t, stats)
	require.ErrorIs(t, err, model.ErrMalformedLog)
}

func TestComputeRoundStatsNonFiniteDamage(t *testing.T) {
	for _, bad := range []string{"NaN", "Inf"} {
		raw := strings.Replace(oneRound, `(damage "100")`, `(damage "`+bad+`")`, 1)
		stats, err := ComputeRoundStats(raw)
		require.NoError(t, err)
		require.Zerof(t, stats[0].PlayerStats[alpha].Damage, "damage %q", bad)
		require.Zerof(t, stats[0].PlayerStats[alpha].ADR, "damage %q", bad)

		_, err = json.Marshal(stats)
		require.NoError(t, err)
	}
}
