package planner_test

import (
	"fmt"
	"testing"

	"github.com/sondagsholdet/courtmix/internal/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchMix(t *testing.T) {
	testCases := []struct {
		players, courts  int
		doubles, singles int
	}{
		{players: 6, courts: 2, doubles: 1, singles: 1},
		{players: 10, courts: 3, doubles: 2, singles: 1},
		{players: 5, courts: 1, doubles: 1, singles: 0},
		{players: 4, courts: 1, doubles: 1, singles: 0},
		{players: 2, courts: 3, doubles: 0, singles: 1},
		{players: 3, courts: 2, doubles: 0, singles: 1},
		{players: 8, courts: 2, doubles: 2, singles: 0},
		{players: 8, courts: 1, doubles: 1, singles: 0},
		{players: 1, courts: 2, doubles: 0, singles: 0},
		{players: 24, courts: 6, doubles: 6, singles: 0},
		{players: 7, courts: 2, doubles: 1, singles: 1},
		{players: 12, courts: 4, doubles: 3, singles: 0},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d players on %d courts", tc.players, tc.courts), func(t *testing.T) {
			doubles, singles := planner.MatchMix(tc.players, tc.courts)
			assert.Equal(t, tc.doubles, doubles, "doubles count")
			assert.Equal(t, tc.singles, singles, "singles count")
		})
	}
}

func TestMatchMix_IsOptimal(t *testing.T) {
	// Brute-force every feasible split and verify the chosen one puts the
	// most players on court, preferring doubles on ties.
	for players := 0; players <= 30; players++ {
		for courts := 1; courts <= 6; courts++ {
			doubles, singles := planner.MatchMix(players, courts)

			require.LessOrEqual(t, doubles+singles, courts)
			require.LessOrEqual(t, 4*doubles+2*singles, players)

			for d := 0; d <= courts; d++ {
				for s := 0; d+s <= courts; s++ {
					if 4*d+2*s > players {
						continue
					}
					inPlay := 4*d + 2*s
					chosen := 4*doubles + 2*singles
					require.LessOrEqual(t, inPlay, chosen,
						"players=%d courts=%d: (%d,%d) beats chosen (%d,%d)", players, courts, d, s, doubles, singles)
					if inPlay == chosen {
						require.LessOrEqual(t, d, doubles,
							"players=%d courts=%d: tie should favor doubles", players, courts)
					}
				}
			}
		}
	}
}

func makeCandidates(n int) []planner.Candidate {
	players := make([]planner.Candidate, n)
	for i := range players {
		players[i] = planner.Candidate{
			ID:   fmt.Sprintf("p%02d", i),
			Name: fmt.Sprintf("Player %02d", i),
		}
	}
	return players
}

func TestBuildRound_PlayersAppearExactlyOnce(t *testing.T) {
	players := makeCandidates(11)
	plan := planner.BuildRound(planner.Input{Players: players, CourtCount: 3})

	seen := make(map[string]int)
	for _, m := range plan.Matches {
		for _, id := range append(append([]string{}, m.TeamA...), m.TeamB...) {
			seen[id]++
		}
	}
	for _, p := range plan.SitOuts {
		seen[p.ID]++
	}

	assert.Len(t, seen, len(players))
	for id, count := range seen {
		assert.Equal(t, 1, count, "player %s should appear exactly once", id)
	}
}

func TestBuildRound_CourtsAreUnique(t *testing.T) {
	plan := planner.BuildRound(planner.Input{Players: makeCandidates(14), CourtCount: 4})

	courts := make(map[int]bool)
	for _, m := range plan.Matches {
		assert.False(t, courts[m.Court], "court %d assigned twice", m.Court)
		courts[m.Court] = true
		assert.GreaterOrEqual(t, m.Court, 1)
		assert.LessOrEqual(t, m.Court, 4)

		switch m.Kind {
		case planner.Doubles:
			assert.Len(t, m.TeamA, 2)
			assert.Len(t, m.TeamB, 2)
		case planner.Singles:
			assert.Len(t, m.TeamA, 1)
			assert.Len(t, m.TeamB, 1)
		default:
			t.Fatalf("unexpected kind %q", m.Kind)
		}
	}
}

func TestBuildRound_SitOutFairness(t *testing.T) {
	// Constant roster of 9 on 2 courts: one player sits out each round.
	// Over more rounds than players, sit-out counts never drift more than
	// one apart and nobody sits twice in a row.
	players := makeCandidates(9)
	var prevSitOut string

	for round := 1; round <= 20; round++ {
		plan := planner.BuildRound(planner.Input{Players: players, CourtCount: 2})
		require.Len(t, plan.SitOuts, 1, "round %d", round)

		sitter := plan.SitOuts[0].ID
		assert.NotEqual(t, prevSitOut, sitter, "round %d: same player sat out twice in a row", round)
		prevSitOut = sitter

		for i := range players {
			if players[i].ID == sitter {
				players[i].SitOutCount++
				players[i].LastSitOutRound = round
			}
		}
	}

	minCount, maxCount := players[0].SitOutCount, players[0].SitOutCount
	for _, p := range players {
		minCount = min(minCount, p.SitOutCount)
		maxCount = max(maxCount, p.SitOutCount)
	}
	assert.LessOrEqual(t, maxCount-minCount, 1, "sit-out counts should stay within one of each other")
}

func TestBuildRound_SitOutPrefersLeastRecent(t *testing.T) {
	players := []planner.Candidate{
		{ID: "a", Name: "Anna", SitOutCount: 1, LastSitOutRound: 3},
		{ID: "b", Name: "Bo", SitOutCount: 1, LastSitOutRound: 1},
		{ID: "c", Name: "Carla", SitOutCount: 2, LastSitOutRound: 2},
		{ID: "d", Name: "Dan", SitOutCount: 2, LastSitOutRound: 4},
		{ID: "e", Name: "Erik", SitOutCount: 1, LastSitOutRound: 2},
	}
	plan := planner.BuildRound(planner.Input{Players: players, CourtCount: 1})

	// One doubles match, one sit-out. Bo sat out longest ago among the
	// lowest counts, so Bo sits.
	require.Len(t, plan.SitOuts, 1)
	assert.Equal(t, "b", plan.SitOuts[0].ID)
}

func partnerMap(plan planner.Plan) map[string]string {
	partners := make(map[string]string)
	for _, m := range plan.Matches {
		if m.Kind != planner.Doubles {
			continue
		}
		partners[m.TeamA[0]] = m.TeamA[1]
		partners[m.TeamA[1]] = m.TeamA[0]
		partners[m.TeamB[0]] = m.TeamB[1]
		partners[m.TeamB[1]] = m.TeamB[0]
	}
	return partners
}

func TestBuildRound_AvoidsRepeatPartners(t *testing.T) {
	players := makeCandidates(8)

	first := planner.BuildRound(planner.Input{Players: players, CourtCount: 2})
	prev := partnerMap(first)
	require.Len(t, prev, 8)

	second := planner.BuildRound(planner.Input{Players: players, CourtCount: 2, PrevPartners: prev})
	assert.False(t, second.ForcedRepeat)
	for id, partner := range partnerMap(second) {
		assert.NotEqual(t, prev[id], partner, "player %s repeated partner %s", id, partner)
	}
}

func TestBuildRound_ForcedRepeatWithFourPlayers(t *testing.T) {
	// With exactly four doubles players every pairing re-uses somebody's
	// previous partner once the full history is one round deep... except the
	// one remaining derangement. Force it by covering all three pairings of
	// player a.
	players := makeCandidates(4)
	prev := map[string]string{
		"p00": "p01", "p01": "p00",
		"p02": "p03", "p03": "p02",
	}

	plan := planner.BuildRound(planner.Input{Players: players, CourtCount: 1, PrevPartners: prev})
	require.Len(t, plan.Matches, 1)
	assert.False(t, plan.ForcedRepeat, "a repeat-free pairing exists and must be found")

	partners := partnerMap(plan)
	assert.NotEqual(t, "p01", partners["p00"])

	// Now exclude every alternative: a has already partnered everyone.
	prev = map[string]string{"p00": "p01", "p01": "p00", "p02": "p00", "p03": "p00"}
	plan = planner.BuildRound(planner.Input{Players: players, CourtCount: 1, PrevPartners: prev})
	assert.True(t, plan.ForcedRepeat, "no repeat-free pairing exists for p00")
}

func TestBuildRound_NoDoubles(t *testing.T) {
	plan := planner.BuildRound(planner.Input{Players: makeCandidates(3), CourtCount: 2})

	require.Len(t, plan.Matches, 1)
	assert.Equal(t, planner.Singles, plan.Matches[0].Kind)
	assert.Len(t, plan.SitOuts, 1)
	assert.False(t, plan.ForcedRepeat)
}
