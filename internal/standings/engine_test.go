package standings_test

import (
	"testing"

	"github.com/sondagsholdet/courtmix/internal/league"
	"github.com/sondagsholdet/courtmix/internal/standings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// singlesMatch builds an archived singles match with the given winner side.
func singlesMatch(id int64, date, a, b string, winnerSide int) league.ArchivedMatch {
	return league.ArchivedMatch{
		ID:         id,
		RoundIndex: int(id),
		Date:       date,
		Court:      1,
		Kind:       league.KindSingles,
		TeamA:      []string{a},
		TeamB:      []string{b},
		WinnerSide: winnerSide,
	}
}

func newTestEngine(players []league.Player, matches []league.ArchivedMatch, present []league.Player) *standings.Engine {
	mock := league.NewMock()
	mock.GetAllPlayersFunc = func() ([]league.Player, error) {
		return players, nil
	}
	mock.GetArchiveFunc = func(filter league.ArchiveFilter) ([]league.ArchivedMatch, error) {
		if filter.FromDate == "" && filter.ToDate == "" {
			return matches, nil
		}
		var out []league.ArchivedMatch
		for _, m := range matches {
			if filter.FromDate != "" && m.Date < filter.FromDate {
				continue
			}
			if filter.ToDate != "" && m.Date > filter.ToDate {
				continue
			}
			out = append(out, m)
		}
		return out, nil
	}
	mock.GetPresentFunc = func(date string) ([]league.Player, error) {
		return present, nil
	}
	return standings.New(mock)
}

func TestStandings(t *testing.T) {
	players := []league.Player{
		{ID: "a", Name: "Anna", AttendancePoints: 4},
		{ID: "b", Name: "Bo", AttendancePoints: 4},
		{ID: "c", Name: "Carla", AttendancePoints: 2},
		{ID: "d", Name: "Dan", AttendancePoints: 3},
	}
	matches := []league.ArchivedMatch{
		// One doubles: (a,b) beat (c,d). Then singles: c beats a, d beats b,
		// c beats b.
		{ID: 1, RoundIndex: 1, Date: "2025-01-05", Court: 1, Kind: league.KindDoubles,
			TeamA: []string{"a", "b"}, TeamB: []string{"c", "d"}, WinnerSide: 1},
		singlesMatch(2, "2025-01-05", "c", "a", 1),
		singlesMatch(3, "2025-01-12", "d", "b", 1),
		singlesMatch(4, "2025-01-12", "c", "b", 1),
	}

	engine := newTestEngine(players, matches, nil)
	table, err := engine.Standings()
	require.NoError(t, err)
	require.Len(t, table, 4)

	// Wins: c=2, a=1, b=1, d=1. Losses: a=1, b=2, d=1.
	assert.Equal(t, "Carla", table[0].PlayerName)
	assert.Equal(t, 2, table[0].Wins)
	assert.Equal(t, 1, table[0].Losses)
	assert.Equal(t, 3, table[0].MatchesPlayed)

	// a and d both 1-1; alphabetical puts Anna before Dan. Bo is 1-2.
	assert.Equal(t, "Anna", table[1].PlayerName)
	assert.Equal(t, "Dan", table[2].PlayerName)
	assert.Equal(t, "Bo", table[3].PlayerName)

	t.Run("points columns", func(t *testing.T) {
		assert.Equal(t, 2+3*2, table[0].LeaguePoints, "attendance plus three per win")
		assert.Equal(t, 2, table[0].AttendancePoints)
		assert.InDelta(t, 66.66, table[0].WinPercentage, 0.01)
	})
}

func TestStandings_EmptyArchive(t *testing.T) {
	players := []league.Player{
		{ID: "a", Name: "Anna", AttendancePoints: 1},
	}
	engine := newTestEngine(players, nil, nil)

	table, err := engine.Standings()
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Zero(t, table[0].MatchesPlayed)
	assert.Zero(t, table[0].WinPercentage)
	assert.Equal(t, 1, table[0].LeaguePoints)
}

func TestHeadToHead(t *testing.T) {
	matches := []league.ArchivedMatch{
		// Doubles: (a,b) beat (c,d) credits a>c, a>d, b>c, b>d.
		{ID: 1, Kind: league.KindDoubles, Date: "2025-01-05",
			TeamA: []string{"a", "b"}, TeamB: []string{"c", "d"}, WinnerSide: 1},
		singlesMatch(2, "2025-01-05", "c", "a", 1),
	}
	engine := newTestEngine(nil, matches, nil)

	h2h, err := engine.HeadToHead()
	require.NoError(t, err)

	assert.Equal(t, standings.Record{WinsA: 1, WinsB: 1}, h2h[standings.Pair{A: "a", B: "c"}])
	assert.Equal(t, standings.Record{WinsA: 1, WinsB: 0}, h2h[standings.Pair{A: "a", B: "d"}])
	assert.Equal(t, standings.Record{WinsA: 1, WinsB: 0}, h2h[standings.Pair{A: "b", B: "c"}])
	assert.NotContains(t, h2h, standings.Pair{A: "a", B: "b"}, "teammates never meet")
}

// series appends n singles wins of winner over loser starting at match id.
func series(matches []league.ArchivedMatch, id int64, winner, loser string, n int) []league.ArchivedMatch {
	for i := 0; i < n; i++ {
		matches = append(matches, singlesMatch(id+int64(i), "2025-01-05", winner, loser, 1))
	}
	return matches
}

func TestRivalBadge(t *testing.T) {
	players := []league.Player{
		{ID: "a", Name: "Anna"},
		{ID: "b", Name: "Bo"},
		{ID: "c", Name: "Carla"},
		{ID: "d", Name: "Dan"},
	}

	// (a,b) split 2-2 over four meetings; (c,d) is a lopsided 5-1 over six.
	var matches []league.ArchivedMatch
	matches = series(matches, 1, "a", "b", 2)
	matches = series(matches, 3, "b", "a", 2)
	matches = series(matches, 5, "c", "d", 5)
	matches = series(matches, 10, "d", "c", 1)

	engine := newTestEngine(players, matches, nil)
	badge, err := engine.RivalBadge()
	require.NoError(t, err)
	require.NotNil(t, badge)

	assert.Equal(t, "a", badge.PlayerA)
	assert.Equal(t, "b", badge.PlayerB)
	assert.Equal(t, 4, badge.Shared)
	assert.InDelta(t, 0.5, badge.Ratio, 0.001)
}

func TestRivalBadge_MinSharedMatches(t *testing.T) {
	players := []league.Player{
		{ID: "a", Name: "Anna"},
		{ID: "b", Name: "Bo"},
	}
	// Two meetings are one short of qualifying.
	var matches []league.ArchivedMatch
	matches = series(matches, 1, "a", "b", 1)
	matches = series(matches, 2, "b", "a", 1)

	engine := newTestEngine(players, matches, nil)
	badge, err := engine.RivalBadge()
	require.NoError(t, err)
	assert.Nil(t, badge)
}

func TestRivalBadge_TieBreaksOnSharedMatches(t *testing.T) {
	players := []league.Player{
		{ID: "a", Name: "Anna"},
		{ID: "b", Name: "Bo"},
		{ID: "c", Name: "Carla"},
		{ID: "d", Name: "Dan"},
	}
	// Both pairs sit at an exact even split; (c,d) met more often.
	var matches []league.ArchivedMatch
	matches = series(matches, 1, "a", "b", 2)
	matches = series(matches, 3, "b", "a", 2)
	matches = series(matches, 5, "c", "d", 3)
	matches = series(matches, 8, "d", "c", 3)

	engine := newTestEngine(players, matches, nil)
	badge, err := engine.RivalBadge()
	require.NoError(t, err)
	require.NotNil(t, badge)
	assert.Equal(t, "c", badge.PlayerA)
	assert.Equal(t, 6, badge.Shared)
}

func TestPlayerRivals(t *testing.T) {
	players := []league.Player{
		{ID: "a", Name: "Anna"},
		{ID: "b", Name: "Bo"},
		{ID: "c", Name: "Carla"},
	}
	// a vs b: 2-2 even. a vs c: 4-0 lopsided but more meetings.
	var matches []league.ArchivedMatch
	matches = series(matches, 1, "a", "b", 2)
	matches = series(matches, 3, "b", "a", 2)
	matches = series(matches, 5, "a", "c", 4)

	engine := newTestEngine(players, matches, nil)
	rivals, err := engine.PlayerRivals()
	require.NoError(t, err)

	require.Contains(t, rivals, "a")
	assert.Equal(t, "b", rivals["a"].RivalID, "the even matchup beats the lopsided one")
	assert.Equal(t, 4, rivals["a"].Meetings)
	assert.InDelta(t, 50.0, rivals["a"].WinPct, 0.001)

	require.Contains(t, rivals, "c")
	assert.Equal(t, "a", rivals["c"].RivalID)
	assert.Equal(t, 0, rivals["c"].Wins)

	require.Contains(t, rivals, "b")
	assert.Equal(t, "a", rivals["b"].RivalID)
}

func TestNightMVP(t *testing.T) {
	players := []league.Player{
		{ID: "a", Name: "Anna"},
		{ID: "b", Name: "Bo"},
		{ID: "c", Name: "Carla"},
	}
	present := players
	matches := []league.ArchivedMatch{
		singlesMatch(1, "2025-01-05", "a", "b", 1),
		singlesMatch(2, "2025-01-05", "a", "c", 1),
		singlesMatch(3, "2025-01-05", "b", "c", 1),
		// A different night must not leak in.
		singlesMatch(4, "2025-01-12", "c", "a", 1),
	}

	engine := newTestEngine(players, matches, present)
	mvps, err := engine.NightMVP("2025-01-05")
	require.NoError(t, err)

	// Anna: 1 + 2*3 = 7. Bo: 1 + 3 = 4. Carla: 1.
	require.Len(t, mvps, 1)
	assert.Equal(t, "Anna", mvps[0].PlayerName)
	assert.Equal(t, 7, mvps[0].Points)
}

func TestNightMVP_TiedLeaders(t *testing.T) {
	players := []league.Player{
		{ID: "a", Name: "Anna"},
		{ID: "b", Name: "Bo"},
	}
	matches := []league.ArchivedMatch{
		singlesMatch(1, "2025-01-05", "a", "b", 1),
		singlesMatch(2, "2025-01-05", "b", "a", 1),
	}

	engine := newTestEngine(players, matches, players)
	mvps, err := engine.NightMVP("2025-01-05")
	require.NoError(t, err)

	require.Len(t, mvps, 2)
	assert.Equal(t, "Anna", mvps[0].PlayerName)
	assert.Equal(t, "Bo", mvps[1].PlayerName)
	assert.Equal(t, mvps[0].Points, mvps[1].Points)
}

func TestNightMVP_NoData(t *testing.T) {
	engine := newTestEngine(nil, nil, nil)
	mvps, err := engine.NightMVP("2025-01-05")
	require.NoError(t, err)
	assert.Nil(t, mvps)
}
