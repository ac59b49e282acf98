package standings

import (
	"math"
	"slices"
	"strings"

	"github.com/sondagsholdet/courtmix/internal/league"
)

// Engine derives league tables, head-to-head records and the rival badge
// from the match archive.
type Engine struct {
	archive Archive
}

// New creates a new Engine over the given archive.
func New(archive Archive) *Engine {
	return &Engine{archive: archive}
}

// Standings replays the archive into per-player win/loss records, sorted
// descending by wins, then fewest losses, then name.
func (e *Engine) Standings() ([]PlayerStanding, error) {
	players, err := e.archive.GetAllPlayers()
	if err != nil {
		return nil, err
	}
	matches, err := e.archive.GetArchive(league.ArchiveFilter{})
	if err != nil {
		return nil, err
	}

	wins := make(map[string]int)
	losses := make(map[string]int)
	for _, m := range matches {
		winners, losers := sides(m)
		for _, id := range winners {
			wins[id]++
		}
		for _, id := range losers {
			losses[id]++
		}
	}

	table := make([]PlayerStanding, 0, len(players))
	for _, p := range players {
		row := PlayerStanding{
			PlayerID:         p.ID,
			PlayerName:       p.Name,
			Wins:             wins[p.ID],
			Losses:           losses[p.ID],
			MatchesPlayed:    wins[p.ID] + losses[p.ID],
			AttendancePoints: p.AttendancePoints,
			LeaguePoints:     p.AttendancePoints + 3*wins[p.ID],
		}
		if row.MatchesPlayed > 0 {
			row.WinPercentage = float64(row.Wins) / float64(row.MatchesPlayed) * 100
		}
		table = append(table, row)
	}

	slices.SortFunc(table, func(a, b PlayerStanding) int {
		if a.Wins != b.Wins {
			return b.Wins - a.Wins
		}
		if a.Losses != b.Losses {
			return a.Losses - b.Losses
		}
		return strings.Compare(a.PlayerName, b.PlayerName)
	})
	return table, nil
}

// HeadToHead tallies pairwise results: in doubles every winner is credited a
// win over each individual loser.
func (e *Engine) HeadToHead() (map[Pair]Record, error) {
	matches, err := e.archive.GetArchive(league.ArchiveFilter{})
	if err != nil {
		return nil, err
	}

	h2h := make(map[Pair]Record)
	for _, m := range matches {
		winners, losers := sides(m)
		for _, w := range winners {
			for _, l := range losers {
				pair := Pair{A: w, B: l}
				aWon := true
				if pair.A > pair.B {
					pair.A, pair.B = pair.B, pair.A
					aWon = false
				}
				rec := h2h[pair]
				if aWon {
					rec.WinsA++
				} else {
					rec.WinsB++
				}
				h2h[pair] = rec
			}
		}
	}
	return h2h, nil
}

// RivalBadge finds the pair with head-to-head results closest to an even
// split among pairs with at least MinSharedMatches meetings. Ties go to the
// pair with more shared matches, then alphabetically. Returns nil when no
// pair qualifies.
func (e *Engine) RivalBadge() (*Rivalry, error) {
	h2h, err := e.HeadToHead()
	if err != nil {
		return nil, err
	}
	names, err := e.playerNames()
	if err != nil {
		return nil, err
	}

	var candidates []Rivalry
	for pair, rec := range h2h {
		shared := rec.WinsA + rec.WinsB
		if shared < MinSharedMatches {
			continue
		}
		candidates = append(candidates, Rivalry{
			PlayerA: pair.A,
			PlayerB: pair.B,
			NameA:   names[pair.A],
			NameB:   names[pair.B],
			WinsA:   rec.WinsA,
			WinsB:   rec.WinsB,
			Shared:  shared,
			Ratio:   float64(rec.WinsA) / float64(shared),
		})
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	slices.SortFunc(candidates, func(a, b Rivalry) int {
		if c := cmpFloat(score(a), score(b)); c != 0 {
			return c
		}
		if a.Shared != b.Shared {
			return b.Shared - a.Shared
		}
		if c := strings.Compare(a.NameA, b.NameA); c != 0 {
			return c
		}
		return strings.Compare(a.NameB, b.NameB)
	})
	badge := candidates[0]
	return &badge, nil
}

// PlayerRivals computes, per player, their own closest rival among opponents
// with at least MinSharedMatches meetings. Players without one are absent
// from the result.
func (e *Engine) PlayerRivals() (map[string]PlayerRival, error) {
	h2h, err := e.HeadToHead()
	if err != nil {
		return nil, err
	}
	names, err := e.playerNames()
	if err != nil {
		return nil, err
	}

	// Deterministic iteration over the pair map.
	pairs := make([]Pair, 0, len(h2h))
	for pair := range h2h {
		pairs = append(pairs, pair)
	}
	slices.SortFunc(pairs, func(a, b Pair) int {
		if c := strings.Compare(a.A, b.A); c != 0 {
			return c
		}
		return strings.Compare(a.B, b.B)
	})

	rivals := make(map[string]PlayerRival)
	consider := func(playerID, oppID string, wins, opponentWins int) {
		meetings := wins + opponentWins
		if meetings < MinSharedMatches {
			return
		}
		cand := PlayerRival{
			PlayerID:  playerID,
			RivalID:   oppID,
			RivalName: names[oppID],
			Wins:      wins,
			Losses:    opponentWins,
			Meetings:  meetings,
			WinPct:    float64(wins) / float64(meetings) * 100,
		}
		cur, ok := rivals[playerID]
		if !ok || betterRival(cand, cur) {
			rivals[playerID] = cand
		}
	}
	for _, pair := range pairs {
		rec := h2h[pair]
		consider(pair.A, pair.B, rec.WinsA, rec.WinsB)
		consider(pair.B, pair.A, rec.WinsB, rec.WinsA)
	}
	return rivals, nil
}

// NightMVP scores one date: one point per attendance plus three per archived
// win from that date. All tied leaders are returned, sorted by name.
func (e *Engine) NightMVP(date string) ([]MVP, error) {
	present, err := e.archive.GetPresent(date)
	if err != nil {
		return nil, err
	}
	matches, err := e.archive.GetArchive(league.ArchiveFilter{FromDate: date, ToDate: date})
	if err != nil {
		return nil, err
	}
	names, err := e.playerNames()
	if err != nil {
		return nil, err
	}

	points := make(map[string]int)
	for _, p := range present {
		points[p.ID] = 1
	}
	for _, m := range matches {
		winners, _ := sides(m)
		for _, id := range winners {
			points[id] += 3
		}
	}
	if len(points) == 0 {
		return nil, nil
	}

	max := 0
	for _, pts := range points {
		if pts > max {
			max = pts
		}
	}
	var mvps []MVP
	for id, pts := range points {
		if pts == max {
			mvps = append(mvps, MVP{PlayerID: id, PlayerName: names[id], Points: pts})
		}
	}
	slices.SortFunc(mvps, func(a, b MVP) int {
		return strings.Compare(a.PlayerName, b.PlayerName)
	})
	return mvps, nil
}

func (e *Engine) playerNames() (map[string]string, error) {
	players, err := e.archive.GetAllPlayers()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	return names, nil
}

func sides(m league.ArchivedMatch) (winners, losers []string) {
	if m.WinnerSide == 2 {
		return m.TeamB, m.TeamA
	}
	return m.TeamA, m.TeamB
}

func score(r Rivalry) float64 {
	return math.Abs(r.Ratio - 0.5)
}

func betterRival(a, b PlayerRival) bool {
	sa := math.Abs(float64(a.Wins)/float64(a.Meetings) - 0.5)
	sb := math.Abs(float64(b.Wins)/float64(b.Meetings) - 0.5)
	if sa != sb {
		return sa < sb
	}
	if a.Meetings != b.Meetings {
		return a.Meetings > b.Meetings
	}
	return a.RivalName < b.RivalName
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
