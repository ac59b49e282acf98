package planner

import (
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// MatchMix picks the doubles/singles split that puts the most players on
// court: maximize 4D+2S subject to D+S <= courts and 4D+2S <= players. Ties
// favor more doubles. With 6 players on 2 courts that is one doubles and one
// singles match; with 10 players on 3 courts, two doubles and one singles.
func MatchMix(playerCount, courtCount int) (doubles, singles int) {
	bestInPlay := -1
	for d := min(courtCount, playerCount/4); d >= 0; d-- {
		s := min((playerCount-4*d)/2, courtCount-d)
		if inPlay := 4*d + 2*s; inPlay > bestInPlay {
			bestInPlay = inPlay
			doubles, singles = d, s
		}
	}
	return doubles, singles
}

// BuildRound assigns the present players to courts and sit-outs. The caller
// validates the roster and court count; BuildRound always produces a plan.
//
// Sit-outs are chosen by ascending cumulative sit-out count, ties broken by
// who sat out longest ago, so nobody sits twice in a row while a fresher
// candidate exists. Doubles partners avoid the previous round's pairings
// whenever any repeat-free assignment exists.
func BuildRound(in Input) Plan {
	players := slices.Clone(in.Players)
	slices.SortFunc(players, func(a, b Candidate) int {
		if a.SitOutCount != b.SitOutCount {
			return a.SitOutCount - b.SitOutCount
		}
		if a.LastSitOutRound != b.LastSitOutRound {
			return a.LastSitOutRound - b.LastSitOutRound
		}
		return strings.Compare(a.Name, b.Name)
	})

	doubles, singles := MatchMix(len(players), in.CourtCount)
	inPlay := 4*doubles + 2*singles

	plan := Plan{
		SitOuts: players[:len(players)-inPlay],
	}
	playing := players[len(players)-inPlay:]

	pairs, forced := pairPartners(playing[:4*doubles], in.PrevPartners)
	plan.ForcedRepeat = forced

	court := 1
	for i := 0; i+1 < len(pairs); i += 2 {
		plan.Matches = append(plan.Matches, PlannedMatch{
			Court: court,
			Kind:  Doubles,
			TeamA: []string{pairs[i][0].ID, pairs[i][1].ID},
			TeamB: []string{pairs[i+1][0].ID, pairs[i+1][1].ID},
		})
		court++
	}

	soloists := playing[4*doubles:]
	for i := 0; i+1 < len(soloists); i += 2 {
		plan.Matches = append(plan.Matches, PlannedMatch{
			Court: court,
			Kind:  Singles,
			TeamA: []string{soloists[i].ID},
			TeamB: []string{soloists[i+1].ID},
		})
		court++
	}

	if forced {
		log.Warn("Round contains a forced partner repeat", "doubles_players", 4*doubles)
	}
	return plan
}

// pairPartners forms doubles pairs from an even-sized pool, minimizing
// repeats of the previous round's partnerships. A backtracking search is
// plenty for a weekly roster; the first zero-repeat assignment found wins.
func pairPartners(pool []Candidate, prevPartners map[string]string) ([][2]Candidate, bool) {
	if len(pool) == 0 {
		return nil, false
	}

	isRepeat := func(a, b Candidate) bool {
		return prevPartners[a.ID] == b.ID || prevPartners[b.ID] == a.ID
	}

	var (
		best        [][2]Candidate
		bestRepeats = math.MaxInt
		current     [][2]Candidate
	)
	used := make([]bool, len(pool))

	var search func(repeats int)
	search = func(repeats int) {
		if repeats >= bestRepeats {
			return
		}
		first := -1
		for i, u := range used {
			if !u {
				first = i
				break
			}
		}
		if first == -1 {
			best = slices.Clone(current)
			bestRepeats = repeats
			return
		}

		used[first] = true
		// Non-repeat partners first so the first complete assignment is
		// already minimal in the common case.
		for pass := 0; pass < 2; pass++ {
			for j := first + 1; j < len(pool); j++ {
				if used[j] {
					continue
				}
				repeat := isRepeat(pool[first], pool[j])
				if (pass == 0) == repeat {
					continue
				}
				used[j] = true
				current = append(current, [2]Candidate{pool[first], pool[j]})
				if repeat {
					search(repeats + 1)
				} else {
					search(repeats)
				}
				current = current[:len(current)-1]
				used[j] = false
			}
		}
		used[first] = false
	}
	search(0)

	return best, bestRepeats > 0
}
