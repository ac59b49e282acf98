package league

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/sondagsholdet/courtmix/internal/planner"
)

// PlanRound creates the next round for a date: match mix, sit-out rotation
// and partner remix over the players recorded present. The new round starts
// Open with no winners. At most one round may be open at a time.
func (s *store) PlanRound(date string, courtCount int) (*Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if courtCount == 0 {
		return nil, ErrNoCourts
	}
	if courtCount < MinCourts || courtCount > MaxCourts {
		return nil, ErrInvalidCourtCount
	}

	var openIndex int
	err := s.db.QueryRow("SELECT round_index FROM rounds WHERE state = ? LIMIT 1", RoundOpen).Scan(&openIndex)
	if err == nil {
		return nil, fmt.Errorf("round %d is still open: %w", openIndex, ErrRoundAlreadyOpen)
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check for open round: %w", err)
	}

	present, err := s.presentLocked(date)
	if err != nil {
		return nil, err
	}
	if len(present) == 0 {
		return nil, ErrEmptyRoster
	}

	prevPartners, err := s.prevRoundPartnersLocked()
	if err != nil {
		return nil, err
	}

	candidates := make([]planner.Candidate, len(present))
	for i, p := range present {
		candidates[i] = planner.Candidate{
			ID:              p.ID,
			Name:            p.Name,
			SitOutCount:     p.SitOutCount,
			LastSitOutRound: p.LastSitOutRound,
		}
	}
	plan := planner.BuildRound(planner.Input{
		Players:      candidates,
		CourtCount:   courtCount,
		PrevPartners: prevPartners,
	})

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin round transaction: %w", err)
	}
	defer tx.Rollback()

	var roundIndex int
	if err := tx.QueryRow("SELECT COALESCE(MAX(round_index), 0) + 1 FROM rounds").Scan(&roundIndex); err != nil {
		return nil, fmt.Errorf("failed to allocate round index: %w", err)
	}

	_, err = tx.Exec(
		"INSERT INTO rounds (round_index, session_date, court_count, state, forced_repeat) VALUES (?, ?, ?, ?, ?)",
		roundIndex, date, courtCount, RoundOpen, plan.ForcedRepeat,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert round: %w", err)
	}

	for _, m := range plan.Matches {
		teamA, err := encodeTeam(m.TeamA)
		if err != nil {
			return nil, err
		}
		teamB, err := encodeTeam(m.TeamB)
		if err != nil {
			return nil, err
		}
		_, err = tx.Exec(
			"INSERT INTO round_matches (round_index, court, kind, team_a, team_b) VALUES (?, ?, ?, ?, ?)",
			roundIndex, m.Court, string(m.Kind), teamA, teamB,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert match: %w", err)
		}
	}

	for _, so := range plan.SitOuts {
		if _, err := tx.Exec("INSERT INTO round_sit_outs (round_index, player_id) VALUES (?, ?)", roundIndex, so.ID); err != nil {
			return nil, fmt.Errorf("failed to insert sit-out: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit round: %w", err)
	}

	log.Info("Planned round",
		"round", roundIndex,
		"date", date,
		"courts", courtCount,
		"present", len(present),
		"matches", len(plan.Matches),
		"sit_outs", len(plan.SitOuts),
		"forced_repeat", plan.ForcedRepeat,
	)
	return s.roundLocked(roundIndex)
}

func (s *store) GetRound(roundIndex int) (*Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roundLocked(roundIndex)
}

// GetOpenRound returns the currently open round, or ErrUnknownRound when
// every round is closed.
func (s *store) GetOpenRound() (*Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var roundIndex int
	err := s.db.QueryRow("SELECT round_index FROM rounds WHERE state = ? LIMIT 1", RoundOpen).Scan(&roundIndex)
	if err == sql.ErrNoRows {
		return nil, ErrUnknownRound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query open round: %w", err)
	}
	return s.roundLocked(roundIndex)
}

func (s *store) roundLocked(roundIndex int) (*Round, error) {
	var r Round
	err := s.db.QueryRow(
		"SELECT round_index, session_date, court_count, state, forced_repeat FROM rounds WHERE round_index = ?",
		roundIndex,
	).Scan(&r.Index, &r.Date, &r.CourtCount, &r.State, &r.ForcedRepeat)
	if err == sql.ErrNoRows {
		return nil, ErrUnknownRound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan round: %w", err)
	}

	rows, err := s.db.Query(
		"SELECT id, round_index, court, kind, team_a, team_b, winner_side, recorded FROM round_matches WHERE round_index = ? ORDER BY court",
		roundIndex,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query round matches: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m            Match
			teamA, teamB []byte
		)
		if err := rows.Scan(&m.ID, &m.RoundIndex, &m.Court, &m.Kind, &teamA, &teamB, &m.WinnerSide, &m.Recorded); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		if m.TeamA, err = decodeTeam(teamA); err != nil {
			return nil, err
		}
		if m.TeamB, err = decodeTeam(teamB); err != nil {
			return nil, err
		}
		r.Matches = append(r.Matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	soRows, err := s.db.Query("SELECT player_id FROM round_sit_outs WHERE round_index = ? ORDER BY player_id", roundIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to query sit-outs: %w", err)
	}
	defer soRows.Close()
	for soRows.Next() {
		var playerID string
		if err := soRows.Scan(&playerID); err != nil {
			return nil, fmt.Errorf("failed to scan sit-out row: %w", err)
		}
		r.SitOuts = append(r.SitOuts, playerID)
	}
	return &r, soRows.Err()
}

// RecordWinner sets the winning side of a match. Results stay editable until
// the round closes; re-recording overwrites the previous winner.
func (s *store) RecordWinner(roundIndex int, matchID int64, side int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if side != 1 && side != 2 {
		return ErrInvalidSide
	}

	var state RoundState
	err := s.db.QueryRow("SELECT state FROM rounds WHERE round_index = ?", roundIndex).Scan(&state)
	if err == sql.ErrNoRows {
		return ErrUnknownRound
	}
	if err != nil {
		return fmt.Errorf("failed to check round state: %w", err)
	}
	if state != RoundOpen {
		return ErrRoundClosed
	}

	res, err := s.db.Exec(
		"UPDATE round_matches SET winner_side = ?, recorded = 1 WHERE id = ? AND round_index = ?",
		side, matchID, roundIndex,
	)
	if err != nil {
		return fmt.Errorf("failed to record winner: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUnknownMatch
	}
	log.Info("Recorded winner", "round", roundIndex, "match", matchID, "side", side)
	return nil
}

// CloseRound commits a finished round: every match is archived, this round's
// doubles pairings land in the partner history, and the sit-out ledger is
// bumped. The whole transition is one transaction; a missing winner rejects
// the close with no side effects and the round stays open.
func (s *store) CloseRound(roundIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	round, err := s.roundLocked(roundIndex)
	if err != nil {
		return err
	}
	if round.State != RoundOpen {
		return ErrRoundClosed
	}

	var missing []int
	for _, m := range round.Matches {
		if !m.Recorded {
			missing = append(missing, m.Court)
		}
	}
	if len(missing) > 0 {
		return &IncompleteResultsError{Courts: missing}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin close transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range round.Matches {
		teamA, err := encodeTeam(m.TeamA)
		if err != nil {
			return err
		}
		teamB, err := encodeTeam(m.TeamB)
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			"INSERT INTO archive_matches (round_index, session_date, court, kind, team_a, team_b, winner_side) VALUES (?, ?, ?, ?, ?, ?, ?)",
			roundIndex, round.Date, m.Court, string(m.Kind), teamA, teamB, m.WinnerSide,
		)
		if err != nil {
			return fmt.Errorf("failed to archive match: %w", err)
		}

		if m.Kind != KindDoubles {
			continue
		}
		for _, team := range [][]string{m.TeamA, m.TeamB} {
			a, b := team[0], team[1]
			if a > b {
				a, b = b, a
			}
			_, err = tx.Exec(`
				INSERT INTO partner_history (player_a, player_b, last_round)
				VALUES (?, ?, ?)
				ON CONFLICT(player_a, player_b) DO UPDATE SET last_round = excluded.last_round
			`, a, b, roundIndex)
			if err != nil {
				return fmt.Errorf("failed to update partner history: %w", err)
			}
		}
	}

	for _, playerID := range round.SitOuts {
		_, err := tx.Exec(
			"UPDATE players SET sit_out_count = sit_out_count + 1, last_sit_out_round = ? WHERE id = ?",
			roundIndex, playerID,
		)
		if err != nil {
			return fmt.Errorf("failed to update sit-out ledger: %w", err)
		}
	}

	if _, err := tx.Exec("UPDATE rounds SET state = ? WHERE round_index = ?", RoundClosed, roundIndex); err != nil {
		return fmt.Errorf("failed to close round: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit round close: %w", err)
	}
	log.Info("Closed round", "round", roundIndex, "matches", len(round.Matches), "sit_outs", len(round.SitOuts))
	return nil
}

// PrevRoundPartners maps each player to their doubles partner in the most
// recently closed round, for the planner's remix constraint.
func (s *store) PrevRoundPartners() (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prevRoundPartnersLocked()
}

func (s *store) prevRoundPartnersLocked() (map[string]string, error) {
	var lastClosed int
	err := s.db.QueryRow("SELECT COALESCE(MAX(round_index), 0) FROM rounds WHERE state = ?", RoundClosed).Scan(&lastClosed)
	if err != nil {
		return nil, fmt.Errorf("failed to find last closed round: %w", err)
	}
	partners := make(map[string]string)
	if lastClosed == 0 {
		return partners, nil
	}

	rows, err := s.db.Query("SELECT player_a, player_b FROM partner_history WHERE last_round = ?", lastClosed)
	if err != nil {
		return nil, fmt.Errorf("failed to query partner history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a, b string
		if err := rows.Scan(&a, &b); err != nil {
			return nil, fmt.Errorf("failed to scan partner row: %w", err)
		}
		partners[a] = b
		partners[b] = a
	}
	return partners, rows.Err()
}
