package league

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"
)

// GetArchive returns closed matches, newest first, optionally narrowed by
// player, kind, or date range.
func (s *store) GetArchive(filter ArchiveFilter) ([]ArchivedMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.archiveLocked(filter)
}

func (s *store) archiveLocked(filter ArchiveFilter) ([]ArchivedMatch, error) {
	query := "SELECT id, round_index, session_date, court, kind, team_a, team_b, winner_side FROM archive_matches"
	var (
		clauses []string
		args    []any
	)
	if filter.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.FromDate != "" {
		clauses = append(clauses, "session_date >= ?")
		args = append(args, filter.FromDate)
	}
	if filter.ToDate != "" {
		clauses = append(clauses, "session_date <= ?")
		args = append(args, filter.ToDate)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	defer rows.Close()

	var matches []ArchivedMatch
	for rows.Next() {
		var (
			m            ArchivedMatch
			teamA, teamB []byte
		)
		if err := rows.Scan(&m.ID, &m.RoundIndex, &m.Date, &m.Court, &m.Kind, &teamA, &teamB, &m.WinnerSide); err != nil {
			return nil, fmt.Errorf("failed to scan archive row: %w", err)
		}
		if m.TeamA, err = decodeTeam(teamA); err != nil {
			return nil, err
		}
		if m.TeamB, err = decodeTeam(teamB); err != nil {
			return nil, err
		}
		// Team membership lives inside the encoded blobs, so the player
		// filter applies after decoding.
		if filter.PlayerID != "" && !slices.Contains(m.TeamA, filter.PlayerID) && !slices.Contains(m.TeamB, filter.PlayerID) {
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// ExportArchiveCSV writes the full match archive as CSV with the columns
// date, round_index, court, kind, team_a, team_b, winner. Teams and the
// winner are rendered as player names joined with " & ".
func (s *store) ExportArchiveCSV(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := s.archiveLocked(ArchiveFilter{})
	if err != nil {
		return err
	}
	names, err := s.playerNamesLocked()
	if err != nil {
		return err
	}

	// CSV reads oldest to newest.
	slices.Reverse(matches)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "round_index", "court", "kind", "team_a", "team_b", "winner"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, m := range matches {
		winner := m.TeamA
		if m.WinnerSide == 2 {
			winner = m.TeamB
		}
		record := []string{
			m.Date,
			fmt.Sprintf("%d", m.RoundIndex),
			fmt.Sprintf("%d", m.Court),
			string(m.Kind),
			teamNames(m.TeamA, names),
			teamNames(m.TeamB, names),
			teamNames(winner, names),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *store) playerNamesLocked() (map[string]string, error) {
	rows, err := s.db.Query("SELECT id, name FROM players")
	if err != nil {
		return nil, fmt.Errorf("failed to query player names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan player name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

func teamNames(ids []string, names map[string]string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		if name, ok := names[id]; ok {
			parts[i] = name
		} else {
			parts[i] = id
		}
	}
	return strings.Join(parts, " & ")
}
