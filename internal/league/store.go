package league

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// New creates a new LeagueStore backed by the given database.
func New(db *sql.DB) LeagueStore {
	return &store{
		db: db,
	}
}

// AddPlayer registers a player by name. Registration is idempotent: adding an
// existing name returns the existing player unchanged.
func (s *store) AddPlayer(name string) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, ErrEmptyPlayerName
	}

	res, err := s.db.Exec("INSERT OR IGNORE INTO players (id, name) VALUES (?, ?)", uuid.New().String(), name)
	if err != nil {
		return Player{}, fmt.Errorf("failed to add player: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Info("Added new player", "name", name)
	}
	return s.playerByNameLocked(name)
}

func (s *store) GetPlayer(playerID string) (Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerLocked(playerID)
}

func (s *store) GetPlayerByName(name string) (Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerByNameLocked(name)
}

func (s *store) playerLocked(playerID string) (Player, error) {
	row := s.db.QueryRow(
		"SELECT id, name, attendance_points, sit_out_count, last_sit_out_round FROM players WHERE id = ?",
		playerID,
	)
	return scanPlayer(row)
}

func (s *store) playerByNameLocked(name string) (Player, error) {
	row := s.db.QueryRow(
		"SELECT id, name, attendance_points, sit_out_count, last_sit_out_round FROM players WHERE name = ? COLLATE NOCASE",
		name,
	)
	return scanPlayer(row)
}

func scanPlayer(row *sql.Row) (Player, error) {
	var p Player
	err := row.Scan(&p.ID, &p.Name, &p.AttendancePoints, &p.SitOutCount, &p.LastSitOutRound)
	if err == sql.ErrNoRows {
		return Player{}, ErrUnknownPlayer
	}
	if err != nil {
		return Player{}, fmt.Errorf("failed to scan player: %w", err)
	}
	return p, nil
}

func (s *store) GetAllPlayers() ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT id, name, attendance_points, sit_out_count, last_sit_out_round FROM players ORDER BY name COLLATE NOCASE",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Name, &p.AttendancePoints, &p.SitOutCount, &p.LastSitOutRound); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// RecordAttendance marks the given players present on a date and awards one
// attendance point per newly recorded (player, date) pair. Recording the same
// pair twice is a no-op. Unknown players reject the whole call; nothing is
// written.
func (s *store) RecordAttendance(date string, playerIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin attendance transaction: %w", err)
	}
	defer tx.Rollback()

	for _, playerID := range playerIDs {
		var exists bool
		if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check player: %w", err)
		}
		if !exists {
			return fmt.Errorf("record attendance for %q: %w", playerID, ErrUnknownPlayer)
		}

		res, err := tx.Exec("INSERT OR IGNORE INTO attendance (player_id, session_date) VALUES (?, ?)", playerID, date)
		if err != nil {
			return fmt.Errorf("failed to insert attendance: %w", err)
		}
		// The point follows the record: a duplicate insert affects no rows
		// and must not double-count.
		if n, _ := res.RowsAffected(); n > 0 {
			if _, err := tx.Exec("UPDATE players SET attendance_points = attendance_points + 1 WHERE id = ?", playerID); err != nil {
				return fmt.Errorf("failed to award attendance point: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit attendance: %w", err)
	}
	log.Info("Recorded attendance", "date", date, "players", len(playerIDs))
	return nil
}

// GetPresent returns the players recorded present on a date, ordered by name.
func (s *store) GetPresent(date string) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.presentLocked(date)
}

func (s *store) presentLocked(date string) ([]Player, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.name, p.attendance_points, p.sit_out_count, p.last_sit_out_round
		FROM players p
		JOIN attendance a ON a.player_id = p.id
		WHERE a.session_date = ?
		ORDER BY p.name COLLATE NOCASE
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Name, &p.AttendancePoints, &p.SitOutCount, &p.LastSitOutRound); err != nil {
			return nil, fmt.Errorf("failed to scan present player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}
	defer tx.Rollback()

	for _, table := range []string{"partner_history", "archive_matches", "round_matches", "round_sit_outs", "rounds", "attendance", "players"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

func encodeTeam(ids []string) ([]byte, error) {
	blob, err := msgpack.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to encode team: %w", err)
	}
	return blob, nil
}

func decodeTeam(blob []byte) ([]string, error) {
	var ids []string
	if err := msgpack.Unmarshal(blob, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode team: %w", err)
	}
	return ids, nil
}
