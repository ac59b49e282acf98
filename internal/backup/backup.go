package backup

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// requiredTables is the structural shape an uploaded backup must carry
// before it is allowed anywhere near the live store.
var requiredTables = []string{
	"players",
	"attendance",
	"rounds",
	"round_sit_outs",
	"round_matches",
	"archive_matches",
	"partner_history",
}

// Manager exports and imports snapshots of the league database. Import is
// validate-then-swap: the upload is checked structurally in isolation and
// only then replaces the live contents, in one transaction, so a corrupt
// upload can never leave the store half-written.
type Manager struct {
	db *sql.DB
}

// New creates a backup Manager over the live database handle.
func New(db *sql.DB) *Manager {
	return &Manager{db: db}
}

// Export streams a consistent snapshot of the database. VACUUM INTO gives us
// a point-in-time copy without blocking the live connection.
func (m *Manager) Export(w io.Writer) error {
	tmp, err := os.CreateTemp("", "courtmix-export-*.db")
	if err != nil {
		return fmt.Errorf("failed to create export temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	os.Remove(tmpPath) // VACUUM INTO refuses to overwrite
	defer os.Remove(tmpPath)

	if _, err := m.db.Exec("VACUUM INTO ?", tmpPath); err != nil {
		return fmt.Errorf("failed to snapshot database: %w", err)
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(w, f)
	if err != nil {
		return fmt.Errorf("failed to stream snapshot: %w", err)
	}
	log.Info("Exported database snapshot", "bytes", n)
	return nil
}

// Import replaces the live contents with an uploaded snapshot. The upload is
// written to a temp file and validated there first; a file that fails
// validation is rejected with the live store untouched.
func (m *Manager) Import(r io.Reader) error {
	tmp, err := os.CreateTemp("", "courtmix-import-*.db")
	if err != nil {
		return fmt.Errorf("failed to create import temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close upload: %w", err)
	}

	if err := validate(tmpPath); err != nil {
		return fmt.Errorf("backup rejected: %w", err)
	}

	if err := m.swap(tmpPath); err != nil {
		return err
	}
	log.Info("Imported database snapshot")
	return nil
}

// validate opens the candidate file on its own connection and checks it is a
// healthy database with the expected tables.
func validate(path string) error {
	db, err := sql.Open("libsql", "file:"+filepath.ToSlash(path)+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if !strings.EqualFold(result, "ok") {
		return fmt.Errorf("integrity check failed: %s", result)
	}

	for _, table := range requiredTables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err == sql.ErrNoRows {
			return fmt.Errorf("missing table %q", table)
		}
		if err != nil {
			return fmt.Errorf("failed to inspect upload: %w", err)
		}
	}
	return nil
}

// swap replaces the live rows with the validated upload's rows in a single
// transaction against the live connection.
func (m *Manager) swap(path string) error {
	if _, err := m.db.Exec("ATTACH DATABASE ? AS incoming", filepath.ToSlash(path)); err != nil {
		return fmt.Errorf("failed to attach upload: %w", err)
	}
	defer m.db.Exec("DETACH DATABASE incoming")

	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback()

	// Children first on delete, parents first on insert.
	for i := len(requiredTables) - 1; i >= 0; i-- {
		if _, err := tx.Exec("DELETE FROM " + requiredTables[i]); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", requiredTables[i], err)
		}
	}
	for _, table := range requiredTables {
		if _, err := tx.Exec(fmt.Sprintf("INSERT INTO %s SELECT * FROM incoming.%s", table, table)); err != nil {
			return fmt.Errorf("failed to import table %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}
