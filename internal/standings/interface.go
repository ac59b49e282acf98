package standings

import "github.com/sondagsholdet/courtmix/internal/league"

// Archive is the slice of the league store the engine aggregates over.
// Everything here is replayed on demand; the engine keeps no state of its own.
type Archive interface {
	GetArchive(filter league.ArchiveFilter) ([]league.ArchivedMatch, error)
	GetAllPlayers() ([]league.Player, error)
	GetPresent(date string) ([]league.Player, error)
}
