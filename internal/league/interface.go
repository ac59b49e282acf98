package league

import "io"

// LeagueStore defines the interface for interacting with the league's data.
type LeagueStore interface {
	AddPlayer(name string) (Player, error)
	GetPlayer(playerID string) (Player, error)
	GetPlayerByName(name string) (Player, error)
	GetAllPlayers() ([]Player, error)

	RecordAttendance(date string, playerIDs []string) error
	GetPresent(date string) ([]Player, error)

	PlanRound(date string, courtCount int) (*Round, error)
	GetRound(roundIndex int) (*Round, error)
	GetOpenRound() (*Round, error)
	RecordWinner(roundIndex int, matchID int64, side int) error
	CloseRound(roundIndex int) error

	GetArchive(filter ArchiveFilter) ([]ArchivedMatch, error)
	ExportArchiveCSV(w io.Writer) error
	PrevRoundPartners() (map[string]string, error)

	Clear()
}
