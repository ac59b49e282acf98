package league

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the league.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// RoundState is the lifecycle state of a round.
type RoundState string

const (
	RoundOpen   RoundState = "OPEN"
	RoundClosed RoundState = "CLOSED"
)

// MatchKind distinguishes doubles from singles matches.
type MatchKind string

const (
	KindDoubles MatchKind = "DOUBLES"
	KindSingles MatchKind = "SINGLES"
)

// Court count bounds for a session.
const (
	MinCourts = 1
	MaxCourts = 6
)

// Player is a league member. Players are created on first registration and
// never deleted; the sit-out fields are the fairness ledger used by round
// planning. LastSitOutRound is 0 for a player who has never sat out.
type Player struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	AttendancePoints int    `json:"attendance_points"`
	SitOutCount      int    `json:"sit_out_count"`
	LastSitOutRound  int    `json:"last_sit_out_round"`
}

// Match is one court assignment inside a round. WinnerSide is 0 until a
// result is recorded, then 1 or 2.
type Match struct {
	ID         int64     `json:"id"`
	RoundIndex int       `json:"round_index"`
	Court      int       `json:"court"`
	Kind       MatchKind `json:"kind"`
	TeamA      []string  `json:"team_a"`
	TeamB      []string  `json:"team_b"`
	WinnerSide int       `json:"winner_side"`
	Recorded   bool      `json:"recorded"`
}

// Round is one scheduling unit: the matches and sit-outs for a set of present
// players on a date. A round is editable while Open and immutable once Closed.
type Round struct {
	Index        int        `json:"round_index"`
	Date         string     `json:"date"`
	CourtCount   int        `json:"court_count"`
	State        RoundState `json:"state"`
	ForcedRepeat bool       `json:"forced_repeat"`
	Matches      []Match    `json:"matches"`
	SitOuts      []string   `json:"sit_outs"`
}

// ArchivedMatch is an immutable record of a closed round's match.
type ArchivedMatch struct {
	ID         int64     `json:"id"`
	RoundIndex int       `json:"round_index"`
	Date       string    `json:"date"`
	Court      int       `json:"court"`
	Kind       MatchKind `json:"kind"`
	TeamA      []string  `json:"team_a"`
	TeamB      []string  `json:"team_b"`
	WinnerSide int       `json:"winner_side"`
}

// ArchiveFilter narrows archive queries. Zero values mean "no filter".
type ArchiveFilter struct {
	PlayerID string
	Kind     MatchKind
	FromDate string
	ToDate   string
}
