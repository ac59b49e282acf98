package standings

// MinSharedMatches is how many decided head-to-head meetings a pair needs
// before it can qualify for the rival badge.
const MinSharedMatches = 3

// PlayerStanding is a derived league table row. Sorting is by wins, then
// fewest losses, then name; the points columns are display extras.
type PlayerStanding struct {
	PlayerID         string  `json:"player_id"`
	PlayerName       string  `json:"player_name"`
	MatchesPlayed    int     `json:"matches_played"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	WinPercentage    float64 `json:"win_percentage"`
	AttendancePoints int     `json:"attendance_points"`
	LeaguePoints     int     `json:"league_points"`
}

// Pair is an unordered pair of players, normalized so A < B by id.
type Pair struct {
	A string
	B string
}

// Record is the head-to-head tally for a Pair: how often A beat B and vice
// versa, across all shared matches regardless of team composition.
type Record struct {
	WinsA int
	WinsB int
}

// Rivalry is the pair whose head-to-head results sit closest to an even
// split, among pairs with at least MinSharedMatches decided meetings.
type Rivalry struct {
	PlayerA string  `json:"player_a"`
	PlayerB string  `json:"player_b"`
	NameA   string  `json:"name_a"`
	NameB   string  `json:"name_b"`
	WinsA   int     `json:"wins_a"`
	WinsB   int     `json:"wins_b"`
	Shared  int     `json:"shared_matches"`
	Ratio   float64 `json:"ratio"`
}

// PlayerRival is one player's own closest rival.
type PlayerRival struct {
	PlayerID  string  `json:"player_id"`
	RivalID   string  `json:"rival_id"`
	RivalName string  `json:"rival_name"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	Meetings  int     `json:"meetings"`
	WinPct    float64 `json:"win_pct"`
}

// MVP is a night's top scorer: one point per attendance, three per win.
type MVP struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Points     int    `json:"points"`
}
