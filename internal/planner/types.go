package planner

// Kind distinguishes the two match shapes a court can host.
type Kind string

const (
	Doubles Kind = "DOUBLES"
	Singles Kind = "SINGLES"
)

// Candidate is a present player together with the fairness-ledger fields the
// planner selects on. LastSitOutRound is 0 for a player who has never sat out.
type Candidate struct {
	ID              string
	Name            string
	SitOutCount     int
	LastSitOutRound int
}

// Input is a snapshot of everything a round plan depends on. PrevPartners
// maps a player id to their doubles partner in the immediately preceding
// round; players without a previous partner are absent from the map.
type Input struct {
	Players      []Candidate
	CourtCount   int
	PrevPartners map[string]string
}

// PlannedMatch is one court assignment: two teams of player ids.
type PlannedMatch struct {
	Court int
	Kind  Kind
	TeamA []string
	TeamB []string
}

// Plan is a fully assigned round: matches, sit-outs, and whether the partner
// remix had to repeat a previous-round pairing because no alternative existed.
type Plan struct {
	Matches      []PlannedMatch
	SitOuts      []Candidate
	ForcedRepeat bool
}
