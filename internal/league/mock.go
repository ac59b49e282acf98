package league

import (
	"io"
	"sync"
)

// MockStore is a hand-rolled mock implementation of the LeagueStore
// interface for testing. Configure behavior via the Func fields; calls with
// a nil Func return zero values.
type MockStore struct {
	mu sync.Mutex

	AddPlayerFunc         func(name string) (Player, error)
	GetPlayerFunc         func(playerID string) (Player, error)
	GetPlayerByNameFunc   func(name string) (Player, error)
	GetAllPlayersFunc     func() ([]Player, error)
	RecordAttendanceFunc  func(date string, playerIDs []string) error
	GetPresentFunc        func(date string) ([]Player, error)
	PlanRoundFunc         func(date string, courtCount int) (*Round, error)
	GetRoundFunc          func(roundIndex int) (*Round, error)
	GetOpenRoundFunc      func() (*Round, error)
	RecordWinnerFunc      func(roundIndex int, matchID int64, side int) error
	CloseRoundFunc        func(roundIndex int) error
	GetArchiveFunc        func(filter ArchiveFilter) ([]ArchivedMatch, error)
	ExportArchiveCSVFunc  func(w io.Writer) error
	PrevRoundPartnersFunc func() (map[string]string, error)

	// Call records
	RecordAttendanceCalls []struct {
		Date      string
		PlayerIDs []string
	}
	PlanRoundCalls []struct {
		Date       string
		CourtCount int
	}
	RecordWinnerCalls []struct {
		RoundIndex int
		MatchID    int64
		Side       int
	}
	CloseRoundCalls []int
	ClearCalls      int
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) AddPlayer(name string) (Player, error) {
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(name)
	}
	return Player{}, nil
}

func (m *MockStore) GetPlayer(playerID string) (Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return Player{}, nil
}

func (m *MockStore) GetPlayerByName(name string) (Player, error) {
	if m.GetPlayerByNameFunc != nil {
		return m.GetPlayerByNameFunc(name)
	}
	return Player{}, nil
}

func (m *MockStore) GetAllPlayers() ([]Player, error) {
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) RecordAttendance(date string, playerIDs []string) error {
	m.mu.Lock()
	m.RecordAttendanceCalls = append(m.RecordAttendanceCalls, struct {
		Date      string
		PlayerIDs []string
	}{date, playerIDs})
	m.mu.Unlock()
	if m.RecordAttendanceFunc != nil {
		return m.RecordAttendanceFunc(date, playerIDs)
	}
	return nil
}

func (m *MockStore) GetPresent(date string) ([]Player, error) {
	if m.GetPresentFunc != nil {
		return m.GetPresentFunc(date)
	}
	return nil, nil
}

func (m *MockStore) PlanRound(date string, courtCount int) (*Round, error) {
	m.mu.Lock()
	m.PlanRoundCalls = append(m.PlanRoundCalls, struct {
		Date       string
		CourtCount int
	}{date, courtCount})
	m.mu.Unlock()
	if m.PlanRoundFunc != nil {
		return m.PlanRoundFunc(date, courtCount)
	}
	return nil, nil
}

func (m *MockStore) GetRound(roundIndex int) (*Round, error) {
	if m.GetRoundFunc != nil {
		return m.GetRoundFunc(roundIndex)
	}
	return nil, nil
}

func (m *MockStore) GetOpenRound() (*Round, error) {
	if m.GetOpenRoundFunc != nil {
		return m.GetOpenRoundFunc()
	}
	return nil, nil
}

func (m *MockStore) RecordWinner(roundIndex int, matchID int64, side int) error {
	m.mu.Lock()
	m.RecordWinnerCalls = append(m.RecordWinnerCalls, struct {
		RoundIndex int
		MatchID    int64
		Side       int
	}{roundIndex, matchID, side})
	m.mu.Unlock()
	if m.RecordWinnerFunc != nil {
		return m.RecordWinnerFunc(roundIndex, matchID, side)
	}
	return nil
}

func (m *MockStore) CloseRound(roundIndex int) error {
	m.mu.Lock()
	m.CloseRoundCalls = append(m.CloseRoundCalls, roundIndex)
	m.mu.Unlock()
	if m.CloseRoundFunc != nil {
		return m.CloseRoundFunc(roundIndex)
	}
	return nil
}

func (m *MockStore) GetArchive(filter ArchiveFilter) ([]ArchivedMatch, error) {
	if m.GetArchiveFunc != nil {
		return m.GetArchiveFunc(filter)
	}
	return nil, nil
}

func (m *MockStore) ExportArchiveCSV(w io.Writer) error {
	if m.ExportArchiveCSVFunc != nil {
		return m.ExportArchiveCSVFunc(w)
	}
	return nil
}

func (m *MockStore) PrevRoundPartners() (map[string]string, error) {
	if m.PrevRoundPartnersFunc != nil {
		return m.PrevRoundPartnersFunc()
	}
	return map[string]string{}, nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	m.ClearCalls++
	m.mu.Unlock()
}
