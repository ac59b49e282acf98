package notifier

import (
	"sync"

	"github.com/sondagsholdet/courtmix/internal/league"
	"github.com/sondagsholdet/courtmix/internal/standings"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendRoundPlannedFunc func(round *league.Round, names map[string]string, dryRun bool) error
	SendRoundClosedFunc  func(round *league.Round, table []standings.PlayerStanding, dryRun bool) error

	SendRoundPlannedCalls []*league.Round
	SendRoundClosedCalls  []*league.Round
}

var _ Notifier = (*Mock)(nil)

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendRoundPlanned(round *league.Round, names map[string]string, dryRun bool) error {
	m.mu.Lock()
	m.SendRoundPlannedCalls = append(m.SendRoundPlannedCalls, round)
	m.mu.Unlock()
	if m.SendRoundPlannedFunc != nil {
		return m.SendRoundPlannedFunc(round, names, dryRun)
	}
	return nil
}

func (m *Mock) SendRoundClosed(round *league.Round, table []standings.PlayerStanding, dryRun bool) error {
	m.mu.Lock()
	m.SendRoundClosedCalls = append(m.SendRoundClosedCalls, round)
	m.mu.Unlock()
	if m.SendRoundClosedFunc != nil {
		return m.SendRoundClosedFunc(round, table, dryRun)
	}
	return nil
}
