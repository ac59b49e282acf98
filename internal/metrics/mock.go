package metrics

import "sync"

// Mock is a no-op Metrics implementation that counts calls, for tests.
type Mock struct {
	mu sync.Mutex

	RoundsPlannedCalls    int
	RoundsClosedCalls     int
	WinnersRecordedCalls  int
	PlanningObservations  []float64
	SlackNotifSentCalls   int
	SlackNotifFailedCalls int
	StartupTimes          []float64
}

var _ Metrics = (*Mock)(nil)

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncRoundsPlanned() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RoundsPlannedCalls++
}

func (m *Mock) IncRoundsClosed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RoundsClosedCalls++
}

func (m *Mock) IncWinnersRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WinnersRecordedCalls++
}

func (m *Mock) ObservePlanningDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlanningObservations = append(m.PlanningObservations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlackNotifSentCalls++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlackNotifFailedCalls++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTimes = append(m.StartupTimes, duration)
}
