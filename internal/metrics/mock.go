package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	matchesRecorded  int
	lineupsValidated int
	advisorRequests  int
	advisorFailures  int
	advisorDurations []float64
	seasonsArchived  int
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		advisorDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded++
}

func (m *Mock) IncLineupsValidated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lineupsValidated++
}

func (m *Mock) IncAdvisorRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advisorRequests++
}

func (m *Mock) IncAdvisorFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advisorFailures++
}

func (m *Mock) ObserveAdvisorDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advisorDurations = append(m.advisorDurations, duration)
}

func (m *Mock) IncSeasonsArchived() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seasonsArchived++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesRecorded returns the number of times IncMatchesRecorded was called.
func (m *Mock) MatchesRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRecorded
}

// LineupsValidated returns the number of times IncLineupsValidated was called.
func (m *Mock) LineupsValidated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lineupsValidated
}

// AdvisorRequests returns the number of times IncAdvisorRequests was called.
func (m *Mock) AdvisorRequests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.advisorRequests
}

// AdvisorFailures returns the number of times IncAdvisorFailures was called.
func (m *Mock) AdvisorFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.advisorFailures
}

// SeasonsArchived returns the number of times IncSeasonsArchived was called.
func (m *Mock) SeasonsArchived() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seasonsArchived
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
