package notifier

import "github.com/mrdjames-us/apa-coach/internal/team"

// MockNotifier is a mock implementation of the Notifier interface for testing.
type MockNotifier struct {
	SendMatchRecordedFunc func(match *team.Match, dryRun bool) error
	SendSeasonSummaryFunc func(archive *team.SessionArchive, dryRun bool) error

	MatchCalls   []*team.Match
	SummaryCalls []*team.SessionArchive
}

var _ Notifier = (*MockNotifier)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) SendMatchRecorded(match *team.Match, dryRun bool) error {
	m.MatchCalls = append(m.MatchCalls, match)
	if m.SendMatchRecordedFunc != nil {
		return m.SendMatchRecordedFunc(match, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendSeasonSummary(archive *team.SessionArchive, dryRun bool) error {
	m.SummaryCalls = append(m.SummaryCalls, archive)
	if m.SendSeasonSummaryFunc != nil {
		return m.SendSeasonSummaryFunc(archive, dryRun)
	}
	return nil
}
