package team

import "sync"

// MockStore is a mock implementation of the TeamStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	AddPlayerFunc        func(accountID, name string, skill8, skill9 int) (*Player, error)
	UpdatePlayerFunc     func(accountID, playerID string, params UpdatePlayerParams) error
	DeletePlayerFunc     func(accountID, playerID string) error
	SetPlayerActiveFunc  func(accountID, playerID string, active bool) error
	GetPlayerFunc        func(accountID, playerID string) (*Player, error)
	GetAllPlayersFunc    func(accountID string) ([]Player, error)
	GetActivePlayersFunc func(accountID string) ([]Player, error)
	RecordMatchFunc      func(accountID string, match *Match) error
	GetAllMatchesFunc    func(accountID string) ([]*Match, error)
	ArchiveSeasonFunc    func(accountID, name string) (*SessionArchive, error)
	GetArchivesFunc      func(accountID string) ([]*SessionArchive, error)
	SaveLineupDraftFunc  func(accountID string, draft []byte) error
	GetLineupDraftFunc   func(accountID string) ([]byte, error)
	ClearLineupDraftFunc func(accountID string) error
	TeamSummaryFunc      func(accountID string) (*Summary, error)
	ClearFunc            func(accountID string) error

	// Call records
	RecordMatchCalls   []*Match
	ArchiveSeasonCalls []string
	ClearCalls         []string
}

var _ TeamStore = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) AddPlayer(accountID, name string, skill8, skill9 int) (*Player, error) {
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(accountID, name, skill8, skill9)
	}
	return &Player{ID: "mock-player", Name: name, Skill8: skill8, Skill9: skill9, Active: true}, nil
}

func (m *MockStore) UpdatePlayer(accountID, playerID string, params UpdatePlayerParams) error {
	if m.UpdatePlayerFunc != nil {
		return m.UpdatePlayerFunc(accountID, playerID, params)
	}
	return nil
}

func (m *MockStore) DeletePlayer(accountID, playerID string) error {
	if m.DeletePlayerFunc != nil {
		return m.DeletePlayerFunc(accountID, playerID)
	}
	return nil
}

func (m *MockStore) SetPlayerActive(accountID, playerID string, active bool) error {
	if m.SetPlayerActiveFunc != nil {
		return m.SetPlayerActiveFunc(accountID, playerID, active)
	}
	return nil
}

func (m *MockStore) GetPlayer(accountID, playerID string) (*Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(accountID, playerID)
	}
	return nil, ErrPlayerNotFound
}

func (m *MockStore) GetAllPlayers(accountID string) ([]Player, error) {
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc(accountID)
	}
	return nil, nil
}

func (m *MockStore) GetActivePlayers(accountID string) ([]Player, error) {
	if m.GetActivePlayersFunc != nil {
		return m.GetActivePlayersFunc(accountID)
	}
	return nil, nil
}

func (m *MockStore) RecordMatch(accountID string, match *Match) error {
	m.mu.Lock()
	m.RecordMatchCalls = append(m.RecordMatchCalls, match)
	m.mu.Unlock()
	if m.RecordMatchFunc != nil {
		return m.RecordMatchFunc(accountID, match)
	}
	return nil
}

func (m *MockStore) GetAllMatches(accountID string) ([]*Match, error) {
	if m.GetAllMatchesFunc != nil {
		return m.GetAllMatchesFunc(accountID)
	}
	return nil, nil
}

func (m *MockStore) ArchiveSeason(accountID, name string) (*SessionArchive, error) {
	m.mu.Lock()
	m.ArchiveSeasonCalls = append(m.ArchiveSeasonCalls, name)
	m.mu.Unlock()
	if m.ArchiveSeasonFunc != nil {
		return m.ArchiveSeasonFunc(accountID, name)
	}
	return &SessionArchive{Name: name, Matches: []*Match{}, PlayerSnapshots: []Player{}}, nil
}

func (m *MockStore) GetArchives(accountID string) ([]*SessionArchive, error) {
	if m.GetArchivesFunc != nil {
		return m.GetArchivesFunc(accountID)
	}
	return nil, nil
}

func (m *MockStore) SaveLineupDraft(accountID string, draft []byte) error {
	if m.SaveLineupDraftFunc != nil {
		return m.SaveLineupDraftFunc(accountID, draft)
	}
	return nil
}

func (m *MockStore) GetLineupDraft(accountID string) ([]byte, error) {
	if m.GetLineupDraftFunc != nil {
		return m.GetLineupDraftFunc(accountID)
	}
	return nil, nil
}

func (m *MockStore) ClearLineupDraft(accountID string) error {
	if m.ClearLineupDraftFunc != nil {
		return m.ClearLineupDraftFunc(accountID)
	}
	return nil
}

func (m *MockStore) TeamSummary(accountID string) (*Summary, error) {
	if m.TeamSummaryFunc != nil {
		return m.TeamSummaryFunc(accountID)
	}
	return BuildSummary(nil, nil), nil
}

func (m *MockStore) Clear(accountID string) error {
	m.mu.Lock()
	m.ClearCalls = append(m.ClearCalls, accountID)
	m.mu.Unlock()
	if m.ClearFunc != nil {
		return m.ClearFunc(accountID)
	}
	return nil
}
