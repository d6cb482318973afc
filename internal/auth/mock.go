package auth

// MockStore is a mock implementation of the auth Store interface for testing.
type MockStore struct {
	LoginFunc  func(callsign, password string) (*Session, error)
	VerifyFunc func(token string) (string, error)
	LogoutFunc func(token string) error

	LogoutCalls []string
}

var _ Store = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Login(callsign, password string) (*Session, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(callsign, password)
	}
	return &Session{Token: "mock-token", AccountID: "mock-account", Callsign: callsign}, nil
}

func (m *MockStore) Verify(token string) (string, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}
	return "mock-account", nil
}

func (m *MockStore) Logout(token string) error {
	m.LogoutCalls = append(m.LogoutCalls, token)
	if m.LogoutFunc != nil {
		return m.LogoutFunc(token)
	}
	return nil
}
