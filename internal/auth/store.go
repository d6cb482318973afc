package auth

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

type store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a new auth Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

func (s *store) Login(callsign, password string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	callsign = strings.TrimSpace(callsign)
	password = strings.TrimSpace(password)
	if callsign == "" || password == "" {
		return nil, fmt.Errorf("callsign and password are required")
	}

	accountID := strings.ToLower(callsign)

	var stored string
	err := s.db.QueryRow("SELECT password FROM accounts WHERE id = ?", accountID).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
		// First login registers the credential.
		_, err := s.db.Exec("INSERT INTO accounts (id, callsign, password, created_at) VALUES (?, ?, ?, ?)",
			accountID, callsign, password, time.Now().Unix())
		if err != nil {
			return nil, fmt.Errorf("failed to register account: %w", err)
		}
		log.Info("Registered new captain account", "accountID", accountID)
	case err != nil:
		return nil, fmt.Errorf("failed to query account: %w", err)
	case stored != password:
		return nil, ErrInvalidCredentials
	}

	session := &Session{
		Token:     uuid.NewString(),
		AccountID: accountID,
		Callsign:  callsign,
	}
	_, err = s.db.Exec("INSERT INTO auth_sessions (token, account_id, created_at) VALUES (?, ?, ?)",
		session.Token, session.AccountID, time.Now().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info("Captain logged in", "accountID", accountID)
	return session, nil
}

func (s *store) Verify(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var accountID string
	err := s.db.QueryRow("SELECT account_id FROM auth_sessions WHERE token = ?", token).Scan(&accountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("failed to verify session: %w", err)
	}
	return accountID, nil
}

func (s *store) Logout(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Idempotent: logging out an unknown token is fine.
	_, err := s.db.Exec("DELETE FROM auth_sessions WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
