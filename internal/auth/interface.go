package auth

import "errors"

// ErrInvalidCredentials is returned when a callsign exists but the
// password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned when a session token is unknown.
var ErrInvalidToken = errors.New("invalid session token")

// Session is an authenticated captain session.
type Session struct {
	Token     string `json:"token"`
	AccountID string `json:"account_id"`
	Callsign  string `json:"callsign"`
}

// Store is the toy credential registry plus session tracking. The first
// login for a callsign registers its password; later logins must match.
// Credentials are stored in plaintext on purpose: this is explicitly not
// a hardened auth system.
type Store interface {
	Login(callsign, password string) (*Session, error)
	Verify(token string) (accountID string, err error)
	Logout(token string) error
}
