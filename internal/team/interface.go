package team

import "errors"

// ErrPlayerNotFound is returned by lookups referencing an unknown player.
// Mutations (update, delete, set-active) treat unknown ids as no-ops.
var ErrPlayerNotFound = errors.New("player not found")

// TeamStore defines the interface for a captain's roster, matches and
// season archives. Every operation is scoped to one captain account.
type TeamStore interface {
	AddPlayer(accountID, name string, skill8, skill9 int) (*Player, error)
	UpdatePlayer(accountID, playerID string, params UpdatePlayerParams) error
	DeletePlayer(accountID, playerID string) error
	SetPlayerActive(accountID, playerID string, active bool) error
	GetPlayer(accountID, playerID string) (*Player, error)
	GetAllPlayers(accountID string) ([]Player, error)
	GetActivePlayers(accountID string) ([]Player, error)

	RecordMatch(accountID string, match *Match) error
	GetAllMatches(accountID string) ([]*Match, error)

	ArchiveSeason(accountID, name string) (*SessionArchive, error)
	GetArchives(accountID string) ([]*SessionArchive, error)

	SaveLineupDraft(accountID string, draft []byte) error
	GetLineupDraft(accountID string) ([]byte, error)
	ClearLineupDraft(accountID string) error

	TeamSummary(accountID string) (*Summary, error)
	Clear(accountID string) error
}
