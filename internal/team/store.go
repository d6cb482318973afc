package team

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a new TeamStore backed by the given database.
func New(db *sql.DB) TeamStore {
	return &store{
		db: db,
	}
}

func (s *store) AddPlayer(accountID, name string, skill8, skill9 int) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return nil, fmt.Errorf("player name must not be empty")
	}
	if !ValidSkill(skill8) || !ValidSkill(skill9) {
		return nil, fmt.Errorf("skill ratings must be between %d and %d", MinSkill, MaxSkill)
	}

	player := &Player{
		ID:     uuid.NewString(),
		Name:   name,
		Skill8: skill8,
		Skill9: skill9,
		Active: true,
	}

	_, err := s.db.Exec(`
		INSERT INTO players (id, account_id, name, skill_8ball, skill_9ball, is_active)
		VALUES (?, ?, ?, ?, ?, 1)`,
		player.ID, accountID, player.Name, player.Skill8, player.Skill9,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add player: %w", err)
	}

	log.Info("Added player to roster", "playerID", player.ID, "name", name, "skill8", skill8, "skill9", skill9)
	return player, nil
}

func (s *store) UpdatePlayer(accountID, playerID string, params UpdatePlayerParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if params.Name != nil && *params.Name == "" {
		return fmt.Errorf("player name must not be empty")
	}
	if params.Skill8 != nil && !ValidSkill(*params.Skill8) {
		return fmt.Errorf("skill ratings must be between %d and %d", MinSkill, MaxSkill)
	}
	if params.Skill9 != nil && !ValidSkill(*params.Skill9) {
		return fmt.Errorf("skill ratings must be between %d and %d", MinSkill, MaxSkill)
	}

	res, err := s.db.Exec(`
		UPDATE players SET
			name = COALESCE(?, name),
			skill_8ball = COALESCE(?, skill_8ball),
			skill_9ball = COALESCE(?, skill_9ball),
			is_active = COALESCE(?, is_active)
		WHERE id = ? AND account_id = ?`,
		params.Name, params.Skill8, params.Skill9, boolPtrToIntPtr(params.Active), playerID, accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		log.Warn("Update referenced unknown player, ignoring", "playerID", playerID)
	}
	return nil
}

func (s *store) DeletePlayer(accountID, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Idempotent: deleting a missing player is not an error.
	_, err := s.db.Exec("DELETE FROM players WHERE id = ? AND account_id = ?", playerID, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	return nil
}

func (s *store) SetPlayerActive(accountID, playerID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE players SET is_active = ? WHERE id = ? AND account_id = ?", active, playerID, accountID)
	if err != nil {
		return fmt.Errorf("failed to set player active flag: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		log.Warn("Set-active referenced unknown player, ignoring", "playerID", playerID)
	}
	return nil
}

const playerColumns = `id, name, skill_8ball, skill_9ball, games_8ball, games_9ball, wins_8ball, wins_9ball, monthly_participation, is_active`

func scanPlayer(scanner interface{ Scan(...any) error }) (Player, error) {
	var p Player
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Skill8, &p.Skill9,
		&p.Games8, &p.Games9, &p.Wins8, &p.Wins9,
		&p.MonthlyParticipation, &p.Active,
	)
	return p, err
}

func (s *store) GetPlayer(accountID, playerID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT "+playerColumns+" FROM players WHERE id = ? AND account_id = ?", playerID, accountID)
	p, err := scanPlayer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to query player: %w", err)
	}
	return &p, nil
}

func (s *store) GetAllPlayers(accountID string) ([]Player, error) {
	return s.queryPlayers("SELECT "+playerColumns+" FROM players WHERE account_id = ? ORDER BY name", accountID)
}

func (s *store) GetActivePlayers(accountID string) ([]Player, error) {
	return s.queryPlayers("SELECT "+playerColumns+" FROM players WHERE account_id = ? AND is_active = 1 ORDER BY name", accountID)
}

func (s *store) queryPlayers(query string, args ...any) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query players", "error", err)
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// RecordMatch persists a finalized match and folds its stat deltas into
// the roster in a single transaction. Either the match and every affected
// player update land together, or none of them do.
func (s *store) RecordMatch(accountID string, match *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	slotsJSON, err := json.Marshal(match.Slots)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to marshal slots: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO matches (id, account_id, opponent_name, match_date, slots_json, total_wins, total_losses)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		match.ID, accountID, match.OpponentName, match.Date.Unix(), slotsJSON, match.TotalWins, match.TotalLosses,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert match: %w", err)
	}

	for playerID, delta := range match.StatDeltas() {
		res, err := tx.Exec(`
			UPDATE players SET
				games_8ball = games_8ball + ?,
				wins_8ball = wins_8ball + ?,
				games_9ball = games_9ball + ?,
				wins_9ball = wins_9ball + ?,
				monthly_participation = monthly_participation + ?
			WHERE id = ? AND account_id = ?`,
			delta.Games8, delta.Wins8, delta.Games9, delta.Wins9, delta.Slots, playerID, accountID,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update stats for player %s: %w", playerID, err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			// A slot can reference a player deleted after the lineup was
			// drafted; the match still stands.
			log.Warn("Match slot references unknown player, skipping stats", "playerID", playerID, "matchID", match.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match transaction: %w", err)
	}

	log.Info("Recorded match", "matchID", match.ID, "opponent", match.OpponentName, "wins", match.TotalWins, "losses", match.TotalLosses)
	return nil
}

func (s *store) GetAllMatches(accountID string) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryMatchesLocked(accountID)
}

func (s *store) queryMatchesLocked(accountID string) ([]*Match, error) {
	rows, err := s.db.Query(`
		SELECT id, opponent_name, match_date, slots_json, total_wins, total_losses
		FROM matches WHERE account_id = ? ORDER BY match_date ASC`, accountID)
	if err != nil {
		log.Error("Failed to query matches", "error", err)
		return nil, err
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		var (
			m         Match
			matchDate int64
			slotsJSON string
		)
		if err := rows.Scan(&m.ID, &m.OpponentName, &matchDate, &slotsJSON, &m.TotalWins, &m.TotalLosses); err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		m.Date = time.Unix(matchDate, 0).UTC()
		if err := json.Unmarshal([]byte(slotsJSON), &m.Slots); err != nil {
			log.Error("Failed to unmarshal slots_json", "error", err, "matchID", m.ID)
			continue
		}
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}

// ArchiveSeason snapshots the current matches and roster into an archive,
// then empties the live match list and zeroes every player's season
// counters. Skill ratings, names and active flags survive the reset.
// Archiving with zero matches is legal.
func (s *store) ArchiveSeason(accountID, name string) (*SessionArchive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := s.queryMatchesLocked(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches for archive: %w", err)
	}
	players, err := s.queryPlayersLocked(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load players for archive: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	startDate := now
	if len(matches) > 0 {
		startDate = matches[0].Date
	}

	archive := &SessionArchive{
		ID:              uuid.NewString(),
		Name:            name,
		StartDate:       startDate,
		EndDate:         now,
		Matches:         matches,
		PlayerSnapshots: players,
	}
	if archive.Matches == nil {
		archive.Matches = []*Match{}
	}
	if archive.PlayerSnapshots == nil {
		archive.PlayerSnapshots = []Player{}
	}

	matchesJSON, err := json.Marshal(archive.Matches)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal archived matches: %w", err)
	}
	snapshotsJSON, err := json.Marshal(archive.PlayerSnapshots)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal player snapshots: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin archive transaction: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO archives (id, account_id, name, start_date, end_date, matches_json, player_snapshots_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		archive.ID, accountID, archive.Name, archive.StartDate.Unix(), archive.EndDate.Unix(), matchesJSON, snapshotsJSON,
	)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to insert archive: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM matches WHERE account_id = ?", accountID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to clear live matches: %w", err)
	}

	// Reset applies to every player, archived ones included.
	_, err = tx.Exec(`
		UPDATE players SET
			games_8ball = 0, games_9ball = 0, wins_8ball = 0, wins_9ball = 0, monthly_participation = 0
		WHERE account_id = ?`, accountID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to reset player counters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit archive transaction: %w", err)
	}

	log.Info("Archived season", "archiveID", archive.ID, "name", name, "matches", len(archive.Matches), "players", len(archive.PlayerSnapshots))
	return archive, nil
}

func (s *store) queryPlayersLocked(accountID string) ([]Player, error) {
	rows, err := s.db.Query("SELECT "+playerColumns+" FROM players WHERE account_id = ? ORDER BY name", accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *store) GetArchives(accountID string) ([]*SessionArchive, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, start_date, end_date, matches_json, player_snapshots_json
		FROM archives WHERE account_id = ? ORDER BY end_date ASC`, accountID)
	if err != nil {
		log.Error("Failed to query archives", "error", err)
		return nil, err
	}
	defer rows.Close()

	var archives []*SessionArchive
	for rows.Next() {
		var (
			a                        SessionArchive
			startDate, endDate       int64
			matchesJSON, snapsJSON   string
		)
		if err := rows.Scan(&a.ID, &a.Name, &startDate, &endDate, &matchesJSON, &snapsJSON); err != nil {
			log.Error("Failed to scan archive row", "error", err)
			continue
		}
		a.StartDate = time.Unix(startDate, 0).UTC()
		a.EndDate = time.Unix(endDate, 0).UTC()
		if err := json.Unmarshal([]byte(matchesJSON), &a.Matches); err != nil {
			log.Error("Failed to unmarshal matches_json", "error", err, "archiveID", a.ID)
			continue
		}
		if err := json.Unmarshal([]byte(snapsJSON), &a.PlayerSnapshots); err != nil {
			log.Error("Failed to unmarshal player_snapshots_json", "error", err, "archiveID", a.ID)
			continue
		}
		archives = append(archives, &a)
	}
	return archives, rows.Err()
}

func (s *store) SaveLineupDraft(accountID string, draft []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO lineup_drafts (account_id, draft_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			draft_json = excluded.draft_json,
			updated_at = excluded.updated_at`,
		accountID, draft, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save lineup draft: %w", err)
	}
	return nil
}

func (s *store) GetLineupDraft(accountID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var draft []byte
	err := s.db.QueryRow("SELECT draft_json FROM lineup_drafts WHERE account_id = ?", accountID).Scan(&draft)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query lineup draft: %w", err)
	}
	return draft, nil
}

func (s *store) ClearLineupDraft(accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM lineup_drafts WHERE account_id = ?", accountID)
	if err != nil {
		return fmt.Errorf("failed to clear lineup draft: %w", err)
	}
	return nil
}

func (s *store) TeamSummary(accountID string) (*Summary, error) {
	players, err := s.GetAllPlayers(accountID)
	if err != nil {
		return nil, err
	}
	matches, err := s.GetAllMatches(accountID)
	if err != nil {
		return nil, err
	}
	return BuildSummary(players, matches), nil
}

func (s *store) Clear(accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, table := range []string{"lineup_drafts", "archives", "matches", "players"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE account_id = ?", accountID); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear transaction: %w", err)
	}
	return nil
}

func boolPtrToIntPtr(b *bool) *int {
	if b == nil {
		return nil
	}
	v := 0
	if *b {
		v = 1
	}
	return &v
}
