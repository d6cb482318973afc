package team

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for a captain's team.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NumSlots is the number of positions in a league match lineup.
// Slots 0-4 are played as 8-Ball, slots 5-9 as 9-Ball.
const NumSlots = 10

// GamesPerFormat is the size of each format group within a lineup.
const GamesPerFormat = 5

// QualificationThreshold is the number of games a player needs in a
// format within the current session to qualify for playoffs.
const QualificationThreshold = 4

// GameType identifies the pool format a slot is played in.
type GameType string

const (
	GameEightBall GameType = "8-Ball"
	GameNineBall  GameType = "9-Ball"
)

// GameTypeForSlot returns the format for a lineup position. The partition
// is fixed by the league score sheet and is not configurable.
func GameTypeForSlot(idx int) GameType {
	if idx < GamesPerFormat {
		return GameEightBall
	}
	return GameNineBall
}

// Result is the outcome of a single slot.
type Result string

const (
	ResultWin  Result = "Win"
	ResultLoss Result = "Loss"
	ResultNone Result = ""
)

// MinSkill and MaxSkill bound the league-assigned skill ratings.
const (
	MinSkill = 1
	MaxSkill = 7
)

// ValidSkill reports whether a rating is within the league's 1-7 range.
func ValidSkill(skill int) bool {
	return skill >= MinSkill && skill <= MaxSkill
}

// Player is a roster member. Skill ratings are league-assigned and only
// change through captain edits; the four season counters are mutated only
// by RecordMatch (increment) and ArchiveSeason (reset).
type Player struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Skill8               int    `json:"skill_8ball"`
	Skill9               int    `json:"skill_9ball"`
	Games8               int    `json:"games_8ball"`
	Games9               int    `json:"games_9ball"`
	Wins8                int    `json:"wins_8ball"`
	Wins9                int    `json:"wins_9ball"`
	MonthlyParticipation int    `json:"monthly_participation"`
	Active               bool   `json:"is_active"`
}

// SkillFor returns the player's rating in the given format.
func (p Player) SkillFor(gt GameType) int {
	if gt == GameEightBall {
		return p.Skill8
	}
	return p.Skill9
}

// Qualified reports whether the player has met the per-format game
// quota for playoff eligibility in the current session.
func (p Player) Qualified() bool {
	return p.Games8 >= QualificationThreshold && p.Games9 >= QualificationThreshold
}

// MatchSlot is one of the ten ordered positions in a recorded match.
// An empty PlayerID means the slot was forfeited.
type MatchSlot struct {
	Index         int      `json:"index"`
	GameType      GameType `json:"game_type"`
	OpponentSkill int      `json:"opponent_skill"`
	PlayerID      string   `json:"player_id,omitempty"`
	Result        Result   `json:"result,omitempty"`
}

// Match is an immutable record of a completed league match.
type Match struct {
	ID           string              `json:"id"`
	Date         time.Time           `json:"date"`
	OpponentName string              `json:"opponent_name"`
	Slots        [NumSlots]MatchSlot `json:"slots"`
	TotalWins    int                 `json:"total_wins"`
	TotalLosses  int                 `json:"total_losses"`
}

// SessionArchive is a closed statistics period: the period's matches plus
// a snapshot of every player as they stood at archive time. Both copies
// are independent of the live records.
type SessionArchive struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Matches         []*Match  `json:"matches"`
	PlayerSnapshots []Player  `json:"player_snapshots"`
}

// StatDelta is the per-player stat increment produced by a single match.
type StatDelta struct {
	Games8 int
	Wins8  int
	Games9 int
	Wins9  int
	Slots  int
}

// UpdatePlayerParams is a partial update of a roster member. Nil fields
// are left unchanged.
type UpdatePlayerParams struct {
	Name   *string
	Skill8 *int
	Skill9 *int
	Active *bool
}
