package team

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UnknownOpponent is substituted when a match is finalized without an
// opponent team name.
const UnknownOpponent = "Unknown Opponent"

// NewMatch builds an immutable match record from a finalized lineup.
// A slot with no assigned player cannot carry a result, so its result is
// discarded; the win/loss totals therefore only count assigned slots.
// Partial lineups are legal (unfilled slots are forfeits), so no minimum
// fill count is enforced here.
func NewMatch(opponentName string, opponentSkills [NumSlots]int, assignments [NumSlots]string, results [NumSlots]Result, now time.Time) (*Match, error) {
	if opponentName == "" {
		opponentName = UnknownOpponent
	}

	m := &Match{
		ID:           uuid.NewString(),
		Date:         now,
		OpponentName: opponentName,
	}

	for i := 0; i < NumSlots; i++ {
		if !ValidSkill(opponentSkills[i]) {
			return nil, fmt.Errorf("opponent skill for slot %d out of range: %d", i, opponentSkills[i])
		}
		result := results[i]
		if result != ResultWin && result != ResultLoss && result != ResultNone {
			return nil, fmt.Errorf("invalid result for slot %d: %q", i, result)
		}
		if assignments[i] == "" {
			result = ResultNone
		}
		m.Slots[i] = MatchSlot{
			Index:         i,
			GameType:      GameTypeForSlot(i),
			OpponentSkill: opponentSkills[i],
			PlayerID:      assignments[i],
			Result:        result,
		}
		switch result {
		case ResultWin:
			m.TotalWins++
		case ResultLoss:
			m.TotalLosses++
		}
	}

	return m, nil
}

// StatDeltas aggregates the match's per-player stat increments. A player
// appearing in several slots has all occurrences summed; an assigned slot
// counts as a game in its format even when no result was entered.
func (m *Match) StatDeltas() map[string]StatDelta {
	deltas := make(map[string]StatDelta)
	for _, slot := range m.Slots {
		if slot.PlayerID == "" {
			continue
		}
		d := deltas[slot.PlayerID]
		d.Slots++
		if slot.GameType == GameEightBall {
			d.Games8++
			if slot.Result == ResultWin {
				d.Wins8++
			}
		} else {
			d.Games9++
			if slot.Result == ResultWin {
				d.Wins9++
			}
		}
		deltas[slot.PlayerID] = d
	}
	return deltas
}
