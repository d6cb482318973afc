// Package lineup implements the league's "Rule of 23" budget checks over
// a 10-slot match lineup. Everything here is pure computation: the HTTP
// layer recomputes it on every assignment change.
package lineup

import "github.com/mrdjames-us/apa-coach/internal/team"

// PointCap is the league cap on the summed skill ratings of the five
// players assigned within a single format group.
const PointCap = 23

// Assignments maps lineup positions to player ids. An empty string means
// the slot is unassigned.
type Assignments [team.NumSlots]string

// Draft is the in-progress planner state a captain can park and resume.
type Draft struct {
	OpponentName   string                     `json:"opponent_name"`
	OpponentSkills [team.NumSlots]int         `json:"opponent_skills"`
	Assignments    Assignments                `json:"assignments"`
	Results        [team.NumSlots]team.Result `json:"results"`
}

// FormatTotals sums the assigned players' format-specific skill ratings
// for each of the two format groups. Unassigned slots and ids not present
// in the roster contribute 0.
func FormatTotals(assignments Assignments, players []team.Player) (eight, nine int) {
	byID := make(map[string]team.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	for i, id := range assignments {
		if id == "" {
			continue
		}
		p, ok := byID[id]
		if !ok {
			continue
		}
		if team.GameTypeForSlot(i) == team.GameEightBall {
			eight += p.Skill8
		} else {
			nine += p.Skill9
		}
	}
	return eight, nine
}

// OverBudget reports whether a format total breaks the cap.
func OverBudget(total int) bool {
	return total > PointCap
}

// Ready reports whether a lineup may be finalized: at least one slot
// assigned and neither format over budget. Partial lineups are fine;
// unfilled slots are forfeited per league practice.
func Ready(assignments Assignments, eight, nine int) bool {
	if OverBudget(eight) || OverBudget(nine) {
		return false
	}
	for _, id := range assignments {
		if id != "" {
			return true
		}
	}
	return false
}

// Merge folds an advisory proposal into the current assignments. The
// captain's picks always win: a proposed id only lands in a slot that is
// still unassigned. The merge is order-independent of response timing, so
// a slow advisory reply can never clobber manual edits.
func Merge(current, proposed Assignments) Assignments {
	merged := current
	for i, id := range current {
		if id == "" {
			merged[i] = proposed[i]
		}
	}
	return merged
}
