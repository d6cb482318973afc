package advisor

import (
	"context"

	"github.com/mrdjames-us/apa-coach/internal/lineup"
	"github.com/mrdjames-us/apa-coach/internal/team"
)

// MockAdvisor is a mock implementation of the Advisor interface for testing.
type MockAdvisor struct {
	SuggestFunc  func(ctx context.Context, players []team.Player, opponentSkills [team.NumSlots]int, current lineup.Assignments) (*Suggestion, error)
	SuggestCalls int
}

var _ Advisor = (*MockAdvisor)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockAdvisor {
	return &MockAdvisor{}
}

func (m *MockAdvisor) Suggest(ctx context.Context, players []team.Player, opponentSkills [team.NumSlots]int, current lineup.Assignments) (*Suggestion, error) {
	m.SuggestCalls++
	if m.SuggestFunc != nil {
		return m.SuggestFunc(ctx, players, opponentSkills, current)
	}
	return &Suggestion{}, nil
}
