package advisor

import (
	"context"

	"github.com/mrdjames-us/apa-coach/internal/lineup"
	"github.com/mrdjames-us/apa-coach/internal/team"
)

// Advisor proposes slot assignments for a lineup. Its output is advisory
// only: callers must merge it without overwriting manual picks and
// re-validate the result against the budget caps before trusting it.
type Advisor interface {
	Suggest(ctx context.Context, players []team.Player, opponentSkills [team.NumSlots]int, current lineup.Assignments) (*Suggestion, error)
}

// Suggestion is a proposed set of slot assignments plus the model's
// free-text rationale.
type Suggestion struct {
	Assignments lineup.Assignments `json:"assignments"`
	Reasoning   string             `json:"reasoning"`
}

// geminiRequest is the subset of the generateContent request body we use.
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// suggestionPayload is the JSON document the model is asked to return.
type suggestionPayload struct {
	Assignments []string `json:"assignments"`
	Reasoning   string   `json:"reasoning"`
}
