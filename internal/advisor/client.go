package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mrdjames-us/apa-coach/internal/lineup"
	"github.com/mrdjames-us/apa-coach/internal/team"
)

// APIClient is a Gemini generateContent client implementing the Advisor
// interface.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string
	apiKey     string
	model      string
}

// NewClient creates a new Gemini-backed lineup advisor.
func NewClient(apiKey, model string) *APIClient {
	return &APIClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		BaseURL:    "https://generativelanguage.googleapis.com",
		apiKey:     apiKey,
		model:      model,
	}
}

// Ensure APIClient implements the Advisor interface.
var _ Advisor = (*APIClient)(nil)

// Suggest asks the model for a 10-slot assignment. The response is
// untrusted input: any malformed or short reply is an error, and ids the
// roster does not contain are dropped. The caller decides how to merge.
func (c *APIClient) Suggest(ctx context.Context, players []team.Player, opponentSkills [team.NumSlots]int, current lineup.Assignments) (*Suggestion, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("lineup advisor is not configured")
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: buildPrompt(players, opponentSkills, current)}}},
		},
		GenerationConfig: geminiGenerationConfig{ResponseMimeType: "application/json"},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.BaseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Debug("Requesting lineup suggestion", "model", c.model, "players", len(players))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from Gemini API", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from model")
	}

	var parsed suggestionPayload
	text := geminiResp.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("model returned malformed suggestion: %w", err)
	}
	if len(parsed.Assignments) < team.NumSlots {
		return nil, fmt.Errorf("model returned %d assignments, want %d", len(parsed.Assignments), team.NumSlots)
	}

	known := make(map[string]bool, len(players))
	for _, p := range players {
		known[p.ID] = true
	}

	suggestion := &Suggestion{Reasoning: parsed.Reasoning}
	for i := 0; i < team.NumSlots; i++ {
		id := parsed.Assignments[i]
		if id != "" && !known[id] {
			log.Warn("Advisor proposed unknown player, dropping", "playerID", id, "slot", i)
			continue
		}
		suggestion.Assignments[i] = id
	}
	return suggestion, nil
}

func buildPrompt(players []team.Player, opponentSkills [team.NumSlots]int, current lineup.Assignments) string {
	var b strings.Builder
	b.WriteString("As a professional pool team captain, optimize a 10-game lineup (5 8-Ball games, 5 9-Ball games).\n\n")

	b.WriteString("My team players (ID, Name, 8B skill, 9B skill, games played this month):\n")
	for _, p := range players {
		fmt.Fprintf(&b, "- %s: %s (8B: %d, 9B: %d, Played: %d)\n", p.ID, p.Name, p.Skill8, p.Skill9, p.MonthlyParticipation)
	}

	b.WriteString("\nOpponent skill levels (games 1-5: 8-Ball, games 6-10: 9-Ball):\n")
	for i, s := range opponentSkills {
		fmt.Fprintf(&b, "Game %d: Skill %d\n", i+1, s)
	}

	b.WriteString("\nSlots already locked in by the captain (do not change these):\n")
	locked := false
	for i, id := range current {
		if id != "" {
			fmt.Fprintf(&b, "Game %d: %s\n", i+1, id)
			locked = true
		}
	}
	if !locked {
		b.WriteString("(none)\n")
	}

	fmt.Fprintf(&b, `
CRITICAL RULES:
1. THE RULE OF 23 (8-Ball): the 8-Ball skill levels of the 5 players in games 1-5 must not sum above %d.
2. THE RULE OF 23 (9-Ball): the 9-Ball skill levels of the 5 players in games 6-10 must not sum above %d.
3. MONTHLY QUOTA: each player needs at least %d games per month. Heavily prioritize players with 'Played' below %d.
4. COMPETITIVENESS: match player skill to opponent skill while respecting the Rule of 23.

Return JSON: {"assignments": [10 player IDs in game order], "reasoning": "brief strategy explanation"}.
`, lineup.PointCap, lineup.PointCap, team.QualificationThreshold, team.QualificationThreshold)

	return b.String()
}
