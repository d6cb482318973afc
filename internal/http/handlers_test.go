package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/mrdjames-us/apa-coach/internal/advisor"
	"github.com/mrdjames-us/apa-coach/internal/auth"
	"github.com/mrdjames-us/apa-coach/internal/config"
	"github.com/mrdjames-us/apa-coach/internal/database"
	"github.com/mrdjames-us/apa-coach/internal/events"
	"github.com/mrdjames-us/apa-coach/internal/lineup"
	"github.com/mrdjames-us/apa-coach/internal/metrics"
	"github.com/mrdjames-us/apa-coach/internal/notifier"
	"github.com/mrdjames-us/apa-coach/internal/team"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T, adv advisor.Advisor, notif notifier.Notifier, eventsClient events.Client) (*Server, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	teamStore := team.New(db)
	authStore := auth.New(db)
	cfg := config.Config{}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)

	server := NewServer(teamStore, authStore, adv, metricsSvc, metricsHandler, cfg, notif, eventsClient)

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
	}
	return server, teardown
}

// login registers a captain account and returns its bearer token.
func login(t *testing.T, server *Server) string {
	t.Helper()
	rr := doJSON(t, server, http.MethodPost, "/login", "", map[string]string{
		"callsign": "TestCaptain",
		"password": "chalk-is-free",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var session auth.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
	return session.Token
}

// doJSON runs a request through the server router, encoding body as JSON
// and attaching the bearer token when given.
func doJSON(t *testing.T, server *Server, method, url, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	return rr
}

// defaultSkills fills every opponent slot with a mid-range rating.
func defaultSkills() [team.NumSlots]int {
	var skills [team.NumSlots]int
	for i := range skills {
		skills[i] = 3
	}
	return skills
}

// addPlayer creates a roster member and returns it.
func addPlayer(t *testing.T, server *Server, token, name string, skill8, skill9 int) team.Player {
	t.Helper()
	rr := doJSON(t, server, http.MethodPost, "/roster", token, map[string]any{
		"name": name, "skill_8ball": skill8, "skill_9ball": skill9,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var p team.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	return p
}

func TestHealthCheckHandler(t *testing.T) {
	server, teardown := setupTestServer(t, advisor.NewMock(), notifier.NewMock(), events.NewMock())
	defer teardown()

	rr := doJSON(t, server, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestAuthRequired(t *testing.T) {
	server, teardown := setupTestServer(t, advisor.NewMock(), notifier.NewMock(), events.NewMock())
	defer teardown()

	rr := doJSON(t, server, http.MethodGet, "/roster", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(t, server, http.MethodGet, "/roster", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	server, teardown := setupTestServer(t, advisor.NewMock(), notifier.NewMock(), events.NewMock())
	defer teardown()

	login(t, server)

	rr := doJSON(t, server, http.MethodPost, "/login", "", map[string]string{
		"callsign": "TestCaptain",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogout(t *testing.T) {
	server, teardown := setupTestServer(t, advisor.NewMock(), notifier.NewMock(), events.NewMock())
	defer teardown()
	token := login(t, server)

	rr := doJSON(t, server, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, server, http.MethodGet, "/roster", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRosterLifecycle(t *testing.T) {
	server, teardown := setupTestServer(t, advisor.NewMock(), notifier.NewMock(), events.NewMock())
	defer teardown()
	token := login(t, server)

	player := addPlayer(t, server, token, "Minnesota Fats", 6, 5)
	assert.NotEmpty(t, player.ID)
	assert.True(t, player.Active)

	// Invalid skill is rejected at the boundary.
	rr := doJSON(t, server, http.MethodPost, "/roster", token, map[string]any{
		"name": "Ghost", "skill_8ball": 9, "skill_9ball": 3,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Partial edit.
	newName := "Rudolf Wanderone"
	rr = doJSON(t, server, http.MethodPatch, "/roster/player?id="+player.ID, token, map[string]any{
		"name": newName,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, server, http.MethodGet, "/roster/player?id="+player.ID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got team.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, newName, got.Name)
	assert.Equal(t, 6, got.Skill8, "unspecified fields must be untouched")

	// Deactivate, then the active-only listing excludes the player.
	rr = doJSON(t, server, http.MethodPost, "/roster/player/active", token, map[string]any{
		"id": player.ID, "active": false,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, server, http.MethodGet, "/roster?active=true", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var active []team.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &active))
	assert.Empty(t, active)

	rr = doJSON(t, server, http.MethodDelete, "/roster/player?id="+player.ID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, server, http.MethodGet, "/roster/player?id="+player.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestValidateLineupHandler(t *testing.T) {
	server, teardown := setupTestServer(t, advisor.NewMock(), notifier.NewMock(), events.NewMock())
	defer teardown()
	token := login(t, server)

	a := addPlayer(t, server, token, "A", 7, 3)
	b := addPlayer(t, server, token, "B", 7, 3)
	c := addPlayer(t, server, token, "C", 7, 3)
	d := addPlayer(t, server, token, "D", 3, 3)

	assignments := lineup.Assignments{a.ID, b.ID, c.ID, d.ID}
	rr := doJSON(t, server, http.MethodPost, "/lineup/validate", token, map[string]any{
		"assignments": assignments,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var verdict LineupValidation
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &verdict))
	assert.Equal(t, 24, verdict.EightBallTotal)
	assert.True(t, verdict.EightBallOver)
	assert.False(t, verdict.NineBallOver)
	assert.False(t, verdict.Ready)

	// Swapping the fourth slot to a 9-Ball position brings it under the cap.
	assignments = lineup.Assignments{a.ID, b.ID, c.ID, "", "", d.ID}
	rr = doJSON(t, server, http.MethodPost, "/lineup/validate", token, map[string]any{
		"assignments": assignments,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &verdict))
	assert.Equal(t, 21, verdict.EightBallTotal)
	assert.Equal(t, 3, verdict.NineBallTotal)
	assert.True(t, verdict.Ready)
}

func TestLineupDraftRoundTrip(t *testing.T) {
	server, teardown := setupTestServer(t, advisor.NewMock(), notifier.NewMock(), events.NewMock())
	defer teardown()
	token := login(t, server)

	rr := doJSON(t, server, http.MethodGet, "/lineup/draft", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	draft := lineup.Draft{OpponentName: "Rack City"}
	draft.Assignments[0] = "p1"
	draft.OpponentSkills[0] = 5
	rr = doJSON(t, server, http.MethodPut, "/lineup/draft", token, draft)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, server, http.MethodGet, "/lineup/draft", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got lineup.Draft
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, draft, got)

	rr = doJSON(t, server, http.MethodDelete, "/lineup/draft", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, server, http.MethodGet, "/lineup/draft", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSuggestLineupMergesIntoUnassignedSlots(t *testing.T) {
	adv := advisor.NewMock()
	server, teardown := setupTestServer(t, adv, notifier.NewMock(), events.NewMock())
	defer teardown()
	token := login(t, server)

	a := addPlayer(t, server, token, "A", 4, 4)
	b := addPlayer(t, server, token, "B", 5, 3)

	adv.SuggestFunc = func(ctx context.Context, players []team.Player, opponentSkills [team.NumSlots]int, current lineup.Assignments) (*advisor.Suggestion, error) {
		s := &advisor.Suggestion{Reasoning: "balanced spread"}
		s.Assignments[0] = b.ID // slot 0 is already taken by the captain
		s.Assignments[1] = b.ID
		return s, nil
	}

	current := lineup.Assignments{a.ID}
	rr := doJSON(t, server, http.MethodPost, "/lineup/suggest", token, map[string]any{
		"assignments": current,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Assignments lineup.Assignments `json:"assignments"`
		Reasoning   string             `json:"reasoning"`
		Validation  *LineupValidation  `json:"validation"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, a.ID, resp.Assignments[0], "manual pick must survive the merge")
	assert.Equal(t, b.ID, resp.Assignments[1])
	assert.Equal(t, "balanced spread", resp.Reasoning)
	require.NotNil(t, resp.Validation)
	assert.Equal(t, 9, resp.Validation.EightBallTotal)
}

func TestSuggestLineupConflict(t *testing.T) {
	adv := advisor.NewMock()
	server, teardown := setupTestServer(t, adv, notifier.NewMock(), events.NewMock())
	defer teardown()
	token := login(t, server)

	started := make(chan struct{})
	release := make(chan struct{})
	adv.SuggestFunc = func(ctx context.Context, players []team.Player, opponentSkills [team.NumSlots]int, current lineup.Assignments) (*advisor.Suggestion, error) {
		close(started)
		<-release
		return &advisor.Suggestion{}, nil
	}

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		done <- doJSON(t, server, http.MethodPost, "/lineup/suggest", token, map[string]any{})
	}()

	<-started
	rr := doJSON(t, server, http.MethodPost, "/lineup/suggest", token, map[string]any{})
	assert.Equal(t, http.StatusConflict, rr.Code)

	close(release)
	first := <-done
	assert.Equal(t, http.StatusOK, first.Code)
}

func TestSuggestLineupAdvisorFailure(t *testing.T) {
	adv := advisor.NewMock()
	adv.SuggestFunc = func(ctx context.Context, players []team.Player, opponentSkills [team.NumSlots]int, current lineup.Assignments) (*advisor.Suggestion, error) {
		return nil, fmt.Errorf("model unavailable")
	}
	server, teardown := setupTestServer(t, adv, notifier.NewMock(), events.NewMock())
	defer teardown()
	token := login(t, server)

	rr := doJSON(t, server, http.MethodPost, "/lineup/suggest", token, map[string]any{})
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	// A failed suggestion must not wedge the in-flight guard.
	rr = doJSON(t, server, http.MethodPost, "/lineup/suggest", token, map[string]any{})
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestFinalizeMatchHandler(t *testing.T) {
	notif := notifier.NewMock()
	eventsClient := events.NewMock()
	server, teardown := setupTestServer(t, advisor.NewMock(), notif, eventsClient)
	defer teardown()
	token := login(t, server)

	a := addPlayer(t, server, token, "A", 4, 4)
	b := addPlayer(t, server, token, "B", 5, 3)

	// Park a draft so we can check it is cleared by the finalize.
	rr := doJSON(t, server, http.MethodPut, "/lineup/draft", token, lineup.Draft{OpponentName: "Rack City"})
	require.Equal(t, http.StatusOK, rr.Code)

	assignments := lineup.Assignments{a.ID, b.ID, "", "", "", a.ID}
	results := [team.NumSlots]team.Result{team.ResultWin, team.ResultLoss, "", "", "", team.ResultWin}
	skills := [team.NumSlots]int{4, 5, 3, 3, 3, 4, 3, 3, 3, 3}

	rr = doJSON(t, server, http.MethodPost, "/match/finalize", token, map[string]any{
		"opponent_name":   "Rack City",
		"opponent_skills": skills,
		"assignments":     assignments,
		"results":         results,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var match team.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &match))
	assert.Equal(t, 2, match.TotalWins)
	assert.Equal(t, 1, match.TotalLosses)

	// Stats folded into the roster.
	rr = doJSON(t, server, http.MethodGet, "/roster/player?id="+a.ID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got team.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Games8)
	assert.Equal(t, 1, got.Wins8)
	assert.Equal(t, 1, got.Games9)
	assert.Equal(t, 1, got.Wins9)
	assert.Equal(t, 2, got.MonthlyParticipation)

	// Draft is gone, notification and event went out.
	rr = doJSON(t, server, http.MethodGet, "/lineup/draft", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Len(t, notif.MatchCalls, 1)
	require.Len(t, eventsClient.SendMessageCalls, 1)
	assert.Equal(t, string(events.EventMatchRecorded), eventsClient.SendMessageCalls[0].Topic)
}

func TestFinalizeMatchRejectsUnreadyLineup(t *testing.T) {
	server, teardown := setupTestServer(t, advisor.NewMock(), notifier.NewMock(), events.NewMock())
	defer teardown()
	token := login(t, server)

	// Nobody assigned.
	rr := doJSON(t, server, http.MethodPost, "/match/finalize", token, map[string]any{
		"opponent_name": "Rack City",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	// Over the cap.
	a := addPlayer(t, server, token, "A", 7, 3)
	b := addPlayer(t, server, token, "B", 7, 3)
	c := addPlayer(t, server, token, "C", 7, 3)
	d := addPlayer(t, server, token, "D", 3, 3)
	rr = doJSON(t, server, http.MethodPost, "/match/finalize", token, map[string]any{
		"opponent_name":   "Rack City",
		"opponent_skills": defaultSkills(),
		"assignments":     lineup.Assignments{a.ID, b.ID, c.ID, d.ID},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestFinalizeMatchDryRun(t *testing.T) {
	server, teardown := setupTestServer(t, advisor.NewMock(), notifier.NewMock(), events.NewMock())
	defer teardown()
	token := login(t, server)

	a := addPlayer(t, server, token, "A", 4, 4)

	rr := doJSON(t, server, http.MethodPost, "/match/finalize?dry_run=true", token, map[string]any{
		"opponent_name":   "Rack City",
		"opponent_skills": defaultSkills(),
		"assignments":     lineup.Assignments{a.ID},
		"results":         [team.NumSlots]team.Result{team.ResultWin},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, server, http.MethodGet, "/matches", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var matches []*team.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &matches))
	assert.Empty(t, matches, "dry run must not persist the match")
}

func TestArchiveSeasonHandler(t *testing.T) {
	notif := notifier.NewMock()
	server, teardown := setupTestServer(t, advisor.NewMock(), notif, events.NewMock())
	defer teardown()
	token := login(t, server)

	a := addPlayer(t, server, token, "A", 4, 4)
	rr := doJSON(t, server, http.MethodPost, "/match/finalize", token, map[string]any{
		"opponent_name":   "Rack City",
		"opponent_skills": defaultSkills(),
		"assignments":     lineup.Assignments{a.ID},
		"results":         [team.NumSlots]team.Result{team.ResultWin},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, server, http.MethodPost, "/season/archive", token, map[string]any{
		"name": "Spring 2026",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var archive team.SessionArchive
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &archive))
	assert.Equal(t, "Spring 2026", archive.Name)
	assert.Len(t, archive.Matches, 1)
	require.Len(t, archive.PlayerSnapshots, 1)
	assert.Equal(t, 1, archive.PlayerSnapshots[0].Games8, "snapshot keeps pre-reset counters")
	assert.Len(t, notif.SummaryCalls, 1)

	// Live data is reset.
	rr = doJSON(t, server, http.MethodGet, "/matches", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var matches []*team.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &matches))
	assert.Empty(t, matches)

	rr = doJSON(t, server, http.MethodGet, "/roster/player?id="+a.ID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got team.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Zero(t, got.Games8)
	assert.Equal(t, 4, got.Skill8, "skills survive the reset")

	rr = doJSON(t, server, http.MethodGet, "/archives", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var archives []*team.SessionArchive
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &archives))
	assert.Len(t, archives, 1)
}

func TestMatchRecordedEventHandler(t *testing.T) {
	server, teardown := setupTestServer(t, advisor.NewMock(), notifier.NewMock(), events.New(""))
	defer teardown()

	payload, err := msgpack.Marshal(events.MatchRecordedEvent{
		AccountID: "shark", MatchID: "m1", OpponentName: "Rack City", TotalWins: 6, TotalLosses: 4,
	})
	require.NoError(t, err)

	rr := doJSON(t, server, http.MethodPost, "/events/match-recorded", "", map[string]any{
		"subscription": "projects/test/subscriptions/match-recorded",
		"message":      map[string]string{"data": base64.StdEncoding.EncodeToString(payload)},
	})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	rr = doJSON(t, server, http.MethodPost, "/events/match-recorded", "", map[string]any{
		"message": map[string]string{"data": "not-base64!!"},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestClearStoreHandler(t *testing.T) {
	server, teardown := setupTestServer(t, advisor.NewMock(), notifier.NewMock(), events.NewMock())
	defer teardown()
	token := login(t, server)

	addPlayer(t, server, token, "A", 4, 4)

	rr := doJSON(t, server, http.MethodPost, "/clear", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, server, http.MethodGet, "/roster", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var players []team.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	assert.Empty(t, players)
}
