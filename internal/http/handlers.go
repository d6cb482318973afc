package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mrdjames-us/apa-coach/internal/auth"
	"github.com/mrdjames-us/apa-coach/internal/events"
	"github.com/mrdjames-us/apa-coach/internal/lineup"
	"github.com/mrdjames-us/apa-coach/internal/team"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	type request struct {
		Callsign string `json:"callsign"`
		Password string `json:"password"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		session, err := s.Auth.Login(req.Callsign, req.Password)
		if err != nil {
			if err == auth.ErrInvalidCredentials {
				http.Error(w, "Invalid credentials", http.StatusUnauthorized)
				return
			}
			log.Error("Login failed", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, session)
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if err := s.Auth.Logout(token); err != nil {
			log.Error("Logout failed", "error", err)
			http.Error(w, "Failed to log out", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Logged out")
	}
}

// RosterHandler lists the roster on GET and adds a player on POST.
func (s *Server) RosterHandler() http.HandlerFunc {
	type addRequest struct {
		Name   string `json:"name"`
		Skill8 int    `json:"skill_8ball"`
		Skill9 int    `json:"skill_9ball"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := accountIDFromContext(r)
		switch r.Method {
		case http.MethodGet:
			var (
				players []team.Player
				err     error
			)
			if r.URL.Query().Get("active") == "true" {
				players, err = s.Store.GetActivePlayers(accountID)
			} else {
				players, err = s.Store.GetAllPlayers(accountID)
			}
			if err != nil {
				log.Error("Failed to get players from store", "error", err)
				http.Error(w, "Failed to get players", http.StatusInternalServerError)
				return
			}
			writeJSON(w, players)

		case http.MethodPost:
			var req addRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			player, err := s.Store.AddPlayer(accountID, req.Name, req.Skill8, req.Skill9)
			if err != nil {
				log.Warn("Rejected player add", "error", err)
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeJSONStatus(w, http.StatusCreated, player)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// PlayerHandler reads, edits or removes a single roster member,
// addressed by the 'id' query parameter.
func (s *Server) PlayerHandler() http.HandlerFunc {
	type updateRequest struct {
		Name   *string `json:"name"`
		Skill8 *int    `json:"skill_8ball"`
		Skill9 *int    `json:"skill_9ball"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := accountIDFromContext(r)
		playerID := r.URL.Query().Get("id")
		if playerID == "" {
			http.Error(w, "Player id is required", http.StatusBadRequest)
			return
		}

		switch r.Method {
		case http.MethodGet:
			player, err := s.Store.GetPlayer(accountID, playerID)
			if err != nil {
				if err == team.ErrPlayerNotFound {
					http.Error(w, "Player not found", http.StatusNotFound)
					return
				}
				log.Error("Failed to get player", "error", err, "playerID", playerID)
				http.Error(w, "Failed to get player", http.StatusInternalServerError)
				return
			}
			writeJSON(w, player)

		case http.MethodPatch:
			var req updateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			params := team.UpdatePlayerParams{Name: req.Name, Skill8: req.Skill8, Skill9: req.Skill9}
			if err := s.Store.UpdatePlayer(accountID, playerID, params); err != nil {
				log.Warn("Rejected player update", "error", err, "playerID", playerID)
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Player updated")

		case http.MethodDelete:
			if err := s.Store.DeletePlayer(accountID, playerID); err != nil {
				log.Error("Failed to delete player", "error", err, "playerID", playerID)
				http.Error(w, "Failed to delete player", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Player deleted")

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// PlayerActiveHandler toggles a player in or out of the active roster.
// Counters survive the toggle.
func (s *Server) PlayerActiveHandler() http.HandlerFunc {
	type request struct {
		ID     string `json:"id"`
		Active bool   `json:"active"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		accountID := accountIDFromContext(r)
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.ID == "" {
			http.Error(w, "Player id is required", http.StatusBadRequest)
			return
		}
		if err := s.Store.SetPlayerActive(accountID, req.ID, req.Active); err != nil {
			log.Error("Failed to set player active state", "error", err, "playerID", req.ID)
			http.Error(w, "Failed to update player", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Player updated")
	}
}

// LineupValidation is the budget verdict returned for a set of
// assignments. Totals count only assigned slots with known players.
type LineupValidation struct {
	EightBallTotal int  `json:"eight_ball_total"`
	NineBallTotal  int  `json:"nine_ball_total"`
	EightBallOver  bool `json:"eight_ball_over"`
	NineBallOver   bool `json:"nine_ball_over"`
	Ready          bool `json:"ready"`
}

func (s *Server) validate(accountID string, assignments lineup.Assignments) (*LineupValidation, error) {
	players, err := s.Store.GetAllPlayers(accountID)
	if err != nil {
		return nil, err
	}
	eight, nine := lineup.FormatTotals(assignments, players)
	return &LineupValidation{
		EightBallTotal: eight,
		NineBallTotal:  nine,
		EightBallOver:  lineup.OverBudget(eight),
		NineBallOver:   lineup.OverBudget(nine),
		Ready:          lineup.Ready(assignments, eight, nine),
	}, nil
}

// ValidateLineupHandler recomputes the Rule of 23 verdict for a set of
// assignments. The client calls this on every slot change.
func (s *Server) ValidateLineupHandler() http.HandlerFunc {
	type request struct {
		Assignments lineup.Assignments `json:"assignments"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		accountID := accountIDFromContext(r)
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		s.Metrics.IncLineupsValidated()
		verdict, err := s.validate(accountID, req.Assignments)
		if err != nil {
			log.Error("Failed to validate lineup", "error", err)
			http.Error(w, "Failed to validate lineup", http.StatusInternalServerError)
			return
		}
		writeJSON(w, verdict)
	}
}

// LineupDraftHandler parks and resumes the in-progress planner state.
func (s *Server) LineupDraftHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := accountIDFromContext(r)
		switch r.Method {
		case http.MethodGet:
			draft, err := s.Store.GetLineupDraft(accountID)
			if err != nil {
				log.Error("Failed to get lineup draft", "error", err)
				http.Error(w, "Failed to get lineup draft", http.StatusInternalServerError)
				return
			}
			if draft == nil {
				http.Error(w, "No draft saved", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write(draft)

		case http.MethodPut:
			var draft lineup.Draft
			if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			raw, err := json.Marshal(draft)
			if err != nil {
				log.Error("Failed to marshal lineup draft", "error", err)
				http.Error(w, "Failed to save lineup draft", http.StatusInternalServerError)
				return
			}
			if err := s.Store.SaveLineupDraft(accountID, raw); err != nil {
				log.Error("Failed to save lineup draft", "error", err)
				http.Error(w, "Failed to save lineup draft", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Draft saved")

		case http.MethodDelete:
			if err := s.Store.ClearLineupDraft(accountID); err != nil {
				log.Error("Failed to clear lineup draft", "error", err)
				http.Error(w, "Failed to clear lineup draft", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Draft cleared")

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// SuggestLineupHandler asks the advisor for a lineup proposal and merges
// it into the captain's current picks. The proposal never overwrites a
// manually assigned slot, and the merged result is re-validated before it
// is returned: the advisor is advisory, the Rule of 23 is not.
func (s *Server) SuggestLineupHandler() http.HandlerFunc {
	type request struct {
		OpponentSkills [team.NumSlots]int `json:"opponent_skills"`
		Assignments    lineup.Assignments `json:"assignments"`
	}
	type response struct {
		Assignments lineup.Assignments `json:"assignments"`
		Reasoning   string             `json:"reasoning"`
		Validation  *LineupValidation  `json:"validation"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		accountID := accountIDFromContext(r)
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if !s.suggestInFlight.CompareAndSwap(false, true) {
			http.Error(w, "A suggestion request is already in flight", http.StatusConflict)
			return
		}
		defer s.suggestInFlight.Store(false)

		players, err := s.Store.GetActivePlayers(accountID)
		if err != nil {
			log.Error("Failed to get players for suggestion", "error", err)
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			return
		}

		s.Metrics.IncAdvisorRequests()
		start := time.Now()
		suggestion, err := s.Advisor.Suggest(r.Context(), players, req.OpponentSkills, req.Assignments)
		s.Metrics.ObserveAdvisorDuration(time.Since(start).Seconds())
		if err != nil {
			s.Metrics.IncAdvisorFailures()
			log.Error("Advisor request failed", "error", err)
			http.Error(w, "Advisor request failed", http.StatusBadGateway)
			return
		}

		merged := lineup.Merge(req.Assignments, suggestion.Assignments)
		verdict, err := s.validate(accountID, merged)
		if err != nil {
			log.Error("Failed to validate merged lineup", "error", err)
			http.Error(w, "Failed to validate lineup", http.StatusInternalServerError)
			return
		}

		writeJSON(w, response{
			Assignments: merged,
			Reasoning:   suggestion.Reasoning,
			Validation:  verdict,
		})
	}
}

// FinalizeMatchHandler turns the planner state into an immutable match
// record and folds the stats into the roster in one shot.
func (s *Server) FinalizeMatchHandler() http.HandlerFunc {
	type request struct {
		OpponentName   string                     `json:"opponent_name"`
		OpponentSkills [team.NumSlots]int         `json:"opponent_skills"`
		Assignments    lineup.Assignments         `json:"assignments"`
		Results        [team.NumSlots]team.Result `json:"results"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		accountID := accountIDFromContext(r)
		isDryRun := isDryRunFromContext(r)

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		verdict, err := s.validate(accountID, req.Assignments)
		if err != nil {
			log.Error("Failed to validate lineup for finalize", "error", err)
			http.Error(w, "Failed to validate lineup", http.StatusInternalServerError)
			return
		}
		if !verdict.Ready {
			log.Warn("Rejected match finalize, lineup not ready",
				"eightTotal", verdict.EightBallTotal, "nineTotal", verdict.NineBallTotal)
			http.Error(w, "Lineup is not ready: empty or over the 23-point cap", http.StatusUnprocessableEntity)
			return
		}

		match, err := team.NewMatch(req.OpponentName, req.OpponentSkills, req.Assignments, req.Results, time.Now())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if isDryRun {
			log.Info("[Dry Run] Would have recorded match", "opponent", match.OpponentName)
			writeJSON(w, match)
			return
		}

		if err := s.Store.RecordMatch(accountID, match); err != nil {
			log.Error("Failed to record match", "error", err)
			http.Error(w, "Failed to record match", http.StatusInternalServerError)
			return
		}
		s.Metrics.IncMatchesRecorded()

		// Post-commit side effects are best-effort.
		if err := s.Store.ClearLineupDraft(accountID); err != nil {
			log.Warn("Failed to clear lineup draft after finalize", "error", err)
		}
		if err := s.Notifier.SendMatchRecorded(match, isDryRun); err != nil {
			log.Warn("Failed to send match notification", "error", err)
		}
		if err := s.Events.SendMessage(string(events.EventMatchRecorded), events.MatchRecordedEvent{
			AccountID:    accountID,
			MatchID:      match.ID,
			OpponentName: match.OpponentName,
			TotalWins:    match.TotalWins,
			TotalLosses:  match.TotalLosses,
		}); err != nil {
			log.Warn("Failed to publish match recorded event", "error", err)
		}

		writeJSONStatus(w, http.StatusCreated, match)
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := accountIDFromContext(r)
		matches, err := s.Store.GetAllMatches(accountID)
		if err != nil {
			log.Error("Failed to get matches from store", "error", err)
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			return
		}
		writeJSON(w, matches)
	}
}

// TeamSummaryHandler serves the dashboard payload: qualification board,
// win rates and the session timeline.
func (s *Server) TeamSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := accountIDFromContext(r)
		summary, err := s.Store.TeamSummary(accountID)
		if err != nil {
			log.Error("Failed to build team summary", "error", err)
			http.Error(w, "Failed to build team summary", http.StatusInternalServerError)
			return
		}
		writeJSON(w, summary)
	}
}

// ArchiveSeasonHandler closes the current statistics period.
func (s *Server) ArchiveSeasonHandler() http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		accountID := accountIDFromContext(r)
		isDryRun := isDryRunFromContext(r)

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "Archive name is required", http.StatusBadRequest)
			return
		}

		if isDryRun {
			log.Info("[Dry Run] Would have archived season", "name", req.Name)
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Dry run: season not archived")
			return
		}

		archive, err := s.Store.ArchiveSeason(accountID, req.Name)
		if err != nil {
			log.Error("Failed to archive season", "error", err)
			http.Error(w, "Failed to archive season", http.StatusInternalServerError)
			return
		}
		s.Metrics.IncSeasonsArchived()

		if err := s.Notifier.SendSeasonSummary(archive, isDryRun); err != nil {
			log.Warn("Failed to send season summary", "error", err)
		}
		if err := s.Events.SendMessage(string(events.EventSeasonArchived), events.SeasonArchivedEvent{
			AccountID:   accountID,
			ArchiveID:   archive.ID,
			ArchiveName: archive.Name,
			MatchCount:  len(archive.Matches),
		}); err != nil {
			log.Warn("Failed to publish season archived event", "error", err)
		}

		writeJSONStatus(w, http.StatusCreated, archive)
	}
}

func (s *Server) ListArchivesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := accountIDFromContext(r)
		archives, err := s.Store.GetArchives(accountID)
		if err != nil {
			log.Error("Failed to get archives from store", "error", err)
			http.Error(w, "Failed to get archives", http.StatusInternalServerError)
			return
		}
		writeJSON(w, archives)
	}
}

// MatchRecordedEventHandler receives the Pub/Sub push delivery for
// recorded matches and logs it. Kept as a webhook so downstream
// consumers can be wired in without touching the recorder.
func (s *Server) MatchRecordedEventHandler() http.HandlerFunc {
	type pushMessage struct {
		Subscription string `json:"subscription"`
		Message      struct {
			Data string `json:"data"` // base64-encoded message payload
		} `json:"message"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var pubsubMsg pushMessage
		if err := json.NewDecoder(r.Body).Decode(&pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		var event events.MatchRecordedEvent
		if err := s.Events.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		log.Info("Received match recorded event",
			"accountID", event.AccountID, "matchID", event.MatchID,
			"opponent", event.OpponentName, "score", fmt.Sprintf("%d-%d", event.TotalWins, event.TotalLosses))
		w.Write([]byte("OK"))
	}
}

// ClearStoreHandler wipes the captain's team data. Used by tests and
// local resets.
func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := accountIDFromContext(r)
		log.Info("Received request to clear store", "accountID", accountID)
		if err := s.Store.Clear(accountID); err != nil {
			log.Error("Failed to clear store", "error", err)
			http.Error(w, "Failed to clear store", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
		log.Info("Store cleared successfully", "accountID", accountID)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}
