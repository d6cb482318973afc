package http

import (
	"net/http"

	"github.com/mrdjames-us/apa-coach/internal/advisor"
	"github.com/mrdjames-us/apa-coach/internal/auth"
	"github.com/mrdjames-us/apa-coach/internal/config"
	"github.com/mrdjames-us/apa-coach/internal/events"
	"github.com/mrdjames-us/apa-coach/internal/metrics"
	"github.com/mrdjames-us/apa-coach/internal/notifier"
	"github.com/mrdjames-us/apa-coach/internal/team"
)

func NewServer(store team.TeamStore, authStore auth.Store, adv advisor.Advisor, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notif notifier.Notifier, eventsClient events.Client) *Server {
	server := &Server{
		Store:          store,
		Auth:           authStore,
		Advisor:        adv,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notif,
		Events:         eventsClient,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Everything past /login is scoped to the authenticated captain.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/login", Chain(s.LoginHandler(), paramsMiddleware))
	s.Router.Handle("/logout", Chain(s.LogoutHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/roster", Chain(s.RosterHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/roster/player", Chain(s.PlayerHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/roster/player/active", Chain(s.PlayerActiveHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/lineup/validate", Chain(s.ValidateLineupHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/lineup/draft", Chain(s.LineupDraftHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/lineup/suggest", Chain(s.SuggestLineupHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/match/finalize", Chain(s.FinalizeMatchHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/matches", Chain(s.ListMatchesHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/summary", Chain(s.TeamSummaryHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/season/archive", Chain(s.ArchiveSeasonHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/archives", Chain(s.ListArchivesHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/events/match-recorded", Chain(s.MatchRecordedEventHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware, s.authMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
