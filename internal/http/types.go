package http

import (
	"net/http"
	"sync/atomic"

	"github.com/mrdjames-us/apa-coach/internal/advisor"
	"github.com/mrdjames-us/apa-coach/internal/auth"
	"github.com/mrdjames-us/apa-coach/internal/config"
	"github.com/mrdjames-us/apa-coach/internal/events"
	"github.com/mrdjames-us/apa-coach/internal/metrics"
	"github.com/mrdjames-us/apa-coach/internal/notifier"
	"github.com/mrdjames-us/apa-coach/internal/team"
)

type Server struct {
	Store          team.TeamStore
	Auth           auth.Store
	Advisor        advisor.Advisor
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Events         events.Client
	Router         *http.ServeMux

	// suggestInFlight serializes advisor calls: a second suggestion
	// request while one is pending gets a 409 instead of a queue.
	suggestInFlight atomic.Bool
}
