package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_matches_recorded_total",
			Help: "The total number of match nights recorded.",
		}),
		LineupsValidated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_lineups_validated_total",
			Help: "The total number of lineup validation requests.",
		}),
		AdvisorRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_advisor_requests_total",
			Help: "The total number of lineup suggestion requests sent to the advisor.",
		}),
		AdvisorFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_advisor_failures_total",
			Help: "The total number of advisor requests that failed or returned unusable output.",
		}),
		AdvisorDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pool_advisor_request_duration_seconds",
			Help:    "The duration of advisor suggestion requests.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SeasonsArchived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_seasons_archived_total",
			Help: "The total number of seasons archived.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pool_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesRecorded,
		s.LineupsValidated,
		s.AdvisorRequests,
		s.AdvisorFailures,
		s.AdvisorDuration,
		s.SeasonsArchived,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesRecorded() {
	s.MatchesRecorded.Inc()
}

func (s *Service) IncLineupsValidated() {
	s.LineupsValidated.Inc()
}

func (s *Service) IncAdvisorRequests() {
	s.AdvisorRequests.Inc()
}

func (s *Service) IncAdvisorFailures() {
	s.AdvisorFailures.Inc()
}

func (s *Service) ObserveAdvisorDuration(duration float64) {
	s.AdvisorDuration.Observe(duration)
}

func (s *Service) IncSeasonsArchived() {
	s.SeasonsArchived.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
