package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds the registered Prometheus collectors.
type Service struct {
	MatchesRecorded    prometheus.Counter
	LineupsValidated   prometheus.Counter
	AdvisorRequests    prometheus.Counter
	AdvisorFailures    prometheus.Counter
	AdvisorDuration    prometheus.Histogram
	SeasonsArchived    prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
