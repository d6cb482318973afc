package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesRecorded()
	IncLineupsValidated()
	IncAdvisorRequests()
	IncAdvisorFailures()
	ObserveAdvisorDuration(duration float64)
	IncSeasonsArchived()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
