package notifier

import "github.com/mrdjames-us/apa-coach/internal/team"

// Notifier announces team events to the outside world. Implementations
// must treat failures as non-fatal: the match or archive is already
// committed by the time a notification goes out.
type Notifier interface {
	SendMatchRecorded(match *team.Match, dryRun bool) error
	SendSeasonSummary(archive *team.SessionArchive, dryRun bool) error
}
