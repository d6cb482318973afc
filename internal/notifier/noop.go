package notifier

import (
	"github.com/charmbracelet/log"

	"github.com/mrdjames-us/apa-coach/internal/team"
)

// Noop is used when no Slack token is configured. It logs and does
// nothing else.
type Noop struct{}

var _ Notifier = (*Noop)(nil)

// NewNoop creates a new no-op notifier.
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) SendMatchRecorded(match *team.Match, dryRun bool) error {
	log.Debug("Notifier not configured, skipping match notification", "opponent", match.OpponentName)
	return nil
}

func (n *Noop) SendSeasonSummary(archive *team.SessionArchive, dryRun bool) error {
	log.Debug("Notifier not configured, skipping season summary", "archive", archive.Name)
	return nil
}
