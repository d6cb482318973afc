package events

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMatchRecorded  EventType = "match-recorded"
	EventSeasonArchived EventType = "season-archived"
)

// MatchRecordedEvent is the payload published after a match is folded
// into player stats.
type MatchRecordedEvent struct {
	AccountID    string `msgpack:"account_id"`
	MatchID      string `msgpack:"match_id"`
	OpponentName string `msgpack:"opponent_name"`
	TotalWins    int    `msgpack:"total_wins"`
	TotalLosses  int    `msgpack:"total_losses"`
}

// SeasonArchivedEvent is the payload published after a season archive.
type SeasonArchivedEvent struct {
	AccountID   string `msgpack:"account_id"`
	ArchiveID   string `msgpack:"archive_id"`
	ArchiveName string `msgpack:"archive_name"`
	MatchCount  int    `msgpack:"match_count"`
}
