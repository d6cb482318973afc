package slack

import (
	"github.com/slack-go/slack"

	"github.com/mrdjames-us/apa-coach/internal/metrics"
)

// SlackClient is a wrapper around the official slack-go client.
type SlackClient struct {
	api       *slack.Client
	channelID string
	metrics   metrics.Metrics
}
