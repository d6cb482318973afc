package slack

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/mrdjames-us/apa-coach/internal/metrics"
	"github.com/mrdjames-us/apa-coach/internal/notifier"
	"github.com/mrdjames-us/apa-coach/internal/team"
)

var _ notifier.Notifier = (*SlackClient)(nil)

// NewClient creates a new Slack notifier.
func NewClient(token, channelID string, m metrics.Metrics) *SlackClient {
	api := slack.New(token)
	return &SlackClient{
		api:       api,
		channelID: channelID,
		metrics:   m,
	}
}

// NewClientWithAPI creates a new Slack client with a custom API client. Used for testing.
func NewClientWithAPI(api *slack.Client, channelID string, m metrics.Metrics) *SlackClient {
	return &SlackClient{
		api:       api,
		channelID: channelID,
		metrics:   m,
	}
}

// SendMatchRecorded posts the match night result to the team channel.
func (c *SlackClient) SendMatchRecorded(match *team.Match, dryRun bool) error {
	msg := c.FormatMatchRecorded(match)
	return c.post(msg, dryRun)
}

// SendSeasonSummary posts the closing summary when a season is archived.
func (c *SlackClient) SendSeasonSummary(archive *team.SessionArchive, dryRun bool) error {
	msg := c.FormatSeasonSummary(archive)
	return c.post(msg, dryRun)
}

func (c *SlackClient) post(msg slack.Message, dryRun bool) error {
	if c.api == nil || c.channelID == "" {
		log.Warn("Slack client or channel ID is not configured. Skipping notification.")
		return errors.New("slack client or channel ID is not configured")
	}
	if dryRun {
		log.Info("Dry run mode: Slack notification not sent.", "msg", msg)
		return nil
	}

	_, _, err := c.api.PostMessage(c.channelID, slack.MsgOptionBlocks(msg.Blocks.BlockSet...))
	if err != nil {
		log.Error("Failed to send Slack message", "error", err)
		if c.metrics != nil {
			c.metrics.IncSlackNotifFailed()
		}
		return err
	}
	if c.metrics != nil {
		c.metrics.IncSlackNotifSent()
	}
	return nil
}
