package slack

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/mrdjames-us/apa-coach/internal/team"
)

// FormatMatchRecorded creates the Slack message for a recorded match night using Block Kit.
func (c *SlackClient) FormatMatchRecorded(match *team.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header - The Header block itself provides bolding. No asterisks needed.
	headerText := slack.NewTextBlockObject("plain_text", "🎱 Match night recorded! 🎱", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("vs %s on %s\nScore: %d-%d",
		match.OpponentName, match.Date.Format("Monday 02 Jan"), match.TotalWins, match.TotalLosses)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	var gameLines []string
	for _, slot := range match.Slots {
		if slot.PlayerID == "" {
			continue
		}
		line := fmt.Sprintf("• Game %d (%s) vs SL%d", slot.Index+1, slot.GameType, slot.OpponentSkill)
		if slot.Result != "" {
			line += fmt.Sprintf(": %s", slot.Result)
		}
		gameLines = append(gameLines, line)
	}
	if len(gameLines) > 0 {
		gamesText := "Games played:\n" + strings.Join(gameLines, "\n")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", gamesText, true, false), nil, nil))
	}

	// Context - For simpler, single-line info.
	var contextElements []slack.MixedElement
	if match.TotalWins > match.TotalLosses {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", "🏆 We took the night!", true, false))
	}
	if len(contextElements) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", contextElements...))
	}

	return slack.NewBlockMessage(blocks...)
}

// FormatSeasonSummary creates the Slack message for an archived season using Block Kit.
func (c *SlackClient) FormatSeasonSummary(archive *team.SessionArchive) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎱 Season wrapped! 🎱", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	wins, losses := 0, 0
	for _, m := range archive.Matches {
		wins += m.TotalWins
		losses += m.TotalLosses
	}
	detailsText := fmt.Sprintf("%s\n%s - %s\nMatches: %d, games: %d-%d",
		archive.Name,
		archive.StartDate.Format("02 Jan 2006"), archive.EndDate.Format("02 Jan 2006"),
		len(archive.Matches), wins, losses)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	var topName string
	topWins := 0
	for _, p := range archive.PlayerSnapshots {
		if w := p.Wins8 + p.Wins9; w > topWins {
			topWins = w
			topName = p.Name
		}
	}
	if topName != "" {
		var contextElements []slack.MixedElement
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text",
			fmt.Sprintf("🏆 Top shooter: %s with %d wins", topName, topWins), true, false))
		blocks = append(blocks, slack.NewContextBlock("", contextElements...))
	}

	return slack.NewBlockMessage(blocks...)
}
