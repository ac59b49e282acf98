package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
	"github.com/sondagsholdet/courtmix/internal/league"
	"github.com/sondagsholdet/courtmix/internal/metrics"
	"github.com/sondagsholdet/courtmix/internal/notifier"
	"github.com/sondagsholdet/courtmix/internal/standings"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack. A Notifier created
// without a token is disabled and silently drops messages, so the league
// works without a Slack workspace.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier. An empty token disables sending.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	var api slackClient
	if token != "" {
		api = slack.New(token)
	}
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) error {
	if s.api == nil {
		log.Debug("Slack notifier disabled, dropping message")
		return nil
	}
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

// SendRoundPlanned announces court assignments and sit-outs for a new round.
func (s *Notifier) SendRoundPlanned(round *league.Round, names map[string]string, dryRun bool) error {
	return s.sendMessage(s.formatRoundPlanned(round, names), dryRun)
}

// SendRoundClosed announces a committed round and the top of the table.
func (s *Notifier) SendRoundClosed(round *league.Round, table []standings.PlayerStanding, dryRun bool) error {
	return s.sendMessage(s.formatRoundClosed(round, table), dryRun)
}

func (s *Notifier) formatRoundPlanned(round *league.Round, names map[string]string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏸 Round %d is ready! 🏸", round.Index), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	var lines []string
	for _, m := range round.Matches {
		kind := "Doubles"
		if m.Kind == league.KindSingles {
			kind = "Singles"
		}
		lines = append(lines, fmt.Sprintf("Court %d (%s): %s vs %s",
			m.Court, kind, teamLabel(m.TeamA, names), teamLabel(m.TeamB, names)))
	}
	blocks = append(blocks, slack.NewSectionBlock(
		slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	if len(round.SitOuts) > 0 {
		sitting := make([]string, len(round.SitOuts))
		for i, id := range round.SitOuts {
			sitting[i] = displayName(id, names)
		}
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject("plain_text", "Sitting out: "+strings.Join(sitting, ", "), true, false)))
	}
	if round.ForcedRepeat {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject("plain_text", "Note: a partner pairing had to repeat last round.", true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatRoundClosed(round *league.Round, table []standings.PlayerStanding) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏁 Round %d is in the books! 🏁", round.Index), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	top := table
	if len(top) > 5 {
		top = top[:5]
	}
	var lines []string
	for i, row := range top {
		lines = append(lines, fmt.Sprintf("%d. %s — %d wins / %d losses (%d pts)",
			i+1, row.PlayerName, row.Wins, row.Losses, row.LeaguePoints))
	}
	if len(lines) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject("plain_text", "Standings:\n"+strings.Join(lines, "\n"), true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

func teamLabel(ids []string, names map[string]string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = displayName(id, names)
	}
	return strings.Join(parts, " & ")
}

func displayName(id string, names map[string]string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id
}
