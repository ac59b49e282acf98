package slack

import (
	"context"
	"errors"
	"testing"

	slackapi "github.com/slack-go/slack"
	"github.com/sondagsholdet/courtmix/internal/league"
	"github.com/sondagsholdet/courtmix/internal/metrics"
	"github.com/sondagsholdet/courtmix/internal/standings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func testRound() *league.Round {
	return &league.Round{
		Index:      3,
		Date:       "2025-01-19",
		CourtCount: 2,
		State:      league.RoundOpen,
		Matches: []league.Match{
			{ID: 1, Court: 1, Kind: league.KindDoubles, TeamA: []string{"a", "b"}, TeamB: []string{"c", "d"}},
			{ID: 2, Court: 2, Kind: league.KindSingles, TeamA: []string{"e"}, TeamB: []string{"f"}},
		},
		SitOuts: []string{"g"},
	}
}

func testNames() map[string]string {
	return map[string]string{
		"a": "Anna", "b": "Bo", "c": "Carla", "d": "Dan",
		"e": "Erik", "f": "Freja", "g": "Gorm",
	}
}

func TestSendMessage_Disabled(t *testing.T) {
	// No API configured: messages are dropped, never an error.
	notifier := NewNotifierWithAPI(nil, "", metrics.NewMock())

	err := notifier.SendRoundPlanned(testRound(), testNames(), false)
	require.NoError(t, err)
}

func TestSendMessage_DryRun(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}
	notifier := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	err := notifier.SendRoundPlanned(testRound(), testNames(), true)
	require.NoError(t, err)
	assert.False(t, postMessageCalled, "dry run must not hit the API")
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	m := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", m)

	err := notifier.SendRoundPlanned(testRound(), testNames(), false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, m.SlackNotifSentCalls)
	assert.Equal(t, 0, m.SlackNotifFailedCalls)
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	m := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", m)

	err := notifier.SendRoundClosed(testRound(), nil, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, m.SlackNotifSentCalls)
	assert.Equal(t, 1, m.SlackNotifFailedCalls)
}

func TestFormatRoundPlanned(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	msg := notifier.formatRoundPlanned(testRound(), testNames())
	require.NotEmpty(t, msg.Blocks.BlockSet)

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok)
	assert.Contains(t, header.Text.Text, "Round 3")

	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "Court 1 (Doubles): Anna & Bo vs Carla & Dan")
	assert.Contains(t, section.Text.Text, "Court 2 (Singles): Erik vs Freja")

	context, ok := msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
	require.True(t, ok)
	text, ok := context.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Equal(t, "Sitting out: Gorm", text.Text)
}

func TestFormatRoundPlanned_ForcedRepeatNote(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	round := testRound()
	round.ForcedRepeat = true
	msg := notifier.formatRoundPlanned(round, testNames())

	last, ok := msg.Blocks.BlockSet[len(msg.Blocks.BlockSet)-1].(*slackapi.ContextBlock)
	require.True(t, ok)
	text, ok := last.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Contains(t, text.Text, "repeat")
}

func TestFormatRoundClosed(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	table := []standings.PlayerStanding{
		{PlayerName: "Anna", Wins: 4, Losses: 1, LeaguePoints: 17},
		{PlayerName: "Bo", Wins: 3, Losses: 2, LeaguePoints: 14},
		{PlayerName: "Carla", Wins: 2, Losses: 3, LeaguePoints: 10},
		{PlayerName: "Dan", Wins: 1, Losses: 4, LeaguePoints: 8},
		{PlayerName: "Erik", Wins: 1, Losses: 4, LeaguePoints: 7},
		{PlayerName: "Freja", Wins: 0, Losses: 5, LeaguePoints: 5},
	}
	msg := notifier.formatRoundClosed(testRound(), table)

	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "1. Anna — 4 wins / 1 losses (17 pts)")
	assert.Contains(t, section.Text.Text, "5. Erik")
	assert.NotContains(t, section.Text.Text, "Freja", "table is trimmed to the top five")
}
