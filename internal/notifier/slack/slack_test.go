package slack

import (
	"context"
	"errors"
	"testing"

	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/challenge"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/ledger"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/metrics"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/player"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/season"
	slackapi "github.com/slack-go/slack"
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

func TestSendMessage_DryRun(t *testing.T) {
	m := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	n := NewNotifierWithAPI(nil, "C123", m)

	message := slackapi.NewBlockMessage()
	_, _, err := n.sendMessage(message, true)
	require.NoError(t, err)
	assert.Equal(t, 0, m.NotifSentCount)
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
	n := NewNotifierWithAPI(api, "C123", m)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := n.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, m.NotifSentCount)
	assert.Equal(t, 0, m.NotifFailedCount)
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	m := metrics.NewMock()
	n := NewNotifierWithAPI(api, "C123", m)

	_, _, err := n.sendMessage(slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, m.NotifSentCount)
	assert.Equal(t, 1, m.NotifFailedCount)
}

// Test one of the public methods to ensure it calls the private sender.
func TestSendChallengeResult_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}

	n := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	result := challenge.Result{MatchID: "m1", WinnerPoints: 100, LoserPoints: -50, Multiplier: 1.0}
	winner := player.Info{ID: "p1", Name: "Anh", RankCode: "H"}
	loser := player.Info{ID: "p2", Name: "Binh", RankCode: "H"}

	err := n.SendChallengeResult(result, winner, loser, false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendChallengeResult")
}

func TestFormatChallengeResult(t *testing.T) {
	n := &Notifier{channelID: "C123"}

	result := challenge.Result{MatchID: "m1", WinnerPoints: 30, LoserPoints: -15, DailyCount: 2, Multiplier: 0.3}
	winner := player.Info{Name: "Anh", RankCode: "H+"}
	loser := player.Info{Name: "Binh", RankCode: "H"}

	msg := n.formatChallengeResult(result, winner, loser)
	require.Len(t, msg.Blocks.BlockSet, 4, "reduced-rate results carry a context block")

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok)
	assert.Contains(t, header.Text.Text, "Challenge settled")

	details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, details.Text.Text, "Anh (H+) defeated Binh (H)")

	// Full-rate results omit the daily-limit context block.
	msg = n.formatChallengeResult(challenge.Result{WinnerPoints: 100, LoserPoints: -50, Multiplier: 1.0}, winner, loser)
	assert.Len(t, msg.Blocks.BlockSet, 3)
}

func TestFormatSeasonResetSummary(t *testing.T) {
	n := &Notifier{channelID: "C123"}

	msg := n.formatSeasonResetSummary(season.ResetResult{Quarter: "2024-Q1", ArchivedCount: 42})
	require.Len(t, msg.Blocks.BlockSet, 2)

	details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, details.Text.Text, "2024-Q1")
	assert.Contains(t, details.Text.Text, "42 players archived")
}

func TestFormatLeaderboard(t *testing.T) {
	n := &Notifier{channelID: "C123"}

	entries := []ledger.LeaderboardEntry{
		{PlayerID: "p1", Name: "Anh", RankCode: "G", Points: 900},
		{PlayerID: "p2", Name: "Binh", RankCode: "H+", Points: 450},
	}
	msg := n.formatLeaderboard(entries)
	require.Len(t, msg.Blocks.BlockSet, 3)

	first, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, first.Text.Text, "🥇")
	assert.Contains(t, first.Text.Text, "900 SPA")

	empty := n.formatLeaderboard(nil)
	require.Len(t, empty.Blocks.BlockSet, 2)
}
