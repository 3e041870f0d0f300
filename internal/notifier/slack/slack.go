package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/challenge"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/ledger"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/metrics"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/notifier"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/player"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/season"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/tournament"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
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
		s.metrics.IncNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Notifier interface
func (s *Notifier) SendChallengeResult(result challenge.Result, winner, loser player.Info, dryRun bool) error {
	msg := s.formatChallengeResult(result, winner, loser)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendTournamentAward(award tournament.Award, p player.Info, dryRun bool) error {
	msg := s.formatTournamentAward(award, p)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendSeasonResetSummary(result season.ResetResult, dryRun bool) error {
	msg := s.formatSeasonResetSummary(result)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(entries []ledger.LeaderboardEntry, dryRun bool) error {
	msg := s.formatLeaderboard(entries)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// formatChallengeResult creates the Slack message for a settled challenge using Block Kit.
func (s *Notifier) formatChallengeResult(result challenge.Result, winner, loser player.Info) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎱 Challenge settled! 🎱", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s (%s) defeated %s (%s)",
		winner.Name, winner.RankCode, loser.Name, loser.RankCode)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	pointsFields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Winner: +%d SPA", result.WinnerPoints), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Loser: %d SPA", result.LoserPoints), true, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, pointsFields, nil))

	if result.Multiplier < 1.0 {
		contextText := slack.NewTextBlockObject("plain_text",
			fmt.Sprintf("Daily limit reached (%d matches today), points reduced.", result.DailyCount), true, false)
		blocks = append(blocks, slack.NewContextBlock("", contextText))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatTournamentAward creates the Slack message for a tournament placement.
func (s *Notifier) formatTournamentAward(award tournament.Award, p player.Info) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Tournament points awarded! 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	name := p.Name
	if name == "" {
		name = award.PlayerID
	}
	detailsText := fmt.Sprintf("%s finished #%d in %s (%s)\n+%d SPA",
		name, award.Position, award.TournamentID, award.TournamentType, award.Points)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatSeasonResetSummary creates the Slack message for a completed quarterly rollover.
func (s *Notifier) formatSeasonResetSummary(result season.ResetResult) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🔄 New season! 🔄", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s is closed. %d players archived, everyone starts fresh at zero.",
		result.Quarter, result.ArchivedCount)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the SPA leaderboard.
func (s *Notifier) formatLeaderboard(entries []ledger.LeaderboardEntry) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 SPA Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No points on the board yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, entry := range entries {
		position := i + 1
		var medal string
		switch position {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		entryText := fmt.Sprintf("%d. %s %s (%s): %d SPA", position, medal, entry.Name, entry.RankCode, entry.Points)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", entryText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
