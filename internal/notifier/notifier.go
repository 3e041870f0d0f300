package notifier

import (
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/challenge"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/ledger"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/player"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/season"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/tournament"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For settled challenge matches
	SendChallengeResult(result challenge.Result, winner, loser player.Info, dryRun bool) error
	// For tournament placements
	SendTournamentAward(award tournament.Award, p player.Info, dryRun bool) error
	// For the quarterly rollover
	SendSeasonResetSummary(result season.ResetResult, dryRun bool) error
	// For standings broadcasts
	SendLeaderboard(entries []ledger.LeaderboardEntry, dryRun bool) error
}
