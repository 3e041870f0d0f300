package notifier

import (
	"sync"

	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/challenge"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/ledger"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/player"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/season"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/tournament"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendChallengeResultFunc    func(result challenge.Result, winner, loser player.Info, dryRun bool) error
	SendTournamentAwardFunc    func(award tournament.Award, p player.Info, dryRun bool) error
	SendSeasonResetSummaryFunc func(result season.ResetResult, dryRun bool) error
	SendLeaderboardFunc        func(entries []ledger.LeaderboardEntry, dryRun bool) error

	// Call records
	SendChallengeResultCalls    []challenge.Result
	SendTournamentAwardCalls    []tournament.Award
	SendSeasonResetSummaryCalls []season.ResetResult
	SendLeaderboardCalls        [][]ledger.LeaderboardEntry
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendChallengeResultCalls = nil
	m.SendTournamentAwardCalls = nil
	m.SendSeasonResetSummaryCalls = nil
	m.SendLeaderboardCalls = nil
}

func (m *Mock) SendChallengeResult(result challenge.Result, winner, loser player.Info, dryRun bool) error {
	m.mu.Lock()
	m.SendChallengeResultCalls = append(m.SendChallengeResultCalls, result)
	m.mu.Unlock()
	if m.SendChallengeResultFunc != nil {
		return m.SendChallengeResultFunc(result, winner, loser, dryRun)
	}
	return nil
}

func (m *Mock) SendTournamentAward(award tournament.Award, p player.Info, dryRun bool) error {
	m.mu.Lock()
	m.SendTournamentAwardCalls = append(m.SendTournamentAwardCalls, award)
	m.mu.Unlock()
	if m.SendTournamentAwardFunc != nil {
		return m.SendTournamentAwardFunc(award, p, dryRun)
	}
	return nil
}

func (m *Mock) SendSeasonResetSummary(result season.ResetResult, dryRun bool) error {
	m.mu.Lock()
	m.SendSeasonResetSummaryCalls = append(m.SendSeasonResetSummaryCalls, result)
	m.mu.Unlock()
	if m.SendSeasonResetSummaryFunc != nil {
		return m.SendSeasonResetSummaryFunc(result, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(entries []ledger.LeaderboardEntry, dryRun bool) error {
	m.mu.Lock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, entries)
	m.mu.Unlock()
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(entries, dryRun)
	}
	return nil
}
