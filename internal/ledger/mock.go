package ledger

import (
	"sync"
	"time"
)

// Mock is a mock implementation of the Ledger interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	CommitFunc              func(playerID string, amount int, category Category, referenceID string) (Transaction, bool, error)
	BalanceOfFunc           func(playerID string) (int, error)
	HistoryFunc             func(playerID string, filter HistoryFilter) ([]Transaction, error)
	DailyChallengeCountFunc func(playerID string, asOf time.Time) (int, error)
	LeaderboardFunc         func(limit int) ([]LeaderboardEntry, error)
	ArchivePlayerSeasonFunc func(playerID string, quarterRef string) (bool, error)

	// Call records
	CommitCalls []struct {
		PlayerID    string
		Amount      int
		Category    Category
		ReferenceID string
	}
	ArchivePlayerSeasonCalls []struct {
		PlayerID   string
		QuarterRef string
	}
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CommitCalls = nil
	m.ArchivePlayerSeasonCalls = nil
}

func (m *Mock) Commit(playerID string, amount int, category Category, referenceID string) (Transaction, bool, error) {
	m.mu.Lock()
	m.CommitCalls = append(m.CommitCalls, struct {
		PlayerID    string
		Amount      int
		Category    Category
		ReferenceID string
	}{playerID, amount, category, referenceID})
	m.mu.Unlock()
	if m.CommitFunc != nil {
		return m.CommitFunc(playerID, amount, category, referenceID)
	}
	return Transaction{ID: "mock-txn", PlayerID: playerID, Amount: amount, Category: category, ReferenceID: referenceID}, true, nil
}

func (m *Mock) BalanceOf(playerID string) (int, error) {
	if m.BalanceOfFunc != nil {
		return m.BalanceOfFunc(playerID)
	}
	return 0, nil
}

func (m *Mock) History(playerID string, filter HistoryFilter) ([]Transaction, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(playerID, filter)
	}
	return nil, nil
}

func (m *Mock) DailyChallengeCount(playerID string, asOf time.Time) (int, error) {
	if m.DailyChallengeCountFunc != nil {
		return m.DailyChallengeCountFunc(playerID, asOf)
	}
	return 0, nil
}

func (m *Mock) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc(limit)
	}
	return nil, nil
}

func (m *Mock) ArchivePlayerSeason(playerID string, quarterRef string) (bool, error) {
	m.mu.Lock()
	m.ArchivePlayerSeasonCalls = append(m.ArchivePlayerSeasonCalls, struct {
		PlayerID   string
		QuarterRef string
	}{playerID, quarterRef})
	m.mu.Unlock()
	if m.ArchivePlayerSeasonFunc != nil {
		return m.ArchivePlayerSeasonFunc(playerID, quarterRef)
	}
	return true, nil
}

func (m *Mock) WithPlayerLocks(fn func() error, playerIDs ...string) error {
	return fn()
}
