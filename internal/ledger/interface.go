package ledger

import "time"

// Ledger is the source of truth for all awarded and deducted SPA points.
// Commits are atomic, durable and idempotent; balances are always derived from
// the transaction log, never mutated directly.
type Ledger interface {
	// Commit appends a transaction. If a transaction with the same
	// (category, referenceID, playerID) already exists, the existing one is
	// returned and created is false.
	Commit(playerID string, amount int, category Category, referenceID string) (txn Transaction, created bool, err error)
	// BalanceOf sums the player's non-archived transaction amounts.
	BalanceOf(playerID string) (int, error)
	// History returns the player's transactions, newest first.
	History(playerID string, filter HistoryFilter) ([]Transaction, error)
	// DailyChallengeCount counts challenge transactions since the start of the
	// local day containing asOf.
	DailyChallengeCount(playerID string, asOf time.Time) (int, error)
	// Leaderboard returns players ordered by working balance, highest first.
	// limit <= 0 means all players.
	Leaderboard(limit int) ([]LeaderboardEntry, error)
	// ArchivePlayerSeason moves the player's working transactions to the
	// archive and records a season_archive summary keyed by quarterRef.
	// Returns false when the player was already archived for that quarter.
	ArchivePlayerSeason(playerID string, quarterRef string) (bool, error)
	// WithPlayerLocks runs fn while holding the per-player locks for all given
	// players, so a read-count-then-commit sequence cannot interleave with a
	// concurrent commit for the same player.
	WithPlayerLocks(fn func() error, playerIDs ...string) error
}

// Multiplier returns the rate-limit multiplier for a daily challenge count.
func Multiplier(dailyCount int) float64 {
	if dailyCount >= DailyChallengeLimit {
		return ReducedMultiplier
	}
	return 1.0
}
