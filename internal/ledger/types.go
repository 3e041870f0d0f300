package ledger

import (
	"database/sql"
	"sync"
	"time"
)

// Category classifies a points transaction.
type Category string

const (
	CategoryChallenge     Category = "challenge"
	CategoryTournament    Category = "tournament"
	CategorySeasonArchive Category = "season_archive"
)

// Daily anti-farming limit: from the third challenge of a local day onwards,
// both sides of a challenge are scaled down.
const (
	DailyChallengeLimit = 2
	ReducedMultiplier   = 0.3
)

// Transaction is one append-only ledger entry. (Category, ReferenceID,
// PlayerID) is the idempotency key.
type Transaction struct {
	ID          string    `json:"id"`
	PlayerID    string    `json:"player_id"`
	Amount      int       `json:"amount"`
	Category    Category  `json:"category"`
	ReferenceID string    `json:"reference_id"`
	CreatedAt   time.Time `json:"created_at"`
	Archived    bool      `json:"archived"`
}

// LeaderboardEntry is one row of the working-balance leaderboard.
type LeaderboardEntry struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	RankCode string `json:"rank_code"`
	Points   int    `json:"points"`
}

// HistoryFilter narrows a History query. Zero values mean "no constraint".
type HistoryFilter struct {
	Category        Category
	Since           time.Time
	IncludeArchived bool
}

// store handles all database operations for the points ledger.
type store struct {
	db  *sql.DB
	loc *time.Location

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}
