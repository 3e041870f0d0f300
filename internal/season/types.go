package season

import (
	"database/sql"
	"time"
)

// Season is the current quarterly competitive window. It is a deterministic
// function of wall-clock time; only the last reset date is persisted.
type Season struct {
	Quarter       int       `json:"quarter"`
	Year          int       `json:"year"`
	StartDate     time.Time `json:"season_start"`
	NextStartDate time.Time `json:"next_season_start"`
	DaysRemaining int       `json:"days_remaining"`
}

// Ref is the archival key for the season, e.g. "2024-Q1".
func (s Season) Ref() string {
	return Ref(s.Year, s.Quarter)
}

// Stats is a player's season summary for the excluded UI layer.
type Stats struct {
	PlayerID     string `json:"player_id"`
	TotalPoints  int    `json:"total_points"`
	RankPoints   int    `json:"rank_points"`
	TotalMatches int    `json:"total_matches"`
	Wins         int    `json:"wins"`
	WinRate      int    `json:"win_rate"`
	CurrentRank  string `json:"current_rank"`
	Promotions   int    `json:"promotions"`
}

// ResetResult reports the outcome of a season reset run.
type ResetResult struct {
	ArchivedCount int    `json:"archived_count"`
	Quarter       string `json:"quarter"`
	Skipped       bool   `json:"skipped"`
}

// MetaStore persists the reset bookkeeping that window math alone cannot
// answer: whether a reset is already done for this boundary.
type MetaStore interface {
	GetLastReset() (time.Time, bool, error)
	SetLastReset(t time.Time) error
}

// metaStore is the season_meta key/value table.
type metaStore struct {
	db *sql.DB
}
