package player

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a player id is not in the store.
var ErrNotFound = errors.New("player not found")

// Info represents a player's ranking row. The point balance is not stored
// here: it is always derived from the ledger.
type Info struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	RankCode    string    `json:"rank_code"`
	SeasonStart time.Time `json:"season_start"`
}

// RankChange is one append-only rank history entry.
type RankChange struct {
	PlayerID  string    `json:"player_id"`
	OldRank   string    `json:"old_rank"`
	NewRank   string    `json:"new_rank"`
	ChangedAt time.Time `json:"changed_at"`
}

// store handles all database operations for players.
type store struct {
	db *sql.DB
}
