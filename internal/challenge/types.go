package challenge

import (
	"database/sql"
	"errors"
	"time"
)

// Status is the lifecycle state of a challenge match. Completion is terminal
// and exactly-once.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

var (
	ErrInvalidWager    = errors.New("wager points must be positive")
	ErrAlreadyResolved = errors.New("challenge match already resolved")
	ErrNotFound        = errors.New("challenge match not found")
	ErrNotParticipant  = errors.New("player is not a participant of the match")
)

// Match is a wagered head-to-head challenge between two players.
type Match struct {
	ID           string    `json:"id"`
	ChallengerID string    `json:"challenger_id"`
	OpponentID   string    `json:"opponent_id"`
	WagerPoints  int       `json:"wager_points"`
	Status       Status    `json:"status"`
	WinnerID     string    `json:"winner_id,omitempty"`
	LoserID      string    `json:"loser_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ResolvedAt   time.Time `json:"resolved_at,omitempty"`
}

// Result is the outcome of a resolved challenge, returned to the caller for
// presentation. The core never renders anything itself.
type Result struct {
	MatchID      string  `json:"match_id"`
	WinnerID     string  `json:"winner_id"`
	LoserID      string  `json:"loser_id"`
	WinnerPoints int     `json:"winner_points"`
	LoserPoints  int     `json:"loser_points"`
	DailyCount   int     `json:"daily_count"`
	Multiplier   float64 `json:"multiplier"`
}

// store handles database operations for challenge matches.
type store struct {
	db *sql.DB
}
