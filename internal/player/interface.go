package player

import "time"

// Store defines the interface for interacting with player ranking data.
type Store interface {
	UpsertPlayer(playerID, name, rankCode string) error
	UpsertPlayers(players []Info) error
	Get(playerID string) (Info, error)
	GetAll() ([]Info, error)
	AllIDs() ([]string, error)
	IsKnownPlayer(playerID string) bool
	// SetRank updates the player's rank and appends a rank_history entry when
	// the code actually changes.
	SetRank(playerID, newRank string) error
	// PromotionsSince counts rank_history entries after since where the rank
	// actually moved.
	PromotionsSince(playerID string, since time.Time) (int, error)
	// SetSeasonStart stamps the player's current season start date.
	SetSeasonStart(playerID string, start time.Time) error
}
