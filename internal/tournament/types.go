package tournament

import "errors"

// Tournament types carry an event multiplier on top of the placement curve.
const (
	TypeSeason = "season"
	TypeOpen   = "open"
)

var ErrInvalidPosition = errors.New("placement position must be >= 1")

// Band maps a range of finishing positions to base points. Bands are listed in
// ascending MaxPosition order and must be monotonically decreasing in points.
type Band struct {
	MaxPosition int
	Points      int
}

// Curve is the configurable placement curve. The exact values are tournament
// policy, not code: they are injected at construction and never hard-coded at
// call sites.
type Curve struct {
	Bands []Band
	// ParticipationPoints is awarded for positions beyond the last band.
	ParticipationPoints int
	// RankBonusPerLevel scales the reward up for lower-ranked players: each
	// level below the top of the catalog adds this fraction, mirroring the
	// challenge rank-gap bonus philosophy.
	RankBonusPerLevel float64
	// TopLevel is the highest rank level in the catalog.
	TopLevel int
}

// DefaultCurve returns the club's standard placement curve.
func DefaultCurve() Curve {
	return Curve{
		Bands: []Band{
			{MaxPosition: 1, Points: 1000},
			{MaxPosition: 2, Points: 700},
			{MaxPosition: 3, Points: 500},
			{MaxPosition: 4, Points: 400},
			{MaxPosition: 8, Points: 250},
			{MaxPosition: 16, Points: 150},
		},
		ParticipationPoints: 100,
		RankBonusPerLevel:   0.02,
		TopLevel:            12,
	}
}

// Award is the outcome of a placement award, returned to the caller.
type Award struct {
	TournamentID   string `json:"tournament_id"`
	PlayerID       string `json:"player_id"`
	Points         int    `json:"points"`
	Position       int    `json:"position"`
	PlayerRank     string `json:"player_rank"`
	TournamentType string `json:"tournament_type"`
	// Duplicate is true when the idempotency key short-circuited the commit
	// and Points is the previously awarded amount.
	Duplicate bool `json:"duplicate"`
}
