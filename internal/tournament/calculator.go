package tournament

import (
	"math"

	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/rank"
)

// BasePoints returns the curve value for a finishing position, before rank and
// event adjustments.
func (c Curve) BasePoints(position int) int {
	for _, band := range c.Bands {
		if position <= band.MaxPosition {
			return band.Points
		}
	}
	return c.ParticipationPoints
}

// Calculate computes a placement award as a pure function of position, player
// rank and tournament type. Unknown ranks fall back to the catalog sentinel
// instead of failing: a placement award must not be blocked by a rank lookup.
func (c Curve) Calculate(position int, playerRank string, tournamentType string) int {
	base := float64(c.BasePoints(position))

	// Lower ranks earn a proportionally larger reward for the same placement.
	level := rank.Level(playerRank)
	base *= 1 + c.RankBonusPerLevel*float64(c.TopLevel-level)

	base *= typeMultiplier(tournamentType)
	return roundHalfUp(base)
}

func typeMultiplier(tournamentType string) float64 {
	switch tournamentType {
	case TypeSeason:
		return 1.5
	case TypeOpen:
		return 2.0
	default:
		return 1.0
	}
}

// roundHalfUp rounds to the nearest integer, halves away from zero.
func roundHalfUp(x float64) int {
	if x < 0 {
		return -int(math.Floor(-x + 0.5))
	}
	return int(math.Floor(x + 0.5))
}
