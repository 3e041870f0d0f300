package challenge

import (
	"math"

	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/ledger"
)

// A winner who outranks the loser earns the rank-gap bonus.
const rankGapBonus = 1.25

// Calculate computes the point deltas for a challenge, as a pure function of
// the wager, the rank gap (winner level minus loser level) and the winner's
// daily challenge count. Both sides share the same multiplier so the daily
// discount stays symmetric.
func Calculate(wagerPoints int, rankGap int, dailyCount int) Result {
	winner := float64(wagerPoints)
	if rankGap >= 1 {
		winner *= rankGapBonus
	}

	mult := ledger.Multiplier(dailyCount)
	return Result{
		WinnerPoints: roundHalfUp(winner * mult),
		LoserPoints:  -roundHalfUp(float64(wagerPoints) * 0.5 * mult),
		DailyCount:   dailyCount,
		Multiplier:   mult,
	}
}

// roundHalfUp rounds to the nearest integer, halves away from zero.
func roundHalfUp(x float64) int {
	if x < 0 {
		return -int(math.Floor(-x + 0.5))
	}
	return int(math.Floor(x + 0.5))
}
