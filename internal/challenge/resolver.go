package challenge

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/ledger"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/metrics"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/player"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/pubsub"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/rank"
)

// Resolver settles challenge matches: it derives the deltas from the wager,
// the rank gap and the winner's daily count, then credits both sides through
// the ledger.
type Resolver struct {
	matches MatchStore
	ledger  ledger.Ledger
	players player.Store
	metrics metrics.Metrics
	pubsub  pubsub.PubSubClient
}

// NewResolver creates a new Resolver.
func NewResolver(matches MatchStore, led ledger.Ledger, players player.Store, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Resolver {
	return &Resolver{
		matches: matches,
		ledger:  led,
		players: players,
		metrics: metrics,
		pubsub:  pubsub,
	}
}

// Resolve settles the match exactly once and returns the point deltas.
//
// The daily-count read and both ledger commits run under the per-player locks,
// so two matches finishing at the same moment for the same player cannot both
// observe a stale daily count. The ledger commits happen before the status
// flip: if the process dies in between, a retry finds the idempotency keys in
// place and no points are lost or duplicated.
func (r *Resolver) Resolve(matchID, winnerID, loserID string, wagerPoints int) (Result, error) {
	start := time.Now()

	if wagerPoints <= 0 {
		return Result{}, ErrInvalidWager
	}

	match, err := r.matches.Get(matchID)
	if err != nil {
		return Result{}, err
	}
	if !isParticipantPair(match, winnerID, loserID) {
		return Result{}, ErrNotParticipant
	}

	var result Result
	err = r.ledger.WithPlayerLocks(func() error {
		// Re-read under the lock: another resolution may have completed the
		// match while we waited.
		match, err := r.matches.Get(matchID)
		if err != nil {
			return err
		}
		if match.Status != StatusPending {
			return ErrAlreadyResolved
		}

		dailyCount, err := r.ledger.DailyChallengeCount(winnerID, time.Now())
		if err != nil {
			return err
		}

		winner, err := r.players.Get(winnerID)
		if err != nil {
			return err
		}
		loser, err := r.players.Get(loserID)
		if err != nil {
			return err
		}

		result = Calculate(wagerPoints, rank.Gap(winner.RankCode, loser.RankCode), dailyCount)
		result.MatchID = matchID
		result.WinnerID = winnerID
		result.LoserID = loserID

		// Two independent idempotency keys: same reference, different players.
		winnerTxn, _, err := r.ledger.Commit(winnerID, result.WinnerPoints, ledger.CategoryChallenge, matchID)
		if err != nil {
			return err
		}
		loserTxn, _, err := r.ledger.Commit(loserID, result.LoserPoints, ledger.CategoryChallenge, matchID)
		if err != nil {
			return err
		}
		// A retried resolution sees a daily count inflated by its own first
		// attempt; report what the ledger actually kept.
		result.WinnerPoints = winnerTxn.Amount
		result.LoserPoints = loserTxn.Amount

		completed, err := r.matches.CompleteAtomically(matchID, winnerID, loserID)
		if err != nil {
			return err
		}
		if !completed {
			return ErrAlreadyResolved
		}
		return nil
	}, winnerID, loserID)
	if err != nil {
		return Result{}, err
	}

	r.metrics.IncChallengesResolved()
	r.metrics.ObserveResolveDuration(time.Since(start).Seconds())

	if err := r.pubsub.SendMessage(pubsub.TopicChallengeResolved, result); err != nil {
		log.Error("Failed to publish challenge-resolved event", "error", err, "matchID", matchID)
	}

	log.Info("Resolved challenge", "matchID", matchID, "winner", winnerID, "loser", loserID,
		"winnerPoints", result.WinnerPoints, "loserPoints", result.LoserPoints,
		"dailyCount", result.DailyCount, "multiplier", result.Multiplier)
	return result, nil
}

func isParticipantPair(m Match, winnerID, loserID string) bool {
	if winnerID == loserID {
		return false
	}
	straight := m.ChallengerID == winnerID && m.OpponentID == loserID
	swapped := m.ChallengerID == loserID && m.OpponentID == winnerID
	return straight || swapped
}
