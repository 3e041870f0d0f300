package tournament

import (
	"github.com/charmbracelet/log"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/ledger"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/metrics"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/pubsub"
)

// Awarder credits tournament placement points through the ledger, guarded
// against duplicate awarding for the same (tournament, player).
type Awarder struct {
	ledger  ledger.Ledger
	metrics metrics.Metrics
	pubsub  pubsub.PubSubClient
	curve   Curve
}

// NewAwarder creates a new Awarder with the given placement curve.
func NewAwarder(led ledger.Ledger, metrics metrics.Metrics, pubsub pubsub.PubSubClient, curve Curve) *Awarder {
	return &Awarder{
		ledger:  led,
		metrics: metrics,
		pubsub:  pubsub,
		curve:   curve,
	}
}

// Calculate exposes the pure placement computation, with no side effect.
func (a *Awarder) Calculate(position int, playerRank string, tournamentType string) (int, error) {
	if position < 1 {
		return 0, ErrInvalidPosition
	}
	return a.curve.Calculate(position, playerRank, tournamentType), nil
}

// Award computes and commits a placement award. The triggering event (result
// confirmation) may be retried, so a repeat invocation for a player already
// credited for the tournament returns the prior amount and commits nothing.
func (a *Awarder) Award(tournamentID, playerID string, position int, playerRank string, tournamentType string) (Award, error) {
	points, err := a.Calculate(position, playerRank, tournamentType)
	if err != nil {
		return Award{}, err
	}

	var txn ledger.Transaction
	var created bool
	err = a.ledger.WithPlayerLocks(func() error {
		var err error
		txn, created, err = a.ledger.Commit(playerID, points, ledger.CategoryTournament, tournamentID)
		return err
	}, playerID)
	if err != nil {
		return Award{}, err
	}

	award := Award{
		TournamentID:   tournamentID,
		PlayerID:       playerID,
		Points:         txn.Amount,
		Position:       position,
		PlayerRank:     playerRank,
		TournamentType: tournamentType,
		Duplicate:      !created,
	}

	if !created {
		a.metrics.IncDuplicateAwards()
		log.Info("Tournament award already credited", "tournamentID", tournamentID, "playerID", playerID, "points", txn.Amount)
		return award, nil
	}

	a.metrics.IncTournamentAwards()
	if err := a.pubsub.SendMessage(pubsub.TopicTournamentAwarded, award); err != nil {
		log.Error("Failed to publish tournament-awarded event", "error", err, "tournamentID", tournamentID)
	}
	log.Info("Awarded tournament points", "tournamentID", tournamentID, "playerID", playerID,
		"position", position, "points", award.Points, "type", tournamentType)
	return award, nil
}
