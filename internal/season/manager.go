package season

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/ledger"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/metrics"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/player"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/pubsub"
)

// manager implements Manager on top of the ledger and player stores.
type manager struct {
	ledger  ledger.Ledger
	players player.Store
	meta    MetaStore
	metrics metrics.Metrics
	pubsub  pubsub.PubSubClient
	loc     *time.Location
}

// NewManager creates a new season Manager. loc is the club's local timezone;
// season boundaries are calendar boundaries in that zone.
func NewManager(led ledger.Ledger, players player.Store, meta MetaStore, metrics metrics.Metrics, pubsub pubsub.PubSubClient, loc *time.Location) Manager {
	return &manager{
		ledger:  led,
		players: players,
		meta:    meta,
		metrics: metrics,
		pubsub:  pubsub,
		loc:     loc,
	}
}

var _ Manager = (*manager)(nil)

// Ref formats the archival key for a season, e.g. "2024-Q1".
func Ref(year, quarter int) string {
	return fmt.Sprintf("%d-Q%d", year, quarter)
}

func (m *manager) Current(now time.Time) Season {
	now = now.In(m.loc)
	quarter := (int(now.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	start := time.Date(now.Year(), startMonth, 1, 0, 0, 0, 0, m.loc)
	next := start.AddDate(0, 3, 0)

	return Season{
		Quarter:       quarter,
		Year:          now.Year(),
		StartDate:     start,
		NextStartDate: next,
		DaysRemaining: int(math.Ceil(next.Sub(now).Hours() / 24)),
	}
}

func (m *manager) ShouldReset(lastReset, now time.Time) bool {
	lastReset = lastReset.In(m.loc)
	now = now.In(m.loc)
	months := (now.Year()-lastReset.Year())*12 + int(now.Month()) - int(lastReset.Month())
	return months >= 3
}

// Reset closes the previous quarter. Each player is archived in its own
// transaction under its own lock, so a crash mid-run leaves a consistent
// prefix and the next invocation picks up the remainder.
func (m *manager) Reset(ctx context.Context, now time.Time) (ResetResult, error) {
	current := m.Current(now)
	// The quarter being closed is the one that ended at the current window's
	// start.
	closing := m.Current(current.StartDate.AddDate(0, 0, -1))
	result := ResetResult{Quarter: closing.Ref()}

	last, ok, err := m.meta.GetLastReset()
	if err != nil {
		return result, err
	}
	if ok && !m.ShouldReset(last, now) {
		log.Info("Season reset not due, skipping", "lastReset", last, "quarter", closing.Ref())
		result.Skipped = true
		return result, nil
	}

	ids, err := m.players.AllIDs()
	if err != nil {
		return result, err
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("season reset interrupted after %d players: %w", result.ArchivedCount, err)
		}

		err := m.ledger.WithPlayerLocks(func() error {
			archived, err := m.ledger.ArchivePlayerSeason(id, closing.Ref())
			if err != nil {
				return err
			}
			if archived {
				result.ArchivedCount++
			}
			return m.players.SetSeasonStart(id, current.StartDate)
		}, id)
		if err != nil {
			return result, fmt.Errorf("failed to archive player %s: %w", id, err)
		}
	}

	if err := m.meta.SetLastReset(now); err != nil {
		return result, err
	}

	m.metrics.IncSeasonResets()
	m.metrics.AddPlayersArchived(result.ArchivedCount)

	if err := m.pubsub.SendMessage(pubsub.TopicSeasonReset, result); err != nil {
		log.Error("Failed to publish season-reset event", "error", err, "quarter", closing.Ref())
	}

	log.Info("Season reset complete", "quarter", closing.Ref(), "archivedPlayers", result.ArchivedCount)
	return result, nil
}

func (m *manager) Stats(playerID string, now time.Time) (Stats, error) {
	p, err := m.players.Get(playerID)
	if err != nil {
		return Stats{}, err
	}

	total, err := m.ledger.BalanceOf(playerID)
	if err != nil {
		return Stats{}, err
	}

	seasonStart := m.Current(now).StartDate

	challenges, err := m.ledger.History(playerID, ledger.HistoryFilter{
		Category: ledger.CategoryChallenge,
		Since:    seasonStart,
	})
	if err != nil {
		return Stats{}, err
	}
	wins := 0
	for _, txn := range challenges {
		if txn.Amount > 0 {
			wins++
		}
	}

	tournaments, err := m.ledger.History(playerID, ledger.HistoryFilter{
		Category: ledger.CategoryTournament,
		Since:    seasonStart,
	})
	if err != nil {
		return Stats{}, err
	}
	rankPoints := 0
	for _, txn := range tournaments {
		rankPoints += txn.Amount
	}

	promotions, err := m.players.PromotionsSince(playerID, seasonStart)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		PlayerID:     playerID,
		TotalPoints:  total,
		RankPoints:   rankPoints,
		TotalMatches: len(challenges),
		Wins:         wins,
		CurrentRank:  p.RankCode,
		Promotions:   promotions,
	}
	if stats.TotalMatches > 0 {
		stats.WinRate = int(math.Floor(float64(stats.Wins)/float64(stats.TotalMatches)*100 + 0.5))
	}
	return stats, nil
}
