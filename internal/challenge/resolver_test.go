package challenge_test

import (
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/challenge"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/database"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/ledger"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/metrics"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/player"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolverFixture struct {
	resolver *challenge.Resolver
	matches  challenge.MatchStore
	ledger   ledger.Ledger
	players  player.Store
	metrics  *metrics.Mock
	pubsub   *pubsub.MockPubSubClient
	db       *sql.DB
}

func setupResolver(t *testing.T) (*resolverFixture, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	players := player.New(db)
	require.NoError(t, players.UpsertPlayers([]player.Info{
		{ID: "winner", Name: "Winner", RankCode: "H"},
		{ID: "loser", Name: "Loser", RankCode: "H"},
		{ID: "novice", Name: "Novice", RankCode: "K"},
	}))

	led := ledger.New(db, time.UTC)
	matches := challenge.NewStore(db)
	metricsMock := metrics.NewMock()
	pubsubMock := pubsub.NewMock("TEST")

	return &resolverFixture{
		resolver: challenge.NewResolver(matches, led, players, metricsMock, pubsubMock),
		matches:  matches,
		ledger:   led,
		players:  players,
		metrics:  metricsMock,
		pubsub:   pubsubMock,
		db:       db,
	}, dbTeardown
}

func TestResolve(t *testing.T) {
	f, teardown := setupResolver(t)
	defer teardown()

	match, err := f.matches.Create("winner", "loser", 100)
	require.NoError(t, err)

	result, err := f.resolver.Resolve(match.ID, "winner", "loser", 100)
	require.NoError(t, err)
	assert.Equal(t, 100, result.WinnerPoints)
	assert.Equal(t, -50, result.LoserPoints)
	assert.Equal(t, 0, result.DailyCount)
	assert.Equal(t, 1.0, result.Multiplier)

	winnerBalance, err := f.ledger.BalanceOf("winner")
	require.NoError(t, err)
	assert.Equal(t, 100, winnerBalance)
	loserBalance, err := f.ledger.BalanceOf("loser")
	require.NoError(t, err)
	assert.Equal(t, -50, loserBalance)

	resolved, err := f.matches.Get(match.ID)
	require.NoError(t, err)
	assert.Equal(t, challenge.StatusCompleted, resolved.Status)
	assert.Equal(t, "winner", resolved.WinnerID)
	assert.Equal(t, "loser", resolved.LoserID)

	assert.Equal(t, 1, f.metrics.ChallengesResolvedCount)
	require.Len(t, f.pubsub.SendMessageCalls, 1)
	assert.Equal(t, pubsub.TopicChallengeResolved, f.pubsub.SendMessageCalls[0].Topic)
}

func TestResolveRetryReportsCommittedAmounts(t *testing.T) {
	f, teardown := setupResolver(t)
	defer teardown()

	match, err := f.matches.Create("winner", "loser", 100)
	require.NoError(t, err)

	// An earlier challenge today plus a resolution that crashed after both
	// commits but before the status flip. The retry's daily count now
	// includes the first attempt's own transaction.
	_, _, err = f.ledger.Commit("winner", 80, ledger.CategoryChallenge, "earlier-match")
	require.NoError(t, err)
	_, _, err = f.ledger.Commit("winner", 100, ledger.CategoryChallenge, match.ID)
	require.NoError(t, err)
	_, _, err = f.ledger.Commit("loser", -50, ledger.CategoryChallenge, match.ID)
	require.NoError(t, err)

	result, err := f.resolver.Resolve(match.ID, "winner", "loser", 100)
	require.NoError(t, err)

	// The retry must report the amounts the ledger kept, not a recomputation
	// under the inflated daily count.
	assert.Equal(t, 100, result.WinnerPoints)
	assert.Equal(t, -50, result.LoserPoints)

	winnerBalance, err := f.ledger.BalanceOf("winner")
	require.NoError(t, err)
	assert.Equal(t, 180, winnerBalance)
	loserBalance, err := f.ledger.BalanceOf("loser")
	require.NoError(t, err)
	assert.Equal(t, -50, loserBalance)
}

func TestResolveRankGapBonus(t *testing.T) {
	f, teardown := setupResolver(t)
	defer teardown()

	// H beats K: positive rank gap, the bonus applies.
	match, err := f.matches.Create("winner", "novice", 100)
	require.NoError(t, err)

	result, err := f.resolver.Resolve(match.ID, "winner", "novice", 100)
	require.NoError(t, err)
	assert.Equal(t, 125, result.WinnerPoints)

	// K beats H: negative gap, no bonus.
	match2, err := f.matches.Create("novice", "loser", 100)
	require.NoError(t, err)
	result2, err := f.resolver.Resolve(match2.ID, "novice", "loser", 100)
	require.NoError(t, err)
	assert.Equal(t, 100, result2.WinnerPoints)
}

func TestResolveDailyDiscount(t *testing.T) {
	f, teardown := setupResolver(t)
	defer teardown()

	// Two challenge transactions already today trip the anti-farming limit.
	for _, ref := range []string{"earlier-1", "earlier-2"} {
		_, _, err := f.ledger.Commit("winner", 10, ledger.CategoryChallenge, ref)
		require.NoError(t, err)
	}

	match, err := f.matches.Create("winner", "loser", 100)
	require.NoError(t, err)

	result, err := f.resolver.Resolve(match.ID, "winner", "loser", 100)
	require.NoError(t, err)
	assert.Equal(t, 2, result.DailyCount)
	assert.Equal(t, 0.3, result.Multiplier)
	assert.Equal(t, 30, result.WinnerPoints)
	assert.Equal(t, -15, result.LoserPoints)
}

func TestResolveInvalidWager(t *testing.T) {
	f, teardown := setupResolver(t)
	defer teardown()

	match, err := f.matches.Create("winner", "loser", 100)
	require.NoError(t, err)

	_, err = f.resolver.Resolve(match.ID, "winner", "loser", 0)
	assert.ErrorIs(t, err, challenge.ErrInvalidWager)
	_, err = f.resolver.Resolve(match.ID, "winner", "loser", -5)
	assert.ErrorIs(t, err, challenge.ErrInvalidWager)
}

func TestResolveUnknownMatch(t *testing.T) {
	f, teardown := setupResolver(t)
	defer teardown()

	_, err := f.resolver.Resolve("no-such-match", "winner", "loser", 100)
	assert.ErrorIs(t, err, challenge.ErrNotFound)
}

func TestResolveNotParticipant(t *testing.T) {
	f, teardown := setupResolver(t)
	defer teardown()

	match, err := f.matches.Create("winner", "loser", 100)
	require.NoError(t, err)

	_, err = f.resolver.Resolve(match.ID, "winner", "novice", 100)
	assert.ErrorIs(t, err, challenge.ErrNotParticipant)
	_, err = f.resolver.Resolve(match.ID, "winner", "winner", 100)
	assert.ErrorIs(t, err, challenge.ErrNotParticipant)
}

func TestResolveExactlyOnce(t *testing.T) {
	f, teardown := setupResolver(t)
	defer teardown()

	match, err := f.matches.Create("winner", "loser", 100)
	require.NoError(t, err)

	_, err = f.resolver.Resolve(match.ID, "winner", "loser", 100)
	require.NoError(t, err)

	_, err = f.resolver.Resolve(match.ID, "winner", "loser", 100)
	assert.ErrorIs(t, err, challenge.ErrAlreadyResolved)

	// Swapping the outcome after completion is refused too.
	_, err = f.resolver.Resolve(match.ID, "loser", "winner", 100)
	assert.ErrorIs(t, err, challenge.ErrAlreadyResolved)

	var txns int
	require.NoError(t, f.db.QueryRow("SELECT COUNT(*) FROM points_transactions").Scan(&txns))
	assert.Equal(t, 2, txns, "one winner and one loser transaction")
}

func TestResolveConcurrent(t *testing.T) {
	f, teardown := setupResolver(t)
	defer teardown()

	match, err := f.matches.Create("winner", "loser", 100)
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.resolver.Resolve(match.ID, "winner", "loser", 100)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, challenge.ErrAlreadyResolved)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one resolution should win")

	var txns int
	require.NoError(t, f.db.QueryRow("SELECT COUNT(*) FROM points_transactions").Scan(&txns))
	assert.Equal(t, 2, txns)

	winnerBalance, err := f.ledger.BalanceOf("winner")
	require.NoError(t, err)
	assert.Equal(t, 100, winnerBalance)
}
