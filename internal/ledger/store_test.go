package ledger_test

import (
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/database"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T, playerIDs ...string) (ledger.Ledger, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	for _, id := range playerIDs {
		_, err := db.Exec(`INSERT INTO players (id, name) VALUES (?, ?)`, id, "Player "+id)
		require.NoError(t, err)
	}

	return ledger.New(db, time.UTC), db, dbTeardown
}

func TestCommitIdempotent(t *testing.T) {
	led, db, teardown := setupTestDB(t, "p1")
	defer teardown()

	first, created, err := led.Commit("p1", 100, ledger.CategoryChallenge, "match-1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 100, first.Amount)

	// A retried commit with the same key must not credit again, even with a
	// different amount in flight.
	second, created, err := led.Commit("p1", 999, ledger.CategoryChallenge, "match-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 100, second.Amount)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM points_transactions").Scan(&count))
	assert.Equal(t, 1, count)

	balance, err := led.BalanceOf("p1")
	require.NoError(t, err)
	assert.Equal(t, 100, balance)
}

func TestCommitSeparateKeysPerPlayer(t *testing.T) {
	led, _, teardown := setupTestDB(t, "winner", "loser")
	defer teardown()

	// Both sides of a match share the reference but have distinct keys.
	_, created, err := led.Commit("winner", 50, ledger.CategoryChallenge, "match-7")
	require.NoError(t, err)
	assert.True(t, created)
	_, created, err = led.Commit("loser", -25, ledger.CategoryChallenge, "match-7")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestBalanceReconciliation(t *testing.T) {
	led, db, teardown := setupTestDB(t, "p1")
	defer teardown()

	amounts := []int{100, -25, 300, -150, 42}
	sum := 0
	for i, amount := range amounts {
		_, _, err := led.Commit("p1", amount, ledger.CategoryChallenge, string(rune('a'+i)))
		require.NoError(t, err)
		sum += amount
	}

	balance, err := led.BalanceOf("p1")
	require.NoError(t, err)
	assert.Equal(t, sum, balance)

	var dbSum int
	require.NoError(t, db.QueryRow("SELECT COALESCE(SUM(amount),0) FROM points_transactions WHERE player_id='p1' AND archived=0").Scan(&dbSum))
	assert.Equal(t, dbSum, balance)
}

func TestConcurrentCommitsSameKey(t *testing.T) {
	led, db, teardown := setupTestDB(t, "p1")
	defer teardown()

	const n = 16
	var wg sync.WaitGroup
	createdCount := make(chan bool, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created, err := led.Commit("p1", 100, ledger.CategoryTournament, "tourn-1")
			assert.NoError(t, err)
			createdCount <- created
		}()
	}
	wg.Wait()
	close(createdCount)

	creates := 0
	for c := range createdCount {
		if c {
			creates++
		}
	}
	assert.Equal(t, 1, creates, "exactly one commit should win the insert race")

	var rows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM points_transactions").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestDailyChallengeCount(t *testing.T) {
	led, db, teardown := setupTestDB(t, "p1")
	defer teardown()

	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	today := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	yesterday := time.Date(2024, 5, 9, 23, 0, 0, 0, time.UTC)

	insert := func(id string, createdAt time.Time, category string) {
		_, err := db.Exec(`
			INSERT INTO points_transactions (id, player_id, amount, category, reference_id, created_at, archived)
			VALUES (?, 'p1', 10, ?, ?, ?, 0)`, id, category, "ref-"+id, createdAt.Unix())
		require.NoError(t, err)
	}

	insert("t1", today, "challenge")
	insert("t2", today, "challenge")
	insert("t3", yesterday, "challenge")
	insert("t4", today, "tournament")

	count, err := led.DailyChallengeCount("p1", now)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, ledger.Multiplier(0))
	assert.Equal(t, 1.0, ledger.Multiplier(1))
	assert.Equal(t, 0.3, ledger.Multiplier(2))
	assert.Equal(t, 0.3, ledger.Multiplier(5))
}

func TestHistory(t *testing.T) {
	led, db, teardown := setupTestDB(t, "p1")
	defer teardown()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	insert := func(id string, createdAt time.Time, category string, archived int) {
		_, err := db.Exec(`
			INSERT INTO points_transactions (id, player_id, amount, category, reference_id, created_at, archived)
			VALUES (?, 'p1', 10, ?, ?, ?, ?)`, id, category, "ref-"+id, createdAt.Unix(), archived)
		require.NoError(t, err)
	}

	insert("old", base, "challenge", 0)
	insert("mid", base.Add(time.Hour), "tournament", 0)
	insert("new", base.Add(2*time.Hour), "challenge", 0)
	insert("cold", base.Add(3*time.Hour), "challenge", 1)

	txns, err := led.History("p1", ledger.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.Equal(t, "new", txns[0].ID, "history should be newest first")
	assert.Equal(t, "old", txns[2].ID)

	txns, err = led.History("p1", ledger.HistoryFilter{Category: ledger.CategoryChallenge})
	require.NoError(t, err)
	assert.Len(t, txns, 2)

	txns, err = led.History("p1", ledger.HistoryFilter{Since: base.Add(30 * time.Minute)})
	require.NoError(t, err)
	assert.Len(t, txns, 2)

	txns, err = led.History("p1", ledger.HistoryFilter{IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, txns, 4)
}

func TestLeaderboard(t *testing.T) {
	led, _, teardown := setupTestDB(t, "p1", "p2", "p3")
	defer teardown()

	_, _, err := led.Commit("p1", 100, ledger.CategoryChallenge, "m1")
	require.NoError(t, err)
	_, _, err = led.Commit("p2", 300, ledger.CategoryTournament, "t1")
	require.NoError(t, err)

	entries, err := led.Leaderboard(0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "p2", entries[0].PlayerID)
	assert.Equal(t, 300, entries[0].Points)
	assert.Equal(t, "p1", entries[1].PlayerID)
	assert.Equal(t, 0, entries[2].Points, "players without transactions rank at zero")

	top, err := led.Leaderboard(1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "p2", top[0].PlayerID)
}

func TestArchivePlayerSeason(t *testing.T) {
	led, db, teardown := setupTestDB(t, "p1")
	defer teardown()

	_, _, err := led.Commit("p1", 120, ledger.CategoryChallenge, "m1")
	require.NoError(t, err)
	_, _, err = led.Commit("p1", -20, ledger.CategoryChallenge, "m2")
	require.NoError(t, err)

	archived, err := led.ArchivePlayerSeason("p1", "2024-Q1")
	require.NoError(t, err)
	assert.True(t, archived)

	// Working balance resets to zero, history is retained.
	balance, err := led.BalanceOf("p1")
	require.NoError(t, err)
	assert.Equal(t, 0, balance)

	var summaryAmount int
	err = db.QueryRow(`
		SELECT amount FROM points_transactions
		WHERE player_id='p1' AND category='season_archive' AND reference_id='2024-Q1'
	`).Scan(&summaryAmount)
	require.NoError(t, err)
	assert.Equal(t, 100, summaryAmount)

	all, err := led.History("p1", ledger.HistoryFilter{IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Re-running the archive for the same quarter is a safe no-op.
	archived, err = led.ArchivePlayerSeason("p1", "2024-Q1")
	require.NoError(t, err)
	assert.False(t, archived)

	var rows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM points_transactions WHERE player_id='p1'").Scan(&rows))
	assert.Equal(t, 3, rows)
}

func TestWithPlayerLocksSerializes(t *testing.T) {
	led, _, teardown := setupTestDB(t, "p1")
	defer teardown()

	var inCritical int
	var maxInCritical int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := led.WithPlayerLocks(func() error {
				mu.Lock()
				inCritical++
				if inCritical > maxInCritical {
					maxInCritical = inCritical
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inCritical--
				mu.Unlock()
				return nil
			}, "p1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxInCritical, "the per-player lock must serialize critical sections")
}

// Distinct players lazily create distinct lock entries; acquiring and
// releasing them concurrently must not touch the lock map unsynchronized.
// Run with -race.
func TestWithPlayerLocksConcurrentPlayers(t *testing.T) {
	led, _, teardown := setupTestDB(t)
	defer teardown()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := "p" + string(rune('a'+n))
			err := led.WithPlayerLocks(func() error {
				time.Sleep(time.Millisecond)
				return nil
			}, id, "shared")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}
