package ledger

import (
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a new Ledger backed by the given database. loc is the club's
// local time zone used for the daily challenge window; nil means time.Local.
func New(db *sql.DB, loc *time.Location) Ledger {
	if loc == nil {
		loc = time.Local
	}
	return &store{
		db:    db,
		loc:   loc,
		locks: make(map[string]*sync.Mutex),
	}
}

var _ Ledger = (*store)(nil)

func (s *store) playerLock(playerID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[playerID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[playerID] = l
	}
	return l
}

// WithPlayerLocks locks the players in sorted order to avoid lock-order
// inversion when two challenges share a player.
func (s *store) WithPlayerLocks(fn func() error, playerIDs ...string) error {
	ids := append([]string(nil), playerIDs...)
	sort.Strings(ids)
	ids = dedupe(ids)

	// Hold on to the mutexes themselves: re-reading s.locks outside s.mu
	// would race with playerLock inserting entries for other players.
	held := make([]*sync.Mutex, 0, len(ids))
	for _, id := range ids {
		l := s.playerLock(id)
		l.Lock()
		held = append(held, l)
	}
	defer func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}()
	return fn()
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, id := range sorted {
		if i == 0 || sorted[i-1] != id {
			out = append(out, id)
		}
	}
	return out
}

// Commit appends a transaction, relying on the unique index over
// (category, reference_id, player_id) for idempotency. Losing the insert race
// is handled by re-reading the now-existing row, never surfaced to callers.
func (s *store) Commit(playerID string, amount int, category Category, referenceID string) (Transaction, bool, error) {
	txn := Transaction{
		ID:          uuid.New().String(),
		PlayerID:    playerID,
		Amount:      amount,
		Category:    category,
		ReferenceID: referenceID,
		CreatedAt:   time.Now().In(s.loc),
	}

	res, err := s.db.Exec(`
		INSERT INTO points_transactions (id, player_id, amount, category, reference_id, created_at, archived)
		VALUES (?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT(category, reference_id, player_id) DO NOTHING;
	`, txn.ID, txn.PlayerID, txn.Amount, txn.Category, txn.ReferenceID, txn.CreatedAt.Unix())
	if err != nil {
		return Transaction{}, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return Transaction{}, false, fmt.Errorf("failed to read commit result: %w", err)
	}
	if rows == 1 {
		log.Debug("Committed points transaction", "playerID", playerID, "amount", amount, "category", category, "referenceID", referenceID)
		return txn, true, nil
	}

	// Duplicate idempotency key: return the prior transaction unchanged.
	existing, err := s.findByKey(category, referenceID, playerID)
	if err != nil {
		return Transaction{}, false, err
	}
	log.Debug("Duplicate commit short-circuited", "playerID", playerID, "category", category, "referenceID", referenceID)
	return existing, false, nil
}

func (s *store) findByKey(category Category, referenceID, playerID string) (Transaction, error) {
	row := s.db.QueryRow(`
		SELECT id, player_id, amount, category, reference_id, created_at, archived
		FROM points_transactions
		WHERE category = ? AND reference_id = ? AND player_id = ?
	`, category, referenceID, playerID)
	txn, err := s.scanTransaction(row)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to load existing transaction: %w", err)
	}
	return txn, nil
}

func (s *store) BalanceOf(playerID string) (int, error) {
	var balance int
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(amount), 0) FROM points_transactions
		WHERE player_id = ? AND archived = 0
	`, playerID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to compute balance: %w", err)
	}
	return balance, nil
}

func (s *store) History(playerID string, filter HistoryFilter) ([]Transaction, error) {
	query := `
		SELECT id, player_id, amount, category, reference_id, created_at, archived
		FROM points_transactions
		WHERE player_id = ?`
	args := []any{playerID}

	if !filter.IncludeArchived {
		query += " AND archived = 0"
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if !filter.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.Since.Unix())
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var txns []Transaction
	for rows.Next() {
		txn, err := s.scanTransaction(rows)
		if err != nil {
			log.Error("Failed to scan transaction row", "error", err, "playerID", playerID)
			continue
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func (s *store) DailyChallengeCount(playerID string, asOf time.Time) (int, error) {
	dayStart := startOfLocalDay(asOf, s.loc)
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM points_transactions
		WHERE player_id = ? AND category = ? AND archived = 0 AND created_at >= ?
	`, playerID, CategoryChallenge, dayStart.Unix()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count daily challenges: %w", err)
	}
	return count, nil
}

// Leaderboard joins players against their working balances. Players without
// any transactions still appear, at zero.
func (s *store) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	query := `
		SELECT p.id, p.name, p.rank_code, COALESCE(SUM(t.amount), 0) AS points
		FROM players p
		LEFT JOIN points_transactions t ON t.player_id = p.id AND t.archived = 0
		GROUP BY p.id
		ORDER BY points DESC, p.name ASC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		var name sql.NullString
		if err := rows.Scan(&e.PlayerID, &name, &e.RankCode, &e.Points); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		e.Name = name.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func startOfLocalDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// ArchivePlayerSeason runs one short transaction per player so a season reset
// never holds a global lock: mark the working rows archived, then record a
// season_archive summary carrying the net balance. The summary row's
// idempotency key makes a re-run for the same quarter a no-op.
func (s *store) ArchivePlayerSeason(playerID string, quarterRef string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin archive transaction: %w", err)
	}

	var already int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM points_transactions
		WHERE category = ? AND reference_id = ? AND player_id = ?
	`, CategorySeasonArchive, quarterRef, playerID).Scan(&already)
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("failed to check archive state: %w", err)
	}
	if already > 0 {
		tx.Rollback()
		log.Debug("Player already archived for quarter", "playerID", playerID, "quarter", quarterRef)
		return false, nil
	}

	var net int
	err = tx.QueryRow(`
		SELECT COALESCE(SUM(amount), 0) FROM points_transactions
		WHERE player_id = ? AND archived = 0
	`, playerID).Scan(&net)
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("failed to compute season net: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE points_transactions SET archived = 1, season_quarter = ?
		WHERE player_id = ? AND archived = 0
	`, quarterRef, playerID)
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("failed to archive transactions: %w", err)
	}

	// The summary row is born archived: it records history, it must not count
	// toward the new season's working balance.
	_, err = tx.Exec(`
		INSERT INTO points_transactions (id, player_id, amount, category, reference_id, created_at, archived, season_quarter)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?)
		ON CONFLICT(category, reference_id, player_id) DO NOTHING;
	`, uuid.New().String(), playerID, net, CategorySeasonArchive, quarterRef, time.Now().In(s.loc).Unix(), quarterRef)
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("failed to record season archive: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit archive: %w", err)
	}
	log.Info("Archived player season", "playerID", playerID, "quarter", quarterRef, "net", net)
	return true, nil
}

func (s *store) scanTransaction(scanner interface{ Scan(...any) error }) (Transaction, error) {
	var txn Transaction
	var createdAt int64
	var archived int
	err := scanner.Scan(&txn.ID, &txn.PlayerID, &txn.Amount, &txn.Category, &txn.ReferenceID, &createdAt, &archived)
	if err != nil {
		if err == sql.ErrNoRows {
			return Transaction{}, err
		}
		return Transaction{}, fmt.Errorf("failed to scan transaction: %w", err)
	}
	txn.CreatedAt = time.Unix(createdAt, 0).In(s.loc)
	txn.Archived = archived == 1
	return txn, nil
}
