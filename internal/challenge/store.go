package challenge

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// MatchStore defines the database operations for challenge matches.
type MatchStore interface {
	Create(challengerID, opponentID string, wagerPoints int) (Match, error)
	Get(matchID string) (Match, error)
	ListPending() ([]Match, error)
	// CompleteAtomically flips the match from pending to completed. Returns
	// false when the match was not pending, which makes completion
	// exactly-once under concurrent resolution attempts.
	CompleteAtomically(matchID, winnerID, loserID string) (bool, error)
}

// NewStore creates a new challenge MatchStore.
func NewStore(db *sql.DB) MatchStore {
	return &store{db: db}
}

var _ MatchStore = (*store)(nil)

func (s *store) Create(challengerID, opponentID string, wagerPoints int) (Match, error) {
	if wagerPoints <= 0 {
		return Match{}, ErrInvalidWager
	}

	m := Match{
		ID:           uuid.New().String(),
		ChallengerID: challengerID,
		OpponentID:   opponentID,
		WagerPoints:  wagerPoints,
		Status:       StatusPending,
		CreatedAt:    time.Now(),
	}

	_, err := s.db.Exec(`
		INSERT INTO challenge_matches (id, challenger_id, opponent_id, wager_points, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.ID, m.ChallengerID, m.OpponentID, m.WagerPoints, m.Status, m.CreatedAt.Unix())
	if err != nil {
		return Match{}, fmt.Errorf("failed to create challenge match: %w", err)
	}

	log.Info("Created challenge match", "matchID", m.ID, "challenger", challengerID, "opponent", opponentID, "wager", wagerPoints)
	return m, nil
}

func (s *store) Get(matchID string) (Match, error) {
	row := s.db.QueryRow(`
		SELECT id, challenger_id, opponent_id, wager_points, status, winner_id, loser_id, created_at, resolved_at
		FROM challenge_matches WHERE id = ?
	`, matchID)
	m, err := scanMatch(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Match{}, ErrNotFound
		}
		return Match{}, fmt.Errorf("failed to get challenge match: %w", err)
	}
	return m, nil
}

func (s *store) ListPending() ([]Match, error) {
	rows, err := s.db.Query(`
		SELECT id, challenger_id, opponent_id, wager_points, status, winner_id, loser_id, created_at, resolved_at
		FROM challenge_matches WHERE status = ? ORDER BY created_at DESC
	`, StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending matches: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan challenge match row", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *store) CompleteAtomically(matchID, winnerID, loserID string) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE challenge_matches
		SET status = ?, winner_id = ?, loser_id = ?, resolved_at = ?
		WHERE id = ? AND status = ?
	`, StatusCompleted, winnerID, loserID, time.Now().Unix(), matchID, StatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to complete match: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func scanMatch(scanner interface{ Scan(...any) error }) (Match, error) {
	var m Match
	var winnerID, loserID sql.NullString
	var createdAt int64
	var resolvedAt sql.NullInt64

	err := scanner.Scan(&m.ID, &m.ChallengerID, &m.OpponentID, &m.WagerPoints, &m.Status, &winnerID, &loserID, &createdAt, &resolvedAt)
	if err != nil {
		return Match{}, err
	}
	m.WinnerID = winnerID.String
	m.LoserID = loserID.String
	m.CreatedAt = time.Unix(createdAt, 0)
	if resolvedAt.Valid {
		m.ResolvedAt = time.Unix(resolvedAt.Int64, 0)
	}
	return m, nil
}
