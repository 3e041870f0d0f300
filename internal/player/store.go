package player

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new player Store.
func New(db *sql.DB) Store {
	return &store{db: db}
}

var _ Store = (*store)(nil)

func (s *store) UpsertPlayer(playerID, name, rankCode string) error {
	_, err := s.db.Exec(`
		INSERT INTO players (id, name, rank_code) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name;
	`, playerID, name, rankCode)
	if err != nil {
		return fmt.Errorf("failed to upsert player %s: %w", playerID, err)
	}
	return nil
}

func (s *store) UpsertPlayers(players []Info) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	// Rank is only seeded on insert; rank changes go through SetRank so the
	// history stays complete.
	stmt, err := tx.Prepare(`
		INSERT INTO players (id, name, rank_code) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name;
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		rankCode := p.RankCode
		if rankCode == "" {
			rankCode = "K"
		}
		if _, err := stmt.Exec(p.ID, p.Name, rankCode); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (s *store) Get(playerID string) (Info, error) {
	row := s.db.QueryRow("SELECT id, name, rank_code, season_start FROM players WHERE id = ?", playerID)
	info, err := scanPlayer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Info{}, ErrNotFound
		}
		return Info{}, fmt.Errorf("failed to get player %s: %w", playerID, err)
	}
	return info, nil
}

func (s *store) GetAll() ([]Info, error) {
	rows, err := s.db.Query("SELECT id, name, rank_code, season_start FROM players ORDER BY name")
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, err
	}
	defer rows.Close()

	var players []Info
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *store) AllIDs() ([]string, error) {
	rows, err := s.db.Query("SELECT id FROM players ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query player ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *store) IsKnownPlayer(playerID string) bool {
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", playerID)
		return false
	}
	return exists
}

func (s *store) SetRank(playerID, newRank string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	var oldRank string
	err = tx.QueryRow("SELECT rank_code FROM players WHERE id = ?", playerID).Scan(&oldRank)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read current rank: %w", err)
	}

	if oldRank == newRank {
		tx.Rollback()
		return nil
	}

	if _, err := tx.Exec("UPDATE players SET rank_code = ? WHERE id = ?", newRank, playerID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update rank: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO rank_history (player_id, old_rank, new_rank, changed_at)
		VALUES (?, ?, ?, ?)
	`, playerID, oldRank, newRank, time.Now().Unix()); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record rank change: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Player rank changed", "playerID", playerID, "from", oldRank, "to", newRank)
	return nil
}

func (s *store) PromotionsSince(playerID string, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM rank_history
		WHERE player_id = ? AND changed_at >= ? AND old_rank != new_rank
	`, playerID, since.Unix()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count promotions: %w", err)
	}
	return count, nil
}

func (s *store) SetSeasonStart(playerID string, start time.Time) error {
	_, err := s.db.Exec("UPDATE players SET season_start = ? WHERE id = ?", start.Unix(), playerID)
	if err != nil {
		return fmt.Errorf("failed to set season start: %w", err)
	}
	return nil
}

func scanPlayer(scanner interface{ Scan(...any) error }) (Info, error) {
	var p Info
	var name sql.NullString
	var seasonStart int64
	if err := scanner.Scan(&p.ID, &name, &p.RankCode, &seasonStart); err != nil {
		return Info{}, err
	}
	p.Name = name.String // handle NULL name from db
	if seasonStart > 0 {
		p.SeasonStart = time.Unix(seasonStart, 0)
	}
	return p, nil
}
