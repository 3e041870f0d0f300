package season

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const lastResetKey = "last_season_reset"

// NewMetaStore creates a MetaStore backed by the season_meta table.
func NewMetaStore(db *sql.DB) MetaStore {
	return &metaStore{db: db}
}

var _ MetaStore = (*metaStore)(nil)

func (s *metaStore) GetLastReset() (time.Time, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM season_meta WHERE key = ?`, lastResetKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read last reset: %w", err)
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse last reset %q: %w", value, err)
	}
	return t, true, nil
}

func (s *metaStore) SetLastReset(t time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO season_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		lastResetKey, t.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to store last reset: %w", err)
	}
	return nil
}
