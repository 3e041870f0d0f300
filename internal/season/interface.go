package season

import (
	"context"
	"time"
)

// Manager owns the quarterly season lifecycle: window math, the archival
// reset at quarter boundaries, and per-player season summaries.
type Manager interface {
	// Current returns the season window containing now.
	Current(now time.Time) Season
	// ShouldReset reports whether a quarter boundary has passed since the last
	// reset. The comparison is by calendar month, not elapsed days.
	ShouldReset(lastReset, now time.Time) bool
	// Reset archives every player's working transactions into the closing
	// quarter. It is resumable: players already archived for the quarter are
	// skipped, and a cancelled run can be re-invoked to finish the rest.
	Reset(ctx context.Context, now time.Time) (ResetResult, error)
	// Stats summarises a player's current season.
	Stats(playerID string, now time.Time) (Stats, error)
}
