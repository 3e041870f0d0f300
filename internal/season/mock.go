package season

import (
	"context"
	"sync"
	"time"
)

// Mock is a mock implementation of the Manager interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	CurrentFunc     func(now time.Time) Season
	ShouldResetFunc func(lastReset, now time.Time) bool
	ResetFunc       func(ctx context.Context, now time.Time) (ResetResult, error)
	StatsFunc       func(playerID string, now time.Time) (Stats, error)

	// Call records
	ResetCalls int
	StatsCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Current(now time.Time) Season {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(now)
	}
	quarter := (int(now.Month())-1)/3 + 1
	return Season{Quarter: quarter, Year: now.Year()}
}

func (m *Mock) ShouldReset(lastReset, now time.Time) bool {
	if m.ShouldResetFunc != nil {
		return m.ShouldResetFunc(lastReset, now)
	}
	return false
}

func (m *Mock) Reset(ctx context.Context, now time.Time) (ResetResult, error) {
	m.mu.Lock()
	m.ResetCalls++
	m.mu.Unlock()
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, now)
	}
	return ResetResult{}, nil
}

func (m *Mock) Stats(playerID string, now time.Time) (Stats, error) {
	m.mu.Lock()
	m.StatsCalls = append(m.StatsCalls, playerID)
	m.mu.Unlock()
	if m.StatsFunc != nil {
		return m.StatsFunc(playerID, now)
	}
	return Stats{PlayerID: playerID}, nil
}
