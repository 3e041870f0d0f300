package player

import (
	"sync"
	"time"
)

// Mock is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertPlayerFunc    func(playerID, name, rankCode string) error
	UpsertPlayersFunc   func(players []Info) error
	GetFunc             func(playerID string) (Info, error)
	GetAllFunc          func() ([]Info, error)
	AllIDsFunc          func() ([]string, error)
	IsKnownPlayerFunc   func(playerID string) bool
	SetRankFunc         func(playerID, newRank string) error
	PromotionsSinceFunc func(playerID string, since time.Time) (int, error)
	SetSeasonStartFunc  func(playerID string, start time.Time) error

	// Call records
	SetRankCalls []struct {
		PlayerID string
		NewRank  string
	}
	SetSeasonStartCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) UpsertPlayer(playerID, name, rankCode string) error {
	if m.UpsertPlayerFunc != nil {
		return m.UpsertPlayerFunc(playerID, name, rankCode)
	}
	return nil
}

func (m *Mock) UpsertPlayers(players []Info) error {
	if m.UpsertPlayersFunc != nil {
		return m.UpsertPlayersFunc(players)
	}
	return nil
}

func (m *Mock) Get(playerID string) (Info, error) {
	if m.GetFunc != nil {
		return m.GetFunc(playerID)
	}
	return Info{ID: playerID, RankCode: "K"}, nil
}

func (m *Mock) GetAll() ([]Info, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc()
	}
	return nil, nil
}

func (m *Mock) AllIDs() ([]string, error) {
	if m.AllIDsFunc != nil {
		return m.AllIDsFunc()
	}
	return nil, nil
}

func (m *Mock) IsKnownPlayer(playerID string) bool {
	if m.IsKnownPlayerFunc != nil {
		return m.IsKnownPlayerFunc(playerID)
	}
	return true
}

func (m *Mock) SetRank(playerID, newRank string) error {
	m.mu.Lock()
	m.SetRankCalls = append(m.SetRankCalls, struct {
		PlayerID string
		NewRank  string
	}{playerID, newRank})
	m.mu.Unlock()
	if m.SetRankFunc != nil {
		return m.SetRankFunc(playerID, newRank)
	}
	return nil
}

func (m *Mock) PromotionsSince(playerID string, since time.Time) (int, error) {
	if m.PromotionsSinceFunc != nil {
		return m.PromotionsSinceFunc(playerID, since)
	}
	return 0, nil
}

func (m *Mock) SetSeasonStart(playerID string, start time.Time) error {
	m.mu.Lock()
	m.SetSeasonStartCalls = append(m.SetSeasonStartCalls, playerID)
	m.mu.Unlock()
	if m.SetSeasonStartFunc != nil {
		return m.SetSeasonStartFunc(playerID, start)
	}
	return nil
}
