package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	ChallengesResolvedCount int
	TournamentAwardsCount   int
	DuplicateAwardsCount    int
	SeasonResetsCount       int
	PlayersArchivedCount    int
	ResolveDurations        []float64
	NotifSentCount          int
	NotifFailedCount        int
	StartupTime             float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncChallengesResolved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChallengesResolvedCount++
}

func (m *Mock) IncTournamentAwards() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TournamentAwardsCount++
}

func (m *Mock) IncDuplicateAwards() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicateAwardsCount++
}

func (m *Mock) IncSeasonResets() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SeasonResetsCount++
}

func (m *Mock) AddPlayersArchived(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlayersArchivedCount += count
}

func (m *Mock) ObserveResolveDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResolveDurations = append(m.ResolveDurations, seconds)
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifSentCount++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifFailedCount++
}

func (m *Mock) SetStartupTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTime = seconds
}
