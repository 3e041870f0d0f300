package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// Service implements Metrics on top of Prometheus collectors.
type Service struct {
	ChallengesResolved prometheus.Counter
	TournamentAwards   prometheus.Counter
	DuplicateAwards    prometheus.Counter
	SeasonResets       prometheus.Counter
	PlayersArchived    prometheus.Counter
	ResolveDuration    prometheus.Histogram
	NotifSent          prometheus.Counter
	NotifFailed        prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ChallengesResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spa_challenges_resolved_total",
			Help: "The total number of challenge matches resolved.",
		}),
		TournamentAwards: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spa_tournament_awards_total",
			Help: "The total number of tournament placement awards committed.",
		}),
		DuplicateAwards: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spa_duplicate_awards_total",
			Help: "The total number of award attempts short-circuited by the idempotency key.",
		}),
		SeasonResets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spa_season_resets_total",
			Help: "The total number of season resets performed.",
		}),
		PlayersArchived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spa_season_players_archived_total",
			Help: "The total number of player seasons archived at reset.",
		}),
		ResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "spa_challenge_resolve_duration_seconds",
			Help:    "The duration of individual challenge resolutions.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spa_notifications_sent_total",
			Help: "The total number of notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spa_notifications_failed_total",
			Help: "The total number of notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spa_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ChallengesResolved,
		s.TournamentAwards,
		s.DuplicateAwards,
		s.SeasonResets,
		s.PlayersArchived,
		s.ResolveDuration,
		s.NotifSent,
		s.NotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncChallengesResolved() {
	s.ChallengesResolved.Inc()
}

func (s *Service) IncTournamentAwards() {
	s.TournamentAwards.Inc()
}

func (s *Service) IncDuplicateAwards() {
	s.DuplicateAwards.Inc()
}

func (s *Service) IncSeasonResets() {
	s.SeasonResets.Inc()
}

func (s *Service) AddPlayersArchived(count int) {
	s.PlayersArchived.Add(float64(count))
}

func (s *Service) ObserveResolveDuration(seconds float64) {
	s.ResolveDuration.Observe(seconds)
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupTimeSeconds.Set(seconds)
}
