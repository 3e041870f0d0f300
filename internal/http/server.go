package http

import (
	"net/http"

	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/challenge"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/config"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/ledger"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/metrics"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/notifier"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/player"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/season"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/tournament"
)

func NewServer(led ledger.Ledger, players player.Store, matches challenge.MatchStore, resolver *challenge.Resolver, awarder *tournament.Awarder, seasonMgr season.Manager, notifier notifier.Notifier, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Ledger:         led,
		Players:        players,
		Matches:        matches,
		Resolver:       resolver,
		Awarder:        awarder,
		Season:         seasonMgr,
		Notifier:       notifier,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/challenges", Chain(s.CreateChallengeHandler(), paramsMiddleware))
	s.Router.Handle("/challenges/resolve", Chain(s.ResolveChallengeHandler(), paramsMiddleware))
	s.Router.Handle("/tournaments/calculate", Chain(s.CalculateTournamentHandler(), paramsMiddleware))
	s.Router.Handle("/tournaments/award", Chain(s.AwardTournamentHandler(), paramsMiddleware))
	s.Router.Handle("/season", Chain(s.SeasonHandler(), paramsMiddleware))
	s.Router.Handle("/season/reset", Chain(s.SeasonResetHandler(), paramsMiddleware, adminTokenMiddleware(s.Cfg.Admin)))
	s.Router.Handle("/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/players/stats", Chain(s.PlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
