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

type Server struct {
	Ledger         ledger.Ledger
	Players        player.Store
	Matches        challenge.MatchStore
	Resolver       *challenge.Resolver
	Awarder        *tournament.Awarder
	Season         season.Manager
	Notifier       notifier.Notifier
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}
