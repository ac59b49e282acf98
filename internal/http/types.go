package http

import (
	"net/http"

	"github.com/sondagsholdet/courtmix/internal/backup"
	"github.com/sondagsholdet/courtmix/internal/config"
	"github.com/sondagsholdet/courtmix/internal/league"
	"github.com/sondagsholdet/courtmix/internal/metrics"
	"github.com/sondagsholdet/courtmix/internal/notifier"
	"github.com/sondagsholdet/courtmix/internal/standings"
)

type Server struct {
	Store          league.LeagueStore
	Engine         *standings.Engine
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Backup         *backup.Manager
	Router         *http.ServeMux
}
