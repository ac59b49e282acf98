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

func NewServer(store league.LeagueStore, engine *standings.Engine, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, backupMgr *backup.Manager) *Server {
	server := &Server{
		Store:          store,
		Engine:         engine,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Backup:         backupMgr,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.PlayersHandler(), paramsMiddleware))
	s.Router.Handle("/attendance", Chain(s.AttendanceHandler(), paramsMiddleware))
	s.Router.Handle("/plan-round", Chain(s.PlanRoundHandler(), paramsMiddleware))
	s.Router.Handle("/round", Chain(s.RoundHandler(), paramsMiddleware))
	s.Router.Handle("/record-winner", Chain(s.RecordWinnerHandler(), paramsMiddleware))
	s.Router.Handle("/close-round", Chain(s.CloseRoundHandler(), paramsMiddleware))
	s.Router.Handle("/archive", Chain(s.ArchiveHandler(), paramsMiddleware))
	s.Router.Handle("/standings", Chain(s.StandingsHandler(), paramsMiddleware))
	s.Router.Handle("/rival", Chain(s.RivalBadgeHandler(), paramsMiddleware))
	s.Router.Handle("/rivals", Chain(s.PlayerRivalsHandler(), paramsMiddleware))
	s.Router.Handle("/mvp", Chain(s.MVPHandler(), paramsMiddleware))
	s.Router.Handle("/backup/export", Chain(s.BackupExportHandler(), paramsMiddleware))
	s.Router.Handle("/backup/import", Chain(s.BackupImportHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
