package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

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
		RoundsPlanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_rounds_planned_total",
			Help: "The total number of rounds planned.",
		}),
		RoundsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_rounds_closed_total",
			Help: "The total number of rounds closed and committed to the archive.",
		}),
		WinnersRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_winners_recorded_total",
			Help: "The total number of match winners recorded.",
		}),
		PlanningDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "league_round_planning_duration_seconds",
			Help:    "The duration of individual round planning runs.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "league_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RoundsPlanned,
		s.RoundsClosed,
		s.WinnersRecorded,
		s.PlanningDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncRoundsPlanned() {
	s.RoundsPlanned.Inc()
}

func (s *Service) IncRoundsClosed() {
	s.RoundsClosed.Inc()
}

func (s *Service) IncWinnersRecorded() {
	s.WinnersRecorded.Inc()
}

func (s *Service) ObservePlanningDuration(duration float64) {
	s.PlanningDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
