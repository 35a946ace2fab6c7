package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterTurns              *prometheus.CounterVec
	CounterSessionsOpened     prometheus.Counter
	CounterSessionsClosed     prometheus.Counter
	CounterExercisesAppended  *prometheus.CounterVec
	CounterHandleUpdatePanics prometheus.Counter
	CounterDroppedUpdates     prometheus.Counter

	// gauges
	GaugeActiveMailboxes prometheus.Gauge

	// histograms
	HistTurnDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("fitness", "test_bot", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitness", "test_bot", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterTurns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "turns_total",
			Help:      "The total number of processed user turns",
		}, []string{"state", "outcome"}),
		CounterSessionsOpened: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sessions_opened_total",
			Help:      "The total number of opened training sessions",
		}),
		CounterSessionsClosed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sessions_closed_total",
			Help:      "The total number of closed training sessions",
		}),
		CounterExercisesAppended: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "exercises_appended_total",
			Help:      "The total number of committed exercises",
		}, []string{"kind"}),
		CounterHandleUpdatePanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "handle_update_panic",
			Help:      "The total number of recovered panics while handling updates",
		}),
		CounterDroppedUpdates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dropped_updates_total",
			Help:      "The total number of updates dropped because the user's mailbox was full",
		}),
		GaugeActiveMailboxes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active_mailboxes",
			Help:      "Current number of users with a running turn worker",
		}),
		HistTurnDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "turn_duration_seconds",
			Help:      "Duration of a single user turn in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}
