package binder

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for binding passes and
// request-time validation. A nil *Metrics records nothing.
type Metrics struct {
	BindPasses     *prometheus.CounterVec
	BindDuration   prometheus.Histogram
	BoundModels    prometheus.Gauge
	Validations    *prometheus.CounterVec
	TableRebuilds  prometheus.Counter
	RebuildErrors  prometheus.Counter
	LastRebuildSec prometheus.Gauge
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		BindPasses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gqlbind",
				Name:      "bind_passes_total",
				Help:      "Total number of binding passes by result",
			},
			[]string{"result"},
		),
		BindDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "gqlbind",
				Name:      "bind_duration_seconds",
				Help:      "Binding pass duration in seconds",
				Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
			},
		),
		BoundModels: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "gqlbind",
				Name:      "bound_models",
				Help:      "Number of models in the last published table",
			},
		),
		Validations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gqlbind",
				Name:      "validations_total",
				Help:      "Total number of validated values by type and result",
			},
			[]string{"gql_type", "result"},
		),
		TableRebuilds: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "gqlbind",
				Name:      "table_rebuilds_total",
				Help:      "Total number of table rebuilds",
			},
		),
		RebuildErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "gqlbind",
				Name:      "table_rebuild_errors_total",
				Help:      "Total number of failed table rebuilds",
			},
		),
		LastRebuildSec: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "gqlbind",
				Name:      "table_last_rebuild_timestamp_seconds",
				Help:      "Unix time of the last successful table rebuild",
			},
		),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) observePass(d time.Duration, models int, err error) {
	if m == nil {
		return
	}
	m.BindPasses.WithLabelValues(result(err)).Inc()
	m.BindDuration.Observe(d.Seconds())
	if err == nil {
		m.BoundModels.Set(float64(models))
	}
}

func (m *Metrics) observeValidation(gqlType string, err error) {
	if m == nil {
		return
	}
	m.Validations.WithLabelValues(gqlType, result(err)).Inc()
}

func (m *Metrics) observeRebuild(err error) {
	if m == nil {
		return
	}
	m.TableRebuilds.Inc()
	if err != nil {
		m.RebuildErrors.Inc()
		return
	}
	m.LastRebuildSec.SetToCurrentTime()
}
