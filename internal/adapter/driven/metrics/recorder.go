// Package metrics implements the RunObserver port with Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ericfisherdev/spexpiry/internal/domain/model"
	"github.com/ericfisherdev/spexpiry/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RunObserver = (*Recorder)(nil)

// Recorder exports run and delivery outcomes.
type Recorder struct {
	runsTotal          *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	runDuration        prometheus.Histogram
	applications       prometheus.Gauge
	expiring           prometheus.Gauge
	lastRun            prometheus.Gauge
	lastSuccess        prometheus.Gauge
}

// NewRecorder creates a Recorder and registers its collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spexpiry_runs_total",
			Help: "Total number of check runs by result.",
		}, []string{"result"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spexpiry_notifications_total",
			Help: "Total number of notification deliveries by sink and result.",
		}, []string{"sink", "result"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "spexpiry_run_duration_seconds",
			Help:    "Duration of check runs in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		applications: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spexpiry_applications",
			Help: "Applications returned by the directory on the last successful run.",
		}),
		expiring: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spexpiry_expiring_credentials",
			Help: "Credentials on the warning schedule on the last successful run.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spexpiry_last_run_timestamp_seconds",
			Help: "Unix time the last run started.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spexpiry_last_success_timestamp_seconds",
			Help: "Unix time the last run with a successful directory fetch started.",
		}),
	}

	reg.MustRegister(
		r.runsTotal,
		r.notificationsTotal,
		r.runDuration,
		r.applications,
		r.expiring,
		r.lastRun,
		r.lastSuccess,
	)

	return r
}

// ObserveRun records the outcome of one run.
func (r *Recorder) ObserveRun(report model.RunReport) {
	r.lastRun.Set(float64(report.StartedAt.Unix()))
	r.runDuration.Observe(report.Duration.Seconds())

	if !report.OK() {
		r.runsTotal.WithLabelValues("fetch_error").Inc()
		return
	}

	r.runsTotal.WithLabelValues("ok").Inc()
	r.lastSuccess.Set(float64(report.StartedAt.Unix()))
	r.applications.Set(float64(report.Applications))
	r.expiring.Set(float64(len(report.Expiring)))
}

// ObserveDelivery records one notification attempt.
func (r *Recorder) ObserveDelivery(sink string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.notificationsTotal.WithLabelValues(sink, result).Inc()
}
