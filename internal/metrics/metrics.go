package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds Prometheus collectors for registry operations.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registrations      *prometheus.CounterVec
	Occurrences        *prometheus.CounterVec
	AttachmentsStored  *prometheus.CounterVec
	UnitOfWorkDuration *prometheus.HistogramVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// the server and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "siat_registrations_total",
			Help: "Child registration writes, labeled by operation and result",
		}, []string{"op", "result"}),
		Occurrences: f.NewCounterVec(prometheus.CounterOpts{
			Name: "siat_occurrences_total",
			Help: "Occurrence writes, labeled by operation and result",
		}, []string{"op", "result"}),
		AttachmentsStored: f.NewCounterVec(prometheus.CounterOpts{
			Name: "siat_attachments_stored_total",
			Help: "Attachments committed, labeled by storage backend",
		}, []string{"backend"}),
		UnitOfWorkDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "siat_unit_of_work_duration_seconds",
			Help:    "Duration of transactional units of work in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"op"}),
	}
}

func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

func (m *Metrics) ObserveRegistration(op string, err error) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(op, Result(err)).Inc()
}

func (m *Metrics) ObserveOccurrence(op string, err error) {
	if m == nil {
		return
	}
	m.Occurrences.WithLabelValues(op, Result(err)).Inc()
}

func (m *Metrics) AddAttachments(backend string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.AttachmentsStored.WithLabelValues(backend).Add(float64(n))
}

func (m *Metrics) ObserveUnitOfWork(op string, start time.Time) {
	if m == nil {
		return
	}
	m.UnitOfWorkDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
