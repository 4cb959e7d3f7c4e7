package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records metadata for pricing runs and matrix previews.
type PricingMetrics struct {
	duration   *prometheus.HistogramVec
	success    *prometheus.CounterVec
	failure    *prometheus.CounterVec
	matrixRows *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_run_duration_seconds",
		Help:    "Duration of pricing runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_run_success",
		Help: "Successful pricing runs.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_run_failure",
		Help: "Failed pricing runs.",
	}, []string{"operation"})
	matrixRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_matrix_rows",
		Help: "Matrix preview rows by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, success, failure, matrixRows)
	return &PricingMetrics{
		duration:   duration,
		success:    success,
		failure:    failure,
		matrixRows: matrixRows,
	}
}

// ObserveDuration records the duration for the named operation.
func (p *PricingMetrics) ObserveDuration(operation string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (p *PricingMetrics) IncSuccess(operation string) {
	if p == nil || p.success == nil {
		return
	}
	p.success.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (p *PricingMetrics) IncFailure(operation string) {
	if p == nil || p.failure == nil {
		return
	}
	p.failure.WithLabelValues(normalizeLabel(operation)).Inc()
}

// AddMatrixRows counts matrix rows by outcome ("priced" or "failed").
func (p *PricingMetrics) AddMatrixRows(outcome string, n int) {
	if p == nil || p.matrixRows == nil || n <= 0 {
		return
	}
	p.matrixRows.WithLabelValues(normalizeLabel(outcome)).Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
