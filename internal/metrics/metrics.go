// Package metrics holds the prometheus collectors for regeneration runs.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors. Register them with a registry of your choice.
type Metrics struct {
	RecordsScanned         *prometheus.GaugeVec
	ScanFailures           *prometheus.CounterVec
	ArtifactWrites         *prometheus.CounterVec
	SidebarVersionsSkipped *prometheus.CounterVec
	Regenerations          prometheus.Counter
	RegenerationDuration   prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RecordsScanned: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "docindex",
			Name:      "records_scanned",
			Help:      "Records produced by the last scan, per collection.",
		}, []string{"collection"}),
		ScanFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docindex",
			Name:      "scan_failures_total",
			Help:      "Scans that degraded to an empty collection.",
		}, []string{"collection"}),
		ArtifactWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docindex",
			Name:      "artifact_writes_total",
			Help:      "JSON artifact writes by file and result.",
		}, []string{"artifact", "result"}),
		SidebarVersionsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docindex",
			Name:      "sidebar_versions_skipped_total",
			Help:      "Versions left out of the composed sidebar.",
		}, []string{"locale", "version"}),
		Regenerations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docindex",
			Name:      "regenerations_total",
			Help:      "Full regenerations run.",
		}),
		RegenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "docindex",
			Name:      "regeneration_duration_seconds",
			Help:      "Wall time of a full regeneration.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.RecordsScanned,
			m.ScanFailures,
			m.ArtifactWrites,
			m.SidebarVersionsSkipped,
			m.Regenerations,
			m.RegenerationDuration,
		)
	}
	return m
}

func (m *Metrics) Scanned(collection string, n int) {
	if m == nil {
		return
	}
	m.RecordsScanned.WithLabelValues(collection).Set(float64(n))
}

func (m *Metrics) ScanFailed(collection string) {
	if m == nil {
		return
	}
	m.ScanFailures.WithLabelValues(collection).Inc()
}

func (m *Metrics) ArtifactWritten(artifact string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ArtifactWrites.WithLabelValues(artifact, result).Inc()
}

func (m *Metrics) SidebarSkipped(locale, version string) {
	if m == nil {
		return
	}
	m.SidebarVersionsSkipped.WithLabelValues(locale, version).Inc()
}

func (m *Metrics) Regenerated(d time.Duration) {
	if m == nil {
		return
	}
	m.Regenerations.Inc()
	m.RegenerationDuration.Observe(d.Seconds())
}
