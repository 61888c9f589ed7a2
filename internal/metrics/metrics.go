// Package metrics holds the Prometheus counters recorded while resolving and
// analysing products. Each Metrics value owns a private registry so tests and
// short-lived CLI runs never touch the global default registry.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Tier attempt outcomes.
const (
	OutcomeFound     = "found"
	OutcomeNotFound  = "not_found"
	OutcomeMalformed = "malformed"
	OutcomeError     = "error"
)

// Metrics contains the analysis counters.
type Metrics struct {
	registry *prometheus.Registry

	tierAttemptsTotal       *prometheus.CounterVec
	analysesTotal           *prometheus.CounterVec
	enrichmentDegradedTotal *prometheus.CounterVec
	cacheLookupsTotal       *prometheus.CounterVec
}

// New creates the counters and registers them on a fresh registry.
func New() (*Metrics, error) {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry creates the counters and registers them on registry.
func NewWithRegistry(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.tierAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gusto_tier_attempts_total",
			Help: "Total number of product fetch attempts per source tier",
		},
		[]string{"source", "outcome"}, // outcome: found, not_found, malformed, error
	)

	m.analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gusto_analyses_total",
			Help: "Total number of analyses built, by the source that supplied the record",
		},
		[]string{"source"},
	)

	m.enrichmentDegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gusto_enrichment_degraded_total",
			Help: "Total number of analyses whose ingredient enrichment fell back after a lookup failure",
		},
		[]string{"kind"}, // kind: definition, references
	)

	m.cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gusto_cache_lookups_total",
			Help: "Total number of product cache lookups",
		},
		[]string{"source", "result"}, // result: hit, miss
	)
}

// Describe implements the Collector interface
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.tierAttemptsTotal.Describe(ch)
	m.analysesTotal.Describe(ch)
	m.enrichmentDegradedTotal.Describe(ch)
	m.cacheLookupsTotal.Describe(ch)
}

// Collect implements the Collector interface
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.tierAttemptsTotal.Collect(ch)
	m.analysesTotal.Collect(ch)
	m.enrichmentDegradedTotal.Collect(ch)
	m.cacheLookupsTotal.Collect(ch)
}

// Registry returns the registry the counters live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// TierAttempt records one fetch attempt against a source tier.
func (m *Metrics) TierAttempt(source, outcome string) {
	m.tierAttemptsTotal.WithLabelValues(source, outcome).Inc()
}

// Analysis records a built analysis.
func (m *Metrics) Analysis(source string) {
	m.analysesTotal.WithLabelValues(source).Inc()
}

// EnrichmentDegraded records a degraded enrichment lookup kind.
func (m *Metrics) EnrichmentDegraded(kind string) {
	m.enrichmentDegradedTotal.WithLabelValues(kind).Inc()
}

// CacheLookup records a product cache hit or miss.
func (m *Metrics) CacheLookup(source string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookupsTotal.WithLabelValues(source, result).Inc()
}

// Sample is one counter value with its labels rendered as k="v" pairs.
type Sample struct {
	Name   string
	Labels string
	Value  float64
}

// Samples gathers every non-empty counter from the registry, sorted by name
// and labels.
func (m *Metrics) Samples() ([]Sample, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	out := make([]Sample, 0)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			out = append(out, Sample{
				Name:   mf.GetName(),
				Labels: formatLabels(metric.GetLabel()),
				Value:  sampleValue(mf.GetType(), metric),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Labels < out[j].Labels
	})
	return out, nil
}

// WriteText prints samples one per line in exposition-like form.
func (m *Metrics) WriteText(w io.Writer) error {
	samples, err := m.Samples()
	if err != nil {
		return err
	}
	for _, s := range samples {
		if _, err := fmt.Fprintf(w, "%s{%s} %g\n", s.Name, s.Labels, s.Value); err != nil {
			return err
		}
	}
	return nil
}

func formatLabels(pairs []*dto.LabelPair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", p.GetName(), p.GetValue()))
	}
	return strings.Join(parts, ",")
}

func sampleValue(t dto.MetricType, metric *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return metric.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return metric.GetGauge().GetValue()
	default:
		return metric.GetUntyped().GetValue()
	}
}
