package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierAttemptCounts(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.TierAttempt("Open Food Facts", OutcomeNotFound)
	m.TierAttempt("USDA FoodData Central", OutcomeFound)
	m.TierAttempt("USDA FoodData Central", OutcomeFound)

	assert.InDelta(t, 1, testutil.ToFloat64(m.tierAttemptsTotal.WithLabelValues("Open Food Facts", OutcomeNotFound)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.tierAttemptsTotal.WithLabelValues("USDA FoodData Central", OutcomeFound)), 0)
}

func TestCacheLookupLabels(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.CacheLookup("openfoodfacts", true)
	m.CacheLookup("openfoodfacts", false)
	m.CacheLookup("openfoodfacts", false)

	assert.InDelta(t, 1, testutil.ToFloat64(m.cacheLookupsTotal.WithLabelValues("openfoodfacts", "hit")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.cacheLookupsTotal.WithLabelValues("openfoodfacts", "miss")), 0)
}

func TestSamplesSortedAndFormatted(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.EnrichmentDegraded("references")
	m.Analysis("Open Food Facts")
	m.EnrichmentDegraded("definition")

	samples, err := m.Samples()
	require.NoError(t, err)
	require.Len(t, samples, 3)

	assert.Equal(t, "gusto_analyses_total", samples[0].Name)
	assert.Equal(t, `source="Open Food Facts"`, samples[0].Labels)
	assert.Equal(t, "gusto_enrichment_degraded_total", samples[1].Name)
	assert.Equal(t, `kind="definition"`, samples[1].Labels)
	assert.Equal(t, `kind="references"`, samples[2].Labels)
	assert.InDelta(t, 1, samples[2].Value, 0)

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), `gusto_analyses_total{source="Open Food Facts"} 1`)
}

func TestRegisterTwiceOnSameRegistryFails(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewWithRegistry(registry)
	require.NoError(t, err)

	_, err = NewWithRegistry(registry)
	assert.Error(t, err)
}
