package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Acex619/gusto-food-scanner/internal/model"
)

type tierFixture struct {
	primary   *fakeSource
	secondary *fakeSource
	tertiary  *fakeSource
}

func newTierFixture() tierFixture {
	return tierFixture{
		primary:   &fakeSource{name: "Open Food Facts", tier: model.TierPrimary},
		secondary: &fakeSource{name: "USDA FoodData Central", tier: model.TierSecondary},
		tertiary:  &fakeSource{name: "UPCitemdb", tier: model.TierTertiary},
	}
}

func (f tierFixture) resolver(rec *fakeRecorder) *Resolver {
	b := NewBuilder(BuilderOptions{Now: fixedClock, Metrics: rec})
	return NewResolver(b, []Source{f.primary, f.secondary, f.tertiary}, ResolverOptions{Metrics: rec})
}

func TestResolverStopsAtPrimary(t *testing.T) {
	f := newTierFixture()
	f.primary.product = spreadProduct()
	f.secondary.product = spreadProduct()
	f.tertiary.product = spreadProduct()
	rec := &fakeRecorder{}

	result, err := f.resolver(rec).Analyze(context.Background(), "3017620422003")
	require.NoError(t, err)

	assert.Equal(t, "Open Food Facts", result.DataSource)
	assert.Equal(t, model.TierPrimary, result.Tier)
	assert.Equal(t, 1, f.primary.calls)
	assert.Zero(t, f.secondary.calls)
	assert.Zero(t, f.tertiary.calls)
	assert.Equal(t, []string{"Open Food Facts:found"}, rec.attempts)
	assert.Equal(t, []string{"Open Food Facts"}, rec.analyses)
}

func TestResolverFallsThroughInOrder(t *testing.T) {
	f := newTierFixture()
	f.primary.err = &FetchError{Source: "Open Food Facts", Err: errors.New("502 bad gateway")}
	f.tertiary.product = spreadProduct()
	rec := &fakeRecorder{}

	result, err := f.resolver(rec).Analyze(context.Background(), "3017620422003")
	require.NoError(t, err)

	assert.Equal(t, "UPCitemdb", result.DataSource)
	assert.Equal(t, model.TierTertiary, result.Tier)
	assert.Len(t, result.Ingredients, 1)
	assert.Equal(t, []string{
		"Open Food Facts:error",
		"USDA FoodData Central:not_found",
		"UPCitemdb:found",
	}, rec.attempts)
}

func TestResolverTertiaryTrustBelowPrimary(t *testing.T) {
	p := spreadProduct()
	p.QualityScore = 70

	primaryOnly := newTierFixture()
	primaryOnly.primary.product = p
	fromPrimary, err := primaryOnly.resolver(&fakeRecorder{}).Analyze(context.Background(), p.Code)
	require.NoError(t, err)

	tertiaryOnly := newTierFixture()
	tertiaryOnly.tertiary.product = p
	fromTertiary, err := tertiaryOnly.resolver(&fakeRecorder{}).Analyze(context.Background(), p.Code)
	require.NoError(t, err)

	assert.Less(t, fromTertiary.TrustScore, fromPrimary.TrustScore)
	assert.Equal(t, "UPCitemdb", fromTertiary.DataSource)
}

func TestResolverMalformedRecordCountsAsNotFound(t *testing.T) {
	f := newTierFixture()
	f.primary.product = &model.RawProduct{Code: "123"}
	f.secondary.err = ErrMalformedRecord
	f.tertiary.product = &model.RawProduct{Code: "123", Name: "Crackers"}
	rec := &fakeRecorder{}

	result, err := f.resolver(rec).Analyze(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "Crackers", result.ProductName)
	assert.Equal(t, []string{
		"Open Food Facts:malformed",
		"USDA FoodData Central:malformed",
		"UPCitemdb:found",
	}, rec.attempts)
}

func TestResolverNotFoundEverywhere(t *testing.T) {
	f := newTierFixture()
	f.primary.err = errors.New("connection reset")

	_, err := f.resolver(&fakeRecorder{}).Analyze(context.Background(), "000000000000")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, f.tertiary.calls)
}

func TestResolverSurfacesFinalTierTransportError(t *testing.T) {
	f := newTierFixture()
	f.tertiary.err = &FetchError{Source: "UPCitemdb", Err: errors.New("429 too many requests")}

	_, err := f.resolver(&fakeRecorder{}).Analyze(context.Background(), "000000000000")
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "UPCitemdb", fetchErr.Source)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestResolverHonoursCancelledContext(t *testing.T) {
	f := newTierFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.resolver(&fakeRecorder{}).Analyze(ctx, "3017620422003")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.primary.calls)
}

func TestResolverWithoutSources(t *testing.T) {
	_, err := NewResolver(nil, nil, ResolverOptions{}).Analyze(context.Background(), "123")
	assert.Error(t, err)
}
