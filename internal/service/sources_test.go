package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Acex619/gusto-food-scanner/internal/model"
)

type fakeProductClient struct {
	product *model.RawProduct
	err     error
	barcode string
}

func (f *fakeProductClient) LookupBarcode(ctx context.Context, barcode string) (*model.RawProduct, []byte, error) {
	f.barcode = barcode
	return f.product, nil, f.err
}

func newFakeProviderSource(client productClient) *ProviderSource {
	info, _ := providerInfo(ProviderOpenFoodFacts)
	return newProviderSource(info, client, SourceOptions{Now: fixedClock})
}

func TestProviderSourceNotFound(t *testing.T) {
	src := newFakeProviderSource(&fakeProductClient{})

	product, err := src.FetchProduct(context.Background(), " 3017620422003 ")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if product != nil {
		t.Fatalf("expected nil product, got %+v", product)
	}
}

func TestProviderSourceWrapsTransportErrors(t *testing.T) {
	src := newFakeProviderSource(&fakeProductClient{err: errors.New("dial tcp: timeout")})

	_, err := src.FetchProduct(context.Background(), "3017620422003")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.Source != "Open Food Facts" {
		t.Fatalf("unexpected source %q", fetchErr.Source)
	}
}

func TestProviderSourceRejectsNamelessRecord(t *testing.T) {
	src := newFakeProviderSource(&fakeProductClient{product: &model.RawProduct{Code: "3017620422003", Brand: "Ferrero"}})

	_, err := src.FetchProduct(context.Background(), "3017620422003")
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestProviderSourceFillsCodeAndQuality(t *testing.T) {
	client := &fakeProductClient{product: &model.RawProduct{
		Name:           "Hazelnut spread",
		Brand:          "Ferrero",
		NutritionGrade: "e",
		LastModified:   fixedNow.Add(-10 * 24 * time.Hour),
	}}
	src := newFakeProviderSource(client)

	product, err := src.FetchProduct(context.Background(), " 3017620422003 ")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if client.barcode != "3017620422003" {
		t.Fatalf("expected trimmed barcode, got %q", client.barcode)
	}
	if product.Code != "3017620422003" {
		t.Fatalf("expected code to be filled, got %q", product.Code)
	}
	// 50 + name 5 + brand 5 + grade 10 + recency 10
	if product.QualityScore != 80 {
		t.Fatalf("expected quality score 80, got %d", product.QualityScore)
	}
}

func TestNewProviderSource(t *testing.T) {
	for alias, wantTier := range map[string]model.Tier{
		"off":       model.TierPrimary,
		"USDA":      model.TierSecondary,
		"upc":       model.TierTertiary,
		"upcitemdb": model.TierTertiary,
	} {
		src, err := NewProviderSource(alias, SourceOptions{USDAAPIKey: "DEMO_KEY"})
		if err != nil {
			t.Fatalf("new provider source %q: %v", alias, err)
		}
		if src.Tier() != wantTier {
			t.Fatalf("%q: expected tier %s, got %s", alias, wantTier, src.Tier())
		}
	}
	if _, err := NewProviderSource("efsa", SourceOptions{}); err == nil {
		t.Fatalf("expected unknown provider to fail")
	}
}

func TestDefaultSourcesAreInTierOrder(t *testing.T) {
	sources, err := DefaultSources(SourceOptions{})
	if err != nil {
		t.Fatalf("default sources: %v", err)
	}
	want := []model.Tier{model.TierPrimary, model.TierSecondary, model.TierTertiary}
	if len(sources) != len(want) {
		t.Fatalf("expected %d sources, got %d", len(want), len(sources))
	}
	for i, src := range sources {
		if src.Tier() != want[i] {
			t.Fatalf("source %d: expected tier %s, got %s", i, want[i], src.Tier())
		}
	}
}
