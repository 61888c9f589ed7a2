package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Acex619/gusto-food-scanner/internal/db"
	"github.com/Acex619/gusto-food-scanner/internal/model"
)

var fixedNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newServiceDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gusto.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })
	return sqldb
}

func boolPtr(v bool) *bool { return &v }

// spreadProduct is a hazelnut spread record shaped like an Open Food Facts
// entry.
func spreadProduct() *model.RawProduct {
	return &model.RawProduct{
		Code:       "3017620422003",
		Name:       "Hazelnut spread",
		Brand:      "Ferrero",
		ImageURL:   "https://images.example/spread.jpg",
		Categories: []string{"en:spreads", "en:sweet-spreads"},
		Countries:  []string{"en:france", "en:united-states"},
		Packaging:  "Glass jar",
		Nutrition: model.Nutriments{
			EnergyKcal:   539,
			Sugars:       56.3,
			Salt:         0.107,
			SaturatedFat: 10.6,
		},
		NutritionGrade: "e",
		Ingredients: []model.RawIngredient{
			{Text: "Sugar"},
			{Text: "Palm oil", FromPalmOil: boolPtr(true)},
			{Text: "Hazelnuts"},
			{Text: "contains less than 2% of the following: salt"},
			{Text: "Skimmed milk powder"},
		},
		Additives:    []string{"en:e322"},
		Allergens:    []string{"en:milk", "en:nuts"},
		AnalysisTags: []string{"en:palm-oil", "en:non-vegan"},
		NovaGroup:    4,
		QualityScore: 80,
		LastModified: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
}

type fakeSource struct {
	name    string
	tier    model.Tier
	product *model.RawProduct
	err     error
	calls   int
}

func (f *fakeSource) Name() string     { return f.name }
func (f *fakeSource) Tier() model.Tier { return f.tier }

func (f *fakeSource) FetchProduct(ctx context.Context, barcode string) (*model.RawProduct, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.product == nil {
		return nil, nil
	}
	cp := *f.product
	return &cp, nil
}

type fakeRecorder struct {
	mu       sync.Mutex
	attempts []string
	analyses []string
	degraded []string
	cache    map[bool]int
}

func (r *fakeRecorder) TierAttempt(source, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, source+":"+outcome)
}

func (r *fakeRecorder) Analysis(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses = append(r.analyses, source)
}

func (r *fakeRecorder) EnrichmentDegraded(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.degraded = append(r.degraded, kind)
}

func (r *fakeRecorder) CacheLookup(source string, hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cache == nil {
		r.cache = make(map[bool]int)
	}
	r.cache[hit]++
}

// staticDefinitions answers every lookup with the same text or error.
type staticDefinitions struct {
	name string
	text string
	err  error
}

func (s staticDefinitions) Name() string { return s.name }

func (s staticDefinitions) LookupDefinition(ctx context.Context, name string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return name + " " + s.text, nil
}
