package gusto

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/Acex619/gusto-food-scanner/internal/model"
	"github.com/Acex619/gusto-food-scanner/internal/service"
)

type stubSource struct {
	name    string
	tier    model.Tier
	product *model.RawProduct
	err     error
	calls   int
}

func (s *stubSource) Name() string     { return s.name }
func (s *stubSource) Tier() model.Tier { return s.tier }

func (s *stubSource) FetchProduct(_ context.Context, barcode string) (*model.RawProduct, error) {
	s.calls++
	if s.err != nil || s.product == nil {
		return nil, s.err
	}
	p := *s.product
	p.Code = barcode
	return &p, nil
}

func juiceProduct() *model.RawProduct {
	return &model.RawProduct{
		Name:           "Orange juice",
		Brand:          "Grove",
		Categories:     []string{"en:beverages", "en:fruit-juices"},
		Countries:      []string{"en:france"},
		Nutrition:      model.Nutriments{EnergyKcal: 45, Sugars: 8.9, Salt: 0.01, Fiber: 0.2},
		NutritionGrade: "c",
		Ingredients:    []model.RawIngredient{{Text: "Orange juice"}, {Text: "Water"}},
		QualityScore:   70,
	}
}

// isolate points config and data dirs at a temp dir, disables Wikipedia and
// swaps the source factories. It returns the database path to pass via --db.
func isolate(t *testing.T, sources ...*stubSource) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("GUSTO_WIKIPEDIA_ENABLED", "false")

	prevSources, prevProvider := sourceFactory, providerSourceFactory
	sourceFactory = func(service.SourceOptions) ([]service.Source, error) {
		out := make([]service.Source, 0, len(sources))
		for _, s := range sources {
			out = append(out, s)
		}
		return out, nil
	}
	t.Cleanup(func() {
		sourceFactory = prevSources
		providerSourceFactory = prevProvider
	})
	return filepath.Join(dir, "gusto.db")
}

func resetFlags() {
	configFile, dbPath, logLevel = "", "", ""
	analyzeJSON, analyzeNoCache, analyzeNoWikipedia, analyzeMetrics = false, false, false, false
	lookupProvider, lookupJSON = service.ProviderOpenFoodFacts, false
	providersJSON, configJSON = false, false
	cacheProvider, cacheBarcode, cacheLimit = "", "", 100
	cacheJSON, cacheAll, cacheExpired = false, false, false
	doctorFix = false
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout, stderr, err := runCLISplit(t, args...)
	return stdout + stderr, err
}

func runCLISplit(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}
