package ingredient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Acex619/gusto-food-scanner/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeDefinitions struct {
	defs  map[string]string
	err   error
	delay func(name string) time.Duration
	calls atomic.Int32
}

func (f *fakeDefinitions) Name() string { return "FakePedia" }

func (f *fakeDefinitions) LookupDefinition(ctx context.Context, name string) (string, error) {
	f.calls.Add(1)
	if f.delay != nil {
		select {
		case <-time.After(f.delay(name)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.defs[name], nil
}

type fakeReferences struct {
	refs []model.ScientificReference
	err  error
}

func (f *fakeReferences) Name() string { return "FakeCite" }

func (f *fakeReferences) LookupReferences(context.Context, string) ([]model.ScientificReference, error) {
	return f.refs, f.err
}

func TestAnalyzeRestoresInputOrder(t *testing.T) {
	const n = 12
	raws := make([]model.RawIngredient, n)
	for i := range raws {
		raws[i] = model.RawIngredient{Text: fmt.Sprintf("ingredient %02d", i)}
	}
	defs := &fakeDefinitions{
		delay: func(name string) time.Duration {
			var i int
			_, _ = fmt.Sscanf(name, "ingredient %d", &i)
			return time.Duration(n-i) * time.Millisecond
		},
	}
	e := NewEnricher(Options{Definitions: defs, Concurrency: 6})

	got, report := e.Analyze(context.Background(), raws, nil)
	require.Len(t, got, n)
	for i := range got {
		assert.Equal(t, raws[i].Text, got[i].Name)
	}
	assert.False(t, report.IsDegraded())
	assert.Empty(t, report.Contributors)
	assert.EqualValues(t, n, defs.calls.Load())
}

func TestAnalyzeDropsBoilerplate(t *testing.T) {
	e := NewEnricher(Options{})
	got, _ := e.Analyze(context.Background(), []model.RawIngredient{
		{Text: "sugar"},
		{Text: "contains less than 2% of the following: salt, sugar"},
		{Text: "salt"},
	}, nil)
	require.Len(t, got, 2)
	assert.Equal(t, "sugar", got[0].Name)
	assert.Equal(t, "salt", got[1].Name)
}

func TestDefinitionChain(t *testing.T) {
	ctx := context.Background()

	t.Run("provider description wins", func(t *testing.T) {
		defs := &fakeDefinitions{}
		e := NewEnricher(Options{Definitions: defs})
		desc := "A provider supplied description that is long enough."
		got, _ := e.Analyze(ctx, []model.RawIngredient{{Text: "sugar", Description: desc}}, nil)
		assert.Equal(t, desc, got[0].Description)
		assert.Zero(t, defs.calls.Load())
	})

	t.Run("external source contributes", func(t *testing.T) {
		defs := &fakeDefinitions{defs: map[string]string{"Guar gum": "Guar gum is a galactomannan extracted from guar beans."}}
		e := NewEnricher(Options{Definitions: defs})
		got, report := e.Analyze(ctx, []model.RawIngredient{{Text: "Guar gum"}}, nil)
		assert.Equal(t, "Guar gum is a galactomannan extracted from guar beans.", got[0].Description)
		assert.Equal(t, []string{"FakePedia"}, report.Contributors)
	})

	t.Run("failure falls back to curated table", func(t *testing.T) {
		e := NewEnricher(Options{Definitions: &fakeDefinitions{err: errors.New("unavailable")}})
		got, report := e.Analyze(ctx, []model.RawIngredient{{Text: "Palm oil"}}, nil)
		assert.True(t, strings.HasPrefix(got[0].Description, "Palm oil is an edible vegetable oil"))
		assert.Equal(t, []string{KindDefinition}, report.Degraded)
		assert.Empty(t, report.Contributors)
	})

	t.Run("timeout degrades to template", func(t *testing.T) {
		defs := &fakeDefinitions{delay: func(string) time.Duration { return time.Second }}
		e := NewEnricher(Options{Definitions: defs, LookupTimeout: 10 * time.Millisecond})
		got, report := e.Analyze(ctx, []model.RawIngredient{{Text: "quinoa"}}, nil)
		assert.True(t, strings.HasPrefix(got[0].Description, "Quinoa is a food ingredient"))
		assert.True(t, report.IsDegraded())
	})
}

func TestTemplateDefinitionBounds(t *testing.T) {
	for _, name := range []string{"", "x", "sodium benzoate", strings.Repeat("very long name ", 40)} {
		c := Classify(model.RawIngredient{Text: name}, nil)
		def := TemplateDefinition(name, c)
		n := utf8.RuneCountInString(def)
		assert.GreaterOrEqual(t, n, minDefinitionLen, name)
		assert.LessOrEqual(t, n, maxDefinitionLen, name)
	}
	def := TemplateDefinition("sodium benzoate", Classify(model.RawIngredient{Text: "sodium benzoate"}, nil))
	assert.True(t, strings.HasPrefix(def, "Sodium benzoate is a preservative"))
}

func TestFitDefinition(t *testing.T) {
	_, ok := FitDefinition("too short")
	assert.False(t, ok)

	long := strings.Repeat("word ", 200)
	got, ok := FitDefinition(long)
	require.True(t, ok)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), maxDefinitionLen)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestCuratedDefinitionMatching(t *testing.T) {
	d, ok := CuratedDefinition("SUGAR")
	require.True(t, ok)
	assert.Contains(t, d, "sucrose")

	d, ok = CuratedDefinition("palm oil (non-hydrogenated)")
	require.True(t, ok)
	assert.Contains(t, d, "oil palm")

	d, ok = CuratedDefinition("emulsifier: soy lecithin")
	require.True(t, ok)
	assert.Contains(t, d, "Soy lecithin")

	_, ok = CuratedDefinition("dragon fruit")
	assert.False(t, ok)
}

func TestReferenceChain(t *testing.T) {
	ctx := context.Background()
	provided := []model.ScientificReference{
		{Title: "a", Confidence: 10}, {Title: "b"}, {Title: "c"}, {Title: "d"},
	}
	external := &fakeReferences{refs: []model.ScientificReference{{Title: "external", Confidence: 40}}}
	e := NewEnricher(Options{References: external})

	got, report := e.Analyze(ctx, []model.RawIngredient{
		{Text: "sugar", References: provided},
		{Text: "Aspartame"},
		{Text: "guar gum"},
	}, nil)
	require.Len(t, got, 3)
	assert.Len(t, got[0].References, 3)
	assert.Equal(t, "EFSA", got[1].References[0].Source)
	assert.Equal(t, "external", got[2].References[0].Title)
	assert.Equal(t, []string{"FakeCite"}, report.Contributors)
}

func TestReferenceLookupFailureSynthesizes(t *testing.T) {
	e := NewEnricher(Options{References: &fakeReferences{err: errors.New("down")}})
	got, report := e.Analyze(context.Background(), []model.RawIngredient{{Text: "Sodium nitrate"}}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, model.RiskHigh, got[0].RiskLevel)
	require.NotEmpty(t, got[0].References)
	assert.Equal(t, "IARC", got[0].References[0].Source)
	assert.Equal(t, []string{KindReferences}, report.Degraded)
}

func TestSynthesizedReferencesAlwaysScored(t *testing.T) {
	for _, risk := range []model.RiskLevel{model.RiskSafe, model.RiskCaution, model.RiskModerate, model.RiskHigh} {
		refs := SynthesizedReferences("guar gum", risk)
		assert.NotEmpty(t, refs, risk)
		assert.LessOrEqual(t, len(refs), 2, risk)
		for _, r := range refs {
			assert.Positive(t, r.Confidence, risk)
			assert.NotEmpty(t, r.URL, risk)
		}
	}
	assert.Equal(t, "FDA", SynthesizedReferences("oats", model.RiskSafe)[0].Source)
}

func TestCuratedReferencesAliases(t *testing.T) {
	refs, ok := CuratedReferences("E171")
	require.True(t, ok)
	assert.Equal(t, "EFSA", refs[0].Source)

	refs, ok = CuratedReferences("BHA")
	require.True(t, ok)
	assert.Equal(t, "NTP", refs[0].Source)

	_, ok = CuratedReferences("water")
	assert.False(t, ok)
}
