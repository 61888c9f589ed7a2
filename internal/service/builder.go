package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Acex619/gusto-food-scanner/internal/ingredient"
	"github.com/Acex619/gusto-food-scanner/internal/logger"
	"github.com/Acex619/gusto-food-scanner/internal/model"
	"github.com/Acex619/gusto-food-scanner/internal/scoring"
)

const (
	fallbackTrustPenalty = 10
	degradedTrustPenalty = 5

	highSugarPer100g    = 10
	highSaltPer100g     = 1.5
	highAdditiveCount   = 5
	placeholderName     = "Ingredient details unavailable"
	placeholderBaseline = "Ingredient details are not published by %s; this entry stands in for the full ingredient list."
)

// Fallback tiers carry fixed pillar scores because their records lack the
// tags the heuristics read.
type reducedScores struct {
	environmental int
	nutritional   int
	safety        int
	trustBase     int
}

var reducedTierScores = map[model.Tier]reducedScores{
	model.TierSecondary: {environmental: 50, nutritional: 50, safety: 60, trustBase: 70},
	model.TierTertiary:  {environmental: 50, nutritional: 40, safety: 60, trustBase: 60},
}

var nonGMOProductTags = []string{"non-gmo", "no-gmo", "gmo-free", "without-gmo", "sans-ogm", "ohne-gentechnik", "ohne-gvo"}

var palmOilProductTags = []string{"palm-oil", "sustainable-palm-oil", "non-sustainable-palm-oil"}

// Recorder receives analysis counters. *metrics.Metrics implements it.
type Recorder interface {
	TierAttempt(source, outcome string)
	Analysis(source string)
	EnrichmentDegraded(kind string)
}

type nopRecorder struct{}

func (nopRecorder) TierAttempt(string, string) {}
func (nopRecorder) Analysis(string)            {}
func (nopRecorder) EnrichmentDegraded(string)  {}

// Provenance names the source and tier a record came from.
type Provenance struct {
	Source string
	Tier   model.Tier
}

type BuilderOptions struct {
	Enricher *ingredient.Enricher
	Logger   logger.Logger
	Metrics  Recorder
	// Now dates results whose record carries no modification time.
	Now func() time.Time
}

// Builder turns one raw product record into an AnalysisResult.
type Builder struct {
	enricher *ingredient.Enricher
	log      logger.Logger
	metrics  Recorder
	now      func() time.Time
}

func NewBuilder(opts BuilderOptions) *Builder {
	b := &Builder{enricher: opts.Enricher, log: opts.Logger, metrics: opts.Metrics, now: opts.Now}
	if b.log == nil {
		b.log = logger.NewNop()
	}
	if b.enricher == nil {
		b.enricher = ingredient.NewEnricher(ingredient.Options{Logger: b.log})
	}
	if b.metrics == nil {
		b.metrics = nopRecorder{}
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

// Build runs the full analysis: pillar scores, per-ingredient enrichment,
// concerns and trust. Records from a non-primary tier lose trust.
func (b *Builder) Build(ctx context.Context, p *model.RawProduct, from Provenance) (model.AnalysisResult, error) {
	if err := validateIdentity(p); err != nil {
		return model.AnalysisResult{}, err
	}
	now := b.now()

	raws := p.Ingredients
	if len(raws) == 0 && strings.TrimSpace(p.IngredientsText) != "" {
		raws = ingredient.ParseText(p.IngredientsText)
	}

	category := scoring.EstimateCategory(p.Categories, ingredientText(p, raws))
	envScore, envProfile := scoring.ScoreEnvironment(scoring.EnvironmentInput{
		Packaging:       p.Packaging,
		Labels:          p.Labels,
		AnalysisTags:    p.AnalysisTags,
		Origins:         p.Origins,
		IngredientNames: ingredientNames(raws),
		EcoGrade:        p.EcoGrade,
		Category:        category,
		Provider:        p.Environment,
	})
	nutrScore := scoring.ScoreNutrition(p.NutritionGrade)
	safetyScore := scoring.ScoreSafety(scoring.SafetyInput{
		Allergens: p.Allergens,
		Additives: p.Additives,
		NovaGroup: p.NovaGroup,
		Labels:    p.Labels,
	})

	analyses, report := b.enricher.Analyze(ctx, raws, p.Labels)
	for _, kind := range report.Degraded {
		b.metrics.EnrichmentDegraded(kind)
		b.log.Warn("ingredient enrichment degraded",
			logger.String("barcode", p.Code),
			logger.String("kind", kind),
		)
	}

	trust := qualityBase(p, now)
	if from.Tier != model.TierPrimary {
		trust -= fallbackTrustPenalty
	}
	if report.IsDegraded() {
		trust -= degradedTrustPenalty
	}

	return model.AnalysisResult{
		ProductName:        strings.TrimSpace(p.Name),
		Brand:              strings.TrimSpace(p.Brand),
		ImageURL:           p.ImageURL,
		Barcode:            p.Code,
		Category:           category,
		EnvironmentalScore: envScore,
		NutritionalScore:   nutrScore,
		SafetyScore:        safetyScore,
		OverallScore:       overallScore(envScore, nutrScore, safetyScore),
		GMOFree:            gmoFree(analyses, p.Labels, p.AnalysisTags),
		Concerns:           productConcerns(p),
		Ingredients:        analyses,
		Environmental:      envProfile,
		Nutritional:        nutritionalProfile(p),
		Market:             MarketAvailability(p.Countries, now),
		DataSource:         dataSource(from.Source, report.Contributors),
		Tier:               from.Tier,
		LastUpdated:        lastUpdated(p, now),
		TrustScore:         clampScore(trust),
	}, nil
}

// BuildReduced assembles the fallback-tier result: fixed pillar scores, one
// placeholder ingredient and concerns from nutrient thresholds only.
func (b *Builder) BuildReduced(p *model.RawProduct, from Provenance) (model.AnalysisResult, error) {
	if err := validateIdentity(p); err != nil {
		return model.AnalysisResult{}, err
	}
	scores, ok := reducedTierScores[from.Tier]
	if !ok {
		return model.AnalysisResult{}, fmt.Errorf("no reduced scores for tier %q", from.Tier)
	}
	now := b.now()

	category := scoring.EstimateCategory(p.Categories, p.IngredientsText)
	_, envProfile := scoring.ScoreEnvironment(scoring.EnvironmentInput{Category: category})
	placeholder := placeholderIngredient(p, from.Source)

	trust := min(scores.trustBase, qualityBase(p, now)) - fallbackTrustPenalty

	return model.AnalysisResult{
		ProductName:        strings.TrimSpace(p.Name),
		Brand:              strings.TrimSpace(p.Brand),
		ImageURL:           p.ImageURL,
		Barcode:            p.Code,
		Category:           category,
		EnvironmentalScore: scores.environmental,
		NutritionalScore:   scores.nutritional,
		SafetyScore:        scores.safety,
		OverallScore:       overallScore(scores.environmental, scores.nutritional, scores.safety),
		GMOFree:            gmoFree([]model.IngredientAnalysis{placeholder}, p.Labels, p.AnalysisTags),
		Concerns:           productConcerns(p),
		Ingredients:        []model.IngredientAnalysis{placeholder},
		Environmental:      envProfile,
		Nutritional:        nutritionalProfile(p),
		Market:             MarketAvailability(p.Countries, now),
		DataSource:         from.Source,
		Tier:               from.Tier,
		LastUpdated:        lastUpdated(p, now),
		TrustScore:         clampScore(trust),
	}, nil
}

func placeholderIngredient(p *model.RawProduct, source string) model.IngredientAnalysis {
	description := fmt.Sprintf(placeholderBaseline, source)
	if text := strings.TrimSpace(p.IngredientsText); text != "" {
		if fitted, ok := ingredient.FitDefinition("Declared ingredients: " + text); ok {
			description = fitted
		}
	}
	return model.IngredientAnalysis{
		Name:            placeholderName,
		RiskLevel:       model.RiskCaution,
		Description:     description,
		GMOStatus:       model.GMOLikely,
		GMOConfidence:   50,
		Sustainability:  model.SustainabilityMedium,
		Allergenicity:   model.AllergenicityLow,
		ProcessingLevel: model.ProcessingModerate,
	}
}

func overallScore(env, nutr, safety int) int {
	return int(math.Round(float64(env+nutr+safety) / 3))
}

// qualityBase is the record's supplied quality score, or the data-quality
// score computed from the record when none was supplied. Full and reduced
// builds start from the same base so a fallback tier always trusts less.
func qualityBase(p *model.RawProduct, now time.Time) int {
	if p.QualityScore > 0 {
		return p.QualityScore
	}
	return ScoreDataQuality(p, now).Score
}

// gmoFree is false whenever an ingredient contains GMOs. Otherwise an explicit
// no-GMO product tag or an all gmo-free ingredient list makes it true. An empty
// ingredient list without such a tag is not gmo-free.
func gmoFree(analyses []model.IngredientAnalysis, tagGroups ...[]string) bool {
	for _, a := range analyses {
		if a.GMOStatus == model.GMOContained {
			return false
		}
	}
	for _, group := range tagGroups {
		for _, tag := range group {
			if hasNonGMOTag(tag) {
				return true
			}
		}
	}
	if len(analyses) == 0 {
		return false
	}
	for _, a := range analyses {
		if a.GMOStatus != model.GMOFree {
			return false
		}
	}
	return true
}

// hasNonGMOTag matches label fragments, so "en:no-gmos" and
// "en:non-gmo-project-verified" both count.
func hasNonGMOTag(tag string) bool {
	t := strings.ReplaceAll(scoring.NormalizeTag(tag), " ", "-")
	for _, want := range nonGMOProductTags {
		if strings.Contains(t, want) {
			return true
		}
	}
	return false
}

func productConcerns(p *model.RawProduct) []string {
	concerns := make([]string, 0, 4)
	if p.Nutrition.Sugars > highSugarPer100g {
		concerns = append(concerns, "High sugar content")
	}
	if p.Nutrition.Salt > highSaltPer100g {
		concerns = append(concerns, "High salt content")
	}
	if len(p.Additives) > highAdditiveCount {
		concerns = append(concerns, "High number of additives")
	}
	if hasPalmOilTag(p.AnalysisTags) || hasPalmOilTag(p.Labels) {
		concerns = append(concerns, "Contains palm oil")
	}
	return concerns
}

func hasPalmOilTag(tags []string) bool {
	for _, tag := range tags {
		t := scoring.NormalizeTag(tag)
		for _, want := range palmOilProductTags {
			if t == want {
				return true
			}
		}
	}
	return false
}

func nutritionalProfile(p *model.RawProduct) model.NutritionalProfile {
	n := p.Nutrition
	return model.NutritionalProfile{
		Grade:        scoring.NormalizeGrade(p.NutritionGrade),
		Calories:     nonNegative(n.EnergyKcal),
		Sugar:        nonNegative(n.Sugars),
		Salt:         nonNegative(n.Salt),
		SaturatedFat: nonNegative(n.SaturatedFat),
		Fiber:        nonNegative(n.Fiber),
	}
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

func lastUpdated(p *model.RawProduct, now time.Time) string {
	if !p.LastModified.IsZero() {
		return p.LastModified.UTC().Format(dateLayout)
	}
	return now.UTC().Format(dateLayout)
}

func dataSource(provider string, contributors []string) string {
	names := []string{provider}
	for _, c := range contributors {
		if c != "" && c != provider {
			names = append(names, c)
		}
	}
	return strings.Join(names, ", ")
}

func ingredientText(p *model.RawProduct, raws []model.RawIngredient) string {
	if text := strings.TrimSpace(p.IngredientsText); text != "" {
		return text
	}
	return strings.Join(ingredientNames(raws), ", ")
}

func ingredientNames(raws []model.RawIngredient) []string {
	names := make([]string, 0, len(raws))
	for _, r := range raws {
		if name := strings.TrimSpace(r.Name()); name != "" {
			names = append(names, name)
		}
	}
	return names
}
