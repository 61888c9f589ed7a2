package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/Acex619/gusto-food-scanner/internal/model"
)

const environmentalBaseline = 50

// EnvironmentInput carries everything the environmental scorer reads from a
// product record.
type EnvironmentInput struct {
	Packaging       string
	Labels          []string
	AnalysisTags    []string
	Origins         []string
	IngredientNames []string
	EcoGrade        string
	Category        model.Category
	Provider        *model.ProviderEnvironment
}

type scoreDelta struct {
	keywords []string
	points   int
}

var packagingDeltas = []scoreDelta{
	{[]string{"plastic"}, -15},
	{[]string{"single-use", "single use", "disposable"}, -10},
	{[]string{"recycled"}, 15},
	{[]string{"recyclable"}, 10},
	{[]string{"glass"}, 5},
	{[]string{"paper", "cardboard"}, 8},
	{[]string{"biodegradable"}, 20},
	{[]string{"compostable"}, 20},
}

var flagDeltas = []scoreDelta{
	{[]string{"organic"}, 15},
	{[]string{"fair-trade", "fairtrade", "fair trade"}, 10},
	{[]string{"local"}, 10},
	{[]string{"seasonal"}, 5},
}

var originDeltas = []scoreDelta{
	{[]string{"local", "regional"}, 15},
	{[]string{"imported", "foreign"}, -10},
	{[]string{"air-freight", "air freight", "airfreight", "by-air"}, -25},
}

var ecoGradePoints = map[string]int{"a": 30, "b": 20, "c": 10, "d": -10, "e": -20}

type categoryEnvironment struct {
	carbon       float64
	water        float64
	packaging    int
	transport    int
	landUse      float64
	biodiversity float64
	reliability  int
	source       string
}

// Per-100g reference values by category. Dairy, meat and vegetables follow the
// Agribalyse/Ecoinvent figures; the rest are estimates.
var categoryEnvironmentTable = map[model.Category]categoryEnvironment{
	model.CategoryBeverages:      {0.2, 30, 2, 3, 0.5, 0.8, 40, "Estimated"},
	model.CategorySnacks:         {0.8, 90, 2, 3, 2.0, 2.0, 40, "Estimated"},
	model.CategoryDairy:          {1.5, 62.8, 3, 4, 2.5, 2.1, 85, "Agribalyse"},
	model.CategoryMeat:           {5.0, 1541.5, 2, 3, 4.5, 4.35, 90, "Ecoinvent"},
	model.CategoryVegetables:     {0.2, 32.2, 4, 3, 1.0, 0.6, 75, "Agribalyse"},
	model.CategoryFruits:         {0.3, 96, 4, 2, 1.5, 1.0, 40, "Estimated"},
	model.CategoryGrains:         {0.4, 160, 3, 4, 2.0, 1.5, 40, "Estimated"},
	model.CategoryProcessedFoods: {1.0, 120, 2, 3, 2.5, 2.0, 40, "Estimated"},
	model.CategoryPlantBased:     {0.5, 80, 3, 3, 1.5, 1.2, 40, "Estimated"},
	model.CategorySeafood:        {2.5, 300, 2, 2, 1.5, 3.0, 40, "Estimated"},
	model.CategoryDefault:        {1.0, 100, 3, 3, 2.0, 1.5, 40, "Estimated"},
}

type deforestationFactor struct {
	keywords []string
	risk     float64
}

var deforestationFactors = []deforestationFactor{
	{[]string{"palm"}, 4.5},
	{[]string{"beef"}, 4.0},
	{[]string{"soy", "soja"}, 3.5},
	{[]string{"cocoa", "cacao"}, 3.0},
	{[]string{"coffee"}, 2.5},
	{[]string{"rubber"}, 2.0},
	{[]string{"sugar"}, 1.5},
	{[]string{"maize", "corn"}, 1.0},
	{[]string{"coconut"}, 1.0},
}

// ScoreEnvironment returns the environmental pillar score (0-100) and the
// detailed profile.
func ScoreEnvironment(in EnvironmentInput) (int, model.EnvironmentalProfile) {
	tags := normalizeTags(in.Labels, in.AnalysisTags)
	origins := normalizeTags(in.Origins)

	score := environmentalBaseline
	score += packagingPoints(in.Packaging)
	score += palmOilPoints(tags)
	for _, d := range flagDeltas {
		if hasTagContaining(tags, d.keywords...) {
			score += d.points
		}
	}
	score += ecoGradeBand(in.EcoGrade, tags)
	for _, d := range originDeltas {
		if hasTagContaining(origins, d.keywords...) {
			score += d.points
		}
	}
	score = clampInt(score, 0, 100)

	if in.Provider != nil && in.Provider.CarbonScore != nil {
		score = clampInt(int(math.Round(100-10*(*in.Provider.CarbonScore))), 0, 100)
	}

	return score, buildEnvironmentalProfile(in, tags)
}

func packagingPoints(packaging string) int {
	text := strings.ToLower(packaging)
	text = strings.ReplaceAll(text, "non-recyclable", "")
	text = strings.ReplaceAll(text, "not recyclable", "")
	points := 0
	for _, d := range packagingDeltas {
		if containsAny(text, d.keywords) {
			points += d.points
		}
	}
	return points
}

// palmOilPoints applies the single most specific palm oil tag.
func palmOilPoints(tags []string) int {
	switch {
	case hasTag(tags, "non-sustainable-palm-oil"):
		return -25
	case hasTag(tags, "sustainable-palm-oil") || hasTagContaining(tags, "rspo", "roundtable-on-sustainable-palm-oil"):
		return -5
	case hasTag(tags, "palm-oil"):
		return -20
	default:
		return 0
	}
}

func ecoGradeBand(grade string, tags []string) int {
	g := strings.ToLower(strings.TrimSpace(grade))
	if p, ok := ecoGradePoints[g]; ok {
		return p
	}
	for _, t := range tags {
		for _, prefix := range []string{"ecoscore-grade-", "eco-score-", "ecoscore-"} {
			if rest, ok := strings.CutPrefix(t, prefix); ok {
				if p, ok := ecoGradePoints[rest]; ok {
					return p
				}
			}
		}
	}
	return 0
}

func buildEnvironmentalProfile(in EnvironmentInput, tags []string) model.EnvironmentalProfile {
	ref, ok := categoryEnvironmentTable[in.Category]
	if !ok {
		ref = categoryEnvironmentTable[model.CategoryDefault]
	}

	profile := model.EnvironmentalProfile{
		CarbonFootprint: ref.carbon,
		WaterFootprint:  ref.water,
		PackagingScore:  ref.packaging,
		TransportScore:  ref.transport,
	}
	confidence := ref.reliability
	provided := make([]string, 0, 4)
	if p := in.Provider; p != nil {
		if p.CarbonKgPer100g != nil && *p.CarbonKgPer100g >= 0 {
			profile.CarbonFootprint = *p.CarbonKgPer100g
			provided = append(provided, "carbon")
		}
		if p.WaterLPer100g != nil && *p.WaterLPer100g >= 0 {
			profile.WaterFootprint = *p.WaterLPer100g
			provided = append(provided, "water")
		}
		if p.PackagingScore != nil {
			profile.PackagingScore = *p.PackagingScore
			provided = append(provided, "packaging")
		}
		if p.TransportScore != nil {
			profile.TransportScore = *p.TransportScore
			provided = append(provided, "transport")
		}
		if p.Reliability > 0 {
			confidence = p.Reliability
		}
	}
	confidence += 10 * len(provided)

	landUse := ref.landUse
	biodiversity := ref.biodiversity
	if hasTagContaining(tags, "organic") {
		landUse += 0.5
	}
	if hasTagContaining(tags, "intensive-farming", "intensive farming") {
		landUse -= 0.5
	}
	if hasTagContaining(tags, "free-range", "free range") {
		landUse += 1.0
	}
	if hasTagContaining(tags, "pesticide") {
		biodiversity += 0.5
	}
	if hasTagContaining(tags, "monoculture") {
		biodiversity += 0.5
	}

	profile.CarbonFootprint = math.Round(math.Max(profile.CarbonFootprint, 0)*1000) / 1000
	profile.WaterFootprint = math.Round(math.Max(profile.WaterFootprint, 0)*100) / 100
	profile.PackagingScore = clampInt(profile.PackagingScore, 1, 5)
	profile.TransportScore = clampInt(profile.TransportScore, 1, 5)
	profile.LandUseScore = clampFloat(landUse, 0, 5)
	profile.BiodiversityImpact = clampFloat(biodiversity, 0, 5)
	profile.DeforestationRisk = DeforestationRisk(in.IngredientNames, tags)
	profile.ConfidenceScore = clampInt(confidence, 0, 100)
	profile.Methodology = methodologyLabel(in.Category, ref.source, provided)
	return profile
}

// DeforestationRisk is the highest ingredient risk factor reduced by
// certification mitigations, within [0,5].
func DeforestationRisk(ingredientNames []string, tags []string) float64 {
	risk := 0.0
	for _, name := range ingredientNames {
		lower := strings.ToLower(name)
		for _, f := range deforestationFactors {
			if f.risk > risk && containsAny(lower, f.keywords) {
				risk = f.risk
			}
		}
	}
	if risk == 0 {
		return 0
	}
	if hasTagContaining(tags, "rainforest-alliance") {
		risk -= 2
	}
	if hasTag(tags, "sustainable-palm-oil") || hasTagContaining(tags, "rspo", "roundtable-on-sustainable-palm-oil") {
		risk -= 1.5
	}
	if hasTagContaining(tags, "organic") {
		risk--
	}
	return clampFloat(risk, 0, 5)
}

func methodologyLabel(category model.Category, source string, provided []string) string {
	if len(provided) == 0 {
		return fmt.Sprintf("Category estimate (%s, %s reference values)", category, source)
	}
	return fmt.Sprintf("Provider data (%s) with category estimate (%s)", strings.Join(provided, ", "), category)
}
