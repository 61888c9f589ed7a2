package ingredient

import (
	"strings"

	"github.com/Acex619/gusto-food-scanner/internal/model"
)

const (
	concernHighRisk      = "Substance on the high-risk additive list"
	concernModerateRisk  = "Ingredient associated with moderate health concerns"
	concernAdditiveCode  = "Regulated additive with reported health concerns"
	concernPalmOil       = "Derived from palm oil"
	concernGMO           = "Contains genetically modified material"
	concernUnsustainable = "Sourcing with a poor sustainability record"
	concernAllergen      = "Common food allergen"
)

// Classification is the deterministic verdict for one ingredient.
type Classification struct {
	RiskLevel       model.RiskLevel
	GMOStatus       model.GMOStatus
	GMOConfidence   int
	Sustainability  model.Sustainability
	Allergenicity   model.Allergenicity
	ProcessingLevel model.ProcessingLevel
	Concerns        []string
}

// Classify derives risk, GMO, sustainability, allergenicity and processing
// verdicts from an ingredient and the product-level label tags. It is a pure
// function of its inputs.
func Classify(raw model.RawIngredient, productLabels []string) Classification {
	name := Normalize(raw.Name())
	code := ENumber(raw.ID)
	if code == "" {
		code = ENumber(raw.Name())
	}
	organic := flag(raw.Organic) || containsWord(name, "organic") || labelContains(productLabels, "organic")

	c := Classification{
		RiskLevel:       classifyRisk(raw, name, code),
		Sustainability:  classifySustainability(raw, name, organic, productLabels),
		Allergenicity:   classifyAllergenicity(name),
		ProcessingLevel: classifyProcessing(raw, name, code),
	}
	c.GMOStatus, c.GMOConfidence = classifyGMO(raw, name, organic, productLabels)
	c.Concerns = concernsFor(raw, c)
	return c
}

func classifyRisk(raw model.RawIngredient, name, code string) model.RiskLevel {
	if _, ok := matchAnyWord(name, highRiskTerms); ok || highRiskCodes[code] || highRiskCodes[baseENumber(code)] {
		return model.RiskHigh
	}
	if _, ok := matchAnyWord(name, moderateRiskTerms); ok {
		// Palm-derived entries carry both the moderate listing and the palm flag;
		// the flag decides.
		if flag(raw.FromPalmOil) {
			return model.RiskHigh
		}
		return model.RiskModerate
	}
	if code != "" && (concerningCodes[code] || concerningCodes[baseENumber(code)]) {
		return model.RiskModerate
	}
	if flag(raw.Vegan) && flag(raw.Vegetarian) && flag(raw.Organic) {
		return model.RiskSafe
	}
	if flag(raw.FromPalmOil) {
		return model.RiskHigh
	}
	return model.RiskCaution
}

func classifyGMO(raw model.RawIngredient, name string, organic bool, labels []string) (model.GMOStatus, int) {
	hint := strings.ToLower(strings.TrimSpace(raw.GMORisk))
	switch {
	case organic:
		return model.GMOFree, 95
	case labelContains(labels, nonGMOLabels...) || hint == "no" || hint == "none":
		return model.GMOFree, 90
	case labelContains(labels, containsGMOLabels...) || hint == "high":
		return model.GMOContained, 90
	case flag(raw.Vegan) && flag(raw.Vegetarian):
		return model.GMOFree, 75
	}
	if _, ok := matchAnyWord(name, gmoCropTerms); ok {
		return model.GMOLikely, 80
	}
	if _, ok := matchAnyWord(name, gmoDerivedTerms); ok {
		return model.GMOLikely, 65
	}
	return model.GMOLikely, 50
}

func classifySustainability(raw model.RawIngredient, name string, organic bool, labels []string) model.Sustainability {
	if _, ok := matchAnyWord(name, redMeatTerms); ok {
		return model.SustainabilityLow
	}
	palm := flag(raw.FromPalmOil) || containsWord(name, "palm") || strings.Contains(name, "palmolein")
	if palm {
		certified := organic || containsAny(name, palmCertifications) ||
			labelContains(labels, "rspo", "sustainable-palm-oil", "roundtable-on-sustainable-palm-oil")
		if !certified {
			return model.SustainabilityLow
		}
	}
	if _, ok := matchAnyWord(name, sustainableTerms); ok || organic || labelContains(labels, "fair-trade", "fairtrade") {
		return model.SustainabilityHigh
	}
	return model.SustainabilityMedium
}

func classifyAllergenicity(name string) model.Allergenicity {
	text := name
	for _, ex := range allergenExclusions {
		text = strings.ReplaceAll(text, ex, " ")
	}
	text = strings.Join(strings.Fields(text), " ")
	if _, ok := matchAnyWord(text, majorAllergenTerms); ok {
		return model.AllergenicityHigh
	}
	if _, ok := matchAnyWord(text, minorAllergenTerms); ok {
		return model.AllergenicityMedium
	}
	if _, ok := matchAnyWord(text, lowAllergenTerms); ok {
		return model.AllergenicityLow
	}
	return model.AllergenicityNone
}

func classifyProcessing(raw model.RawIngredient, name, code string) model.ProcessingLevel {
	if code != "" || containsAny(name, highProcessingFragments) {
		return model.ProcessingHigh
	}
	if _, ok := matchAnyWord(name, minimalProcessingTerms); ok || flag(raw.Organic) {
		return model.ProcessingMinimal
	}
	return model.ProcessingModerate
}

func concernsFor(raw model.RawIngredient, c Classification) []string {
	out := make([]string, 0, len(raw.HealthConcerns)+2)
	seen := make(map[string]bool)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}
	for _, hc := range raw.HealthConcerns {
		add(hc)
	}
	switch c.RiskLevel {
	case model.RiskHigh:
		if flag(raw.FromPalmOil) {
			add(concernPalmOil)
		} else {
			add(concernHighRisk)
		}
	case model.RiskModerate:
		if ENumber(raw.ID) != "" || ENumber(raw.Name()) != "" {
			add(concernAdditiveCode)
		} else {
			add(concernModerateRisk)
		}
	}
	if c.GMOStatus == model.GMOContained {
		add(concernGMO)
	}
	if c.Sustainability == model.SustainabilityLow {
		add(concernUnsustainable)
	}
	if c.Allergenicity == model.AllergenicityHigh {
		add(concernAllergen)
	}
	return out
}

func flag(b *bool) bool {
	return b != nil && *b
}
