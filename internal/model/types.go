package model

import "time"

type Category string

const (
	CategoryBeverages      Category = "beverages"
	CategorySnacks         Category = "snacks"
	CategoryDairy          Category = "dairy"
	CategoryMeat           Category = "meat"
	CategoryVegetables     Category = "vegetables"
	CategoryFruits         Category = "fruits"
	CategoryGrains         Category = "grains"
	CategoryProcessedFoods Category = "processed-foods"
	CategoryPlantBased     Category = "plant-based"
	CategorySeafood        Category = "seafood"
	CategoryDefault        Category = "default"
)

type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskCaution  RiskLevel = "caution"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

type GMOStatus string

const (
	GMOFree      GMOStatus = "gmo-free"
	GMOLikely    GMOStatus = "likely-gmo"
	GMOContained GMOStatus = "contains-gmo"
)

type Sustainability string

const (
	SustainabilityHigh   Sustainability = "high"
	SustainabilityMedium Sustainability = "medium"
	SustainabilityLow    Sustainability = "low"
)

type Allergenicity string

const (
	AllergenicityNone   Allergenicity = "none"
	AllergenicityLow    Allergenicity = "low"
	AllergenicityMedium Allergenicity = "medium"
	AllergenicityHigh   Allergenicity = "high"
)

type ProcessingLevel string

const (
	ProcessingMinimal  ProcessingLevel = "minimal"
	ProcessingModerate ProcessingLevel = "moderate"
	ProcessingHigh     ProcessingLevel = "high"
)

// Tier is the priority slot a data source occupies in the resolver.
type Tier string

const (
	TierPrimary   Tier = "primary"
	TierSecondary Tier = "secondary"
	TierTertiary  Tier = "tertiary"
)

// RawProduct is a provider record after parse-and-normalize. Scoring code
// reads it and never mutates it.
type RawProduct struct {
	Code            string               `json:"code"`
	Name            string               `json:"name"`
	Brand           string               `json:"brand"`
	ImageURL        string               `json:"image_url,omitempty"`
	Categories      []string             `json:"categories,omitempty"`
	Countries       []string             `json:"countries,omitempty"`
	Packaging       string               `json:"packaging,omitempty"`
	Nutrition       Nutriments           `json:"nutrition"`
	NutritionGrade  string               `json:"nutrition_grade,omitempty"`
	Ingredients     []RawIngredient      `json:"ingredients,omitempty"`
	IngredientsText string               `json:"ingredients_text,omitempty"`
	Additives       []string             `json:"additives,omitempty"`
	Allergens       []string             `json:"allergens,omitempty"`
	Labels          []string             `json:"labels,omitempty"`
	Origins         []string             `json:"origins,omitempty"`
	AnalysisTags    []string             `json:"analysis_tags,omitempty"`
	NovaGroup       int                  `json:"nova_group,omitempty"`
	EcoGrade        string               `json:"eco_grade,omitempty"`
	Environment     *ProviderEnvironment `json:"environment,omitempty"`
	QualityScore    int                  `json:"quality_score,omitempty"`
	LastModified    time.Time            `json:"last_modified,omitempty"`
}

// Nutriments are per 100g; missing values are zero.
type Nutriments struct {
	EnergyKcal   float64 `json:"energy_kcal"`
	Sugars       float64 `json:"sugars_g"`
	Salt         float64 `json:"salt_g"`
	SaturatedFat float64 `json:"saturated_fat_g"`
	Fiber        float64 `json:"fiber_g"`
}

type ProviderEnvironment struct {
	CarbonKgPer100g *float64 `json:"carbon_kg_per_100g,omitempty"`
	WaterLPer100g   *float64 `json:"water_l_per_100g,omitempty"`
	PackagingScore  *int     `json:"packaging_score,omitempty"`
	TransportScore  *int     `json:"transport_score,omitempty"`
	CarbonScore     *float64 `json:"carbon_score,omitempty"`
	Reliability     int      `json:"reliability,omitempty"`
}

type RawIngredient struct {
	Text           string                `json:"text"`
	ID             string                `json:"id,omitempty"`
	Description    string                `json:"description,omitempty"`
	Vegan          *bool                 `json:"vegan,omitempty"`
	Vegetarian     *bool                 `json:"vegetarian,omitempty"`
	Organic        *bool                 `json:"organic,omitempty"`
	FromPalmOil    *bool                 `json:"from_palm_oil,omitempty"`
	References     []ScientificReference `json:"references,omitempty"`
	HealthConcerns []string              `json:"health_concerns,omitempty"`
	GMORisk        string                `json:"gmo_risk,omitempty"`
}

// Name is the display name of the ingredient: its text, or the taxonomy id
// without the language prefix.
func (r RawIngredient) Name() string {
	if r.Text != "" {
		return r.Text
	}
	id := r.ID
	if len(id) > 3 && id[2] == ':' {
		id = id[3:]
	}
	return id
}

type ScientificReference struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	Source       string `json:"source,omitempty"`
	Year         int    `json:"year,omitempty"`
	Summary      string `json:"summary,omitempty"`
	Confidence   int    `json:"confidence"`
	PeerReviewed bool   `json:"peer_reviewed"`
}

type IngredientAnalysis struct {
	Name            string                `json:"name"`
	RiskLevel       RiskLevel             `json:"risk_level"`
	Description     string                `json:"description"`
	Concerns        []string              `json:"concerns,omitempty"`
	References      []ScientificReference `json:"references,omitempty"`
	GMOStatus       GMOStatus             `json:"gmo_status"`
	GMOConfidence   int                   `json:"gmo_confidence"`
	Sustainability  Sustainability        `json:"sustainability"`
	Allergenicity   Allergenicity         `json:"allergenicity"`
	ProcessingLevel ProcessingLevel       `json:"processing_level"`
}

type EnvironmentalProfile struct {
	CarbonFootprint    float64 `json:"carbon_footprint_kg_per_100g"`
	WaterFootprint     float64 `json:"water_footprint_l_per_100g"`
	PackagingScore     int     `json:"packaging_score"`
	TransportScore     int     `json:"transport_score"`
	LandUseScore       float64 `json:"land_use_score"`
	BiodiversityImpact float64 `json:"biodiversity_impact_score"`
	DeforestationRisk  float64 `json:"deforestation_risk_score"`
	ConfidenceScore    int     `json:"confidence_score"`
	Methodology        string  `json:"methodology"`
}

type NutritionalProfile struct {
	Grade        string  `json:"grade,omitempty"`
	Calories     float64 `json:"calories"`
	Sugar        float64 `json:"sugar_g"`
	Salt         float64 `json:"salt_g"`
	SaturatedFat float64 `json:"saturated_fat_g"`
	Fiber        float64 `json:"fiber_g"`
}

type MarketData struct {
	AvailableIn  []string `json:"available_in"`
	LastVerified string   `json:"last_verified"`
}

type AnalysisResult struct {
	ProductName        string               `json:"product_name"`
	Brand              string               `json:"brand"`
	ImageURL           string               `json:"image_url,omitempty"`
	Barcode            string               `json:"barcode"`
	Category           Category             `json:"category"`
	EnvironmentalScore int                  `json:"environmental_score"`
	NutritionalScore   int                  `json:"nutritional_score"`
	SafetyScore        int                  `json:"safety_score"`
	OverallScore       int                  `json:"overall_score"`
	GMOFree            bool                 `json:"gmo_free"`
	Concerns           []string             `json:"concerns"`
	Ingredients        []IngredientAnalysis `json:"ingredients"`
	Environmental      EnvironmentalProfile `json:"environmental"`
	Nutritional        NutritionalProfile   `json:"nutritional"`
	Market             MarketData           `json:"market"`
	DataSource         string               `json:"data_source"`
	Tier               Tier                 `json:"tier"`
	LastUpdated        string               `json:"last_updated"`
	TrustScore         int                  `json:"trust_score"`
}
