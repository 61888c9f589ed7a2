package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Acex619/gusto-food-scanner/internal/model"
)

const (
	defaultBaseURL = "https://world.openfoodfacts.org"
	userAgent      = "gusto/1.0 (+https://github.com/Acex619/gusto-food-scanner)"
	// Eco-score reliability when Agribalyse data backs the record.
	agribalyseReliability = 80
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// LookupBarcode fetches and normalizes one product. A nil product with a nil
// error means the barcode is unknown to Open Food Facts. The raw response body
// is returned for caching and debugging.
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*model.RawProduct, []byte, error) {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	url := fmt.Sprintf("%s/api/v2/product/%s.json", base, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create openfoodfacts request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("execute openfoodfacts request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read openfoodfacts response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, body, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, body, fmt.Errorf("openfoodfacts request failed with status %d", resp.StatusCode)
	}
	product, err := Parse(body)
	if err != nil {
		return nil, body, err
	}
	if product != nil && product.Code == "" {
		product.Code = barcode
	}
	return product, body, nil
}

// Parse normalizes an API v2 product response. It returns nil when the
// response reports the product as missing.
func Parse(body []byte) (*model.RawProduct, error) {
	var parsed offResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode openfoodfacts response: %w", err)
	}
	if parsed.Status != 1 {
		return nil, nil
	}
	p := parsed.Product

	out := &model.RawProduct{
		Code:            strings.TrimSpace(p.Code),
		Name:            strings.TrimSpace(p.ProductName),
		Brand:           firstBrand(p.Brands),
		ImageURL:        firstNonEmpty(p.ImageFrontURL, p.ImageURL),
		Categories:      p.CategoriesTags,
		Countries:       p.CountriesTags,
		Packaging:       packagingText(p),
		NutritionGrade:  strings.ToLower(firstNonEmpty(p.NutriscoreGrade, p.NutritionGrades)),
		IngredientsText: strings.TrimSpace(p.IngredientsText),
		Additives:       p.AdditivesTags,
		Allergens:       p.AllergensTags,
		Labels:          p.LabelsTags,
		Origins:         p.OriginsTags,
		AnalysisTags:    p.IngredientsAnalysisTags,
		NovaGroup:       novaGroup(p.NovaGroup),
		EcoGrade:        ecoGrade(firstNonEmpty(p.EcoscoreGrade, p.EnvironmentalScoreGrade)),
		Environment:     parseEnvironment(p.EcoscoreData),
	}
	if p.Nutriments != nil {
		out.Nutrition = model.Nutriments{
			EnergyKcal:   nutrientValue(p.Nutriments, "energy-kcal"),
			Sugars:       nutrientValue(p.Nutriments, "sugars"),
			Salt:         nutrientValue(p.Nutriments, "salt"),
			SaturatedFat: nutrientValue(p.Nutriments, "saturated-fat"),
			Fiber:        nutrientValue(p.Nutriments, "fiber"),
		}
	}
	out.Ingredients = make([]model.RawIngredient, 0, len(p.Ingredients))
	for _, ing := range p.Ingredients {
		out.Ingredients = append(out.Ingredients, parseIngredient(ing))
	}
	if p.LastModifiedT > 0 {
		out.LastModified = time.Unix(p.LastModifiedT, 0).UTC()
	}
	return out, nil
}

func parseIngredient(ing offIngredient) model.RawIngredient {
	r := model.RawIngredient{
		Text:        strings.TrimSpace(ing.Text),
		ID:          strings.TrimSpace(ing.ID),
		Vegan:       yesNo(ing.Vegan),
		Vegetarian:  yesNo(ing.Vegetarian),
		FromPalmOil: yesNo(ing.FromPalmOil),
	}
	if strings.Contains(strings.ToLower(ing.Labels), "organic") {
		organic := true
		r.Organic = &organic
	}
	return r
}

// yesNo maps the "yes"/"no"/"maybe" tri-state; "maybe" stays unknown.
func yesNo(v string) *bool {
	var b bool
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes":
		b = true
	case "no":
		b = false
	default:
		return nil
	}
	return &b
}

func parseEnvironment(d *offEcoscoreData) *model.ProviderEnvironment {
	if d == nil {
		return nil
	}
	env := &model.ProviderEnvironment{}
	found := false
	if co2, ok := parseFloatAny(d.Agribalyse.CO2Total); ok && co2 >= 0 {
		perHundred := co2 / 10
		env.CarbonKgPer100g = &perHundred
		env.CarbonScore = &co2
		env.Reliability = agribalyseReliability
		found = true
	}
	if ts, ok := parseFloatAny(d.Adjustments.OriginsOfIngredients.TransportationScore); ok {
		transport := 1 + int(math.Round(clamp(ts, 0, 100)/25))
		env.TransportScore = &transport
		found = true
	}
	if ps, ok := parseFloatAny(d.Adjustments.Packaging.Value); ok {
		// The adjustment runs from -15 (worst) to 0 (best).
		packaging := 5 + int(math.Round(clamp(ps, -15, 0)/3.75))
		env.PackagingScore = &packaging
		found = true
	}
	if !found {
		return nil
	}
	return env
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func packagingText(p offProduct) string {
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(firstNonEmpty(p.PackagingText, p.Packaging)); s != "" {
		parts = append(parts, s)
	}
	if len(p.PackagingTags) > 0 {
		tags := make([]string, 0, len(p.PackagingTags))
		for _, t := range p.PackagingTags {
			if len(t) > 3 && t[2] == ':' {
				t = t[3:]
			}
			tags = append(tags, t)
		}
		parts = append(parts, strings.Join(tags, ", "))
	}
	return strings.Join(parts, "; ")
}

func novaGroup(v any) int {
	f, ok := parseFloatAny(v)
	if !ok || f < 1 || f > 4 {
		return 0
	}
	return int(f)
}

func ecoGrade(g string) string {
	g = strings.ToLower(strings.TrimSpace(g))
	switch g {
	case "a", "b", "c", "d", "e":
		return g
	case "a-plus":
		return "a"
	default:
		return ""
	}
}

func firstBrand(brands string) string {
	first, _, _ := strings.Cut(brands, ",")
	return strings.TrimSpace(first)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func nutrientValue(n map[string]any, base string) float64 {
	for _, key := range []string{base + "_100g", base} {
		if v, ok := parseFloatAny(n[key]); ok {
			return v
		}
	}
	return 0
}

func parseFloatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

type offResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type offProduct struct {
	Code                    string           `json:"code"`
	ProductName             string           `json:"product_name"`
	Brands                  string           `json:"brands"`
	ImageFrontURL           string           `json:"image_front_url"`
	ImageURL                string           `json:"image_url"`
	CategoriesTags          []string         `json:"categories_tags"`
	CountriesTags           []string         `json:"countries_tags"`
	Packaging               string           `json:"packaging"`
	PackagingText           string           `json:"packaging_text"`
	PackagingTags           []string         `json:"packaging_tags"`
	Nutriments              map[string]any   `json:"nutriments"`
	NutriscoreGrade         string           `json:"nutriscore_grade"`
	NutritionGrades         string           `json:"nutrition_grades"`
	Ingredients             []offIngredient  `json:"ingredients"`
	IngredientsText         string           `json:"ingredients_text"`
	AdditivesTags           []string         `json:"additives_tags"`
	AllergensTags           []string         `json:"allergens_tags"`
	LabelsTags              []string         `json:"labels_tags"`
	OriginsTags             []string         `json:"origins_tags"`
	IngredientsAnalysisTags []string         `json:"ingredients_analysis_tags"`
	NovaGroup               any              `json:"nova_group"`
	EcoscoreGrade           string           `json:"ecoscore_grade"`
	EnvironmentalScoreGrade string           `json:"environmental_score_grade"`
	EcoscoreData            *offEcoscoreData `json:"ecoscore_data"`
	LastModifiedT           int64            `json:"last_modified_t"`
}

type offIngredient struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Vegan       string `json:"vegan"`
	Vegetarian  string `json:"vegetarian"`
	FromPalmOil string `json:"from_palm_oil"`
	Labels      string `json:"labels"`
}

type offEcoscoreData struct {
	Agribalyse struct {
		CO2Total any `json:"co2_total"`
	} `json:"agribalyse"`
	Adjustments struct {
		OriginsOfIngredients struct {
			TransportationScore any `json:"transportation_score"`
		} `json:"origins_of_ingredients"`
		Packaging struct {
			Value any `json:"value"`
		} `json:"packaging"`
	} `json:"adjustments"`
}
