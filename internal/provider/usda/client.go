package usda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Acex619/gusto-food-scanner/internal/model"
)

const defaultBaseURL = "https://api.nal.usda.gov"

// Grams of salt per milligram of sodium.
const saltPerSodiumMg = 2.5 / 1000

type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// LookupBarcode searches FoodData Central branded foods for an exact GTIN/UPC
// match. A nil product with a nil error means no branded food carries the
// barcode.
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*model.RawProduct, []byte, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, nil, fmt.Errorf("missing USDA API key")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}

	reqBody := map[string]any{
		"query":    barcode,
		"dataType": []string{"Branded"},
		"pageSize": 20,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal USDA search payload: %w", err)
	}

	url := fmt.Sprintf("%s/fdc/v1/foods/search?api_key=%s", baseURL, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("create USDA request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("execute USDA request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read USDA response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, body, fmt.Errorf("USDA request failed with status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, body, fmt.Errorf("decode USDA response: %w", err)
	}

	food, ok := selectBarcodeMatch(parsed.Foods, barcode)
	if !ok {
		return nil, body, nil
	}
	return toRawProduct(food, barcode), body, nil
}

func toRawProduct(food usdaFood, barcode string) *model.RawProduct {
	out := &model.RawProduct{
		Code:            barcode,
		Name:            strings.TrimSpace(food.Description),
		Brand:           firstNonEmpty(food.BrandName, food.BrandOwner),
		IngredientsText: strings.TrimSpace(food.Ingredients),
	}
	if cat := strings.TrimSpace(food.FoodCategory); cat != "" {
		out.Categories = []string{cat}
	}
	if country := strings.TrimSpace(food.MarketCountry); country != "" {
		out.Countries = []string{"en:" + strings.ReplaceAll(strings.ToLower(country), " ", "-")}
	}
	for _, n := range food.FoodNutrients {
		name := strings.ToLower(strings.TrimSpace(n.NutrientName))
		switch name {
		case "energy":
			if strings.EqualFold(n.UnitName, "kcal") || n.UnitName == "" {
				out.Nutrition.EnergyKcal = n.Value
			}
		case "sugars, total including nlea", "sugars, total", "total sugars":
			out.Nutrition.Sugars = n.Value
		case "sodium, na":
			out.Nutrition.Salt = n.Value * saltPerSodiumMg
		case "fatty acids, total saturated":
			out.Nutrition.SaturatedFat = n.Value
		case "fiber, total dietary":
			out.Nutrition.Fiber = n.Value
		}
	}
	for _, layout := range []string{"2006-01-02", "01/02/2006"} {
		if t, err := time.Parse(layout, firstNonEmpty(food.ModifiedDate, food.PublishedDate)); err == nil {
			out.LastModified = t.UTC()
			break
		}
	}
	return out
}

// selectBarcodeMatch only accepts an exact GTIN match; leading zeros are not
// significant (UPC-A inside a GTIN-14).
func selectBarcodeMatch(foods []usdaFood, barcode string) (usdaFood, bool) {
	want := strings.TrimLeft(strings.TrimSpace(barcode), "0")
	if want == "" {
		return usdaFood{}, false
	}
	for _, f := range foods {
		if strings.TrimLeft(strings.TrimSpace(f.GTINUPC), "0") == want {
			return f, true
		}
	}
	return usdaFood{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

type searchResponse struct {
	Foods []usdaFood `json:"foods"`
}

type usdaFood struct {
	FDCID         int64          `json:"fdcId"`
	Description   string         `json:"description"`
	BrandOwner    string         `json:"brandOwner"`
	BrandName     string         `json:"brandName"`
	GTINUPC       string         `json:"gtinUpc"`
	Ingredients   string         `json:"ingredients"`
	FoodCategory  string         `json:"foodCategory"`
	MarketCountry string         `json:"marketCountry"`
	ModifiedDate  string         `json:"modifiedDate"`
	PublishedDate string         `json:"publishedDate"`
	FoodNutrients []usdaNutrient `json:"foodNutrients"`
}

type usdaNutrient struct {
	NutrientName string  `json:"nutrientName"`
	UnitName     string  `json:"unitName"`
	Value        float64 `json:"value"`
}
