package upcitemdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Acex619/gusto-food-scanner/internal/model"
)

const defaultBaseURL = "https://api.upcitemdb.com"

type Client struct {
	BaseURL    string
	APIKey     string
	APIKeyType string
	HTTPClient *http.Client
}

// LookupBarcode queries the UPCitemdb lookup endpoint, using the trial
// endpoint when no key is configured. A nil product with a nil error means the
// code is unknown.
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*model.RawProduct, []byte, error) {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	path := "/prod/trial/lookup"
	if strings.TrimSpace(c.APIKey) != "" {
		path = "/prod/v1/lookup"
	}
	url := fmt.Sprintf("%s%s?upc=%s", base, path, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create upcitemdb request: %w", err)
	}
	if strings.TrimSpace(c.APIKey) != "" {
		keyType := strings.TrimSpace(c.APIKeyType)
		if keyType == "" {
			keyType = "3scale"
		}
		req.Header.Set("key_type", keyType)
		req.Header.Set("user_key", strings.TrimSpace(c.APIKey))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("execute upcitemdb request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read upcitemdb response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, body, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, body, fmt.Errorf("upcitemdb request failed with status %d", resp.StatusCode)
	}

	var parsed response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, body, fmt.Errorf("decode upcitemdb response: %w", err)
	}
	if strings.ToUpper(parsed.Code) != "OK" || len(parsed.Items) == 0 {
		return nil, body, nil
	}
	return toRawProduct(parsed.Items[0], barcode), body, nil
}

func toRawProduct(it item, barcode string) *model.RawProduct {
	out := &model.RawProduct{
		Code:  barcode,
		Name:  strings.TrimSpace(it.Title),
		Brand: strings.TrimSpace(it.Brand),
	}
	if len(it.Images) > 0 {
		out.ImageURL = strings.TrimSpace(it.Images[0])
	}
	// Categories arrive as a breadcrumb: "Food, Beverages & Tobacco > Beverages > Soda".
	for _, part := range strings.Split(it.Category, ">") {
		if p := strings.TrimSpace(part); p != "" {
			out.Categories = append(out.Categories, p)
		}
	}
	if len(it.NutritionFacts) > 0 {
		out.Nutrition = model.Nutriments{
			EnergyKcal:   parseNutrient(it.NutritionFacts, "calories"),
			Sugars:       parseNutrient(it.NutritionFacts, "sugar"),
			Salt:         parseNutrient(it.NutritionFacts, "sodium") * 2.5 / 1000,
			SaturatedFat: parseNutrient(it.NutritionFacts, "saturated"),
			Fiber:        parseNutrient(it.NutritionFacts, "fiber"),
		}
	}
	return out
}

func parseNutrient(n map[string]any, keyContains string) float64 {
	for k, v := range n {
		if strings.Contains(strings.ToLower(k), keyContains) {
			s := fmt.Sprintf("%v", v)
			var filtered strings.Builder
			for _, r := range s {
				if (r >= '0' && r <= '9') || r == '.' {
					filtered.WriteRune(r)
				}
			}
			if f, err := strconv.ParseFloat(filtered.String(), 64); err == nil {
				return f
			}
		}
	}
	return 0
}

type response struct {
	Code  string `json:"code"`
	Items []item `json:"items"`
}

type item struct {
	Title          string         `json:"title"`
	Brand          string         `json:"brand"`
	Category       string         `json:"category"`
	Images         []string       `json:"images"`
	NutritionFacts map[string]any `json:"nutrition_facts"`
}
