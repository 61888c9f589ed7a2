package upcitemdb

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookupBarcodeParsesUPCItemDBResponse(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/prod/trial/lookup" || r.URL.Query().Get("upc") != "123456789012" {
			t.Errorf("unexpected request %s", r.URL)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "code": "OK",
  "items": [
    {
      "title": "Test Cereal",
      "brand": "Test Brand",
      "category": "Food, Beverages & Tobacco > Food Items > Cereal & Granola",
      "images": ["https://example.com/cereal.jpg"],
      "nutrition_facts": {
        "Calories": "150",
        "Total Sugars": "8g",
        "Sodium": "120mg",
        "Dietary Fiber": "5g"
      }
    }
  ]
}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	item, _, err := c.LookupBarcode(context.Background(), "123456789012")
	if err != nil {
		t.Fatalf("lookup barcode: %v", err)
	}
	if item == nil || item.Name != "Test Cereal" || item.Brand != "Test Brand" || item.ImageURL != "https://example.com/cereal.jpg" {
		t.Fatalf("unexpected parsed item: %+v", item)
	}
	if len(item.Categories) != 3 || item.Categories[2] != "Cereal & Granola" {
		t.Fatalf("unexpected categories: %v", item.Categories)
	}
	if item.Nutrition.EnergyKcal != 150 || item.Nutrition.Sugars != 8 || item.Nutrition.Fiber != 5 {
		t.Fatalf("unexpected nutrients: %+v", item.Nutrition)
	}
	if math.Abs(item.Nutrition.Salt-0.3) > 1e-9 {
		t.Fatalf("expected 0.3g salt, got %v", item.Nutrition.Salt)
	}
}

func TestLookupBarcodeUsesKeyHeaders(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/prod/v1/lookup" {
			t.Errorf("expected paid endpoint, got %s", r.URL.Path)
		}
		if r.Header.Get("user_key") != "secret" || r.Header.Get("key_type") != "3scale" {
			t.Errorf("missing key headers: %v", r.Header)
		}
		_, _ = w.Write([]byte(`{"code": "OK", "total": 0, "items": []}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, APIKey: "secret", HTTPClient: ts.Client()}
	item, _, err := c.LookupBarcode(context.Background(), "1")
	if err != nil {
		t.Fatalf("lookup barcode: %v", err)
	}
	if item != nil {
		t.Fatalf("expected not found, got %+v", item)
	}
}

func TestLookupBarcodeRateLimitedIsError(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"code": "TOO_FAST"}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	if _, _, err := c.LookupBarcode(context.Background(), "1"); err == nil {
		t.Fatalf("expected error for 429")
	}
}
