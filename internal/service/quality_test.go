package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Acex619/gusto-food-scanner/internal/model"
)

func TestScoreDataQuality(t *testing.T) {
	reliability := 80
	tests := []struct {
		name    string
		product *model.RawProduct
		want    int
	}{
		{"nil record", nil, 0},
		{"name only, undated", &model.RawProduct{Name: "Crackers"}, 55},
		{"name only, stale", &model.RawProduct{Name: "Crackers", LastModified: fixedNow.AddDate(-2, 0, 0)}, 45},
		{"two months old", &model.RawProduct{Name: "Crackers", LastModified: fixedNow.Add(-60 * 24 * time.Hour)}, 60},
		{"half a year old", &model.RawProduct{Name: "Crackers", LastModified: fixedNow.AddDate(0, -6, 0)}, 55},
		{"ingredients text counts", &model.RawProduct{Name: "Crackers", IngredientsText: "Wheat flour, salt"}, 65},
		{
			"complete and fresh is capped",
			&model.RawProduct{
				Name:           "Hazelnut spread",
				Brand:          "Ferrero",
				ImageURL:       "https://images.example/spread.jpg",
				Ingredients:    []model.RawIngredient{{Text: "Sugar"}},
				NutritionGrade: "e",
				Nutrition:      model.Nutriments{EnergyKcal: 539},
				Environment:    &model.ProviderEnvironment{Reliability: reliability},
				LastModified:   fixedNow.Add(-24 * time.Hour),
			},
			100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreDataQuality(tt.product, fixedNow)
			assert.Equal(t, tt.want, got.Score)
		})
	}
}

func TestScoreDataQualityReasons(t *testing.T) {
	got := ScoreDataQuality(&model.RawProduct{Name: "Crackers", Brand: "Acme"}, fixedNow)
	assert.Equal(t, []string{"baseline=50", "name=+5", "brand=+5", "score=60"}, got.Reasons)
}

func TestMarketAvailability(t *testing.T) {
	tests := []struct {
		name      string
		countries []string
		want      []string
	}{
		{"eu and us", []string{"en:france", "en:united-states"}, []string{"EU", "US"}},
		{"iso codes", []string{"de", "US"}, []string{"EU", "US"}},
		{"us only", []string{"en:United States"}, []string{"US"}},
		{"elsewhere", []string{"en:japan"}, []string{"Global"}},
		{"no tags", nil, []string{"Global"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarketAvailability(tt.countries, fixedNow)
			assert.Equal(t, tt.want, got.AvailableIn)
			assert.Equal(t, "2026-10-15", got.LastVerified)
		})
	}
}
