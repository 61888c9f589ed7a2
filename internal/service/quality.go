package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/Acex619/gusto-food-scanner/internal/model"
)

const qualityBaseline = 50

// DataQuality is a 0-100 completeness and recency score for one record.
type DataQuality struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons,omitempty"`
}

// ScoreDataQuality rates how complete and how fresh a provider record is.
// Records without a modification time get no recency adjustment.
func ScoreDataQuality(p *model.RawProduct, now time.Time) DataQuality {
	if p == nil {
		return DataQuality{}
	}
	score := qualityBaseline
	reasons := []string{fmt.Sprintf("baseline=%d", qualityBaseline)}
	add := func(ok bool, points int, what string) {
		if ok {
			score += points
			reasons = append(reasons, fmt.Sprintf("%s=%+d", what, points))
		}
	}

	add(strings.TrimSpace(p.Name) != "", 5, "name")
	add(strings.TrimSpace(p.Brand) != "", 5, "brand")
	add(strings.TrimSpace(p.ImageURL) != "", 5, "image")
	add(len(p.Ingredients) > 0 || strings.TrimSpace(p.IngredientsText) != "", 10, "ingredients")
	add(strings.TrimSpace(p.NutritionGrade) != "", 10, "nutrition_grade")
	add(hasNutriments(p.Nutrition), 5, "nutriments")
	if p.Environment != nil && p.Environment.Reliability > 0 {
		add(true, p.Environment.Reliability/10, "environment_reliability")
	}

	if !p.LastModified.IsZero() {
		age := now.Sub(p.LastModified)
		switch {
		case age < 30*24*time.Hour:
			add(true, 10, "recency")
		case age < 90*24*time.Hour:
			add(true, 5, "recency")
		case age > 365*24*time.Hour:
			add(true, -10, "recency")
		}
	}

	score = clampScore(score)
	reasons = append(reasons, fmt.Sprintf("score=%d", score))
	return DataQuality{Score: score, Reasons: reasons}
}

func hasNutriments(n model.Nutriments) bool {
	return n.EnergyKcal > 0 || n.Sugars > 0 || n.Salt > 0 || n.SaturatedFat > 0 || n.Fiber > 0
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
