// Package scoring holds the pure pillar scorers: category estimation,
// environmental impact, nutrition grade mapping and safety.
package scoring

import (
	"strings"

	"github.com/Acex619/gusto-food-scanner/internal/model"
)

type keywordGroup struct {
	category model.Category
	keywords []string
}

// Order matters: the first group with a hit wins.
var categoryGroups = []keywordGroup{
	{model.CategoryBeverages, []string{"beverage", "drink", "water", "juice", "soda", "beer", "wine", "alcohol"}},
	{model.CategorySnacks, []string{"snack", "chips", "cookie", "biscuit", "candy", "chocolate", "bar"}},
	{model.CategoryDairy, []string{"dairy", "milk", "cheese", "yogurt", "butter", "cream"}},
	{model.CategoryMeat, []string{"meat", "beef", "pork", "chicken", "poultry", "lamb", "fish", "seafood"}},
	{model.CategoryVegetables, []string{"vegetable", "legume", "salad"}},
	{model.CategoryFruits, []string{"fruit", "berry", "citrus"}},
	{model.CategoryGrains, []string{"grain", "bread", "pasta", "rice", "cereal", "wheat", "flour"}},
}

// Ingredient text only decides between these families.
var ingredientFallbackGroups = []model.Category{
	model.CategoryDairy,
	model.CategoryMeat,
	model.CategoryGrains,
}

// EstimateCategory classifies a product from its category tags, falling back
// to ingredient text. It always returns a category.
func EstimateCategory(categoryTags []string, ingredientText string) model.Category {
	tags := strings.ToLower(strings.Join(categoryTags, " "))
	if tags != "" {
		for _, g := range categoryGroups {
			if containsAny(tags, g.keywords) {
				return g.category
			}
		}
	}

	text := strings.ToLower(ingredientText)
	if strings.TrimSpace(text) == "" {
		return model.CategoryDefault
	}
	for _, want := range ingredientFallbackGroups {
		for _, g := range categoryGroups {
			if g.category == want && containsAny(text, g.keywords) {
				return g.category
			}
		}
	}
	return model.CategoryDefault
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
