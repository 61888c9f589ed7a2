package scoring

import "strings"

const unknownGradeScore = 30

var gradeScores = map[string]int{"a": 100, "b": 80, "c": 60, "d": 40, "e": 20}

// ScoreNutrition maps a provider nutrition letter grade to the nutritional
// pillar score. Missing or unrecognised grades score 30.
func ScoreNutrition(grade string) int {
	if s, ok := gradeScores[strings.ToLower(strings.TrimSpace(grade))]; ok {
		return s
	}
	return unknownGradeScore
}

// NormalizeGrade returns the upper-case A-E grade, or "" when the input is not
// a recognised grade.
func NormalizeGrade(grade string) string {
	g := strings.ToLower(strings.TrimSpace(grade))
	if _, ok := gradeScores[g]; !ok {
		return ""
	}
	return strings.ToUpper(g)
}
