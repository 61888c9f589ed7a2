package ingredient

import (
	"regexp"
	"strings"

	"github.com/Acex619/gusto-food-scanner/internal/model"
)

// Label text that ingredient lists carry but that names no ingredient.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`contains?\s+(less than|<)\s*\d+(\.\d+)?\s*%`),
	regexp.MustCompile(`contains?\s+\d+(\.\d+)?\s*%\s+or less`),
	regexp.MustCompile(`less than\s+\d+(\.\d+)?\s*%\s+of`),
	regexp.MustCompile(`\d+(\.\d+)?\s*%\s+or less of`),
	regexp.MustCompile(`manufactured\s+(in|on|by)\b`),
	regexp.MustCompile(`(made|processed|produced|packed|packaged)\s+(in|on)\s+(a\s+)?(facility|factory|plant|equipment|line)`),
	regexp.MustCompile(`\bmay contain\b`),
	regexp.MustCompile(`\btraces? of\b`),
	regexp.MustCompile(`\ballerg(y|en)\s+(advice|information|warning)`),
	regexp.MustCompile(`^for allergens\b`),
}

// IsBoilerplate reports whether an ingredient entry is administrative label
// text rather than an ingredient.
func IsBoilerplate(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return true
	}
	for _, p := range boilerplatePatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

// Filter drops boilerplate and nameless entries, keeping input order.
func Filter(raws []model.RawIngredient) []model.RawIngredient {
	out := make([]model.RawIngredient, 0, len(raws))
	for _, r := range raws {
		if IsBoilerplate(r.Name()) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ParseText splits a free-text ingredient list on top-level commas and
// semicolons. Parenthesised sub-ingredients stay with their parent.
func ParseText(text string) []model.RawIngredient {
	var (
		out   []model.RawIngredient
		depth int
		start int
	)
	flush := func(end int) {
		part := strings.TrimSpace(text[start:end])
		part = strings.TrimRight(part, ".")
		if part != "" {
			out = append(out, model.RawIngredient{Text: part})
		}
	}
	for i, r := range text {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',', ';':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(text))
	return out
}
