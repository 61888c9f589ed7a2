// Package ingredient filters, classifies and enriches the ingredient entries
// of a product record.
package ingredient

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWordPattern = regexp.MustCompile(`[^a-z0-9]+`)
	eNumberPattern = regexp.MustCompile(`(?:^|[^a-z0-9])e[\s-]?(\d{3,4}[a-z]?)(?:[^a-z0-9]|$)`)
)

// Normalize folds an ingredient name for matching: accents removed, lower
// case, runs of punctuation and whitespace collapsed to a single space.
func Normalize(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)
	return strings.TrimSpace(nonWordPattern.ReplaceAllString(folded, " "))
}

// containsWord reports whether the normalized text holds term as a whole word
// sequence, allowing a plural "s" or "es" on the last word.
func containsWord(text, term string) bool {
	padded := " " + text + " "
	for _, suffix := range []string{"", "s", "es"} {
		if strings.Contains(padded, " "+term+suffix+" ") {
			return true
		}
	}
	return false
}

func matchAnyWord(text string, terms []string) (string, bool) {
	for _, term := range terms {
		if containsWord(text, term) {
			return term, true
		}
	}
	return "", false
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// ENumber extracts a food additive code such as "e322i" from a name or
// taxonomy id, or returns "".
func ENumber(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	if len(lower) > 3 && lower[2] == ':' {
		lower = lower[3:]
	}
	m := eNumberPattern.FindStringSubmatch(lower)
	if m == nil {
		return ""
	}
	return "e" + m[1]
}

// baseENumber strips a variant suffix: "e322i" becomes "e322".
func baseENumber(code string) string {
	return strings.TrimRightFunc(code, func(r rune) bool {
		return r >= 'a' && r <= 'z'
	})
}

func tagNormalize(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	if len(t) > 3 && t[2] == ':' {
		t = t[3:]
	}
	return t
}

func labelContains(labels []string, needles ...string) bool {
	for _, l := range labels {
		if containsAny(tagNormalize(l), needles) {
			return true
		}
	}
	return false
}
