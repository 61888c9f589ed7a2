package scoring

import (
	"math"
	"strings"
)

// NormalizeTag lower-cases a provider tag and strips a two-letter language
// prefix such as "en:".
func NormalizeTag(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	if len(t) > 3 && t[2] == ':' {
		t = t[3:]
	}
	return t
}

func normalizeTags(groups ...[]string) []string {
	out := make([]string, 0)
	for _, g := range groups {
		for _, tag := range g {
			if t := NormalizeTag(tag); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

func hasTagContaining(tags []string, needles ...string) bool {
	for _, t := range tags {
		if containsAny(t, needles) {
			return true
		}
	}
	return false
}

// hasTagSegment matches whole hyphen-separated segments, so "asc" matches
// "asc-certified" but not "mascarpone".
func hasTagSegment(tags []string, keywords ...string) bool {
	for _, t := range tags {
		padded := "-" + strings.ReplaceAll(t, " ", "-") + "-"
		for _, kw := range keywords {
			if strings.Contains(padded, "-"+kw+"-") {
				return true
			}
		}
	}
	return false
}

func hasTag(tags []string, want ...string) bool {
	for _, t := range tags {
		for _, w := range want {
			if t == w {
				return true
			}
		}
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return math.Round(v*100) / 100
}
