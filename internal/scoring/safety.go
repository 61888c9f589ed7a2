package scoring

const (
	safetyBaseline        = 80
	allergenPenalty       = 5
	additivePenalty       = 2
	maxAdditivePenalty    = 30
	highConcernPenalty    = 10
	processingStepPenalty = 5
	organicBonus          = 5
	certificationBonus    = 3
)

// Colorants, preservatives and flavor enhancers with the strongest regulatory
// scrutiny.
var highConcernAdditives = []string{
	"e102", "e104", "e110", "e122", "e124", "e129", "e150d", "e171",
	"e211", "e220", "e249", "e250", "e251", "e252",
	"e319", "e320", "e321", "e621", "e951",
}

var certificationKeywords = []string{
	"label-rouge", "pdo", "pgi", "protected-designation", "protected-geographical",
	"aop", "igp", "msc", "asc", "fair-trade", "fairtrade", "rainforest-alliance",
	"non-gmo-project", "certified", "quality",
}

// SafetyInput is what the safety scorer reads from a record.
type SafetyInput struct {
	Allergens []string
	Additives []string
	// NovaGroup is 1 (unprocessed) to 4 (ultra-processed); 0 means unknown.
	NovaGroup int
	Labels    []string
}

// ScoreSafety returns the safety pillar score within [0,100].
func ScoreSafety(in SafetyInput) int {
	score := safetyBaseline
	score -= allergenPenalty * len(in.Allergens)

	additivePoints := additivePenalty * len(in.Additives)
	if additivePoints > maxAdditivePenalty {
		additivePoints = maxAdditivePenalty
	}
	score -= additivePoints
	if HasHighConcernAdditive(in.Additives) {
		score -= highConcernPenalty
	}

	if in.NovaGroup >= 1 && in.NovaGroup <= 4 {
		score -= processingStepPenalty * (in.NovaGroup - 1)
	}

	labels := normalizeTags(in.Labels)
	if hasTagContaining(labels, "organic") || hasTag(labels, "bio") {
		score += organicBonus
	}
	if hasTagSegment(labels, certificationKeywords...) {
		score += certificationBonus
	}
	return clampInt(score, 0, 100)
}

// HasHighConcernAdditive reports whether any additive tag names a code from the
// high-concern list. Sub-variants such as "e322i" match their base code.
func HasHighConcernAdditive(additives []string) bool {
	for _, tag := range additives {
		t := NormalizeTag(tag)
		for _, code := range highConcernAdditives {
			if t == code {
				return true
			}
			if len(t) > len(code) && t[:len(code)] == code && !isDigit(t[len(code)]) {
				return true
			}
		}
	}
	return false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
