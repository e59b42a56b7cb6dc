package schema

import "strings"

// languageAliases maps common spellings to a Language.
var languageAliases = map[string]Language{
	"py":         Python,
	"python3":    Python,
	"js":         JavaScript,
	"node":       JavaScript,
	"ts":         TypeScript,
	"c++":        Cpp,
	"cxx":        Cpp,
	"cc":         Cpp,
	"h":          C,
	"plaintext":  Unknown,
	"text":       Unknown,
	"javascript": JavaScript,
	"typescript": TypeScript,
}

// ParseLanguage converts free-form text into a Language.
// Unrecognized values map to Unknown. An empty string also maps to Unknown.
func ParseLanguage(s string) Language {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return Unknown
	}
	if lang, ok := languageAliases[key]; ok {
		return lang
	}
	lang := Language(key)
	if _, ok := ValidLanguages[lang]; ok {
		return lang
	}
	return Unknown
}

// ParseRegion converts free-form text into a Region.
// The second return value is false when the text names no known region.
func ParseRegion(s string) (Region, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "":
		return USA, true
	case "us", "north_america":
		return USA, true
	}
	region := Region(key)
	_, ok := ValidRegions[region]
	return region, ok
}

// EmissionFactor returns the static emission factor for a region.
// Unknown regions use the world average.
func EmissionFactor(region Region) float64 {
	if f, ok := StaticEmissionFactors[region]; ok {
		return f
	}
	return StaticEmissionFactors[World]
}

// GetPlainLabel returns a plain text label for a green score.
// Higher scores are greener.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	default:
		return "Poor"
	}
}
