package optimize

import (
	"strings"

	"github.com/huangsam/greenscore/core/features"
)

// NoChangeNote explains an optimization that left the code as it was.
const NoChangeNote = "No optimizations were applied: the code already follows efficient patterns or uses constructs the optimizer does not rewrite."

// diffMarker is a textual sign that a transformation took place.
type diffMarker struct {
	note    string
	applied func(original, optimized string) bool
}

func removed(token string) func(string, string) bool {
	return func(original, optimized string) bool {
		return strings.Contains(original, token) && !strings.Contains(optimized, token)
	}
}

func grew(token string) func(string, string) bool {
	return func(original, optimized string) bool {
		return strings.Count(optimized, token) > strings.Count(original, token)
	}
}

var diffMarkers = []diffMarker{
	{"Replaced index-based iteration with direct iteration", removed("range(len(")},
	{"Converted append loops into list comprehensions", func(original, optimized string) bool {
		return strings.Count(optimized, ".append(") < strings.Count(original, ".append(") &&
			len(features.ListComprehension.FindAllStringIndex(optimized, -1)) > 0
	}},
	{"Replaced manual accumulation with sum()", grew("sum(")},
	{"Replaced string concatenation in a loop with str.join()", grew(".join(")},
	{"Used enumerate() where the index is still needed", grew("enumerate(")},
	{"Flagged iterrows() for vectorized column operations", grew(iterrowsHint)},
	{"Replaced indexed for loops with for...of", grew(" of ")},
	{"Replaced indexOf() comparisons with includes()", grew(".includes(")},
	{"Built strings with StringBuilder instead of +=", grew("StringBuilder")},
	{"Replaced indexed loops with enhanced for loops", grew("for (var ")},
	{"Replaced boxed constructors with valueOf()", grew(".valueOf(")},
	{"Replaced indexed loops with range-based for loops", grew("auto& ")},
	{"Replaced raw new/delete with std::make_unique", grew("make_unique<")},
	{"Replaced std::endl with '\\n' to avoid flushing", removed("endl")},
	{"Hoisted strlen() out of the loop condition", func(original, optimized string) bool {
		return strings.Count(optimized, "strlen(") == strings.Count(original, "strlen(") &&
			cStrlenLoop.MatchString(original) && !cStrlenLoop.MatchString(optimized)
	}},
}

// Explain describes the transformations visible in the difference between
// original and optimized code, one line per transformation.
func Explain(original, optimized string) string {
	if !Changed(original, optimized) {
		return NoChangeNote
	}
	var notes []string
	for _, m := range diffMarkers {
		if m.applied(original, optimized) {
			notes = append(notes, "- "+m.note)
		}
	}
	if len(notes) == 0 {
		return "- Normalized formatting"
	}
	return strings.Join(notes, "\n")
}
