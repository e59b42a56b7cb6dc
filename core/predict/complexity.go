package predict

import (
	"regexp"
	"strings"

	"github.com/huangsam/greenscore/core/features"
	"github.com/huangsam/greenscore/schema"
)

var (
	pythonLoopStmt   = regexp.MustCompile(`^(async\s+)?(for|while)\b`)
	pythonLoopToken  = regexp.MustCompile(`\b(for|while)\b`)
	braceLoopToken   = regexp.MustCompile(`\b(for|while)\s*\(|\.forEach\s*\(`)
	indentTabWidth   = 4
	timeComplexities = []string{"O(1)", "O(n)", "O(n²)", "O(n³)"}
)

// ComplexityScore returns the 0-10 complexity of code. Python uses the
// cyclomatic complexity of its AST and falls back to lexical counts when
// the code does not parse.
func ComplexityScore(code string, vec schema.FeatureVector, language schema.Language) float64 {
	if language == schema.Python {
		if counts, err := features.ParsePython(code); err == nil {
			return CyclomaticComplexity(counts.Cyclomatic())
		}
	}
	return PatternComplexity(vec)
}

// TimeComplexity labels code by its deepest loop nesting.
func TimeComplexity(code string, language schema.Language) string {
	var depth int
	if language == schema.Python {
		depth = pythonLoopDepth(code)
	} else {
		depth = braceLoopDepth(code)
	}
	if depth < len(timeComplexities) {
		return timeComplexities[depth]
	}
	return "O(n^k)"
}

// pythonLoopDepth tracks loop statements by indentation. Inline loops such as
// comprehension clauses add to the depth of their line without opening a block.
func pythonLoopDepth(code string) int {
	var open []int // indentation of enclosing loop statements
	maxDepth := 0
	for _, raw := range strings.Split(code, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		indent := indentOf(raw)
		for len(open) > 0 && open[len(open)-1] >= indent {
			open = open[:len(open)-1]
		}

		tokens := len(pythonLoopToken.FindAllStringIndex(line, -1))
		if tokens == 0 {
			continue
		}
		maxDepth = max(maxDepth, len(open)+tokens)
		if pythonLoopStmt.MatchString(line) {
			open = append(open, indent)
		}
	}
	return maxDepth
}

// braceLoopDepth tracks loop bodies by brace depth for C-like languages.
func braceLoopDepth(code string) int {
	var open []int // brace depth of each enclosing loop body
	braces := 0
	maxDepth := 0
	for _, line := range strings.Split(code, "\n") {
		for range braceLoopToken.FindAllStringIndex(line, -1) {
			open = append(open, braces+1)
		}
		maxDepth = max(maxDepth, len(open))

		braces += strings.Count(line, "{") - strings.Count(line, "}")
		if braces < 0 {
			braces = 0
		}
		for len(open) > 0 && open[len(open)-1] > braces {
			open = open[:len(open)-1]
		}
	}
	return maxDepth
}

func indentOf(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += indentTabWidth
		default:
			return width
		}
	}
	return width
}
