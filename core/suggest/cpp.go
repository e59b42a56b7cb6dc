package suggest

import (
	"regexp"
	"strings"

	"github.com/huangsam/greenscore/schema"
)

var (
	cppIndexLoop   = regexp.MustCompile(`for\s*\(\s*(int|size_t|unsigned|auto)\s+\w+\s*=\s*0\s*;[^;]*\.(size|length)\(\)`)
	cppRawNew      = regexp.MustCompile(`\bnew\s+\w+|\bdelete\s*(\[\])?\s*\w+`)
	cppSwap        = regexp.MustCompile(`\b(std::)?swap\s*\(`)
	cppSearch      = regexp.MustCompile(`==[^;]*\)\s*(\{\s*)?(return|break|found)`)
	cppByValue     = regexp.MustCompile(`[(,]\s*(const\s+)?(std::)?(vector|map|set|unordered_map|unordered_set|list|deque|string)\b(<[^&)]*>)?\s+\w+\s*[,)]`)
	cppEndl        = regexp.MustCompile(`\b(std::)?endl\b`)
	cStrlenInCond  = regexp.MustCompile(`for\s*\([^;]*;[^;]*strlen\s*\(`)
	cAllocation    = regexp.MustCompile(`\b(malloc|calloc|realloc)\s*\(`)
	cppOwnsPointer = regexp.MustCompile(`std::(unique_ptr|shared_ptr|make_unique|make_shared)`)
)

var cppRules = []Rule{
	{
		Name:    "indexed-loop",
		Applies: codeOnly(cppIndexLoop.MatchString),
		Build: fixed(schema.Suggestion{
			Finding:              "Index-based loop over a container",
			BeforeCode:           "for (size_t i = 0; i < v.size(); i++) {\n    total += v[i];\n}",
			AfterCode:            "for (const auto& x : v) {\n    total += x;\n}",
			Explanation:          "Range-based for loops avoid bounds arithmetic and repeated size() calls",
			PredictedImprovement: improvement(6, -0.006),
			Severity:             schema.SeverityMedium,
		}),
	},
	{
		Name: "raw-memory",
		Applies: codeOnly(func(code string) bool {
			return cppRawNew.MatchString(code) && !cppOwnsPointer.MatchString(code)
		}),
		Build: fixed(schema.Suggestion{
			Finding:              "Raw new/delete memory management",
			BeforeCode:           "Widget* w = new Widget();\n// ...\ndelete w;",
			AfterCode:            "auto w = std::make_unique<Widget>();",
			Explanation:          "Smart pointers release memory deterministically and prevent leaks",
			PredictedImprovement: improvement(8, -0.01),
			Severity:             schema.SeverityHigh,
		}),
	},
	{
		Name: "manual-algorithm",
		Applies: codeOnly(func(code string) bool {
			bodies := braceLoopBodies(code)
			return bodyMatches(bodies, cppSwap) || bodyMatches(bodies, cppSearch)
		}),
		Build: fixed(schema.Suggestion{
			Finding:              "Manual search or sort loop",
			BeforeCode:           "for (size_t i = 0; i < v.size(); i++) {\n    if (v[i] == target) return true;\n}",
			AfterCode:            "return std::find(v.begin(), v.end(), target) != v.end();",
			Explanation:          "STL algorithms are tuned, vectorizable and harder to get wrong",
			PredictedImprovement: improvement(8, -0.012),
			Severity:             schema.SeverityMedium,
		}),
	},
	{
		Name:    "container-by-value",
		Applies: codeOnly(cppByValue.MatchString),
		Build: fixed(schema.Suggestion{
			Finding:              "Container passed by value",
			BeforeCode:           "int total(std::vector<int> v);",
			AfterCode:            "int total(const std::vector<int>& v);",
			Explanation:          "Passing by const reference avoids copying every element on each call",
			PredictedImprovement: improvement(7, -0.01),
			Severity:             schema.SeverityMedium,
		}),
	},
	{
		Name: "endl-in-loop",
		Applies: codeOnly(func(code string) bool {
			return bodyMatches(braceLoopBodies(code), cppEndl)
		}),
		Build: fixed(schema.Suggestion{
			Finding:              "std::endl inside loop",
			BeforeCode:           "for (int x : xs) {\n    std::cout << x << std::endl;\n}",
			AfterCode:            "for (int x : xs) {\n    std::cout << x << '\\n';\n}",
			Explanation:          "endl flushes the stream on every line; a newline character lets output buffer",
			PredictedImprovement: improvement(4, -0.005),
			Severity:             schema.SeverityLow,
		}),
	},
}

var cRules = []Rule{
	{
		Name:    "strlen-condition",
		Applies: codeOnly(cStrlenInCond.MatchString),
		Build: fixed(schema.Suggestion{
			Finding:              "strlen() in loop condition",
			BeforeCode:           "for (size_t i = 0; i < strlen(s); i++) {\n    s[i] = toupper(s[i]);\n}",
			AfterCode:            "size_t n = strlen(s);\nfor (size_t i = 0; i < n; i++) {\n    s[i] = toupper(s[i]);\n}",
			Explanation:          "strlen walks the whole string, turning a linear loop quadratic",
			PredictedImprovement: improvement(12, -0.02),
			Severity:             schema.SeverityHigh,
		}),
	},
	{
		Name: "malloc-without-free",
		Applies: codeOnly(func(code string) bool {
			return cAllocation.MatchString(code) && !strings.Contains(code, "free(")
		}),
		Build: fixed(schema.Suggestion{
			Finding:              "malloc() without free()",
			BeforeCode:           "int *buf = malloc(n * sizeof(int));\nreturn compute(buf);",
			AfterCode:            "int *buf = malloc(n * sizeof(int));\nint r = compute(buf);\nfree(buf);\nreturn r;",
			Explanation:          "Leaked allocations grow resident memory and the energy spent paging it",
			PredictedImprovement: improvement(8, -0.008),
			Severity:             schema.SeverityHigh,
		}),
	},
}
