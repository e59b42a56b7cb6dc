package suggest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/huangsam/greenscore/schema"
)

var (
	pyIndexLoop    = regexp.MustCompile(`for\s+(\w+)\s+in\s+range\(len\(([\w.]+)\)\)`)
	pyAccumulation = regexp.MustCompile(`(?m)^\s*(\w+)\s*\+=\s*(.+)$`)
	pyStringInit   = regexp.MustCompile(`(?m)^\s*(\w+)\s*=\s*(""|'')\s*$`)
	pyKeysValues   = regexp.MustCompile(`for\s+[\w, ]+\s+in\s+[\w.]+\.(keys|values)\(\)`)
	pyHTTPCall     = regexp.MustCompile(`\b(requests|httpx|session|client)\.(get|post|put|patch|delete|request)\(|\burlopen\(`)
)

var pythonRules = []Rule{
	{
		Name:    "index-iteration",
		Applies: codeOnly(func(code string) bool { return strings.Contains(code, "range(len(") }),
		Build:   buildIndexIteration,
	},
	{
		Name: "append-loops",
		Applies: codeOnly(func(code string) bool {
			return strings.Count(code, "for ") >= 2 && anyBody(pythonLoopBodies(code), func(b string) bool {
				return strings.Contains(b, ".append(")
			})
		}),
		Build: fixed(schema.Suggestion{
			Finding:              "Multiple loops building lists with append()",
			BeforeCode:           "result = []\nfor item in items:\n    result.append(item * 2)",
			AfterCode:            "result = [item * 2 for item in items]",
			Explanation:          "List comprehensions run in optimized bytecode and avoid repeated method lookups",
			PredictedImprovement: improvement(10, -0.015),
			Severity:             schema.SeverityMedium,
		}),
	},
	{
		Name: "manual-summation",
		Applies: codeOnly(func(code string) bool {
			if strings.Contains(code, "sum(") {
				return false
			}
			numeric, _ := accumulations(code)
			return numeric
		}),
		Build: fixed(schema.Suggestion{
			Finding:              "Manual summation detected",
			BeforeCode:           "total = 0\nfor n in numbers:\n    total += n",
			AfterCode:            "total = sum(numbers)",
			Explanation:          "The built-in sum() is implemented in C and avoids interpreter overhead per element",
			PredictedImprovement: improvement(6, -0.008),
			Severity:             schema.SeverityMedium,
		}),
	},
	{
		Name: "string-concatenation",
		Applies: codeOnly(func(code string) bool {
			_, stringy := accumulations(code)
			return stringy
		}),
		Build: fixed(schema.Suggestion{
			Finding:              "String concatenation in loop",
			BeforeCode:           "text = \"\"\nfor item in items:\n    text += str(item)",
			AfterCode:            "text = ''.join(str(item) for item in items)",
			Explanation:          "Strings are immutable, so each += copies the whole string; join() builds it once",
			PredictedImprovement: improvement(10, -0.02),
			Severity:             schema.SeverityHigh,
		}),
	},
	{
		Name: "dict-items",
		Applies: codeOnly(func(code string) bool {
			return pyKeysValues.MatchString(code) && !strings.Contains(code, ".items()")
		}),
		Build: fixed(schema.Suggestion{
			Finding:              "Dictionary iteration without .items()",
			BeforeCode:           "for key in data.keys():\n    print(key, data[key])",
			AfterCode:            "for key, value in data.items():\n    print(key, value)",
			Explanation:          "Iterating items() yields key and value together and avoids a second hash lookup",
			PredictedImprovement: improvement(3, -0.003),
			Severity:             schema.SeverityLow,
		}),
	},
	{
		Name:    "iterrows",
		Applies: codeOnly(func(code string) bool { return strings.Contains(code, ".iterrows()") }),
		Build: fixed(schema.Suggestion{
			Finding:              "Row-wise DataFrame iteration with iterrows()",
			BeforeCode:           "for _, row in df.iterrows():\n    df.at[_, 'total'] = row['a'] + row['b']",
			AfterCode:            "df['total'] = df['a'] + df['b']",
			Explanation:          "Vectorized column operations run in native code instead of one Python call per row",
			PredictedImprovement: improvement(15, -0.03),
			Severity:             schema.SeverityHigh,
		}),
	},
	{
		Name: "http-in-loop",
		Applies: codeOnly(func(code string) bool {
			return bodyMatches(pythonLoopBodies(code), pyHTTPCall)
		}),
		Build: fixed(schema.Suggestion{
			Finding:              "Network calls inside loop",
			BeforeCode:           "for url in urls:\n    results.append(requests.get(url))",
			AfterCode:            "with ThreadPoolExecutor() as pool:\n    results = list(pool.map(requests.get, urls))",
			Explanation:          "Sequential requests keep the CPU and radio awake while waiting; batch or parallelize them",
			PredictedImprovement: improvement(12, -0.04),
			Severity:             schema.SeverityHigh,
		}),
	},
	{
		Name:    "nested-loops",
		Applies: codeOnly(func(code string) bool { return strings.Count(code, "for ") > 2 }),
		Build: fixed(schema.Suggestion{
			Finding:              "Multiple nested loops detected",
			BeforeCode:           "Multiple for loops",
			AfterCode:            "Consider using list comprehensions or built-in functions",
			Explanation:          "Nested loops can be optimized using more efficient patterns",
			PredictedImprovement: improvement(12, -0.02),
			Severity:             schema.SeverityHigh,
		}),
	},
}

// buildIndexIteration names the actual loop variable and sequence when it can.
func buildIndexIteration(code string) schema.Suggestion {
	before, after := "for i in range(len(items)):", "for item in items:"
	if m := pyIndexLoop.FindStringSubmatch(code); m != nil {
		before = fmt.Sprintf("for %s in range(len(%s)):", m[1], m[2])
		after = fmt.Sprintf("for item in %s:", m[2])
	}
	return schema.Suggestion{
		Finding:              "Index-based iteration detected",
		BeforeCode:           before,
		AfterCode:            after,
		Explanation:          "Direct iteration is more efficient than index-based iteration",
		PredictedImprovement: improvement(8, -0.01),
		Severity:             schema.SeverityMedium,
	}
}

// accumulations classifies the += statements inside Python for-loops as
// numeric or string accumulation.
func accumulations(code string) (numeric, stringy bool) {
	stringVars := map[string]bool{}
	for _, m := range pyStringInit.FindAllStringSubmatch(code, -1) {
		stringVars[m[1]] = true
	}
	for _, body := range pythonBodies(code, "for") {
		for _, m := range pyAccumulation.FindAllStringSubmatch(body, -1) {
			if stringVars[m[1]] || isStringExpr(m[2]) {
				stringy = true
			} else {
				numeric = true
			}
		}
	}
	return numeric, stringy
}

func isStringExpr(expr string) bool {
	expr = strings.TrimSpace(expr)
	for _, prefix := range []string{`"`, `'`, `f"`, `f'`, "str(", "repr(", "chr("} {
		if strings.HasPrefix(expr, prefix) {
			return true
		}
	}
	return false
}
