package suggest

import (
	"regexp"
	"strings"

	"github.com/huangsam/greenscore/schema"
)

var (
	jsIndexLoop = regexp.MustCompile(`for\s*\(\s*(let|var)\s+\w+\s*=\s*0\s*;[^;]*\.length`)
	jsAwait     = regexp.MustCompile(`\bawait\b`)
	jsInnerHTML = regexp.MustCompile(`\.innerHTML\s*\+=`)
	jsVar       = regexp.MustCompile(`(^|[^\w.])var\s+\w+`)
	jsPush      = regexp.MustCompile(`\.push\(`)
)

var javaScriptRules = []Rule{
	{
		Name:    "indexed-for",
		Applies: codeOnly(jsIndexLoop.MatchString),
		Build: fixed(schema.Suggestion{
			Finding:              "Use for...of or forEach instead of traditional for loops",
			BeforeCode:           "for (let i = 0; i < items.length; i++) {\n  process(items[i]);\n}",
			AfterCode:            "for (const item of items) {\n  process(item);\n}",
			Explanation:          "for...of avoids repeated length lookups and index arithmetic",
			PredictedImprovement: improvement(6, -0.008),
			Severity:             schema.SeverityMedium,
		}),
	},
	{
		Name: "await-in-loop",
		Applies: codeOnly(func(code string) bool {
			return bodyMatches(braceLoopBodies(code), jsAwait)
		}),
		Build: fixed(schema.Suggestion{
			Finding:              "Sequential await inside loop",
			BeforeCode:           "for (const url of urls) {\n  results.push(await fetch(url));\n}",
			AfterCode:            "const results = await Promise.all(urls.map((url) => fetch(url)));",
			Explanation:          "Awaiting each iteration serializes I/O; Promise.all lets the requests overlap",
			PredictedImprovement: improvement(12, -0.03),
			Severity:             schema.SeverityHigh,
		}),
	},
	{
		Name: "innerhtml-in-loop",
		Applies: codeOnly(func(code string) bool {
			return bodyMatches(braceLoopBodies(code), jsInnerHTML)
		}),
		Build: fixed(schema.Suggestion{
			Finding:              "DOM updates inside loop",
			BeforeCode:           "for (const item of items) {\n  list.innerHTML += `<li>${item}</li>`;\n}",
			AfterCode:            "list.innerHTML = items.map((item) => `<li>${item}</li>`).join('');",
			Explanation:          "Each innerHTML += reparses and reflows the element; build the markup once",
			PredictedImprovement: improvement(10, -0.02),
			Severity:             schema.SeverityHigh,
		}),
	},
	{
		Name:    "var-declarations",
		Applies: codeOnly(jsVar.MatchString),
		Build: fixed(schema.Suggestion{
			Finding:              "Function-scoped var declarations",
			BeforeCode:           "var total = 0;",
			AfterCode:            "let total = 0;",
			Explanation:          "Block-scoped const and let give engines tighter lifetimes to optimize",
			PredictedImprovement: improvement(2, -0.001),
			Severity:             schema.SeverityLow,
		}),
	},
	{
		Name: "push-loop",
		Applies: codeOnly(func(code string) bool {
			return !strings.Contains(code, ".map(") && bodyMatches(braceLoopBodies(code), jsPush)
		}),
		Build: fixed(schema.Suggestion{
			Finding:              "Array built with push() in a loop",
			BeforeCode:           "const doubled = [];\nfor (const n of nums) {\n  doubled.push(n * 2);\n}",
			AfterCode:            "const doubled = nums.map((n) => n * 2);",
			Explanation:          "map() and filter() preallocate and express the transformation directly",
			PredictedImprovement: improvement(8, -0.01),
			Severity:             schema.SeverityMedium,
		}),
	},
}
