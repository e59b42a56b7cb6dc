package suggest

import (
	"regexp"
	"strings"

	"github.com/huangsam/greenscore/schema"
)

var (
	javaStringInit = regexp.MustCompile(`String\s+(\w+)\s*=\s*""`)
	javaIndexLoop  = regexp.MustCompile(`for\s*\(\s*int\s+\w+\s*=\s*0\s*;[^;]*\.size\(\)`)
	javaAdd        = regexp.MustCompile(`\.add\(`)
	javaBoxing     = regexp.MustCompile(`new\s+(Integer|Long|Double|Float|Short|Byte|Character|Boolean)\s*\(`)
)

var javaRules = []Rule{
	{
		Name:    "string-concatenation",
		Applies: codeOnly(javaConcatInLoop),
		Build: fixed(schema.Suggestion{
			Finding:              "String concatenation in loop",
			BeforeCode:           "String result = \"\";\nfor (String s : parts) {\n    result += s;\n}",
			AfterCode:            "StringBuilder sb = new StringBuilder();\nfor (String s : parts) {\n    sb.append(s);\n}\nString result = sb.toString();",
			Explanation:          "Each += allocates a new String; StringBuilder appends in place",
			PredictedImprovement: improvement(12, -0.02),
			Severity:             schema.SeverityHigh,
		}),
	},
	{
		Name:    "indexed-collection-loop",
		Applies: codeOnly(javaIndexLoop.MatchString),
		Build: fixed(schema.Suggestion{
			Finding:              "Index-based loop over a collection",
			BeforeCode:           "for (int i = 0; i < list.size(); i++) {\n    use(list.get(i));\n}",
			AfterCode:            "for (Item item : list) {\n    use(item);\n}",
			Explanation:          "The enhanced for loop uses the iterator directly and avoids O(n) get() on linked lists",
			PredictedImprovement: improvement(6, -0.008),
			Severity:             schema.SeverityMedium,
		}),
	},
	{
		Name: "manual-collection-loop",
		Applies: codeOnly(func(code string) bool {
			return !strings.Contains(code, ".stream()") && bodyMatches(braceLoopBodies(code), javaAdd)
		}),
		Build: fixed(schema.Suggestion{
			Finding:              "Collection built manually in a loop",
			BeforeCode:           "List<Integer> out = new ArrayList<>();\nfor (int n : nums) {\n    if (n > 0) out.add(n * 2);\n}",
			AfterCode:            "List<Integer> out = nums.stream().filter(n -> n > 0).map(n -> n * 2).toList();",
			Explanation:          "The Stream API expresses the pipeline declaratively and sizes the result once",
			PredictedImprovement: improvement(5, -0.006),
			Severity:             schema.SeverityLow,
		}),
	},
	{
		Name:    "boxed-constructors",
		Applies: codeOnly(javaBoxing.MatchString),
		Build: fixed(schema.Suggestion{
			Finding:              "Boxed primitive constructors",
			BeforeCode:           "Integer count = new Integer(0);",
			AfterCode:            "int count = 0;",
			Explanation:          "Primitives avoid heap allocation and the valueOf cache avoids duplicate boxes",
			PredictedImprovement: improvement(4, -0.004),
			Severity:             schema.SeverityLow,
		}),
	},
}

// javaConcatInLoop reports a String initialized empty and appended with += inside a loop.
func javaConcatInLoop(code string) bool {
	bodies := braceLoopBodies(code)
	for _, m := range javaStringInit.FindAllStringSubmatch(code, -1) {
		appended := regexp.MustCompile(`\b` + regexp.QuoteMeta(m[1]) + `\s*\+=`)
		if bodyMatches(bodies, appended) {
			return true
		}
	}
	return false
}
