package suggest

import (
	"testing"

	"github.com/huangsam/greenscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var healthy = schema.MetricSet{GreenScore: 75}

func findings(s []schema.Suggestion) []string {
	out := make([]string, 0, len(s))
	for _, x := range s {
		out = append(out, x.Finding)
	}
	return out
}

func TestSuggestPython(t *testing.T) {
	e := New()
	tests := []struct {
		name     string
		code     string
		expected []string
	}{
		{
			name:     "efficient sum fires nothing",
			code:     "def f(x): return sum(x)",
			expected: []string{},
		},
		{
			name: "indexed manual sum",
			code: "def f(n):\n    total = 0\n    for i in range(len(n)):\n        total += n[i]\n    return total\n",
			expected: []string{
				"Index-based iteration detected",
				"Manual summation detected",
			},
		},
		{
			name:     "string building",
			code:     "def f(items):\n    out = \"\"\n    for item in items:\n        out += item\n    return out\n",
			expected: []string{"String concatenation in loop"},
		},
		{
			name:     "one-line string building",
			code:     "for item in items: text += str(item)\n",
			expected: []string{"String concatenation in loop"},
		},
		{
			name:     "dict keys",
			code:     "for key in data.keys():\n    print(key, data[key])\n",
			expected: []string{"Dictionary iteration without .items()"},
		},
		{
			name:     "iterrows and http",
			code:     "for _, row in df.iterrows():\n    requests.post(url, json=row.to_dict())\n",
			expected: []string{"Row-wise DataFrame iteration with iterrows()", "Network calls inside loop"},
		},
		{
			name: "nested appends",
			code: "out = []\nfor a in xs:\n    for b in ys:\n        for c in zs:\n            out.append(a + b + c)\n",
			expected: []string{
				"Multiple loops building lists with append()",
				"Multiple nested loops detected",
			},
		},
		{
			name:     "while accumulation is not a summation",
			code:     "i = 0\nwhile i < 10:\n    i += 1\n",
			expected: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, findings(e.Suggest(tt.code, schema.Python, healthy)))
		})
	}
}

func TestSuggestIndexIterationNamesSequence(t *testing.T) {
	got := New().Suggest("for j in range(len(rows)):\n    print(rows[j])\n", schema.Python, healthy)
	require.NotEmpty(t, got)
	assert.Equal(t, "for j in range(len(rows)):", got[0].BeforeCode)
	assert.Equal(t, "for item in rows:", got[0].AfterCode)
	assert.Equal(t, schema.SeverityMedium, got[0].Severity)
	assert.Equal(t, 8.0, got[0].PredictedImprovement.GreenScore)
}

func TestSuggestJavaScript(t *testing.T) {
	e := New()
	tests := []struct {
		name     string
		code     string
		language schema.Language
		expected []string
	}{
		{
			name:     "traditional for loop",
			code:     "for (let i = 0; i < arr.length; i++) {\n  console.log(arr[i]);\n}\n",
			language: schema.JavaScript,
			expected: []string{"Use for...of or forEach instead of traditional for loops"},
		},
		{
			name:     "await and push",
			code:     "async function load(urls) {\n  const out = [];\n  for (const u of urls) {\n    out.push(await fetch(u));\n  }\n  return out;\n}\n",
			language: schema.JavaScript,
			expected: []string{"Sequential await inside loop", "Array built with push() in a loop"},
		},
		{
			name:     "typescript shares rules",
			code:     "var count: number = 0;\nfor (const n of nums) { list.innerHTML += n; }\n",
			language: schema.TypeScript,
			expected: []string{"DOM updates inside loop", "Function-scoped var declarations"},
		},
		{
			name:     "idiomatic code",
			code:     "const doubled = nums.map((n) => n * 2);\n",
			language: schema.JavaScript,
			expected: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, findings(e.Suggest(tt.code, tt.language, healthy)))
		})
	}
}

func TestSuggestJava(t *testing.T) {
	code := "public class A {\n  String join(List<String> parts) {\n    String result = \"\";\n    for (int i = 0; i < parts.size(); i++) {\n      result += parts.get(i);\n    }\n    Integer n = new Integer(3);\n    return result;\n  }\n}\n"
	assert.Equal(t, []string{
		"String concatenation in loop",
		"Index-based loop over a collection",
		"Boxed primitive constructors",
	}, findings(New().Suggest(code, schema.Java, healthy)))

	streams := "List<Integer> out = new ArrayList<>();\nfor (int n : nums) {\n  out.add(n);\n}\n"
	assert.Equal(t, []string{"Collection built manually in a loop"}, findings(New().Suggest(streams, schema.Java, healthy)))
}

func TestSuggestCpp(t *testing.T) {
	code := "#include <vector>\nbool has(std::vector<int> v, int target) {\n  for (size_t i = 0; i < v.size(); i++) {\n    if (v[i] == target) return true;\n    std::cout << i << std::endl;\n  }\n  int* p = new int(5);\n  delete p;\n  return false;\n}\n"
	assert.Equal(t, []string{
		"Index-based loop over a container",
		"Raw new/delete memory management",
		"Manual search or sort loop",
		"Container passed by value",
		"std::endl inside loop",
	}, findings(New().Suggest(code, schema.Cpp, healthy)))

	clean := "int total(const std::vector<int>& v) {\n  return std::accumulate(v.begin(), v.end(), 0);\n}\n"
	assert.Empty(t, New().Suggest(clean, schema.Cpp, healthy))
}

func TestSuggestC(t *testing.T) {
	code := "#include <string.h>\nvoid up(char *s) {\n  char *b = malloc(8);\n  for (int i = 0; i < strlen(s); i++) { s[i] = toupper(s[i]); }\n}\n"
	assert.Equal(t, []string{"strlen() in loop condition", "malloc() without free()"}, findings(New().Suggest(code, schema.C, healthy)))
}

func TestSuggestLowScoreRunsLast(t *testing.T) {
	e := New()
	low := schema.MetricSet{GreenScore: 39.99}

	for _, lang := range append(schema.AllLanguages, schema.Unknown) {
		got := e.Suggest("for i in range(len(x)):\n    pass\n", lang, low)
		require.NotEmpty(t, got, lang)
		assert.Equal(t, "Low Green Score detected", got[len(got)-1].Finding, lang)
		assert.Equal(t, schema.SeverityHigh, got[len(got)-1].Severity)
	}

	assert.Empty(t, e.Suggest("x = 1", schema.Unknown, schema.MetricSet{GreenScore: 40}))
}

func TestRulesOrder(t *testing.T) {
	rules := New().Rules(schema.Python)
	require.NotEmpty(t, rules)
	assert.Equal(t, "index-iteration", rules[0].Name)
	assert.Equal(t, "low-green-score", rules[len(rules)-1].Name)
	assert.Len(t, New().Rules(schema.Unknown), 1)
}

func TestLoopBodies(t *testing.T) {
	t.Run("brace", func(t *testing.T) {
		code := "for (int i = 0; i < n; i++) { a(); { b(); } }\nwhile (x) y--;\n"
		assert.Equal(t, []string{" a(); { b(); } ", "y--"}, braceLoopBodies(code))
	})

	t.Run("python", func(t *testing.T) {
		code := "for a in x:\n    f(a)\n\n    g(a)\nh()\nwhile ok: step()\n"
		loops := pythonLoops(code)
		require.Len(t, loops, 2)
		assert.Equal(t, pyLoop{keyword: "for", body: "    f(a)\n    g(a)"}, loops[0])
		assert.Equal(t, pyLoop{keyword: "while", body: "step()"}, loops[1])
	})

	t.Run("unbalanced input", func(t *testing.T) {
		assert.Empty(t, braceLoopBodies("for (int i = 0; i < n; i++ {"))
	})
}

func FuzzSuggest(f *testing.F) {
	f.Add("for i in range(len(x)):\n    total += x[i]", "python", 10.0)
	f.Add("for (let i = 0; i < a.length; i++) { await f(); }", "javascript", 80.0)
	f.Add("for (", "cpp", 50.0)
	e := New()
	f.Fuzz(func(t *testing.T, code, language string, score float64) {
		got := e.Suggest(code, schema.ParseLanguage(language), schema.MetricSet{GreenScore: score})
		assert.NotNil(t, got)
		for _, s := range got {
			assert.NotEmpty(t, s.Finding)
			assert.Contains(t, []schema.Severity{schema.SeverityLow, schema.SeverityMedium, schema.SeverityHigh}, s.Severity)
		}
	})
}
