package features

import (
	"regexp"
	"strings"

	"github.com/huangsam/greenscore/schema"
)

// marker counts one idiom in source text, either as a literal or a regex.
type marker struct {
	literal string
	pattern *regexp.Regexp
}

func (m marker) count(code string) int {
	if m.pattern != nil {
		return len(m.pattern.FindAllStringIndex(code, -1))
	}
	if m.literal == "" {
		return 0
	}
	return strings.Count(code, m.literal)
}

func lits(tokens ...string) []marker {
	out := make([]marker, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, marker{literal: t})
	}
	return out
}

func rx(expr string) marker { return marker{pattern: regexp.MustCompile(expr)} }

func countAll(code string, markers []marker) int {
	total := 0
	for _, m := range markers {
		total += m.count(code)
	}
	return total
}

// tokenTable is the fixed marker list of one language.
type tokenTable struct {
	loops         []marker // for-loop tokens
	whiles        []marker
	conditions    []marker
	functions     []marker
	classes       []marker
	indexIter     []marker // inefficient index-based iteration
	comprehension []marker // comprehension or collection-pipeline markers
	builtins      []marker // built-in aggregate calls
	functional    []marker // functional combinators
	lambdas       []marker
	imports       []marker
	fromImports   []marker
}

// ListComprehension matches a Python list comprehension across lines.
var ListComprehension = regexp.MustCompile(`(?s)\[.*?\s+for\s+.*?\s+in\s+.*?\]`)

var pythonTable = &tokenTable{
	loops:         lits("for "),
	whiles:        lits("while "),
	conditions:    lits("if ", "elif "),
	functions:     lits("def "),
	classes:       lits("class "),
	indexIter:     lits("range(len("),
	comprehension: []marker{{pattern: ListComprehension}},
	builtins:      lits("sum(", "max(", "min("),
	functional:    lits("map(", "filter(", "reduce("),
	lambdas:       lits("lambda "),
	imports:       lits("import "),
	fromImports:   lits("from "),
}

var javaScriptTable = &tokenTable{
	loops:      lits("for (", "for(", ".forEach("),
	whiles:     lits("while (", "while("),
	conditions: lits("if (", "if("),
	functions:  append(lits("function ", "=>"), rx(`\b(const|let)\s+\w+\s*=\s*(async\s*)?\(`)),
	classes:    lits("class "),
	indexIter: []marker{
		rx(`for\s*\(\s*(let|var)\s+\w+\s*=\s*0\s*;\s*\w+\s*<=?\s*[\w.$]+\.length`),
	},
	comprehension: lits(".map(", ".filter(", "Array.from("),
	builtins:      lits("Math.max(", "Math.min(", ".reduce(", ".includes("),
	functional:    lits(".some(", ".every(", ".find(", ".flatMap("),
	lambdas:       lits("=>"),
	imports:       lits("import "),
	fromImports:   lits("require("),
}

var javaTable = &tokenTable{
	loops:      lits("for (", "for("),
	whiles:     lits("while (", "while("),
	conditions: lits("if (", "if("),
	functions:  lits("public ", "private ", "protected "),
	classes:    lits("class ", "interface "),
	indexIter: []marker{
		rx(`for\s*\(\s*int\s+\w+\s*=\s*0\s*;\s*\w+\s*<=?\s*[\w.]+\.(size\(\)|length)`),
	},
	comprehension: lits(".stream()", ".parallelStream()"),
	builtins:      lits("Collections.max(", "Collections.min(", "Math.max(", "Math.min(", ".sum()"),
	functional:    lits(".map(", ".filter(", ".reduce(", ".collect("),
	lambdas:       lits("->"),
	imports:       lits("import "),
	fromImports:   lits("import static "),
}

var cppTable = &tokenTable{
	loops:      lits("for (", "for("),
	whiles:     lits("while (", "while("),
	conditions: lits("if (", "if("),
	functions:  lits("void ", "int ", "bool ", "auto "),
	classes:    lits("class ", "struct "),
	indexIter: []marker{
		rx(`for\s*\(\s*(int|size_t|unsigned|auto)\s+\w+\s*=\s*0\s*;\s*\w+\s*<=?\s*[\w.]+\.(size|length)\(\)`),
	},
	comprehension: lits("std::transform(", "std::copy_if("),
	builtins:      lits("std::accumulate(", "std::max_element(", "std::min_element(", "std::sort(", "std::find("),
	functional:    lits("std::for_each(", "std::function<", "std::bind("),
	lambdas:       []marker{rx(`\[[&=]?\]\s*\(`)},
	imports:       lits("#include"),
	fromImports:   lits("using "),
}

var cTable = &tokenTable{
	loops:      lits("for (", "for("),
	whiles:     lits("while (", "while("),
	conditions: lits("if (", "if("),
	functions:  lits("void ", "int ", "char ", "float ", "double "),
	classes:    lits("struct "),
	indexIter: []marker{
		rx(`for\s*\([^;]*;[^;]*strlen\s*\(`),
	},
	builtins:    lits("memcpy(", "memset(", "qsort(", "bsearch("),
	imports:     lits("#include"),
	fromImports: lits("#define"),
}

var genericTable = &tokenTable{
	loops:      lits("for ", "for("),
	whiles:     lits("while ", "while("),
	conditions: lits("if ", "if("),
	functions:  lits("def ", "function ", "func ", "fn "),
	classes:    lits("class ", "struct "),
	imports:    lits("import ", "#include"),
}

// tables is the per-language dispatch table for lexical feature extraction.
var tables = map[schema.Language]*tokenTable{
	schema.Python:     pythonTable,
	schema.JavaScript: javaScriptTable,
	schema.TypeScript: javaScriptTable,
	schema.Java:       javaTable,
	schema.Cpp:        cppTable,
	schema.C:          cTable,
	schema.Unknown:    genericTable,
}

func tableFor(language schema.Language) *tokenTable {
	if t, ok := tables[language]; ok {
		return t
	}
	return genericTable
}
