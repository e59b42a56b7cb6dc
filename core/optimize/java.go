package optimize

import (
	"regexp"
	"strings"
)

var (
	javaIndexedFor = regexp.MustCompile(`for\s*\(\s*int\s+(?P<i>\w+)\s*=\s*0\s*;\s*(?P<cmp>\w+)\s*<\s*(?P<seq>[\w.]+)\.(?P<kind>size\(\)|length)\s*;\s*(?:(?P<inc>\w+)\s*\+\+|\+\+\s*(?P<pre>\w+))\s*\)\s*\{`)
	javaEmptyStr   = regexp.MustCompile(`(?m)^([ \t]*)String\s+(\w+)\s*=\s*""\s*;`)
	javaBoxing     = regexp.MustCompile(`new\s+(Integer|Long|Double|Float|Short|Byte|Character|Boolean)\s*\(`)
	javaLoopStart  = regexp.MustCompile(`\b(for|while)\s*\(`)
)

var javaPipeline = pipeline{
	rules: []Rule{
		{
			Name:        "string-builder",
			Description: "Build strings in loops with StringBuilder",
			Match:       func(code string) bool { return strings.Contains(code, "+=") },
			Rewrite:     rewriteStringBuilder,
		},
		{
			Name:        "enhanced-for",
			Description: "Replace an indexed loop over a collection with an enhanced for loop",
			Match:       func(code string) bool { return strings.Contains(code, "for") },
			Rewrite: func(code string) string {
				return rewriteIndexedBlocks(code, javaIndexedFor, javaEnhancedFor)
			},
		},
		{
			Name:        "value-of",
			Description: "Replace boxed primitive constructors with valueOf()",
			Match:       func(code string) bool { return strings.Contains(code, "new ") },
			Rewrite:     func(code string) string { return javaBoxing.ReplaceAllString(code, "$1.valueOf(") },
		},
	},
}

// javaEnhancedFor rewrites list.get(i) or arr[i] to the loop element.
func javaEnhancedFor(h indexedHeader, body string) (string, string, bool) {
	elem := freshName([]string{body}, "item", "element", "value")
	get := regexp.MustCompile(`\b` + regexp.QuoteMeta(h.seq) + `\.get\(\s*` + regexp.QuoteMeta(h.index) + `\s*\)`)
	rewritten := get.ReplaceAllLiteralString(body, elem)
	if indexWrite(h.seq, h.index).MatchString(rewritten) {
		return "", "", false
	}
	rewritten = replaceIndex(h.seq, h.index, elem, []string{rewritten})[0]
	if word(h.index).MatchString(rewritten) {
		return "", "", false
	}
	return "for (var " + elem + " : " + h.seq + ")", rewritten, true
}

// rewriteStringBuilder replaces `String s = "";` followed by a loop that only
// appends to s with a StringBuilder, materializing s after the loop.
func rewriteStringBuilder(code string) string {
	locs := javaEmptyStr.FindAllStringSubmatchIndex(code, -1)
	for k := len(locs) - 1; k >= 0; k-- {
		loc := locs[k]
		indent, name := code[loc[2]:loc[3]], code[loc[4]:loc[5]]
		if next, ok := builderAt(code, loc[0], loc[1], indent, name); ok {
			code = next
		}
	}
	return code
}

func builderAt(code string, declStart, declEnd int, indent, name string) (string, bool) {
	after := code[declEnd:]
	loop := javaLoopStart.FindStringIndex(after)
	if loop == nil {
		return "", false
	}
	uses := word(name)
	if uses.MatchString(after[:loop[0]]) {
		return "", false
	}
	open := strings.IndexByte(after[loop[0]:], '{')
	if open < 0 {
		return "", false
	}
	open += loop[0]
	closing := matchingBrace(after, open)
	if closing < 0 {
		return "", false
	}

	body := after[open+1 : closing]
	appendRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*\+=\s*([^;]+);`)
	if !appendRe.MatchString(body) || uses.MatchString(appendRe.ReplaceAllString(body, "")) {
		return "", false
	}

	builder := name + "Builder"
	newBody := appendRe.ReplaceAllString(body, builder+".append($1);")
	var b strings.Builder
	b.WriteString(code[:declStart])
	b.WriteString(indent + "StringBuilder " + builder + " = new StringBuilder();")
	b.WriteString(after[:open+1])
	b.WriteString(newBody)
	b.WriteString("}\n")
	b.WriteString(indent + "String " + name + " = " + builder + ".toString();")
	b.WriteString(after[closing+1:])
	return b.String(), true
}
