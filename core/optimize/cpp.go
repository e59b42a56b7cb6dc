package optimize

import (
	"regexp"
	"strings"
)

var (
	cppIndexedFor = regexp.MustCompile(`for\s*\(\s*(?:int|size_t|std::size_t|unsigned|auto)\s+(?P<i>\w+)\s*=\s*0\s*;\s*(?P<cmp>\w+)\s*<\s*(?P<seq>[\w.]+)\.size\(\)\s*;\s*(?:(?P<inc>\w+)\s*\+\+|\+\+\s*(?P<pre>\w+))\s*\)\s*\{`)
	cppRawNew     = regexp.MustCompile(`(?m)^([ \t]*)(\w+)\s*\*\s*(\w+)\s*=\s*new\s+(\w+)\s*(\(([^;]*)\))?\s*;`)
	cppEndl       = regexp.MustCompile(`<<\s*(?:std::)?endl\b`)
	cppInclude    = regexp.MustCompile(`(?m)^#include`)
	cStrlenLoop   = regexp.MustCompile(`for\s*\(\s*(int|size_t|unsigned)\s+(\w+)\s*=\s*0\s*;\s*(\w+)\s*<\s*strlen\(\s*(\w+)\s*\)\s*;`)
)

var cppPipeline = pipeline{
	rules: []Rule{
		{
			Name:        "range-for",
			Description: "Replace an indexed loop over a container with a range-based for loop",
			Match:       func(code string) bool { return strings.Contains(code, ".size()") },
			Rewrite:     func(code string) string { return rewriteIndexedBlocks(code, cppIndexedFor, cppRangeFor) },
		},
		{
			Name:        "smart-pointer",
			Description: "Replace a local new/delete pair with std::make_unique",
			Match:       func(code string) bool { return strings.Contains(code, "new ") && strings.Contains(code, "delete") },
			Rewrite:     rewriteSmartPointers,
		},
		{
			Name:        "newline",
			Description: "Write '\\n' instead of flushing with std::endl",
			Match:       func(code string) bool { return strings.Contains(code, "endl") },
			Rewrite:     func(code string) string { return cppEndl.ReplaceAllString(code, `<< '\n'`) },
		},
	},
}

var cPipeline = pipeline{
	rules: []Rule{
		{
			Name:        "hoist-strlen",
			Description: "Compute strlen() once instead of on every iteration",
			Match:       func(code string) bool { return strings.Contains(code, "strlen(") },
			Rewrite:     hoistStrlen,
		},
	},
}

// memberAccess matches a method call or member write through seq[index]. The
// method may be non-const, so the element cannot be bound as const.
func memberAccess(seq, index string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(seq) + `\s*\[\s*` + regexp.QuoteMeta(index) +
		`\s*\]\s*(?:\.|->)\s*\w+\s*(?:\(|[-+*/%]?=[^=]|\+\+|--)`)
}

func cppRangeFor(h indexedHeader, body string) (string, string, bool) {
	elem := freshName([]string{body}, "item", "element", "value")
	ref := "const auto& "
	if indexWrite(h.seq, h.index).MatchString(body) || memberAccess(h.seq, h.index).MatchString(body) {
		ref = "auto& "
	}
	rewritten := replaceIndex(h.seq, h.index, elem, []string{body})[0]
	if word(h.index).MatchString(rewritten) {
		return "", "", false
	}
	return "for (" + ref + elem + " : " + h.seq + ")", rewritten, true
}

// rewriteSmartPointers converts "T* p = new T(...);" when the same scope later
// does "delete p;". The delete is removed and <memory> is included.
func rewriteSmartPointers(code string) string {
	changed := false
	code = replaceMatchesIndexed(code, cppRawNew, func(g []string) (string, bool) {
		indent, typ, name, ctor, args := g[1], g[2], g[3], g[4], g[6]
		if typ != ctor {
			return "", false
		}
		del := regexp.MustCompile(`(?m)^[ \t]*delete\s+` + regexp.QuoteMeta(name) + `\s*;[ \t]*\n?`)
		if !del.MatchString(code) {
			return "", false
		}
		changed = true
		return indent + "auto " + name + " = std::make_unique<" + typ + ">(" + args + ");", true
	})
	if !changed {
		return code
	}
	code = removeDeletes(code)
	if !strings.Contains(code, "<memory>") {
		if loc := cppInclude.FindStringIndex(code); loc != nil {
			code = code[:loc[0]] + "#include <memory>\n" + code[loc[0]:]
		} else {
			code = "#include <memory>\n" + code
		}
	}
	return code
}

// removeDeletes drops "delete p;" for every p now owned by make_unique.
func removeDeletes(code string) string {
	owned := regexp.MustCompile(`auto\s+(\w+)\s*=\s*std::make_unique<`)
	for _, m := range owned.FindAllStringSubmatch(code, -1) {
		del := regexp.MustCompile(`(?m)^[ \t]*delete\s+` + regexp.QuoteMeta(m[1]) + `\s*;[ \t]*\n?`)
		code = del.ReplaceAllString(code, "")
	}
	return code
}

// hoistStrlen moves strlen() out of a loop condition into the init clause.
func hoistStrlen(code string) string {
	return replaceMatchesIndexed(code, cStrlenLoop, func(g []string) (string, bool) {
		typ, index, cmp, str := g[1], g[2], g[3], g[4]
		if index != cmp {
			return "", false
		}
		n := freshName([]string{code}, str+"_len", "len_"+str)
		return "for (" + typ + " " + index + " = 0, " + n + " = strlen(" + str + "); " + index + " < " + n + ";", true
	})
}
