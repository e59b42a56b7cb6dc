package optimize

import (
	"fmt"
	"regexp"
	"strings"
)

// Layer a: whole-block substitutions for an initializer directly followed by a
// one-statement loop.
const (
	pyInit       = `(?m)^(?P<ind>[ \t]*)(?P<name>\w+)[ \t]*=[ \t]*`
	pyLoopHeader = `[ \t]*\n(?P<forind>[ \t]*)for[ \t]+(?P<var>\w+)[ \t]+in[ \t]+(?P<iter>range\(len\((?P<seq>[\w.]+)\)\)|[\w.]+)[ \t]*:[ \t]*\n(?P<bodyind>[ \t]+)`
	pyAccumulate = `(?P<target>\w+)[ \t]*(?:\+=|=[ \t]*(?P<self>\w+)[ \t]*\+)[ \t]*(?P<term>\S.*?)[ \t]*$`
)

var (
	pyListAppend = regexp.MustCompile(pyInit + `\[\]` + pyLoopHeader + `(?P<target>\w+)\.append\((?P<expr>.*)\)[ \t]*$`)
	pySumLoop    = regexp.MustCompile(pyInit + `0(?:\.0)?` + pyLoopHeader + pyAccumulate)
	pyJoinLoop   = regexp.MustCompile(pyInit + `(?:""|'')` + pyLoopHeader + pyAccumulate)
)

var pythonPipeline = pipeline{
	rules: []Rule{
		{
			Name:        "list-comprehension",
			Description: "Replace an append loop with a list comprehension",
			Match:       func(code string) bool { return strings.Contains(code, ".append(") },
			Rewrite: func(code string) string {
				return replaceMatches(code, pyListAppend, func(m namedMatch, rest string) (string, bool) {
					loop, ok := adjacentLoop(m, rest)
					if !ok {
						return "", false
					}
					return loop.assign(listComprehension(loop, m["expr"], ""))
				})
			},
		},
		{
			Name:        "sum-builtin",
			Description: "Replace a manual accumulation loop with sum()",
			Match:       func(code string) bool { return strings.Contains(code, "for ") },
			Rewrite: func(code string) string {
				return replaceMatches(code, pySumLoop, func(m namedMatch, rest string) (string, bool) {
					loop, ok := adjacentLoop(m, rest)
					if !ok {
						return "", false
					}
					return loop.assign(sumCall(loop, m["term"], ""))
				})
			},
		},
		{
			Name:        "join-builtin",
			Description: "Replace string concatenation in a loop with str.join()",
			Match:       func(code string) bool { return strings.Contains(code, "for ") },
			Rewrite: func(code string) string {
				return replaceMatches(code, pyJoinLoop, func(m namedMatch, rest string) (string, bool) {
					loop, ok := adjacentLoop(m, rest)
					if !ok {
						return "", false
					}
					return loop.assign(joinCall(loop, m["term"], ""))
				})
			},
		},
		{
			Name:        "comprehension-scan",
			Description: "Fuse accumulation loops separated from their initializer into comprehensions",
			Match:       func(code string) bool { return strings.Contains(code, "for ") },
			Rewrite:     scanAccumulations,
		},
		{
			Name:        "direct-iteration",
			Description: "Iterate over a sequence instead of over its indices",
			Match:       func(code string) bool { return strings.Contains(code, "range(len(") },
			Rewrite:     rewriteIndexLoops,
		},
		{
			Name:        "iterrows-hint",
			Description: "Flag row-wise DataFrame iteration for vectorization",
			Match:       func(code string) bool { return strings.Contains(code, ".iterrows()") },
			Rewrite:     hintIterrows,
		},
	},
	aggressive: []Rule{
		{
			Name:        "enumerate",
			Description: "Replace range(len(x)) with enumerate(x)",
			Match:       func(code string) bool { return strings.Contains(code, "range(len(") },
			Rewrite:     enumerateIndexLoops,
		},
	},
	stillSlow: func(code string) bool { return strings.Contains(code, "range(len(") },
}

// accLoop describes an accumulation loop being folded into one assignment.
type accLoop struct {
	indent  string
	name    string
	varName string
	iter    string // the loop's iterable as written
	seq     string // the indexed sequence when iter is range(len(seq))
}

// assign renders "name = value" at the loop's indentation.
func (l accLoop) assign(value string, ok bool) (string, bool) {
	if !ok {
		return "", false
	}
	return l.indent + l.name + " = " + value, true
}

// adjacentLoop validates a layer a match: consistent names and indentation,
// and a loop body of exactly one statement.
func adjacentLoop(m namedMatch, rest string) (accLoop, bool) {
	forInd, bodyInd := m["forind"], m["bodyind"]
	if m["ind"] != forInd || m["name"] != m["target"] {
		return accLoop{}, false
	}
	if self, ok := m["self"]; ok && self != m["name"] {
		return accLoop{}, false
	}
	if len(bodyInd) <= len(forInd) || !strings.HasPrefix(bodyInd, forInd) {
		return accLoop{}, false
	}
	if next := nextCodeIndent(rest); next > len(forInd) {
		return accLoop{}, false
	}
	return accLoop{indent: m["ind"], name: m["name"], varName: m["var"], iter: m["iter"], seq: m["seq"]}, true
}

// source returns the iterable and rewritten expressions for a comprehension.
// Index access seq[i] becomes the element i when the index is not otherwise used.
func (l accLoop) source(exprs ...string) (string, []string, bool) {
	for _, e := range exprs {
		if word(l.name).MatchString(e) {
			return "", nil, false
		}
	}
	if l.seq == "" {
		return l.iter, exprs, true
	}
	if subs, ok := substituteIndex(l.seq, l.varName, exprs...); ok {
		return l.seq, subs, true
	}
	return l.iter, exprs, true
}

func ifClause(cond string) string {
	if cond == "" {
		return ""
	}
	return " if " + cond
}

func listComprehension(l accLoop, expr, cond string) (string, bool) {
	iter, out, ok := l.source(strings.TrimSpace(expr), cond)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("[%s for %s in %s%s]", out[0], l.varName, iter, ifClause(out[1])), true
}

func sumCall(l accLoop, term, cond string) (string, bool) {
	iter, out, ok := l.source(strings.TrimSpace(term), cond)
	if !ok {
		return "", false
	}
	if out[0] == l.varName && out[1] == "" {
		return fmt.Sprintf("sum(%s)", iter), true
	}
	return fmt.Sprintf("sum(%s for %s in %s%s)", out[0], l.varName, iter, ifClause(out[1])), true
}

func joinCall(l accLoop, term, cond string) (string, bool) {
	iter, out, ok := l.source(strings.TrimSpace(term), cond)
	if !ok {
		return "", false
	}
	t := out[0]
	switch {
	case (t == l.varName || t == "str("+l.varName+")") && out[1] == "":
		return fmt.Sprintf("''.join(str(item) for item in %s)", iter), true
	case strings.HasPrefix(t, "str(") || strings.HasPrefix(t, `"`) || strings.HasPrefix(t, "'"):
		return fmt.Sprintf("''.join(%s for %s in %s%s)", t, l.varName, iter, ifClause(out[1])), true
	default:
		return fmt.Sprintf("''.join(str(%s) for %s in %s%s)", t, l.varName, iter, ifClause(out[1])), true
	}
}
