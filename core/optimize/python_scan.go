package optimize

import (
	"regexp"
	"strings"
)

// lookBackLines bounds how far above a loop its initializer may sit.
const lookBackLines = 5

var (
	scanFor    = regexp.MustCompile(`^([ \t]*)for[ \t]+(\w+)[ \t]+in[ \t]+(range\(len\(([\w.\[\]]+)\)\)|[\w.\[\]]+)[ \t]*:[ \t]*(#.*)?$`)
	scanIf     = regexp.MustCompile(`^if[ \t]+(.+?)[ \t]*:[ \t]*$`)
	scanAppend = regexp.MustCompile(`^(\w+)\.append\((.*)\)$`)
	scanAccum  = regexp.MustCompile(`^(\w+)[ \t]*(?:\+=|=[ \t]*(\w+)[ \t]*\+)[ \t]*(\S.*)$`)
	scanInit   = regexp.MustCompile(`^[ \t]*(\w+)[ \t]*=[ \t]*(\[\]|0|0\.0|""|'')[ \t]*$`)
)

// loopBody is the shape of a loop eligible for fusion: one statement,
// optionally guarded by a single if.
type loopBody struct {
	end  int // index after the last body line
	cond string
	stmt string
}

// scanAccumulations is the tolerant line-scanning pass. It finds the
// initializer of a one-statement loop within a short look-back window, allowing
// comments and unrelated statements in between, and fuses an if guard. The
// fused assignment replaces the loop and the initializer line is dropped.
func scanAccumulations(code string) string {
	lines := strings.Split(code, "\n")
	for changed := true; changed; {
		changed = false
		for i := range lines {
			if next, ok := fuseAt(lines, i); ok {
				lines, changed = next, true
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

func fuseAt(lines []string, i int) ([]string, bool) {
	m := scanFor.FindStringSubmatch(lines[i])
	if m == nil {
		return nil, false
	}
	body, ok := parseLoopBody(lines, i, len(m[1]))
	if !ok {
		return nil, false
	}

	var target, self, value string
	var isAppend bool
	if a := scanAppend.FindStringSubmatch(body.stmt); a != nil {
		target, value, isAppend = a[1], a[2], true
	} else if a := scanAccum.FindStringSubmatch(body.stmt); a != nil {
		target, self, value = a[1], a[2], a[3]
		if self != "" && self != target {
			return nil, false
		}
	} else {
		return nil, false
	}

	initAt, initValue, ok := findInit(lines, i, m[1], target)
	if !ok {
		return nil, false
	}

	loop := accLoop{indent: m[1], name: target, varName: m[2], iter: m[3], seq: m[4]}
	var rendered string
	switch {
	case isAppend && initValue == "[]":
		rendered, ok = loop.assign(listComprehension(loop, value, body.cond))
	case !isAppend && (initValue == "0" || initValue == "0.0"):
		rendered, ok = loop.assign(sumCall(loop, value, body.cond))
	case !isAppend && (initValue == `""` || initValue == "''"):
		rendered, ok = loop.assign(joinCall(loop, value, body.cond))
	default:
		ok = false
	}
	if !ok {
		return nil, false
	}

	// The fused assignment takes the loop's place so statements between the
	// initializer and the loop still run before it.
	out := make([]string, 0, len(lines))
	out = append(out, lines[:initAt]...)
	out = append(out, lines[initAt+1:i]...)
	out = append(out, rendered)
	out = append(out, lines[body.end:]...)
	return out, true
}

// parseLoopBody accepts a body of one statement or an if with one statement.
func parseLoopBody(lines []string, header, width int) (loopBody, bool) {
	end := blockEnd(lines, header+1, width)
	var code []string
	var widths []int
	for _, l := range lines[header+1 : end] {
		if isBlankOrComment(l, "#") {
			continue
		}
		code = append(code, strings.TrimSpace(l))
		widths = append(widths, indentWidth(l))
	}
	switch len(code) {
	case 1:
		return loopBody{end: end, stmt: code[0]}, true
	case 2:
		c := scanIf.FindStringSubmatch(code[0])
		if c == nil || widths[1] <= widths[0] {
			return loopBody{}, false
		}
		return loopBody{end: end, cond: c[1], stmt: code[1]}, true
	}
	return loopBody{}, false
}

// findInit looks back from a loop header for "target = <empty>" at the same
// indentation. Lines in between must not touch target.
func findInit(lines []string, header int, indent, target string) (int, string, bool) {
	uses := word(target)
	for j := header - 1; j >= 0 && j >= header-lookBackLines; j-- {
		l := lines[j]
		if isBlankOrComment(l, "#") {
			continue
		}
		if indentWidth(l) != len(indent) {
			return 0, "", false
		}
		if m := scanInit.FindStringSubmatch(l); m != nil && m[1] == target {
			return j, m[2], true
		}
		if uses.MatchString(l) {
			return 0, "", false
		}
	}
	return 0, "", false
}
