package optimize

import (
	"regexp"
	"strings"
)

var (
	residualFor  = regexp.MustCompile(`^([ \t]*)for[ \t]+(\w+)[ \t]+in[ \t]+range\(len\(([\w.\[\]]+)\)\)[ \t]*:(.*)$`)
	anyRangeLen  = regexp.MustCompile(`(?m)^([ \t]*)for[ \t]+(\w+)[ \t]+in[ \t]+range\(len\((.+)\)\)[ \t]*:`)
	iterrowsHint = "  # vectorize: prefer column operations over iterrows()"
)

// rewriteIndexLoops turns each remaining "for i in range(len(x)):" into
// "for i in x:" and rewrites x[i] to i within the indented block. When the
// index is still needed, the loop enumerates instead. Loops that assign
// through x[i] are left alone.
func rewriteIndexLoops(code string) string {
	lines := strings.Split(code, "\n")
	for i := 0; i < len(lines); i++ {
		m := residualFor.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		indent, index, seq, inline := m[1], m[2], m[3], m[4]

		var start, end int
		var block []string
		if t := strings.TrimSpace(inline); t != "" && !strings.HasPrefix(t, "#") {
			block = []string{inline}
		} else {
			start = i + 1
			end = blockEnd(lines, start, len(indent))
			block = lines[start:end]
		}

		header, rewritten, ok := directIteration(indent, index, seq, block)
		if !ok {
			continue
		}
		if start == 0 {
			lines[i] = header + rewritten[0]
			continue
		}
		lines[i] = header + inline
		copy(lines[start:end], rewritten)
	}
	return strings.Join(lines, "\n")
}

func directIteration(indent, index, seq string, block []string) (string, []string, bool) {
	write := indexWrite(seq, index)
	for _, l := range block {
		if write.MatchString(strings.TrimSpace(l)) {
			return "", nil, false
		}
	}
	if subs, ok := substituteIndex(seq, index, block...); ok {
		return indent + "for " + index + " in " + seq + ":", subs, true
	}
	elem := freshName(block, "item", "element", "value")
	return indent + "for " + index + ", " + elem + " in enumerate(" + seq + "):", replaceIndex(seq, index, elem, block), true
}

// hintIterrows annotates row-wise DataFrame iteration. It adds no code.
func hintIterrows(code string) string {
	lines := strings.Split(code, "\n")
	for i, l := range lines {
		if strings.Contains(l, ".iterrows()") && !strings.Contains(l, iterrowsHint) {
			lines[i] = l + iterrowsHint
		}
	}
	return strings.Join(lines, "\n")
}

// enumerateIndexLoops is the second chance for index loops the other passes
// could not touch. Enumerating keeps the index and its semantics intact.
func enumerateIndexLoops(code string) string {
	return anyRangeLen.ReplaceAllString(code, "${1}for ${2}, _ in enumerate(${3}):")
}
