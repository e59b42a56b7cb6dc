package optimize

import (
	"regexp"
	"strings"
)

// namedMatch maps the named groups of one regexp match.
type namedMatch map[string]string

// replaceEach substitutes every match of re for which build reports true.
// build receives the submatch index pairs of the match.
func replaceEach(code string, re *regexp.Regexp, build func(loc []int) (string, bool)) string {
	var b strings.Builder
	last, replaced := 0, false
	for _, loc := range re.FindAllStringSubmatchIndex(code, -1) {
		repl, ok := build(loc)
		if !ok {
			continue
		}
		b.WriteString(code[last:loc[0]])
		b.WriteString(repl)
		last, replaced = loc[1], true
	}
	if !replaced {
		return code
	}
	b.WriteString(code[last:])
	return b.String()
}

// replaceMatches is replaceEach with named groups and the text following the match.
func replaceMatches(code string, re *regexp.Regexp, build func(m namedMatch, rest string) (string, bool)) string {
	names := re.SubexpNames()
	return replaceEach(code, re, func(loc []int) (string, bool) {
		m := namedMatch{}
		for i, name := range names {
			if name != "" && loc[2*i] >= 0 {
				m[name] = code[loc[2*i]:loc[2*i+1]]
			}
		}
		return build(m, code[loc[1]:])
	})
}

// replaceMatchesIndexed is replaceEach with positional groups.
func replaceMatchesIndexed(code string, re *regexp.Regexp, build func(groups []string) (string, bool)) string {
	return replaceEach(code, re, func(loc []int) (string, bool) {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = code[loc[2*i]:loc[2*i+1]]
			}
		}
		return build(groups)
	})
}

func word(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
}

// indexAccess matches seq[index] with optional inner whitespace.
func indexAccess(seq, index string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(seq) + `\s*\[\s*` + regexp.QuoteMeta(index) + `\s*\]`)
}

// indexWrite matches an assignment through seq[index].
func indexWrite(seq, index string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(seq) + `\s*\[\s*` + regexp.QuoteMeta(index) + `\s*\]\s*([-+*/%]?=[^=]|=$)`)
}

// replaceIndex rewrites seq[index] to elem in every text.
func replaceIndex(seq, index, elem string, texts []string) []string {
	access := indexAccess(seq, index)
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = access.ReplaceAllLiteralString(t, elem)
	}
	return out
}

// substituteIndex rewrites seq[index] to index in every text. It reports false
// when index is still needed as a number afterwards or an element is assigned.
func substituteIndex(seq, index string, texts ...string) ([]string, bool) {
	access := indexAccess(seq, index)
	bare := word(index)
	write := indexWrite(seq, index)
	for _, t := range texts {
		if write.MatchString(t) || bare.MatchString(access.ReplaceAllLiteralString(t, "")) {
			return nil, false
		}
	}
	return replaceIndex(seq, index, index, texts), true
}

// freshName returns the first candidate that does not occur in any text.
func freshName(texts []string, candidates ...string) string {
	joined := strings.Join(texts, "\n")
	for _, c := range candidates {
		if !word(c).MatchString(joined) {
			return c
		}
	}
	return candidates[len(candidates)-1] + "_"
}

func indentWidth(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func isBlankOrComment(line, comment string) bool {
	t := strings.TrimSpace(line)
	return t == "" || strings.HasPrefix(t, comment)
}

// blockEnd returns the index after the last line indented deeper than width,
// starting at from. Blank lines inside the block belong to it.
func blockEnd(lines []string, from, width int) int {
	end := from
	for i := from; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		if indentWidth(lines[i]) <= width {
			break
		}
		end = i + 1
	}
	return end
}

// nextCodeIndent returns the indentation of the first non-blank line of rest, or -1 at end of input.
func nextCodeIndent(rest string) int {
	for _, line := range strings.Split(rest, "\n") {
		if strings.TrimSpace(line) != "" {
			return indentWidth(line)
		}
	}
	return -1
}

// matchingBrace returns the index of the brace closing code[open], or -1.
func matchingBrace(code string, open int) int {
	depth := 0
	for i := open; i < len(code); i++ {
		switch code[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
