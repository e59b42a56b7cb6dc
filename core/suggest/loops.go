package suggest

import (
	"regexp"
	"strings"
)

var (
	pythonLoopHeader = regexp.MustCompile(`^(\s*)(async\s+)?(for|while)\b[^:]*:(.*)$`)
	braceLoopHeader  = regexp.MustCompile(`\b(for|while)\s*\(`)
)

// pyLoop is one Python loop statement with the text of its body.
type pyLoop struct {
	keyword string // "for" or "while"
	body    string
}

// pythonLoops finds every Python loop statement. A body is the indented block
// below the header, or the remainder of a one-line loop.
func pythonLoops(code string) []pyLoop {
	lines := strings.Split(code, "\n")
	var loops []pyLoop
	for i, line := range lines {
		m := pythonLoopHeader.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if inline := strings.TrimSpace(m[4]); inline != "" && !strings.HasPrefix(inline, "#") {
			loops = append(loops, pyLoop{keyword: m[3], body: inline})
			continue
		}
		indent := len(m[1])
		var body []string
		for _, next := range lines[i+1:] {
			if strings.TrimSpace(next) == "" {
				continue
			}
			if leadingSpace(next) <= indent {
				break
			}
			body = append(body, next)
		}
		loops = append(loops, pyLoop{keyword: m[3], body: strings.Join(body, "\n")})
	}
	return loops
}

// pythonLoopBodies returns the body of every Python loop.
func pythonLoopBodies(code string) []string {
	return pythonBodies(code, "")
}

// pythonBodies returns the bodies of loops introduced by keyword, or of all loops when keyword is empty.
func pythonBodies(code, keyword string) []string {
	var bodies []string
	for _, l := range pythonLoops(code) {
		if keyword == "" || l.keyword == keyword {
			bodies = append(bodies, l.body)
		}
	}
	return bodies
}

// braceLoopBodies returns the body text of each C-like loop. A body is the
// balanced brace block after the header, or the single statement up to ';'.
func braceLoopBodies(code string) []string {
	var bodies []string
	for _, loc := range braceLoopHeader.FindAllStringIndex(code, -1) {
		end := matching(code, loc[1]-1, '(', ')')
		if end < 0 {
			continue
		}
		rest := strings.TrimLeft(code[end+1:], " \t\r\n")
		start := len(code) - len(rest)
		if strings.HasPrefix(rest, "{") {
			if closing := matching(code, start, '{', '}'); closing > start {
				bodies = append(bodies, code[start+1:closing])
			}
			continue
		}
		if semi := strings.IndexByte(rest, ';'); semi >= 0 {
			bodies = append(bodies, rest[:semi])
		}
	}
	return bodies
}

// matching returns the index of the bracket that closes code[open], or -1.
func matching(code string, open int, left, right byte) int {
	depth := 0
	for i := open; i < len(code); i++ {
		switch code[i] {
		case left:
			depth++
		case right:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func leadingSpace(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// anyBody reports whether pred holds for any loop body.
func anyBody(bodies []string, pred func(string) bool) bool {
	for _, b := range bodies {
		if pred(b) {
			return true
		}
	}
	return false
}

// bodyMatches reports whether any loop body matches re.
func bodyMatches(bodies []string, re *regexp.Regexp) bool {
	return anyBody(bodies, re.MatchString)
}
