package optimize

import (
	"strings"
)

// chunkBoundaries start a new chunk when a trimmed line begins with one of them.
var chunkBoundaries = []string{
	"def ", "async def ", "class ", "function ", "async function ",
	"public ", "private ", "protected ",
}

func isBoundary(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	for _, b := range chunkBoundaries {
		if strings.HasPrefix(trimmed, b) {
			return true
		}
	}
	return false
}

// Split breaks code into function-sized chunks when it has more than maxLines
// lines. Decorators stay with the definition they annotate.
func Split(code string, maxLines int) []string {
	lines := strings.Split(code, "\n")
	if len(lines) <= maxLines {
		return []string{code}
	}

	var chunks [][]string
	var current []string
	for _, line := range lines {
		if isBoundary(line) && hasCode(current) {
			var carried []string
			for len(current) > 0 && strings.HasPrefix(strings.TrimSpace(current[len(current)-1]), "@") {
				carried = append([]string{current[len(current)-1]}, carried...)
				current = current[:len(current)-1]
			}
			if hasCode(current) {
				chunks = append(chunks, current)
				current = nil
			}
			current = append(current, carried...)
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}

	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = strings.Join(c, "\n")
	}
	return out
}

// Join reassembles chunks in order, guaranteeing a blank line between them.
func Join(chunks []string) string {
	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			prev := chunks[i-1]
			b.WriteString("\n")
			if !endsWithBlankLine(prev) {
				b.WriteString("\n")
			}
		}
		b.WriteString(c)
	}
	return b.String()
}

func hasCode(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}

func endsWithBlankLine(chunk string) bool {
	i := strings.LastIndexByte(chunk, '\n')
	return i >= 0 && strings.TrimSpace(chunk[i+1:]) == ""
}
