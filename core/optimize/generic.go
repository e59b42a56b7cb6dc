package optimize

import (
	"regexp"
	"strings"
)

var excessBlankLines = regexp.MustCompile(`\n{4,}`)

var genericPipeline = pipeline{
	rules: []Rule{
		{
			Name:        "whitespace",
			Description: "Normalize line endings, trailing whitespace and blank-line runs",
			Rewrite:     normalizeWhitespace,
		},
	},
}

// normalizeWhitespace uses LF line endings, trims trailing whitespace and
// keeps at most two consecutive blank lines.
func normalizeWhitespace(code string) string {
	code = strings.ReplaceAll(code, "\r\n", "\n")
	lines := strings.Split(code, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return excessBlankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n\n")
}
