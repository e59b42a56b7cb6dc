package optimize

import (
	"regexp"
	"strings"
)

var (
	jsIndexedFor = regexp.MustCompile(`for\s*\(\s*(?:let|var)\s+(?P<i>\w+)\s*=\s*0\s*;\s*(?P<cmp>\w+)\s*<\s*(?P<seq>[\w.$]+)\.length\s*;\s*(?:(?P<inc>\w+)\s*\+\+|\+\+\s*(?P<pre>\w+))\s*\)\s*\{`)
	jsIndexOf    = regexp.MustCompile(`\.indexOf\(([^()]*)\)\s*(?:!==?\s*-1|>\s*-1|>=\s*0)`)
)

var javaScriptPipeline = pipeline{
	rules: []Rule{
		{
			Name:        "for-of",
			Description: "Replace an indexed for loop with for...of",
			Match:       func(code string) bool { return strings.Contains(code, ".length") },
			Rewrite:     func(code string) string { return rewriteIndexedBlocks(code, jsIndexedFor, jsForOf) },
		},
		{
			Name:        "includes",
			Description: "Replace indexOf() comparisons with includes()",
			Match:       func(code string) bool { return strings.Contains(code, ".indexOf(") },
			Rewrite:     func(code string) string { return jsIndexOf.ReplaceAllString(code, ".includes($1)") },
		},
	},
}

// indexedHeader describes the header of a C-style counting loop.
type indexedHeader struct {
	index string
	seq   string
}

// blockRewriter renders the new loop header and body, or reports false.
type blockRewriter func(h indexedHeader, body string) (header, newBody string, ok bool)

// rewriteIndexedBlocks applies rewrite to every counting loop matched by re.
// Matches are handled back to front so earlier offsets stay valid.
func rewriteIndexedBlocks(code string, re *regexp.Regexp, rewrite blockRewriter) string {
	names := re.SubexpNames()
	locs := re.FindAllStringSubmatchIndex(code, -1)
	for k := len(locs) - 1; k >= 0; k-- {
		loc := locs[k]
		g := map[string]string{}
		for i, name := range names {
			if name != "" && loc[2*i] >= 0 {
				g[name] = code[loc[2*i]:loc[2*i+1]]
			}
		}
		inc := g["inc"] + g["pre"]
		if g["i"] != g["cmp"] || g["i"] != inc {
			continue
		}
		open := loc[1] - 1
		closing := matchingBrace(code, open)
		if closing < 0 {
			continue
		}
		header, body, ok := rewrite(indexedHeader{index: g["i"], seq: g["seq"]}, code[open+1:closing])
		if !ok {
			continue
		}
		code = code[:loc[0]] + header + " {" + body + code[closing:]
	}
	return code
}

func jsForOf(h indexedHeader, body string) (string, string, bool) {
	if indexWrite(h.seq, h.index).MatchString(body) {
		return "", "", false
	}
	elem := freshName([]string{body}, "item", "element", "value")
	rewritten := replaceIndex(h.seq, h.index, elem, []string{body})[0]
	if word(h.index).MatchString(rewritten) {
		return "", "", false
	}
	return "for (const " + elem + " of " + h.seq + ")", rewritten, true
}
