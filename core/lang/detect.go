// Package lang guesses the language of a code sample.
package lang

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/huangsam/greenscore/schema"
)

// signature is a single marker that votes for a language.
type signature struct {
	literal string
	pattern *regexp.Regexp
}

func (s signature) found(code string) bool {
	if s.pattern != nil {
		return s.pattern.MatchString(code)
	}
	return strings.Contains(code, s.literal)
}

func lit(s string) signature { return signature{literal: s} }

func re(expr string) signature { return signature{pattern: regexp.MustCompile(expr)} }

// Signature sets are checked in priority order: Python, JavaScript/TypeScript, Java, C/C++.
var (
	pythonSignatures = []signature{
		re(`\bdef\s+\w+\s*\(`),
		re(`(?m)^\s*import\s+[\w.]+(\s+as\s+\w+)?(\s*,\s*[\w.]+)*\s*$`),
		re(`(?m)^\s*from\s+[\w.]+\s+import\s+`),
		re(`(^|[^.:\w])print\s*\(`),
		lit("if __name__"),
		lit("lambda "),
		re(`(^|[^.:\w])list\(`),
		re(`(^|[^.:\w])dict\(`),
	}

	javaScriptSignatures = []signature{
		re(`\bfunction\b\s*\w*\s*\(`),
		re(`\b(const|let|var)\s+[\w$]+\s*=`),
		re(`\b(const|let)\s+[\[{]`),
		re(`\b(const|let|var)\s+[\w$]+\s*:\s*[\w$<\[{]`),
		re(`(?m)^\s*export\s+(default\s+)?(function|class|const|let|interface|type)\b`),
		lit("=>"),
		lit("console.log"),
		lit("require("),
		re(`(?m)^\s*import\s+.*\s+from\s+['"]`),
		re(`(?m)^\s*import\s+['"{*]`),
	}

	typeScriptMarkers = []signature{
		re(`\binterface\s+\w+`),
		re(`\btype\s+\w+\s*=`),
	}

	javaSignatures = []signature{
		lit("public class"),
		lit("public static void main"),
		lit("System.out.println"),
		lit("@Override"),
		re(`\bclass\s+\w+(<[^>]*>)?\s+extends\s+\w+`),
		re(`\bclass\s+\w+(<[^>]*>)?\s+implements\s+\w+`),
	}

	cFamilySignatures = []signature{
		lit("#include"),
		lit("int main("),
	}

	cppOnlyMarkers = []signature{
		lit("std::"),
		lit("using namespace"),
		lit("cout <<"),
		lit("cin >>"),
		lit("<iostream>"),
		re(`\btemplate\s*<`),
	}
)

func anyFound(code string, sigs []signature) bool {
	for _, s := range sigs {
		if s.found(code) {
			return true
		}
	}
	return false
}

// Detect guesses the language of code from keyword signatures.
// It never fails: unrecognizable input falls back to Python.
func Detect(code string) schema.Language {
	switch {
	case anyFound(code, pythonSignatures):
		return schema.Python
	case anyFound(code, javaScriptSignatures):
		if isTypeScript(code) {
			return schema.TypeScript
		}
		return schema.JavaScript
	case anyFound(code, javaSignatures):
		return schema.Java
	case anyFound(code, cFamilySignatures), anyFound(code, cppOnlyMarkers):
		return detectCFamily(code)
	}
	return schema.Python
}

// isTypeScript disambiguates TypeScript from JavaScript.
func isTypeScript(code string) bool {
	if anyFound(code, typeScriptMarkers) {
		return true
	}
	firstLine, _, _ := strings.Cut(strings.TrimLeft(code, "\r\n\t "), "\n")
	return strings.Contains(firstLine, ":")
}

// detectCFamily separates C from C++. C wins only for printf-style code free of C++ markers.
func detectCFamily(code string) schema.Language {
	if anyFound(code, cppOnlyMarkers) {
		return schema.Cpp
	}
	if strings.Contains(code, "printf") && !strings.Contains(code, "std::") {
		return schema.C
	}
	return schema.Cpp
}

// enryNames maps go-enry language names to supported languages.
var enryNames = map[string]schema.Language{
	"Python":     schema.Python,
	"JavaScript": schema.JavaScript,
	"TypeScript": schema.TypeScript,
	"TSX":        schema.TypeScript,
	"Java":       schema.Java,
	"C++":        schema.Cpp,
	"C":          schema.C,
}

// DetectFile guesses the language of a file using its name and content.
// It asks go-enry first and falls back to Detect when enry is inconclusive.
// Files that enry recognizes as an unsupported language yield Unknown.
func DetectFile(path string, content []byte) schema.Language {
	if path == "" || path == "-" {
		return Detect(string(content))
	}
	name := filepath.Base(path)
	detected := enry.GetLanguage(name, content)
	if detected == "" || detected == "Text" {
		if byExt, safe := enry.GetLanguageByExtension(name); safe && byExt != "" {
			detected = byExt
		}
	}
	if detected == "" || detected == "Text" {
		return Detect(string(content))
	}
	if language, ok := enryNames[detected]; ok {
		return language
	}
	return schema.Unknown
}
