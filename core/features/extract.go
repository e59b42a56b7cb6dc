// Package features turns a code sample into a fixed-length feature vector.
package features

import (
	"strings"

	"github.com/huangsam/greenscore/schema"
)

// Counts holds the raw lexical tallies behind a feature vector.
type Counts struct {
	Length        int
	Newlines      int
	Spaces        int
	Tabs          int
	For           int
	While         int
	If            int
	Functions     int
	Classes       int
	IndexIter     int
	Comprehension int
	Builtins      int
	Functional    int
	Lambdas       int
	Imports       int
	FromImports   int
}

// Lexical counts the lexical markers of code using the token table of a language.
func Lexical(code string, language schema.Language) Counts {
	t := tableFor(language)
	return Counts{
		Length:        len(code),
		Newlines:      strings.Count(code, "\n"),
		Spaces:        strings.Count(code, " "),
		Tabs:          strings.Count(code, "\t"),
		For:           countAll(code, t.loops),
		While:         countAll(code, t.whiles),
		If:            countAll(code, t.conditions),
		Functions:     countAll(code, t.functions),
		Classes:       countAll(code, t.classes),
		IndexIter:     countAll(code, t.indexIter),
		Comprehension: countAll(code, t.comprehension),
		Builtins:      countAll(code, t.builtins),
		Functional:    countAll(code, t.functional),
		Lambdas:       countAll(code, t.lambdas),
		Imports:       countAll(code, t.imports),
		FromImports:   countAll(code, t.fromImports),
	}
}

// Slice returns the lexical counts in feature order.
func (c Counts) Slice() []float64 {
	return []float64{
		float64(c.Length),
		float64(c.Newlines),
		float64(c.Spaces),
		float64(c.Tabs),
		float64(c.For),
		float64(c.While),
		float64(c.If),
		float64(c.Functions),
		float64(c.Classes),
		float64(c.IndexIter),
		float64(c.Comprehension),
		float64(c.Builtins),
		float64(c.Functional),
		float64(c.Lambdas),
		float64(c.Imports),
		float64(c.FromImports),
	}
}

// patternSlice is the 8-slot stand-in for AST features outside Python.
// The last four slots are reserved and stay zero.
func patternSlice(c Counts) []float64 {
	return []float64{
		float64(c.For + c.While),
		float64(c.If),
		float64(c.Functions),
		float64(c.Classes),
		0, 0, 0, 0,
	}
}

// Extract builds the feature vector of code. It never fails: a Python
// syntax error yields zero AST slots.
func Extract(code string, language schema.Language) schema.FeatureVector {
	lexical := Lexical(code, language)
	var structural []float64
	if language == schema.Python {
		structural = PythonNodes(code).Slice()
	} else {
		structural = patternSlice(lexical)
	}
	return Normalize(lexical.Slice(), structural)
}

// Normalize concatenates feature slices and pads or truncates them to FeatureLen.
func Normalize(parts ...[]float64) schema.FeatureVector {
	var vec schema.FeatureVector
	i := 0
	for _, part := range parts {
		for _, v := range part {
			if i >= schema.FeatureLen {
				return vec
			}
			vec[i] = v
			i++
		}
	}
	return vec
}
