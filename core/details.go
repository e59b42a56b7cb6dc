package core

import (
	"strings"

	"github.com/huangsam/greenscore/schema"
)

// DefaultMaintainabilityIndex is reported until a real maintainability model exists.
const DefaultMaintainabilityIndex = 70

// Size and count limits used by the detail heuristics.
const (
	longCodeBytes      = 1000
	excessiveLoopCount = 3
	nestedLoopCount    = 2
	importHeavyCount   = 5
)

// Details builds the detailed breakdown of a code sample.
// The cyclomatic figure is the complexity score already predicted for it.
func Details(code string, metrics schema.MetricSet) schema.AnalysisDetails {
	return schema.AnalysisDetails{
		LinesOfCode:            strings.Count(code, "\n") + 1,
		CyclomaticComplexity:   metrics.ComplexityScore,
		MaintainabilityIndex:   DefaultMaintainabilityIndex,
		CodeSmells:             codeSmells(code),
		AlgorithmComplexity:    algorithmComplexity(code),
		MemoryPatterns:         memoryPatterns(code),
		PerformanceBottlenecks: bottlenecks(code),
	}
}

func codeSmells(code string) []string {
	smells := []string{}
	if strings.Contains(code, "range(len(") {
		smells = append(smells, "Index-based iteration")
	}
	if strings.Count(code, "for ") > excessiveLoopCount {
		smells = append(smells, "Excessive loops")
	}
	if strings.Contains(code, "import *") {
		smells = append(smells, "Wildcard import")
	}
	if len(code) > longCodeBytes {
		smells = append(smells, "Long function")
	}
	return smells
}

// algorithmComplexity is a coarse estimate from the number of loop headers.
func algorithmComplexity(code string) string {
	switch n := strings.Count(code, "for "); {
	case n >= 2:
		return "O(n²)"
	case n == 1:
		return "O(n)"
	default:
		return "O(1)"
	}
}

func memoryPatterns(code string) schema.MemoryPatterns {
	imports := strings.Count(code, "import ")
	footprint := "Low"
	if imports >= importHeavyCount {
		footprint = "Medium"
	}
	return schema.MemoryPatterns{
		ImportsCount:             imports,
		FunctionDefinitions:      strings.Count(code, "def "),
		ClassDefinitions:         strings.Count(code, "class "),
		EstimatedMemoryFootprint: footprint,
	}
}

func bottlenecks(code string) []string {
	found := []string{}
	if strings.Contains(code, "range(len(") {
		found = append(found, "Index-based iteration")
	}
	if strings.Count(code, "for ") > nestedLoopCount {
		found = append(found, "Nested loops")
	}
	if strings.Contains(strings.ToLower(code), "recursive") {
		found = append(found, "Recursive calls")
	}
	return found
}
