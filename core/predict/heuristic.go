// Package predict maps feature vectors to green score and resource metrics.
package predict

import (
	"math"

	"github.com/huangsam/greenscore/schema"
)

// Heuristic weights for the green score. Inefficient and efficient variants of
// a snippet must stay at least ten points apart.
const (
	baseScore = 50.0

	wLoop       = 8.0
	wCondition  = 4.0
	wIndexIter  = 20.0
	wListComp   = 10.0
	wBuiltin    = 8.0
	wFunctional = 5.0
	wLambda     = 3.0
	wFunction   = 2.0
	wClass      = 2.0
	wImport     = 0.5

	// wDeclarative rewards loop-free code built from comprehensions or built-ins.
	wDeclarative = 15.0

	sizePenaltyFrom    = 500.0
	sizePenaltyDivisor = 150.0
	maxSizePenalty     = 20.0
)

// Energy, CPU and memory coefficients.
const (
	energyPerUnitWh = 0.01
	minEnergyWh     = 0.001
	minCO2g         = 0.001
	cpuMsPerUnit    = 0.5
	minCPUTimeMs    = 0.1
	minMemoryMB     = 1.0
	memoryPerImport = 2.0
	maxComplexity   = 10.0
)

// signals is the named view of a feature vector used by the heuristics.
type signals struct {
	length        float64
	loops         float64
	whiles        float64
	conditions    float64
	indexIter     float64
	comprehension float64
	builtins      float64
	functional    float64
	lambdas       float64
	functions     float64
	classes       float64
	imports       float64
}

func signalsOf(vec schema.FeatureVector) signals {
	return signals{
		length:        vec[schema.FeatLength],
		loops:         vec[schema.FeatFor],
		whiles:        vec[schema.FeatWhile],
		conditions:    vec[schema.FeatIf],
		indexIter:     vec[schema.FeatIndexIter],
		comprehension: vec[schema.FeatComprehension],
		builtins:      vec[schema.FeatBuiltin],
		functional:    vec[schema.FeatFunctional],
		lambdas:       vec[schema.FeatLambda],
		functions:     vec[schema.FeatFunc],
		classes:       vec[schema.FeatClass],
		imports:       vec[schema.FeatImport] + vec[schema.FeatFromImport],
	}
}

// controlFlow is the loop and condition proxy shared by energy and CPU time.
func (s signals) controlFlow() float64 {
	return s.loops + s.whiles + s.conditions
}

// statementLoops estimates loops that are not part of a comprehension.
func (s signals) statementLoops() float64 {
	return math.Max(0, s.loops+s.whiles-s.comprehension)
}

// parsedPython reports whether the AST slots of a Python vector are populated.
// Source that fails to parse leaves them all zero.
func parsedPython(vec schema.FeatureVector) bool {
	for i := schema.FeatASTFor; i <= schema.FeatASTSetComp; i++ {
		if vec[i] > 0 {
			return true
		}
	}
	return false
}

// declarative reports whether code is loop-free apart from comprehensions and
// uses at least one comprehension, built-in or functional call. Python decides
// from AST nodes; the lexical comprehension marker also matches subscripts.
func declarative(vec schema.FeatureVector, language schema.Language) bool {
	s := signalsOf(vec)
	if language == schema.Python && parsedPython(vec) {
		comps := vec[schema.FeatASTListComp] + vec[schema.FeatASTDictComp] + vec[schema.FeatASTSetComp]
		return vec[schema.FeatASTFor]+vec[schema.FeatASTWhile] == 0 && s.indexIter == 0 &&
			comps+s.builtins+s.functional > 0
	}
	return s.statementLoops() == 0 && s.indexIter == 0 && s.comprehension+s.builtins+s.functional > 0
}

// HeuristicGreenScore computes the closed-form green score of a feature vector.
func HeuristicGreenScore(vec schema.FeatureVector, language schema.Language) float64 {
	s := signalsOf(vec)

	score := baseScore
	score -= (s.loops+s.whiles)*wLoop + s.conditions*wCondition + s.indexIter*wIndexIter
	score += s.comprehension*wListComp + s.builtins*wBuiltin + s.functional*wFunctional + s.lambdas*wLambda
	score += s.functions*wFunction + s.classes*wClass - s.imports*wImport

	if s.length > sizePenaltyFrom {
		score -= math.Min(maxSizePenalty, s.length/sizePenaltyDivisor)
	}

	if declarative(vec, language) {
		score += wDeclarative
	}

	return round2(clamp(score, 0, 100))
}

// HeuristicEnergyWh estimates energy from the control-flow proxy.
func HeuristicEnergyWh(vec schema.FeatureVector) float64 {
	return math.Max(minEnergyWh, signalsOf(vec).controlFlow()*energyPerUnitWh)
}

// CO2Grams converts energy to grams of CO2 with an emission factor in g/kWh.
func CO2Grams(energyWh, factor float64) float64 {
	return math.Max(minCO2g, energyWh/1000*factor)
}

// HeuristicCPUTimeMs estimates CPU time from the control-flow proxy.
func HeuristicCPUTimeMs(vec schema.FeatureVector) float64 {
	return math.Max(minCPUTimeMs, signalsOf(vec).controlFlow()*cpuMsPerUnit)
}

// HeuristicMemoryMB estimates memory from code size and imports.
func HeuristicMemoryMB(vec schema.FeatureVector) float64 {
	s := signalsOf(vec)
	return math.Max(minMemoryMB, s.length/1000+s.imports*memoryPerImport)
}

// PatternComplexity estimates a 0-10 complexity score from lexical counts.
func PatternComplexity(vec schema.FeatureVector) float64 {
	s := signalsOf(vec)
	return clamp((s.loops+s.whiles+s.conditions+s.functions*0.5)/5, 0, maxComplexity)
}

// CyclomaticComplexity normalizes a total cyclomatic complexity to 0-10.
func CyclomaticComplexity(total int) float64 {
	return clamp(float64(total)/10, 0, maxComplexity)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
