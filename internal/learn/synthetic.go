package learn

import (
	"math/rand/v2"

	"github.com/huangsam/greenscore/schema"
)

// DefaultSyntheticPatterns is the number of generated pattern samples.
const DefaultSyntheticPatterns = 1000

// anchor is a labeled snippet with known efficiency.
type anchor struct {
	code    string
	metrics map[string]float64
}

var (
	inefficientSum = anchor{
		code: "def inefficient_sum(numbers):\n    total = 0\n    for i in range(len(numbers)):\n        total += numbers[i]\n    return total\n",
		metrics: map[string]float64{
			"green_score": 45, "energy_wh": 0.05, "co2_g": 12.5, "cpu_time_ms": 2.3, "memory_mb": 8.2, "complexity": 3,
		},
	}
	efficientSum = anchor{
		code: "def efficient_sum(numbers):\n    return sum(numbers)\n",
		metrics: map[string]float64{
			"green_score": 85, "energy_wh": 0.02, "co2_g": 5.1, "cpu_time_ms": 0.8, "memory_mb": 3.1, "complexity": 1,
		},
	}
	processListLoop = anchor{
		code: "def process_list(items):\n    result = []\n    for i in range(len(items)):\n        if items[i] > 0:\n            result.append(items[i] * 2)\n    return result\n",
		metrics: map[string]float64{
			"green_score": 40, "energy_wh": 0.06, "co2_g": 15.2, "cpu_time_ms": 2.8, "memory_mb": 12.5, "complexity": 4,
		},
	}
	processListComprehension = anchor{
		code: "def process_list(items):\n    return [item * 2 for item in items if item > 0]\n",
		metrics: map[string]float64{
			"green_score": 88, "energy_wh": 0.018, "co2_g": 4.5, "cpu_time_ms": 0.6, "memory_mb": 2.8, "complexity": 2,
		},
	}
	genericHandler = anchor{
		code: "def generic_handler(items):\n    total = 0\n    for item in items:\n        total += item\n    return total / len(items) if items else 0\n",
		metrics: map[string]float64{
			"green_score": 60, "energy_wh": 0.035, "co2_g": 9.0, "cpu_time_ms": 1.5, "memory_mb": 6.0, "complexity": 3,
		},
	}
	fibonacci = anchor{
		code: "def fibonacci(n): return n if n <= 1 else fibonacci(n-1) + fibonacci(n-2)",
		metrics: map[string]float64{
			"green_score": 25, "energy_wh": 0.15, "co2_g": 38.0, "cpu_time_ms": 8.5, "memory_mb": 25.0, "complexity": 6,
		},
	}
)

var (
	patternKinds     = []string{"loop", "recursion", "comprehension", "builtin"}
	efficiencyLevels = []string{"inefficient", "moderate", "efficient"}
)

func (a anchor) sample() schema.TrainingSample {
	metrics := make(map[string]float64, len(a.metrics))
	for k, v := range a.metrics {
		metrics[k] = v
	}
	return schema.TrainingSample{
		Code:     a.code,
		Language: schema.Python,
		Metrics:  metrics,
		Labels:   map[string]string{},
	}
}

// patternAnchor picks the snippet for a generated pattern. Only an inefficient
// loop and an efficient comprehension have dedicated snippets.
func patternAnchor(kind, efficiency string) anchor {
	switch {
	case kind == "loop" && efficiency == "inefficient":
		return processListLoop
	case kind == "comprehension" && efficiency == "efficient":
		return processListComprehension
	default:
		return genericHandler
	}
}

// SyntheticSamples returns the fixed anchors followed by n generated pattern
// samples. The same seed always yields the same samples.
func SyntheticSamples(n int, seed uint64) []schema.TrainingSample {
	rng := rand.New(rand.NewPCG(seed, seed))
	samples := make([]schema.TrainingSample, 0, n+3)
	samples = append(samples, inefficientSum.sample(), efficientSum.sample())
	for range n {
		kind := patternKinds[rng.IntN(len(patternKinds))]
		efficiency := efficiencyLevels[rng.IntN(len(efficiencyLevels))]
		samples = append(samples, patternAnchor(kind, efficiency).sample())
	}
	return append(samples, fibonacci.sample())
}
