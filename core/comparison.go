package core

import (
	"fmt"
	"math"

	"github.com/huangsam/greenscore/schema"
)

// numericRow describes how one numeric metric is compared.
type numericRow struct {
	key          string
	value        func(schema.MetricSet) float64
	format       string // applied to the original, optimized and delta values
	higherBetter bool
}

var numericRows = []numericRow{
	{"green_score", func(m schema.MetricSet) float64 { return m.GreenScore }, "%.2f", true},
	{"energy_wh", func(m schema.MetricSet) float64 { return m.EnergyWh }, "%.4f Wh", false},
	{"co2_g", func(m schema.MetricSet) float64 { return m.CO2g }, "%.4f g", false},
	{"cpu_time_ms", func(m schema.MetricSet) float64 { return m.CPUTimeMs }, "%.2f ms", false},
	{"memory_mb", func(m schema.MetricSet) float64 { return m.MemoryMB }, "%.2f MB", false},
	{"complexity_score", func(m schema.MetricSet) float64 { return m.ComplexityScore }, "%.2f", false},
}

// BuildComparisonTable compares the metrics of original and optimized code,
// keyed by the names in schema.ComparisonMetricOrder.
func BuildComparisonTable(original, optimized schema.MetricSet) map[string]schema.ComparisonEntry {
	table := make(map[string]schema.ComparisonEntry, len(numericRows)+1)
	for _, row := range numericRows {
		before, after := row.value(original), row.value(optimized)
		table[row.key] = schema.ComparisonEntry{
			Original:    fmt.Sprintf(row.format, before),
			Optimized:   fmt.Sprintf(row.format, after),
			Improvement: improvement(row, before, after),
		}
	}

	change := "unchanged"
	if original.TimeComplexity != optimized.TimeComplexity {
		change = original.TimeComplexity + " -> " + optimized.TimeComplexity
	}
	table["time_complexity"] = schema.ComparisonEntry{
		Original:    original.TimeComplexity,
		Optimized:   optimized.TimeComplexity,
		Improvement: change,
	}
	return table
}

// improvement renders the gain as an absolute delta plus a percentage of the
// original value. Gains are positive whichever direction is better.
func improvement(row numericRow, before, after float64) string {
	gain := before - after
	if row.higherBetter {
		gain = after - before
	}
	pct := percentChange(before, gain)

	if row.higherBetter {
		word := "increase"
		if gain < 0 {
			word = "decrease"
		}
		return fmt.Sprintf("%+.2f (%.1f%% %s)", gain, math.Abs(pct), word)
	}
	word := "reduction"
	if gain < 0 {
		word = "increase"
	}
	return fmt.Sprintf(row.format+" (%.1f%% %s)", math.Abs(gain), math.Abs(pct), word)
}

// percentChange is delta as a percentage of base, or 0 when base is zero.
func percentChange(base, delta float64) float64 {
	if base == 0 {
		return 0
	}
	return delta / base * 100
}
