package core

import (
	"fmt"
	"math"

	"github.com/huangsam/greenscore/schema"
)

// Everyday equivalents of energy and CO2.
const (
	lightBulbRate  = 0.06 // 60 W bulb
	treeGramsDaily = 22   // CO2 absorbed by one tree per day
	carGramsMile   = 404  // CO2 emitted by an average car per mile
)

// Impact converts predicted metrics into real-world equivalents.
func Impact(metrics schema.MetricSet) schema.RealWorldImpact {
	hours := metrics.EnergyWh / lightBulbRate
	return schema.RealWorldImpact{
		LightBulbHours:   roundTo(hours, 2),
		TreePlantingDays: roundTo(metrics.CO2g/treeGramsDaily, 2),
		CarMiles:         roundTo(metrics.CO2g/carGramsMile, 4),
		Description:      fmt.Sprintf("Running this code 1M times = powering a light bulb for %.1f hours", hours),
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
