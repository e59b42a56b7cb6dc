package schema

// Custom string types for type safety.
type (
	// Language represents a supported source language.
	Language string

	// Region represents a coarse geography used to select an emission factor.
	Region string

	// Severity represents how urgent a suggestion is.
	Severity string

	// MetricName represents a metric that may be served by a learned regressor.
	MetricName string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for history and models.
	DatabaseBackend string

	// EnergyModel represents the energy estimation strategy.
	EnergyModel string
)

// All languages supported.
const (
	Python     Language = "python" // default
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Java       Language = "java"
	Cpp        Language = "cpp"
	C          Language = "c"
	Unknown    Language = "unknown"
)

// All regions supported.
const (
	USA    Region = "usa" // default
	Europe Region = "europe"
	Asia   Region = "asia"
	World  Region = "world"
)

// All severities supported.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Metrics that can be served by a learned model.
const (
	MetricGreenScore MetricName = "green_score"
	MetricEnergy     MetricName = "energy"
	MetricCO2        MetricName = "co2"
)

// All output modes supported.
const (
	TextOut     OutputMode = "text" // default
	JSONOut     OutputMode = "json"
	CSVOut      OutputMode = "csv"
	MarkdownOut OutputMode = "markdown"
	ParquetOut  OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All energy models supported.
const (
	HeuristicEnergy EnergyModel = "heuristic" // default
	PowerEnergy     EnergyModel = "power"
)

// AllLanguages lists the concrete languages in detection priority order.
var AllLanguages = []Language{Python, JavaScript, TypeScript, Java, Cpp, C}

// AllRegions lists every region with a static emission factor.
var AllRegions = []Region{USA, Europe, Asia, World}

// AllMetricNames lists the metrics that a model store may hold.
var AllMetricNames = []MetricName{MetricGreenScore, MetricEnergy, MetricCO2}

// ValidLanguages lists all valid languages, including unknown.
var ValidLanguages = map[Language]struct{}{
	Python:     {},
	JavaScript: {},
	TypeScript: {},
	Java:       {},
	Cpp:        {},
	C:          {},
	Unknown:    {},
}

// ValidRegions lists all valid regions.
var ValidRegions = map[Region]struct{}{
	USA:    {},
	Europe: {},
	Asia:   {},
	World:  {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:     {},
	JSONOut:     {},
	CSVOut:      {},
	MarkdownOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidEnergyModels lists all valid energy models.
var ValidEnergyModels = map[EnergyModel]struct{}{
	HeuristicEnergy: {},
	PowerEnergy:     {},
}

// StaticEmissionFactors maps a region to grams of CO2 per kWh.
var StaticEmissionFactors = map[Region]float64{
	USA:    475,
	Europe: 276,
	Asia:   700,
	World:  475,
}
