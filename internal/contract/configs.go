package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/greenscore/schema"
	"github.com/sirupsen/logrus"
)

// Default values for configuration.
const (
	DefaultMinScore     = 60.0
	DefaultHistoryLimit = 25
	MaxHistoryLimit     = 1000
	DefaultCarbonTTL    = 15 * time.Minute
	DefaultCarbonURL    = "https://api.electricitymap.org"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for greenscore.
// This struct remains the "final, validated" config.
type Config struct {
	Language   schema.Language // empty means detect per input
	Region     schema.Region
	Output     schema.OutputMode
	OutputFile string
	Workers    int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	MinScore   float64
	FailOnHigh bool
	Limit      int

	EnergyModel     schema.EnergyModel
	UseModels       bool
	ModelGreenScore bool
	Record          bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	ModelBackend   schema.DatabaseBackend
	ModelDBConnect string // Please use env var as this is plaintext

	CarbonToken string
	CarbonURL   string
	CarbonTTL   time.Duration

	LogLevel logrus.Level
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Language         string `mapstructure:"language"`
	Region           string `mapstructure:"region"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Workers          int    `mapstructure:"workers"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	LogLevel         string `mapstructure:"log-level"`
	EnergyModel      string `mapstructure:"energy-model"`
	UseModels        bool   `mapstructure:"use-models"`
	ModelGreenScore  bool   `mapstructure:"model-green-score"`
	Record           bool   `mapstructure:"record"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	ModelBackend     string `mapstructure:"model-backend"`
	ModelDBConnect   string `mapstructure:"model-db-connect"`
	CarbonToken      string `mapstructure:"carbon-token"`
	CarbonURL        string `mapstructure:"carbon-url"`
	CarbonTTL        string `mapstructure:"carbon-ttl"`

	// --- Fields from checkCmd.Flags() ---
	MinScore   float64 `mapstructure:"min-score"`
	FailOnHigh bool    `mapstructure:"fail-on-high"`

	// --- Fields from historyCmd.Flags() ---
	Limit int `mapstructure:"limit"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return processCarbonSettings(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-backend fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.UseModels = input.UseModels
	cfg.ModelGreenScore = input.ModelGreenScore
	cfg.Record = input.Record
	cfg.FailOnHigh = input.FailOnHigh

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Language and Region ---
	// Unrecognized names analyze as unknown rather than failing
	if lang := strings.TrimSpace(input.Language); lang != "" {
		cfg.Language = schema.ParseLanguage(lang)
	}
	region, ok := schema.ParseRegion(input.Region)
	if !ok {
		return fmt.Errorf("invalid region '%s'. must be usa, europe, asia, world", input.Region)
	}
	cfg.Region = region

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json, csv, markdown", input.Output)
	}

	// --- 4. Check thresholds ---
	if input.MinScore < 0 || input.MinScore > 100 {
		return fmt.Errorf("min-score must be between 0 and 100 (received %.2f)", input.MinScore)
	}
	cfg.MinScore = input.MinScore

	// --- 5. History limit ---
	if input.Limit <= 0 || input.Limit > MaxHistoryLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxHistoryLimit, input.Limit)
	}
	cfg.Limit = input.Limit

	// --- 6. Energy model and logging ---
	cfg.EnergyModel = schema.EnergyModel(strings.ToLower(input.EnergyModel))
	if _, ok := schema.ValidEnergyModels[cfg.EnergyModel]; !ok {
		return fmt.Errorf("invalid energy model '%s'. must be heuristic, power", input.EnergyModel)
	}

	level, err := logrus.ParseLevel(input.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level value: %w", err)
	}
	cfg.LogLevel = level

	return nil
}

// validateBackendConfigs validates history and model backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// --- Model Backend Validation ---
	cfg.ModelBackend = schema.DatabaseBackend(strings.ToLower(input.ModelBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.ModelBackend]; !ok {
		return fmt.Errorf("invalid model backend '%s'. must be sqlite, mysql, postgresql, none", input.ModelBackend)
	}
	cfg.ModelDBConnect = input.ModelDBConnect
	if err := ValidateDatabaseConnectionString(cfg.ModelBackend, cfg.ModelDBConnect); err != nil {
		return err
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.HistoryBackend == schema.SQLiteBackend && cfg.ModelBackend == schema.SQLiteBackend {
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		modelPath := cfg.ModelDBConnect
		if modelPath == "" {
			modelPath = GetModelDBFilePath()
		}
		if historyPath == modelPath {
			return fmt.Errorf("history and model storage must use different SQLite database files. Both resolve to %q", historyPath)
		}
	}

	if cfg.UseModels && cfg.ModelBackend == schema.NoneBackend {
		return fmt.Errorf("use-models requires a model backend other than none")
	}
	return nil
}

// processCarbonSettings handles the live emission factor lookup settings.
func processCarbonSettings(cfg *Config, input *ConfigRawInput) error {
	cfg.CarbonToken = strings.TrimSpace(input.CarbonToken)
	cfg.CarbonURL = strings.TrimRight(strings.TrimSpace(input.CarbonURL), "/")
	if cfg.CarbonURL == "" {
		cfg.CarbonURL = DefaultCarbonURL
	}

	cfg.CarbonTTL = DefaultCarbonTTL
	if input.CarbonTTL != "" {
		ttl, err := time.ParseDuration(input.CarbonTTL)
		if err != nil {
			return fmt.Errorf("invalid carbon-ttl: %w", err)
		}
		if ttl <= 0 {
			return fmt.Errorf("carbon-ttl must be positive (received %s)", input.CarbonTTL)
		}
		cfg.CarbonTTL = ttl
	}
	return nil
}
