package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/core/algo"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
	"github.com/spf13/cast"
)

// Default values for configuration.
const (
	DefaultTargetScore = 70.0
	DefaultTrials      = algo.DefaultTrials
	MaxTrials          = 1_000_000
	DefaultResultLimit = 10
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	DefaultLogLevel    = "warn"

	// DefaultSeedBase is offset by the days elapsed since a subject's first record
	// so runs are reproducible within a day but vary as history grows.
	DefaultSeedBase int64 = 20240101
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ValidLogLevels lists the accepted --log-level values.
var ValidLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// EngineConfig is the full set of options consumed by the projection and
// recommendation engine.
type EngineConfig struct {
	TargetScore float64
	Deadline    time.Time // Zero means no deadline
	TrialCount  int
	Seed        int64
	SeedSet     bool      // When false the seed is derived per subject from DefaultSeedBase
	Now         time.Time // Reference time for horizons and recency
	Mastery     algo.MasteryPolicy
	Urgency     algo.UrgencyPolicy
}

// Config holds the runtime configuration for the coach commands.
// This struct remains the "final, validated" config.
type Config struct {
	EngineConfig

	Subject     string
	ResultLimit int
	Detail      bool
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool
	LogLevel    string

	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext
}

// MasteryRawInput holds Bayesian updater overrides from the YAML config file.
type MasteryRawInput struct {
	PriorVariance *float64 `mapstructure:"prior_variance"`
	MinVariance   *float64 `mapstructure:"min_variance"`
}

// UrgencyRawInput holds urgency scorer overrides from the YAML config file.
type UrgencyRawInput struct {
	CrunchWindowDays *float64 `mapstructure:"crunch_window_days"`
	RecencyScaleDays *float64 `mapstructure:"recency_scale_days"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct; unknown keys are ignored.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Target     float64 `mapstructure:"target"`
	Deadline   string  `mapstructure:"deadline"`
	Trials     int     `mapstructure:"trials"`
	Seed       string  `mapstructure:"seed"`
	AsOf       string  `mapstructure:"as-of"`
	Subject    string  `mapstructure:"subject"`
	Limit      int     `mapstructure:"limit"`
	Precision  int     `mapstructure:"precision"`
	Output     string  `mapstructure:"output"`
	OutputFile string  `mapstructure:"output-file"`
	Detail     bool    `mapstructure:"detail"`
	Width      int     `mapstructure:"width"`
	Color      string  `mapstructure:"color"`
	Backend    string  `mapstructure:"backend"`
	DBConnect  string  `mapstructure:"db-connect"`
	LogLevel   string  `mapstructure:"log-level"`

	// --- Policy overrides from config file ---
	Mastery MasteryRawInput `mapstructure:"mastery"`
	Urgency UrgencyRawInput `mapstructure:"urgency"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Engine returns the engine options of the config.
func (c *Config) Engine() EngineConfig {
	return c.EngineConfig
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processEngineInputs(cfg, input); err != nil {
		return err
	}
	if err := processPolicies(cfg, input); err != nil {
		return err
	}
	return validateBackendConfig(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
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

// validateBackendConfig validates the storage backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend := strings.ToLower(strings.TrimSpace(input.Backend))
	if backend == "" {
		backend = string(schema.SQLiteBackend)
	}
	cfg.Backend = schema.DatabaseBackend(backend)
	if _, ok := schema.ValidDatabaseBackends[cfg.Backend]; !ok {
		return fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", input.Backend)
	}
	cfg.DBConnect = input.DBConnect
	return ValidateDatabaseConnectionString(cfg.Backend, cfg.DBConnect)
}

// validateSimpleInputs processes and validates all presentation fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Subject = strings.TrimSpace(input.Subject)
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	// --- 3. Log level Validation ---
	level := strings.ToLower(strings.TrimSpace(input.LogLevel))
	if level == "" {
		level = DefaultLogLevel
	}
	if _, ok := ValidLogLevels[level]; !ok {
		return fmt.Errorf("invalid --log-level '%s'. must be debug, info, warn, error", input.LogLevel)
	}
	cfg.LogLevel = level

	if cfg.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", cfg.Width)
	}
	return nil
}

// processEngineInputs handles target, trials, seed and the date inputs.
func processEngineInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Target < 0 || input.Target > 100 {
		return fmt.Errorf("target must be between 0 and 100 (received %.2f)", input.Target)
	}
	cfg.TargetScore = input.Target

	if input.Trials < 1 || input.Trials > MaxTrials {
		return fmt.Errorf("trials must be between 1 and %d (received %d)", MaxTrials, input.Trials)
	}
	cfg.TrialCount = input.Trials

	cfg.SeedSet = false
	if s := strings.TrimSpace(input.Seed); s != "" {
		seed, err := cast.ToInt64E(s)
		if err != nil {
			return fmt.Errorf("invalid --seed value '%s': %w", input.Seed, err)
		}
		cfg.Seed = seed
		cfg.SeedSet = true
	}

	now := time.Now()
	cfg.Now = now
	if input.AsOf != "" {
		t, err := ParseDate(input.AsOf, now)
		if err != nil {
			return fmt.Errorf("invalid --as-of value: %w", err)
		}
		cfg.Now = t
	}

	cfg.Deadline = time.Time{}
	if input.Deadline != "" {
		t, err := ParseDate(input.Deadline, cfg.Now)
		if err != nil {
			return fmt.Errorf("invalid --deadline value: %w", err)
		}
		cfg.Deadline = t
	}
	return nil
}

// processPolicies applies config file overrides on top of the default policies.
func processPolicies(cfg *Config, input *ConfigRawInput) error {
	cfg.Mastery = algo.DefaultMasteryPolicy()
	if v := input.Mastery.PriorVariance; v != nil {
		if *v <= 0 {
			return fmt.Errorf("mastery.prior_variance must be greater than 0 (received %v)", *v)
		}
		cfg.Mastery.PriorVariance = *v
	}
	if v := input.Mastery.MinVariance; v != nil {
		if *v < 0 {
			return fmt.Errorf("mastery.min_variance cannot be negative (received %v)", *v)
		}
		cfg.Mastery.MinVariance = *v
	}

	cfg.Urgency = algo.DefaultUrgencyPolicy()
	if v := input.Urgency.CrunchWindowDays; v != nil {
		if *v <= 0 {
			return fmt.Errorf("urgency.crunch_window_days must be greater than 0 (received %v)", *v)
		}
		cfg.Urgency.CrunchWindowDays = *v
	}
	if v := input.Urgency.RecencyScaleDays; v != nil {
		if *v <= 0 {
			return fmt.Errorf("urgency.recency_scale_days must be greater than 0 (received %v)", *v)
		}
		cfg.Urgency.RecencyScaleDays = *v
	}
	return nil
}

// EngineOverrides holds per-request engine settings. Nil or empty fields keep the
// value already in the config.
type EngineOverrides struct {
	Target   *float64
	Trials   int
	Deadline string
	Seed     string
}

// RevalidateEngine applies overrides on top of an already validated config, with the
// same bounds as the command-line flags.
func RevalidateEngine(cfg *Config, o EngineOverrides) error {
	if o.Target != nil {
		if *o.Target < 0 || *o.Target > 100 {
			return fmt.Errorf("target must be between 0 and 100 (received %.2f)", *o.Target)
		}
		cfg.TargetScore = *o.Target
	}
	if o.Trials != 0 {
		if o.Trials < 1 || o.Trials > MaxTrials {
			return fmt.Errorf("trials must be between 1 and %d (received %d)", MaxTrials, o.Trials)
		}
		cfg.TrialCount = o.Trials
	}
	if s := strings.TrimSpace(o.Seed); s != "" {
		seed, err := cast.ToInt64E(s)
		if err != nil {
			return fmt.Errorf("invalid seed value '%s': %w", o.Seed, err)
		}
		cfg.Seed = seed
		cfg.SeedSet = true
	}
	if o.Deadline != "" {
		t, err := ParseDate(o.Deadline, cfg.Now)
		if err != nil {
			return fmt.Errorf("invalid deadline value: %w", err)
		}
		cfg.Deadline = t
	}
	return nil
}
