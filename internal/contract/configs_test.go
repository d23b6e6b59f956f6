package contract

import (
	"testing"
	"time"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/core/algo"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation, for tests to tweak.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Target:    DefaultTargetScore,
		Trials:    DefaultTrials,
		Limit:     DefaultResultLimit,
		Precision: DefaultPrecision,
		Output:    "text",
		Color:     "yes",
		Backend:   "sqlite",
		LogLevel:  "warn",
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError string
	}{
		{name: "valid minimal config"},
		{name: "target above 100", mutate: func(in *ConfigRawInput) { in.Target = 101 }, expectError: "target"},
		{name: "negative target", mutate: func(in *ConfigRawInput) { in.Target = -1 }, expectError: "target"},
		{name: "zero trials", mutate: func(in *ConfigRawInput) { in.Trials = 0 }, expectError: "trials"},
		{name: "too many trials", mutate: func(in *ConfigRawInput) { in.Trials = MaxTrials + 1 }, expectError: "trials"},
		{name: "bad seed", mutate: func(in *ConfigRawInput) { in.Seed = "abc" }, expectError: "--seed"},
		{name: "bad deadline", mutate: func(in *ConfigRawInput) { in.Deadline = "someday" }, expectError: "--deadline"},
		{name: "bad as-of", mutate: func(in *ConfigRawInput) { in.AsOf = "31/12/2024" }, expectError: "--as-of"},
		{name: "zero limit", mutate: func(in *ConfigRawInput) { in.Limit = 0 }, expectError: "limit"},
		{name: "bad precision", mutate: func(in *ConfigRawInput) { in.Precision = 3 }, expectError: "precision"},
		{name: "bad output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: "output"},
		{name: "bad color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: "--color"},
		{name: "bad log level", mutate: func(in *ConfigRawInput) { in.LogLevel = "trace" }, expectError: "--log-level"},
		{name: "bad backend", mutate: func(in *ConfigRawInput) { in.Backend = "oracle" }, expectError: "backend"},
		{name: "mysql without dsn", mutate: func(in *ConfigRawInput) { in.Backend = "mysql" }, expectError: "db-connect"},
		{
			name:        "non positive prior variance",
			mutate:      func(in *ConfigRawInput) { in.Mastery.PriorVariance = floatPtr(0) },
			expectError: "prior_variance",
		},
		{
			name:        "negative crunch window",
			mutate:      func(in *ConfigRawInput) { in.Urgency.CrunchWindowDays = floatPtr(-3) },
			expectError: "crunch_window_days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			if tt.mutate != nil {
				tt.mutate(input)
			}
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidateEngineFields(t *testing.T) {
	input := validInput()
	input.Target = 75
	input.Seed = "-42"
	input.AsOf = "2024-06-01"
	input.Deadline = "in 2 weeks"
	input.Subject = "  math "
	input.Backend = ""
	input.Mastery.MinVariance = floatPtr(0.001)
	input.Urgency.RecencyScaleDays = floatPtr(14)

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	asOf := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.InDelta(t, 75.0, cfg.TargetScore, 1e-12)
	assert.True(t, cfg.SeedSet)
	assert.Equal(t, int64(-42), cfg.Seed)
	assert.Equal(t, asOf, cfg.Now)
	assert.Equal(t, asOf.AddDate(0, 0, 14), cfg.Deadline)
	assert.Equal(t, "math", cfg.Subject)
	assert.Equal(t, schema.SQLiteBackend, cfg.Backend)
	assert.InDelta(t, algo.DefaultPriorVariance, cfg.Mastery.PriorVariance, 1e-12)
	assert.InDelta(t, 0.001, cfg.Mastery.MinVariance, 1e-12)
	assert.InDelta(t, algo.DefaultCrunchWindowDays, cfg.Urgency.CrunchWindowDays, 1e-12)
	assert.InDelta(t, 14.0, cfg.Urgency.RecencyScaleDays, 1e-12)
	assert.Equal(t, cfg.EngineConfig, cfg.Engine())
}

func TestProcessAndValidateSeedUnset(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))
	assert.False(t, cfg.SeedSet)
	assert.True(t, cfg.Deadline.IsZero())
	assert.False(t, cfg.Now.IsZero())
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none empty", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/coach", false},
		{"mysql missing tcp", schema.MySQLBackend, "root:pw@localhost/coach", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 user=u password=p dbname=coach", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Subject: "math", EngineConfig: EngineConfig{TargetScore: 80}}
	clone := cfg.Clone()
	clone.Subject = "law"
	clone.TargetScore = 50

	assert.Equal(t, "math", cfg.Subject)
	assert.InDelta(t, 80.0, cfg.TargetScore, 1e-12)
}

func TestRevalidateEngine(t *testing.T) {
	now := time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC)
	base := func() *Config {
		return &Config{EngineConfig: EngineConfig{TargetScore: 70, TrialCount: 5000, Now: now}}
	}

	t.Run("empty overrides keep the config", func(t *testing.T) {
		cfg := base()
		require.NoError(t, RevalidateEngine(cfg, EngineOverrides{}))
		assert.Equal(t, base(), cfg)
	})

	t.Run("all overrides", func(t *testing.T) {
		cfg := base()
		err := RevalidateEngine(cfg, EngineOverrides{Target: floatPtr(0), Trials: 100, Deadline: "in 2 weeks", Seed: "7"})
		require.NoError(t, err)
		assert.Zero(t, cfg.TargetScore, "zero is a valid target")
		assert.Equal(t, 100, cfg.TrialCount)
		assert.Equal(t, now.AddDate(0, 0, 14), cfg.Deadline)
		assert.Equal(t, int64(7), cfg.Seed)
		assert.True(t, cfg.SeedSet)
	})

	t.Run("invalid values", func(t *testing.T) {
		assert.ErrorContains(t, RevalidateEngine(base(), EngineOverrides{Target: floatPtr(120)}), "target")
		assert.ErrorContains(t, RevalidateEngine(base(), EngineOverrides{Trials: -3}), "trials")
		assert.ErrorContains(t, RevalidateEngine(base(), EngineOverrides{Seed: "x"}), "seed")
		assert.ErrorContains(t, RevalidateEngine(base(), EngineOverrides{Deadline: "soon"}), "deadline")
	})
}
