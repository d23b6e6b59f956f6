package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/core"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/datastore"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/outwriter"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// storeManager is the global persistence manager instance.
var storeManager contract.StoreManager = datastore.Manager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "coach",
	Short:              "Project exam scores and recommend what to study next.",
	Long:               `Coach turns your practice results into score projections, study recommendations and daily goals.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig sets the config file search paths, ENV variables and defaults.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".coach") // Name of config file (without extension)
		viper.SetConfigType("yaml")   // We'll use YAML format
		viper.AddConfigPath(".")      // Look in the current directory
		viper.AddConfigPath("$HOME")  // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("COACH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("target", contract.DefaultTargetScore)
	viper.SetDefault("trials", contract.DefaultTrials)
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("backend", schema.SQLiteBackend)
	viper.SetDefault("db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", contract.DefaultLogLevel)
}

// loadConfigFile reads the config file if present. A missing file is fine.
func loadConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// sharedSetup unmarshals config, runs validation and opens the store.
func sharedSetup(ctx context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	if err := contract.InitLogger(cfg.LogLevel, false); err != nil {
		return err
	}
	color.NoColor = !cfg.UseColors

	contract.Logger().Debugw("configuration loaded",
		"config_file", viper.ConfigFileUsed(),
		"backend", cfg.Backend,
		"db_connect", contract.RedactDSN(cfg.DBConnect),
		"target", cfg.TargetScore,
		"trials", cfg.TrialCount,
	)

	// 4. Initialize persistence layer with validated config
	if err := datastore.InitStores(ctx, cfg.Backend, cfg.DBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// backendSetup loads the minimal configuration needed for database maintenance.
// It skips engine validation and does not open the store, so migrations and clears
// work on a fresh or broken database.
func backendSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("backend")))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}
	if err := contract.InitLogger(viper.GetString("log-level"), false); err != nil {
		return err
	}

	cfg.Backend = backend
	cfg.DBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// backendSetupWrapper wraps backendSetup to provide PreRunE for db commands.
func backendSetupWrapper(_ *cobra.Command, _ []string) error {
	return backendSetup()
}

// storeSetupWrapper opens the store after the minimal backend setup.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	if err := backendSetup(); err != nil {
		return err
	}
	if err := datastore.InitStores(rootCtx, cfg.Backend, cfg.DBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// runExecutor adapts a core executor to a cobra Run function.
func runExecutor(fn core.ExecutorFunc, failure string) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		if err := fn(rootCtx, cfg, storeManager, outwriter.NewOutWriter()); err != nil {
			contract.LogFatal(failure, err)
		}
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetStoreManager sets the global store manager.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}
