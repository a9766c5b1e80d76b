// Package cmd defines the command-line interface for debtsession.
package cmd

import (
	"github.com/huangsam/debtsession/internal/contract"
	"github.com/huangsam/debtsession/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(triageCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(executeCmd)
	rootCmd.AddCommand(checkpointCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(sessionCmd)

	// Add the session subcommands to the parent session command
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionStatusCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	sessionCmd.AddCommand(sessionExportCmd)
	sessionCmd.AddCommand(sessionMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().String("units-file", "", "Path to a JSON file of pre-measured code units (bypasses filesystem measurement)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("unit-timeout", contract.DefaultUnitTimeout.String(), "Per-unit measurement timeout (e.g. 5s, 500ms)")
	rootCmd.PersistentFlags().IntP("top-n", "n", contract.DefaultTopN, "Number of hotspots to keep after ranking (0 = unbounded)")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Int("capacity", contract.DefaultCapacity, "Budget capacity for brand-new sessions")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Session store backend: sqlite or mysql or postgresql or memory")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of executeCmd to Viper
	executeCmd.Flags().Int("steps", 1, "Number of plan steps completed in this execute pass")
	if err := viper.BindPFlags(executeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding execute flags", err)
	}

	// Bind all flags of checkpointCmd to Viper
	checkpointCmd.Flags().Bool("finish", false, "Close the session into done instead of pausing (requires a fully complete plan)")
	if err := viper.BindPFlags(checkpointCmd.Flags()); err != nil {
		contract.LogFatal("Error binding checkpoint flags", err)
	}

	// Bind all flags of sessionMigrateCmd to Viper
	sessionMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(sessionMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding session migrate flags", err)
	}
}
