package cmd

import (
	"fmt"

	"github.com/huangsam/debtsession/internal/contract"
	"github.com/huangsam/debtsession/internal/outwriter"
	"github.com/huangsam/debtsession/internal/sessionstore"
	"github.com/huangsam/debtsession/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.StoreBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	if _, ok := schema.ValidStoreBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend: %s (expected sqlite, mysql, postgresql or memory)", backend)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	// Output settings for the listing and status subcommands
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Precision = viper.GetInt("precision")
	cfg.Width = viper.GetInt("width")
	if useColors, err := contract.ParseBoolString(viper.GetString("color")); err == nil {
		cfg.UseColors = useColors
	}

	return initStore()
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for session commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// sessionCmd focused on session store management.
//
// Note: Session subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by workflow commands. This avoids scoring config
// processing for simple store operations.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the persisted session store",
	Long: `Manage the store that persists session snapshots across resets.

Every workflow transition appends one immutable snapshot, so the store doubles
as a full audit trail: which phases ran, what each one charged, and where the
budget went.

Supported backends: SQLite (default), MySQL, PostgreSQL, or memory (volatile)

Subcommands:
  list    - Show the persisted snapshot history
  status  - Show store statistics and connection info
  clear   - Remove all persisted snapshots
  export  - Export snapshots, ledger and hotspots to Parquet
  migrate - Run store schema migrations

Examples:
  # Inspect the snapshot history
  debtsession session list

  # Check store health
  debtsession session status`,
}

// sessionListCmd lists the persisted snapshot history.
var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the persisted snapshot history",
	Long: `List every persisted session snapshot in append order.

Each row shows the phase, budget position and timestamp of one snapshot,
including emergency checkpoints taken on budget exhaustion.

Examples:
  # Show the history as a table
  debtsession session list

  # Export the history as CSV
  debtsession session list --output csv --output-file history.csv`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		summaries, err := sessionStore.List()
		if err != nil {
			contract.LogFatal("Failed to list snapshots", err)
		}
		if err := outwriter.WriteSessionList(summaries, cfg); err != nil {
			contract.LogFatal("Failed to write snapshot list", err)
		}
	},
}

// sessionStatusCmd shows store status.
var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the session store.

Displays:
- Backend type and connection status
- Total snapshots and distinct sessions
- Last snapshot timestamp
- Store size on disk (SQLite)

Examples:
  # Check store status
  debtsession session status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := sessionStore.Status()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		if err := outwriter.WriteStoreStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to write store status", err)
		}
	},
}

// sessionClearCmd clears the store.
var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all persisted session snapshots",
	Long: `Delete every persisted snapshot from the configured backend.

This discards the entire audit trail, including the live session. Use it when
starting over on a different codebase or cleaning up a test store.

Examples:
  # Clear the SQLite store (default)
  debtsession session clear

  # Clear a MySQL store (set connection string via env variable)
  DEBTSESSION_STORE_BACKEND=mysql DEBTSESSION_STORE_DB_CONNECT="..." debtsession session clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := sessionStore.Clear(); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Session store cleared successfully.")
	},
}

// sessionExportCmd exports store contents to Parquet files.
var sessionExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export snapshots, ledger and hotspots to Parquet files",
	Long: `Export the persisted session data to Parquet files for analytics.

Writes three files next to the given output prefix: the snapshot history, the
budget ledger of the latest session, and its most recent triage results.

Examples:
  # Export everything under the 'debt' prefix
  debtsession session export --output-file debt`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := sessionstore.ExecuteSessionExport(sessionStore, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export session data", err)
		}
	},
}

// sessionMigrateCmd runs store schema migrations.
var sessionMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run session store schema migrations",
	Long: `Apply or roll back schema migrations for the session store.

The target version controls the direction:
- -1 migrates to the latest version (default)
-  0 rolls back all migrations
-  N migrates to the specific version N

Examples:
  # Migrate to the latest schema
  debtsession session migrate

  # Roll everything back
  debtsession session migrate --target-version 0`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := sessionstore.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
