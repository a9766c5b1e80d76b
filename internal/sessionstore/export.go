package sessionstore

import (
	"errors"
	"fmt"

	"github.com/huangsam/debtsession/internal/contract"
	"github.com/huangsam/debtsession/internal/parquet"
)

// ExecuteSessionExport performs the actual export of session data to Parquet files.
func ExecuteSessionExport(store contract.SessionStore, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Check if there's any data to export
	status, err := store.Status()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalSnapshots == 0 {
		return errors.New("no session data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total snapshots: %d across %d sessions\n", status.TotalSnapshots, status.Sessions)

	// Retrieve the snapshot history
	summaries, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to retrieve snapshot history: %w", err)
	}

	// Write snapshots to Parquet
	snapshotsFile := outputFile + ".snapshots.parquet"
	snapshots := parquet.ConvertSessionSummaries(summaries)
	if err := parquet.WriteSessionSnapshotsParquet(snapshots, snapshotsFile); err != nil {
		return fmt.Errorf("failed to write snapshots: %w", err)
	}
	fmt.Printf("Exported %d snapshots to: %s\n", len(snapshots), snapshotsFile)

	// The latest record carries the authoritative ledger and triage results
	record, err := store.Latest()
	if err != nil {
		return fmt.Errorf("failed to retrieve latest record: %w", err)
	}

	// Write the budget ledger to Parquet
	ledgerFile := outputFile + ".ledger.parquet"
	ledger := parquet.ConvertLedger(record.SessionID, record.Budget.Ledger)
	if err := parquet.WriteLedgerRowsParquet(ledger, ledgerFile); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	fmt.Printf("Exported %d ledger entries to: %s\n", len(ledger), ledgerFile)

	// Write the most recent triage results to Parquet
	hotspotsFile := outputFile + ".hotspots.parquet"
	hotspots := parquet.ConvertHotspots(record.SessionID, record.Hotspots)
	if err := parquet.WriteHotspotRowsParquet(hotspots, hotspotsFile); err != nil {
		return fmt.Errorf("failed to write hotspots: %w", err)
	}
	fmt.Printf("Exported %d hotspot rows to: %s\n", len(hotspots), hotspotsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
