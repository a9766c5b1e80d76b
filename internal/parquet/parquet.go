// Package parquet provides data structures and functions for exporting session
// snapshots and triage results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/debtsession/schema"
	"github.com/parquet-go/parquet-go"
)

// SessionSnapshot represents one persisted session snapshot.
// This struct maps to the debtsession_snapshots database table.
type SessionSnapshot struct {
	// Seq is the append-order sequence number of the snapshot
	Seq int64 `parquet:"seq,snappy"`

	// SessionID identifies the session the snapshot belongs to
	SessionID string `parquet:"session_id,snappy"`

	// Phase is the workflow phase recorded by the snapshot
	Phase string `parquet:"phase,snappy"`

	// Remaining is the budget remaining at snapshot time
	Remaining int32 `parquet:"remaining,snappy"`

	// Capacity is the total budget capacity of the session
	Capacity int32 `parquet:"capacity,snappy"`

	// Forced marks an emergency checkpoint taken on budget exhaustion
	Forced bool `parquet:"forced,snappy"`

	// TakenAt is when the snapshot was persisted (nanosecond precision)
	TakenAt time.Time `parquet:"taken_at,snappy"`
}

// HotspotRow represents one ranked hotspot from a triage run.
type HotspotRow struct {
	// SessionID identifies the session whose triage produced the row
	SessionID string `parquet:"session_id,snappy"`

	// Rank is the 1-based position within the run
	Rank int32 `parquet:"rank,snappy"`

	// UnitID is the code unit identifier, path plus optional symbol
	UnitID string `parquet:"unit_id,snappy"`

	// DebtScore is the composite debt score on the 0-100 scale
	DebtScore float64 `parquet:"debt_score,snappy"`

	// EffortEstimate is the abstract effort estimate for the unit
	EffortEstimate float64 `parquet:"effort_estimate,snappy"`

	// Lines is the number of source lines in the unit
	Lines int32 `parquet:"lines,snappy"`

	// Complexity is the decision-point count of the unit
	Complexity int32 `parquet:"complexity,snappy"`

	// FanIn is the number of units referencing this unit
	FanIn int32 `parquet:"fan_in,snappy"`

	// FanOut is the number of units this unit references
	FanOut int32 `parquet:"fan_out,snappy"`

	// DuplicationRatio is the share of repeated lines within the unit (0-1)
	DuplicationRatio float64 `parquet:"duplication_ratio,snappy"`
}

// LedgerRow represents one budget charge from a session ledger.
type LedgerRow struct {
	// SessionID identifies the session whose budget was charged
	SessionID string `parquet:"session_id,snappy"`

	// Phase is the phase whose entry incurred the charge
	Phase string `parquet:"phase,snappy"`

	// Cost is the number of budget units charged
	Cost int32 `parquet:"cost,snappy"`

	// Timestamp is when the charge was recorded (nanosecond precision)
	Timestamp time.Time `parquet:"timestamp,snappy"`
}

// WriteSessionSnapshotsParquet writes a slice of SessionSnapshot structs to a Parquet file.
func WriteSessionSnapshotsParquet(data []SessionSnapshot, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the SessionSnapshot struct tags
	writer := parquet.NewGenericWriter[SessionSnapshot](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteHotspotRowsParquet writes a slice of HotspotRow structs to a Parquet file.
func WriteHotspotRowsParquet(data []HotspotRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the HotspotRow struct tags
	writer := parquet.NewGenericWriter[HotspotRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteLedgerRowsParquet writes a slice of LedgerRow structs to a Parquet file.
func WriteLedgerRowsParquet(data []LedgerRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the LedgerRow struct tags
	writer := parquet.NewGenericWriter[LedgerRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertSessionSummaries converts schema.SessionSummary to SessionSnapshot for Parquet export.
func ConvertSessionSummaries(summaries []schema.SessionSummary) []SessionSnapshot {
	result := make([]SessionSnapshot, len(summaries))
	for i, sum := range summaries {
		result[i] = SessionSnapshot{
			Seq:       sum.Seq,
			SessionID: sum.SessionID,
			Phase:     string(sum.Phase),
			Remaining: int32(sum.Remaining),
			Capacity:  int32(sum.Capacity),
			Forced:    sum.Forced,
			TakenAt:   sum.TakenAt,
		}
	}
	return result
}

// ConvertHotspots converts schema.Hotspot to HotspotRow for Parquet export.
func ConvertHotspots(sessionID string, hotspots []schema.Hotspot) []HotspotRow {
	result := make([]HotspotRow, len(hotspots))
	for i, h := range hotspots {
		result[i] = HotspotRow{
			SessionID:        sessionID,
			Rank:             int32(h.Rank),
			UnitID:           h.ID,
			DebtScore:        h.DebtScore,
			EffortEstimate:   h.EffortEstimate,
			Lines:            int32(h.Unit.Metrics.Lines),
			Complexity:       int32(h.Unit.Metrics.Complexity),
			FanIn:            int32(h.Unit.Metrics.FanIn),
			FanOut:           int32(h.Unit.Metrics.FanOut),
			DuplicationRatio: h.Unit.Metrics.DuplicationRatio,
		}
	}
	return result
}

// ConvertLedger converts schema.LedgerEntry to LedgerRow for Parquet export.
func ConvertLedger(sessionID string, entries []schema.LedgerEntry) []LedgerRow {
	result := make([]LedgerRow, len(entries))
	for i, e := range entries {
		result[i] = LedgerRow{
			SessionID: sessionID,
			Phase:     string(e.Phase),
			Cost:      int32(e.Cost),
			Timestamp: e.Timestamp,
		}
	}
	return result
}
