package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/debtsession/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSnapshotStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	pqSchema := parquet.SchemaOf(new(SessionSnapshot))
	require.NotNil(t, pqSchema)

	expectedColumns := []string{
		"seq",
		"session_id",
		"phase",
		"remaining",
		"capacity",
		"forced",
		"taken_at",
	}

	for _, colName := range expectedColumns {
		col, ok := pqSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestHotspotRowStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	pqSchema := parquet.SchemaOf(new(HotspotRow))
	require.NotNil(t, pqSchema)

	expectedColumns := []string{
		"session_id",
		"rank",
		"unit_id",
		"debt_score",
		"effort_estimate",
		"lines",
		"complexity",
		"fan_in",
		"fan_out",
		"duplication_ratio",
	}

	for _, colName := range expectedColumns {
		col, ok := pqSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWriteSessionSnapshotsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "snapshots.parquet")

	data := []SessionSnapshot{
		{Seq: 1, SessionID: "s1", Phase: "new", Remaining: 10, Capacity: 10, TakenAt: time.Now()},
		{Seq: 2, SessionID: "s1", Phase: "triage", Remaining: 7, Capacity: 10, TakenAt: time.Now()},
		{Seq: 3, SessionID: "s1", Phase: "checkpoint", Remaining: 7, Capacity: 10, Forced: true, TakenAt: time.Now()},
	}

	err := WriteSessionSnapshotsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[SessionSnapshot](file)
	defer reader.Close()

	readData := make([]SessionSnapshot, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	for i := range data {
		assert.Equal(t, data[i].Seq, readData[i].Seq)
		assert.Equal(t, data[i].SessionID, readData[i].SessionID)
		assert.Equal(t, data[i].Phase, readData[i].Phase)
		assert.Equal(t, data[i].Remaining, readData[i].Remaining)
		assert.Equal(t, data[i].Forced, readData[i].Forced)
		assert.WithinDuration(t, data[i].TakenAt, readData[i].TakenAt, time.Nanosecond)
	}
}

func TestWriteHotspotRowsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "hotspots.parquet")

	data := []HotspotRow{
		{SessionID: "s1", Rank: 1, UnitID: "sim/engine.py", DebtScore: 91.2, EffortEstimate: 25.0, Lines: 500, Complexity: 30, FanOut: 6, DuplicationRatio: 0.22},
		{SessionID: "s1", Rank: 2, UnitID: "sim/cli.py", DebtScore: 40.1, EffortEstimate: 3.6, Lines: 80, Complexity: 4},
	}

	err := WriteHotspotRowsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[HotspotRow](file)
	defer reader.Close()

	readData := make([]HotspotRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	for i := range data {
		assert.Equal(t, data[i].UnitID, readData[i].UnitID)
		assert.Equal(t, data[i].Rank, readData[i].Rank)
		assert.InDelta(t, data[i].DebtScore, readData[i].DebtScore, 0.001)
		assert.InDelta(t, data[i].DuplicationRatio, readData[i].DuplicationRatio, 0.001)
		assert.Equal(t, data[i].Lines, readData[i].Lines)
	}
}

func TestWriteLedgerRowsParquet_EmptyData(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty_ledger.parquet")

	err := WriteLedgerRowsParquet([]LedgerRow{}, outputPath)
	require.NoError(t, err, "Writing empty data should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteSessionSnapshotsParquet_InvalidPath(t *testing.T) {
	err := WriteSessionSnapshotsParquet([]SessionSnapshot{}, "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")
}

func TestConvertSessionSummaries(t *testing.T) {
	now := time.Now()
	summaries := []schema.SessionSummary{
		{SessionID: "s1", Seq: 1, Phase: schema.PhaseTriage, Remaining: 7, Capacity: 10, TakenAt: now},
		{SessionID: "s1", Seq: 2, Phase: schema.PhaseCheckpoint, Remaining: 7, Capacity: 10, Forced: true, TakenAt: now},
	}

	rows := ConvertSessionSummaries(summaries)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].Seq)
	assert.Equal(t, "triage", rows[0].Phase)
	assert.Equal(t, int32(7), rows[0].Remaining)
	assert.True(t, rows[1].Forced)
}

func TestConvertHotspots(t *testing.T) {
	hotspots := []schema.Hotspot{{
		ID:             "sim/engine.py",
		Rank:           1,
		DebtScore:      91.2,
		EffortEstimate: 25.0,
		Unit: schema.CodeUnit{
			ID:      "sim/engine.py",
			Metrics: schema.UnitMetrics{Lines: 500, Complexity: 30, FanIn: 2, FanOut: 6, DuplicationRatio: 0.22},
		},
	}}

	rows := ConvertHotspots("s1", hotspots)
	require.Len(t, rows, 1)
	assert.Equal(t, "s1", rows[0].SessionID)
	assert.Equal(t, "sim/engine.py", rows[0].UnitID)
	assert.Equal(t, int32(500), rows[0].Lines)
	assert.Equal(t, int32(6), rows[0].FanOut)
	assert.InDelta(t, 0.22, rows[0].DuplicationRatio, 0.001)
}

func TestConvertLedger(t *testing.T) {
	now := time.Now()
	entries := []schema.LedgerEntry{
		{Phase: schema.PhaseTriage, Cost: 3, Timestamp: now},
		{Phase: schema.PhasePlan, Cost: 3, Timestamp: now},
	}

	rows := ConvertLedger("s1", entries)
	require.Len(t, rows, 2)
	assert.Equal(t, "s1", rows[0].SessionID)
	assert.Equal(t, "triage", rows[0].Phase)
	assert.Equal(t, int32(3), rows[1].Cost)
}
