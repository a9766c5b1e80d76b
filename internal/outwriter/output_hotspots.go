package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/debtsession/internal/contract"
	"github.com/huangsam/debtsession/internal/parquet"
	"github.com/huangsam/debtsession/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteHotspots outputs the ranked triage results, dispatching based on the
// output format configured.
func WriteHotspots(sessionID string, hotspots []schema.Hotspot, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeHotspotJSONResults(hotspots, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeHotspotCSVResults(hotspots, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeHotspotParquetResults(sessionID, hotspots, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHotspotTable(hotspots, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeHotspotJSONResults handles opening the file and calling the JSON writer.
func writeHotspotJSONResults(hotspots []schema.Hotspot, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForHotspots(w, hotspots)
	}, "Wrote JSON")
}

// writeHotspotCSVResults handles opening the file and calling the CSV writer.
func writeHotspotCSVResults(hotspots []schema.Hotspot, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForHotspots(csvWriter, hotspots, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writeHotspotParquetResults converts the triage results into Parquet rows.
// Parquet is a binary format, so a concrete output file is required.
func writeHotspotParquetResults(sessionID string, hotspots []schema.Hotspot, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}
	rows := parquet.ConvertHotspots(sessionID, hotspots)
	if err := parquet.WriteHotspotRowsParquet(rows, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	return nil
}

// writeHotspotTable generates and writes the human-readable table.
func writeHotspotTable(hotspots []schema.Hotspot, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Unit", "Score", "Label", "Effort", "Lines", "Cx", "In", "Out", "Dup"}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for _, h := range hotspots {
		row := []string{
			strconv.Itoa(h.Rank), // Rank
			contract.TruncatePath(h.ID, getMaxTablePathWidth(cfg)), // Unit
			fmtFloat(h.DebtScore),                                  // Score
			labelForScore(h.DebtScore, cfg),                        // Label
			fmtFloat(h.EffortEstimate),                             // Effort
			fmt.Sprintf(intFmt, h.Unit.Metrics.Lines),              // Lines
			fmt.Sprintf(intFmt, h.Unit.Metrics.Complexity),         // Cx
			fmt.Sprintf(intFmt, h.Unit.Metrics.FanIn),              // In
			fmt.Sprintf(intFmt, h.Unit.Metrics.FanOut),             // Out
			fmtFloat(h.Unit.Metrics.DuplicationRatio),              // Dup
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	// Compute summary stats
	totalLines := 0
	totalComplexity := 0
	for _, h := range hotspots {
		totalLines += h.Unit.Metrics.Lines
		totalComplexity += h.Unit.Metrics.Complexity
	}
	if _, err := fmt.Fprintf(writer, "Showing top %d hotspots (total lines: %d, total complexity: %d)\n", len(hotspots), totalLines, totalComplexity); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Triage completed in %v with %d workers. Store backend: %s\n", duration, cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForHotspots writes the triage results in CSV format.
func writeCSVResultsForHotspots(w *csv.Writer, hotspots []schema.Hotspot, fmtFloat func(float64) string, intFmt string) error {
	// CSV header
	header := []string{
		"rank",
		"unit",
		"score",
		"label",
		"effort",
		"lines",
		"complexity",
		"fan_in",
		"fan_out",
		"duplication_ratio",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, h := range hotspots {
		rec := []string{
			strconv.Itoa(h.Rank),                        // Rank
			h.ID,                                        // Unit ID
			fmtFloat(h.DebtScore),                       // Score
			contract.GetPlainLabel(h.DebtScore),         // Label
			fmtFloat(h.EffortEstimate),                  // Effort
			fmt.Sprintf(intFmt, h.Unit.Metrics.Lines),   // Lines
			fmt.Sprintf(intFmt, h.Unit.Metrics.Complexity), // Complexity
			fmt.Sprintf(intFmt, h.Unit.Metrics.FanIn),      // Fan-in
			fmt.Sprintf(intFmt, h.Unit.Metrics.FanOut),     // Fan-out
			fmtFloat(h.Unit.Metrics.DuplicationRatio),      // Duplication ratio
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForHotspots writes the triage results in JSON format.
func writeJSONResultsForHotspots(w io.Writer, hotspots []schema.Hotspot) error {
	// 1. Prepare the data structure for JSON with label added
	type JSONHotspot struct {
		Label string `json:"label"`
		schema.Hotspot
	}

	output := make([]JSONHotspot, len(hotspots))
	for i, h := range hotspots {
		output[i] = JSONHotspot{
			Label:   contract.GetPlainLabel(h.DebtScore),
			Hotspot: h,
		}
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}
