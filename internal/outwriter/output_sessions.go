package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/debtsession/internal/contract"
	"github.com/huangsam/debtsession/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSessionList outputs the persisted snapshot history, dispatching based
// on the output format configured.
func WriteSessionList(summaries []schema.SessionSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summaries)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{
				"seq", "session_id", "phase", "remaining", "capacity", "forced", "taken_at",
			}, func(csvWriter *csv.Writer) error {
				return writeCSVRowsForSummaries(csvWriter, summaries)
			})
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSessionListTable(summaries, w)
		}, "Wrote table")
	}
	return nil
}

// writeSessionListTable renders the snapshot history as a table.
func writeSessionListTable(summaries []schema.SessionSummary, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Seq", "Session", "Phase", "Budget", "Forced", "When"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, sum := range summaries {
		data = append(data, []string{
			strconv.FormatInt(sum.Seq, 10),
			sum.SessionID,
			string(sum.Phase),
			fmt.Sprintf("%d/%d", sum.Remaining, sum.Capacity),
			strconv.FormatBool(sum.Forced),
			sum.TakenAt.Format(contract.DateTimeFormat),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Showing %d snapshots\n", len(summaries))
	return err
}

// writeCSVRowsForSummaries writes the snapshot history in CSV format.
func writeCSVRowsForSummaries(w *csv.Writer, summaries []schema.SessionSummary) error {
	for _, sum := range summaries {
		rec := []string{
			strconv.FormatInt(sum.Seq, 10),
			sum.SessionID,
			string(sum.Phase),
			strconv.Itoa(sum.Remaining),
			strconv.Itoa(sum.Capacity),
			strconv.FormatBool(sum.Forced),
			sum.TakenAt.Format(contract.DateTimeFormat),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
