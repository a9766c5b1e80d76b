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

// WriteResult outputs the structured outcome of a command, dispatching based
// on the output format configured. Text mode prints a single status line so
// budget exhaustion stays visible in scripted use.
func WriteResult(result schema.CommandResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{
				"status", "phase", "remaining_budget", "message",
			}, func(csvWriter *csv.Writer) error {
				return csvWriter.Write([]string{
					string(result.Status),
					string(result.Phase),
					strconv.Itoa(result.Remaining),
					result.Message,
				})
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			status := string(result.Status)
			if cfg.UseColors && result.Status == schema.ResultExhausted {
				status = contract.HighColor.Sprint(status)
			}
			_, err := fmt.Fprintf(w, "[%s] phase=%s remaining=%d %s\n", status, result.Phase, result.Remaining, result.Message)
			return err
		}, "Wrote result")
	}
}

// WriteStatus outputs the session record overview, dispatching based on the
// output format configured.
func WriteStatus(record schema.SessionRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, record)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{
				"session_id", "phase", "remaining", "capacity", "spent",
				"forced", "active_hotspot", "plan_steps_done", "plan_steps",
				"created_at", "updated_at",
			}, func(csvWriter *csv.Writer) error {
				return writeCSVRowForStatus(csvWriter, record)
			})
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatusTable(record, cfg, w)
		}, "Wrote table")
	}
	return nil
}

// writeStatusTable renders the session overview followed by the budget ledger.
func writeStatusTable(record schema.SessionRecord, cfg *contract.Config, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Field", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	data := [][]string{
		{"Session", record.SessionID},
		{"Phase", string(record.CurrentPhase)},
		{"Budget", fmt.Sprintf("%d/%d remaining", record.Budget.Remaining, record.Budget.TotalCapacity)},
		{"Spent", strconv.Itoa(record.Budget.Spent())},
		{"Forced checkpoint", strconv.FormatBool(record.Forced)},
		{"Hotspots", strconv.Itoa(len(record.Hotspots))},
	}
	if record.ActiveHotspotID != "" {
		data = append(data, []string{"Active hotspot", record.ActiveHotspotID})
	}
	if record.Plan != nil {
		data = append(data, []string{"Plan", fmt.Sprintf("%d/%d steps complete", record.Plan.DoneSteps(), len(record.Plan.Steps))})
	}
	data = append(data,
		[]string{"Created", record.CreatedAt.Format(contract.DateTimeFormat)},
		[]string{"Updated", record.UpdatedAt.Format(contract.DateTimeFormat)},
	)
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(record.Budget.Ledger) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(writer, "Ledger:"); err != nil {
		return err
	}
	ledger := tablewriter.NewWriter(writer)
	ledger.Header([]string{"Phase", "Cost", "When"})
	var rows [][]string
	for _, e := range record.Budget.Ledger {
		rows = append(rows, []string{
			string(e.Phase),
			strconv.Itoa(e.Cost),
			e.Timestamp.Format(contract.DateTimeFormat),
		})
	}
	if err := ledger.Bulk(rows); err != nil {
		return err
	}
	return ledger.Render()
}

// writeCSVRowForStatus writes the session overview as a single CSV row.
func writeCSVRowForStatus(w *csv.Writer, record schema.SessionRecord) error {
	planDone, planTotal := 0, 0
	if record.Plan != nil {
		planDone = record.Plan.DoneSteps()
		planTotal = len(record.Plan.Steps)
	}
	rec := []string{
		record.SessionID,
		string(record.CurrentPhase),
		strconv.Itoa(record.Budget.Remaining),
		strconv.Itoa(record.Budget.TotalCapacity),
		strconv.Itoa(record.Budget.Spent()),
		strconv.FormatBool(record.Forced),
		record.ActiveHotspotID,
		strconv.Itoa(planDone),
		strconv.Itoa(planTotal),
		record.CreatedAt.Format(contract.DateTimeFormat),
		record.UpdatedAt.Format(contract.DateTimeFormat),
	}
	return w.Write(rec)
}

// WriteStoreStatus outputs status information about the session store backend.
func WriteStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	}

	fmt.Printf("Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %v\n", status.Connected)
	fmt.Printf("Snapshots: %d across %d sessions\n", status.TotalSnapshots, status.Sessions)
	if status.TotalSnapshots > 0 {
		fmt.Printf("Last snapshot: %s\n", status.LastSnapshot.Format(contract.DateTimeFormat))
	}
	if status.TableSizeBytes > 0 {
		fmt.Printf("Table size: %.1f KB\n", float64(status.TableSizeBytes)/1024.0)
	}
	return nil
}
