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

// WritePlan outputs an extraction plan, dispatching based on the output
// format configured. Parquet is not meaningful for a single plan, so it falls
// back to the table rendering.
func WritePlan(plan *schema.ExtractionPlan, cfg *contract.Config) error {
	if plan == nil {
		return fmt.Errorf("no extraction plan to write")
	}

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, plan)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"step", "description", "estimated_cost", "risk", "done"}, func(csvWriter *csv.Writer) error {
				return writeCSVRowsForPlan(csvWriter, plan)
			})
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePlanTable(plan, cfg, w)
		}, "Wrote table")
	}
	return nil
}

// writePlanTable generates and writes the human-readable plan table.
func writePlanTable(plan *schema.ExtractionPlan, cfg *contract.Config, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Step", "Description", "Cost", "Risk", "Done"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for i, step := range plan.Steps {
		done := ""
		if step.Done {
			done = "x"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),                  // Step
			step.Description,                     // Description
			strconv.Itoa(step.EstimatedCost),     // Cost
			labelForRisk(step.Risk, cfg),         // Risk
			done,                                 // Done
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	state := "open"
	if plan.Frozen {
		state = "frozen"
	}
	_, err := fmt.Fprintf(writer, "Plan for %s: %d/%d steps complete (%s)\n",
		plan.HotspotID, plan.DoneSteps(), len(plan.Steps), state)
	return err
}

// writeCSVRowsForPlan writes the plan steps in CSV format.
func writeCSVRowsForPlan(w *csv.Writer, plan *schema.ExtractionPlan) error {
	for i, step := range plan.Steps {
		rec := []string{
			strconv.Itoa(i + 1),              // Step
			step.Description,                 // Description
			strconv.Itoa(step.EstimatedCost), // Estimated cost
			string(step.Risk),                // Risk
			strconv.FormatBool(step.Done),    // Done
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
