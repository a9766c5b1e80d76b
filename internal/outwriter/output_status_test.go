package outwriter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/debtsession/internal/contract"
	"github.com/huangsam/debtsession/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWriteResultHonorsOutputFile verifies every output mode routes through
// the configured output file instead of forcing stdout.
func TestWriteResultHonorsOutputFile(t *testing.T) {
	result := schema.CommandResult{
		Status:    schema.ResultExhausted,
		Phase:     schema.PhaseCheckpoint,
		Remaining: 4,
		Message:   "execute refused",
	}

	tests := []struct {
		name     string
		output   schema.OutputMode
		contains []string
	}{
		{
			name:   "json",
			output: schema.JSONOut,
			contains: []string{
				`"status": "budget-exhausted"`,
				`"remaining_budget": 4`,
			},
		},
		{
			name:   "csv",
			output: schema.CSVOut,
			contains: []string{
				"status,phase,remaining_budget,message",
				"budget-exhausted,checkpoint,4,execute refused",
			},
		},
		{
			name:   "text",
			output: schema.TextOut,
			contains: []string{
				"[budget-exhausted] phase=checkpoint remaining=4 execute refused",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "result.out")
			cfg := &contract.Config{Output: tt.output, OutputFile: path}

			require.NoError(t, WriteResult(result, cfg))

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, string(content), want)
			}
		})
	}
}

// TestWriteResultStdout verifies the default stdout path stays usable when no
// output file is configured.
func TestWriteResultStdout(t *testing.T) {
	result := schema.CommandResult{
		Status:    schema.ResultOK,
		Phase:     schema.PhaseTriage,
		Remaining: 7,
		Message:   "triage complete",
	}
	cfg := &contract.Config{Output: schema.TextOut}

	assert.NoError(t, WriteResult(result, cfg))
}
