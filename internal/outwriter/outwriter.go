// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/huangsam/debtsession/internal/contract"
	"github.com/huangsam/debtsession/schema"
	"golang.org/x/term"
)

// getMaxTablePathWidth calculates the maximum width for unit IDs in table
// output based on terminal width and table configuration.
func getMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns with borders and padding:
	// Rank + Score + Effort + Label + Lines + Cx + Fan-In + Fan-Out + Dup
	baseWidth := 75

	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable unit ID width
		return 15
	}
	if available > 70 {
		// Maximum width to prevent overly long unit IDs
		return 70
	}
	return available
}

// labelForScore picks the colored or plain severity label based on config.
func labelForScore(score float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(score)
	}
	return contract.GetPlainLabel(score)
}

// labelForRisk renders a plan step risk tag, colored when enabled.
func labelForRisk(risk schema.RiskTag, cfg *contract.Config) string {
	if !cfg.UseColors {
		return string(risk)
	}
	switch risk {
	case schema.RiskHigh:
		return contract.HighColor.Sprint(risk)
	case schema.RiskMedium:
		return contract.ModerateColor.Sprint(risk)
	default:
		return contract.LowColor.Sprint(risk)
	}
}
