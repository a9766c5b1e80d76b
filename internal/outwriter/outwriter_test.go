package outwriter

import (
	"testing"

	"github.com/huangsam/debtsession/internal/contract"
	"github.com/huangsam/debtsession/schema"
	"github.com/stretchr/testify/assert"
)

func TestGetMaxTablePathWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		expected int
	}{
		{name: "narrow override clamps to minimum", width: 60, expected: 15},
		{name: "wide override clamps to maximum", width: 200, expected: 70},
		{name: "mid-range override", width: 120, expected: 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width}
			assert.Equal(t, tt.expected, getMaxTablePathWidth(cfg))
		})
	}
}

func TestLabelForScore(t *testing.T) {
	plain := &contract.Config{UseColors: false}
	assert.Equal(t, contract.CriticalValue, labelForScore(85, plain))
	assert.Equal(t, contract.LowValue, labelForScore(5, plain))

	colored := &contract.Config{UseColors: true}
	assert.Contains(t, labelForScore(85, colored), contract.CriticalValue)
}

func TestLabelForRisk(t *testing.T) {
	plain := &contract.Config{UseColors: false}
	assert.Equal(t, "high", labelForRisk(schema.RiskHigh, plain))

	colored := &contract.Config{UseColors: true}
	assert.Contains(t, labelForRisk(schema.RiskMedium, colored), string(schema.RiskMedium))
	assert.Contains(t, labelForRisk(schema.RiskLow, colored), string(schema.RiskLow))
}
