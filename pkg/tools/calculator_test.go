package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"25 * 4", 100},
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"10 / 4", 2.5},
		{"7 % 3", 1},
		{"-7 % 3", 2},
		{"2 ** 3 ** 2", 512},
		{"-2 ** 2", -4},
		{"2 ** -1", 0.5},
		{"--3", 3},
		{"  1.5+  .5 ", 2},
		{"((((42))))", 42},
		{"100 - 10 - 1", 89},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Calculate(tt.expr)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCalculate_Invalid(t *testing.T) {
	tests := []string{
		"",
		"1 +",
		"1 / 0",
		"5 % 0",
		"0 ** -1",
		"(1 + 2",
		"1 + 2)",
		"2 3",
		"__import__('os')",
		"abs(-1)",
		"1..2",
		"10 ** 400",
		"1 // 2",
	}

	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			_, err := Calculate(expr)
			assert.ErrorIs(t, err, ErrInvalidExpression)
		})
	}
}

func TestCalculatorTool(t *testing.T) {
	out, err := CalculatorDefinition.Run(context.Background(), "25 * 4")
	require.NoError(t, err)
	assert.Equal(t, "Calculator result: 100", out)

	out, err = CalculatorDefinition.Run(context.Background(), "1 / 0")
	require.NoError(t, err)
	assert.Equal(t, "Calculator error — invalid expression", out)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "100", FormatNumber(100))
	assert.Equal(t, "2.5", FormatNumber(2.5))
	assert.Equal(t, "-0.125", FormatNumber(-0.125))
}
