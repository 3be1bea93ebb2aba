package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalArithmetic(t *testing.T) {
	cases := map[string]struct {
		source   string
		expected float64
	}{
		"int":        {source: "42", expected: 42},
		"float":      {source: "1.5", expected: 1.5},
		"add":        {source: "1 + 2", expected: 3},
		"precedence": {source: "1 + 2 * 3", expected: 7},
		"group":      {source: "(1 + 2) * 3", expected: 9},
		"left-assoc": {source: "10 - 4 - 3", expected: 3},
		"divide":     {source: "7 / 2", expected: 3.5},
		"modulo":     {source: "7 % 3", expected: 1},
		"negative":   {source: "-2 * -3", expected: 6},
		"compact":    {source: "2*(3+4)", expected: 14},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			actual, err := EvalArithmetic(tc.source)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestEvalArithmetic_errors(t *testing.T) {
	_, err := EvalArithmetic("1 / 0")
	assert.ErrorIs(t, err, ErrDivideByZero)

	_, err = EvalArithmetic("1 % 0")
	assert.ErrorIs(t, err, ErrDivideByZero)

	_, err = EvalArithmetic("1 +")
	assert.Error(t, err)

	_, err = EvalArithmetic("one")
	assert.Error(t, err)
}

func TestExpr(t *testing.T) {
	cases := scriptTestSuite{
		"words":    {Script: "expr 1 + 2 * 3", Result: "7"},
		"single":   {Script: "expr 2*3", Result: "6"},
		"fraction": {Script: "expr 1 / 4", Result: "0.25"},
		"variable": {Script: "x = expr 2; expr $x * $x", Result: "4"},
		"zero":     {Script: "expr 1 / 0", Err: "expr: division by zero"},
		"usage":    {Script: "expr", Err: "usage: expr"},
	}

	cases.Run(t)
}
