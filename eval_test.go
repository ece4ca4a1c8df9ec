package logo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalExpression(t *testing.T) {
	for _, tc := range []struct {
		expr     string
		want     string
		wantCode ErrCode
	}{
		{expr: `1 + 2 * 3`, want: "7"},
		{expr: `(1 + 2) * 3`, want: "9"},
		{expr: `"a`, want: "a"},
		{expr: `[x [y]]`, want: "[x [y]]"},
		{expr: `2 < 3`, want: "true"},
		{expr: `sum 2 3`, want: "5"},
		{expr: `1 = "1`, want: "true"},
		{expr: `1 / 0`, wantCode: ErrDivideByZero},
		{expr: `:nope`, wantCode: ErrNoValue},
		{expr: `print "x`, wantCode: ErrDidntOutput},
	} {
		t.Run(tc.expr, func(t *testing.T) {
			in := New()
			list, res := in.ParseLine(tc.expr)
			require.Equal(t, StatusNone, res.Status)

			res, rest := in.EvalExpression(list)
			if tc.wantCode != ErrNone {
				require.Equal(t, StatusError, res.Status)
				assert.Equal(t, tc.wantCode, res.Code)
				return
			}
			require.Equal(t, StatusOk, res.Status)
			assert.Equal(t, tc.want, in.format(res.Value, true))
			assert.False(t, rest.IsCons(), "the expression consumed the whole line")
		})
	}
}

func TestEvalInstructionLeavesRemainder(t *testing.T) {
	var out strings.Builder
	in := New(WithOutput(&out))

	list, res := in.ParseLine(`print "a print "b`)
	require.Equal(t, StatusNone, res.Status)

	res, rest := in.EvalInstruction(list)
	require.Equal(t, StatusNone, res.Status)
	require.True(t, rest.IsCons(), "the second instruction is still pending")
	assert.Equal(t, "a\n", out.String())

	res, rest = in.EvalInstruction(rest)
	require.Equal(t, StatusNone, res.Status)
	assert.False(t, rest.IsCons())
	assert.Equal(t, "a\nb\n", out.String())
}

func TestExecute(t *testing.T) {
	in := New()

	res, err := in.Execute(`make "x 7`)
	require.NoError(t, err)
	require.Equal(t, StatusNone, res.Status)

	v, ok := in.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, 7.0, v.Number())

	res, err = in.Execute(`print :nope`)
	require.NoError(t, err, "language errors are results, not Go errors")
	require.Equal(t, StatusError, res.Status)
	assert.Equal(t, ErrNoValue, res.Code)
	assert.Equal(t, "nope has no value", res.Message(in))
}

func TestNumberFormatting(t *testing.T) {
	assert.Equal(t, "3", formatNumber(3))
	assert.Equal(t, "-3", formatNumber(-3))
	assert.Equal(t, "2.5", formatNumber(2.5))
	assert.Equal(t, "0", formatNumber(0))
}
