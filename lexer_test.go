package logo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseBack renders a parsed line in canonical token form, which keeps
// quote and colon prefixes visible.
func parseBack(t *testing.T, in *Interp, line string) string {
	list, res := in.ParseLine(line)
	require.Equal(t, StatusNone, res.Status, "parse of %q failed: %v", line, res.Message(in))
	return in.format(ListValue(list), false)
}

func TestParseLine(t *testing.T) {
	in := New()
	for _, tc := range []struct {
		line string
		want string
	}{
		{`print "hello`, `print "hello`},
		{`print :x`, `print :x`},
		{`make "x 5`, `make "x 5`},
		{`[a [b c] d]`, `[a [b c] d]`},
		{`print []`, `print []`},
		{`1 + 2 * 3`, `1 + 2 * 3`},
		{`(sum 1 2 3)`, `( sum 1 2 3 )`},
		{`2<3`, `2 < 3`},
		{`print "a[b]`, `print "a [b]`},
		{`:x-3`, `:x - 3`},
		{`1-2`, `1 - 2`},
		{`  spaced   out  `, `spaced out`},
		{`3.25 .5`, `3.25 .5`},
	} {
		assert.Equal(t, tc.want, parseBack(t, in, tc.line), "line %q", tc.line)
	}
}

func TestParseMinusRule(t *testing.T) {
	in := New()
	for _, tc := range []struct {
		line string
		want string
	}{
		{`print -5`, `print -5`},
		{`print - 5`, `print - 5`},
		{`1 - 2`, `1 - 2`},
		{`1 -2`, `1 -2`},
		{`[-1 -2]`, `[-1 -2]`},
		{`(-1)`, `( -1 )`},
		{`-x`, `- x`},
		{`-.5`, `-.5`},
	} {
		assert.Equal(t, tc.want, parseBack(t, in, tc.line), "line %q", tc.line)
	}
}

func TestParseEmptyLine(t *testing.T) {
	in := New()
	list, res := in.ParseLine("")
	require.Equal(t, StatusNone, res.Status)
	assert.Equal(t, EmptyList, list, "an empty line is a present, empty list")
}

func TestParseNumberFallsBackToWord(t *testing.T) {
	in := New()
	list, res := in.ParseLine("12abc")
	require.Equal(t, StatusNone, res.Status)
	head := in.Head(list.Unmark())
	assert.Equal(t, "12abc", in.Text(head))
}

func TestParseUnbalanced(t *testing.T) {
	in := New()

	_, res := in.ParseLine("]")
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, ErrUnexpectedBracket, res.Code)

	_, res = in.ParseLine("print ]")
	assert.Equal(t, ErrUnexpectedBracket, res.Code)

	_, res = in.ParseLine("[a b")
	assert.Equal(t, StatusError, res.Status, "an unclosed bracket cannot parse")
}

func TestBracketBalance(t *testing.T) {
	assert.Equal(t, 0, bracketBalance("print [a b]"))
	assert.Equal(t, 1, bracketBalance("print [a"))
	assert.Equal(t, 2, bracketBalance("[[ "))
	assert.Equal(t, -1, bracketBalance("b]"))
	assert.Equal(t, 0, bracketBalance(""))
}
